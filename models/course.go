package models

import (
	"gorm.io/gorm"
)

// Category groups courses by subject area
type Category struct {
	gorm.Model
	Name        string   `json:"name" gorm:"uniqueIndex"`
	Description string   `json:"description"`
	Courses     []Course `json:"courses,omitempty"`
	Blocked     bool     `json:"blocked" gorm:"default:false"`
}

// Course represents a published course in the catalog
type Course struct {
	gorm.Model
	Title       string   `json:"title"`
	Slug        string   `json:"slug" gorm:"uniqueIndex"`
	Description string   `json:"description"`
	TutorID     uint     `json:"tutor_id"`
	Tutor       User     `json:"tutor,omitempty" gorm:"foreignKey:TutorID"`
	CategoryID  uint     `json:"category_id"`
	Category    Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	// BasePrice is the list price; SalePrice, when > 0, is the price charged at checkout.
	BasePrice     float64  `json:"base_price"`
	SalePrice     float64  `json:"sale_price"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	IsPublished   bool     `json:"is_published" gorm:"default:false"`
	Views         int      `json:"views" gorm:"default:0"`
	Lessons       []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
	AverageRating float64  `json:"average_rating" gorm:"default:0"`
}

// EffectivePrice returns the price a buyer pays before any promo discount.
func (c *Course) EffectivePrice() float64 {
	if c.SalePrice > 0 && c.SalePrice < c.BasePrice {
		return c.SalePrice
	}
	return c.BasePrice
}

// Lesson is a single video lesson inside a course
type Lesson struct {
	gorm.Model
	CourseID      uint   `json:"course_id"`
	Title         string `json:"title"`
	VideoURL      string `json:"video_url"`
	DurationSecs  int    `json:"duration_secs"`
	Position      int    `json:"position"`
	IsFreePreview bool   `json:"is_free_preview" gorm:"default:false"`
}
