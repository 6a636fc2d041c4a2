package models

import (
	"time"

	"gorm.io/gorm"
)

// Promo type constants
const (
	PromoTypePlatform   = "PLATFORM"
	PromoTypeInstructor = "INSTRUCTOR"
)

// Promo discount constants
const (
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFixed      = "FIXED"
)

// PromoCode is a redeemable discount code. Codes are stored uppercase and
// matched case-insensitively.
type PromoCode struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Code         string  `gorm:"uniqueIndex:idx_promo_codes_code" json:"code"`
	Type         string  `json:"type"`          // PLATFORM or INSTRUCTOR
	DiscountType string  `json:"discount_type"` // PERCENTAGE or FIXED
	Value        float64 `json:"value"`
	// Nil bounds mean the window is open on that side.
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	// CourseID scopes the promo to a single course when set.
	CourseID *uint `json:"course_id"`
	// CreatedBy is the tutor for INSTRUCTOR promos, zero for platform codes.
	CreatedBy      uint `json:"created_by"`
	MaxRedemptions *int `json:"max_redemptions"`
	PerUserLimit   *int `json:"per_user_limit"`
	Active         bool `json:"active" gorm:"default:true"`

	AllowedUsers []PromoCodeUser `json:"-" gorm:"foreignKey:PromoCodeID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PromoCodeUser is one entry of a promo's allow-list. An empty list means the
// code is open to all users.
type PromoCodeUser struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	PromoCodeID uint `json:"promo_code_id" gorm:"uniqueIndex:idx_promo_code_users"`
	UserID      uint `json:"user_id" gorm:"uniqueIndex:idx_promo_code_users"`
}

// PromoRedemption records one successful finalized payment that used a promo.
// Rows are append-only and never deleted; caps are enforced by counting them.
type PromoRedemption struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PromoCodeID uint      `json:"promo_code_id"`
	UserID      uint      `json:"user_id"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"created_at"`
}
