package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment grants a user access to a course. Rows are only ever created by
// the payment fulfillment path (or a zero-total checkout), one per user/course.
type Enrollment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `json:"user_id" gorm:"uniqueIndex:idx_enrollments_user_course"`
	CourseID    uint           `json:"course_id" gorm:"uniqueIndex:idx_enrollments_user_course"`
	Course      Course         `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Reference   string         `json:"reference"`
	PricePaid   float64        `json:"price_paid"`
	Progress    float64        `json:"progress" gorm:"default:0"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
