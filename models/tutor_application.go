package models

import (
	"time"

	"gorm.io/gorm"
)

// Tutor application status constants
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// TutorApplication is a user's request to teach on the platform. Approval
// flips the user's tutor flag and provisions an earnings wallet.
type TutorApplication struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `json:"user_id" gorm:"uniqueIndex"`
	User       User       `json:"-" gorm:"foreignKey:UserID"`
	Expertise  string     `json:"expertise"`
	Bio        string     `json:"bio"`
	PortfolioURL string   `json:"portfolio_url"`
	Status     string     `json:"status" gorm:"default:'pending'"`
	AdminNote  string     `json:"admin_note"`
	ReviewedAt *time.Time `json:"reviewed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
