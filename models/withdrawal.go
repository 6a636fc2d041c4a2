package models

import (
	"time"

	"gorm.io/gorm"
)

// Withdrawal status constants
const (
	WithdrawalStatusPending  = "PENDING"
	WithdrawalStatusApproved = "APPROVED"
	WithdrawalStatusRejected = "REJECTED"
)

// WithdrawalRequest is a tutor payout request. Approval is the only path that
// debits the wallet, performed atomically with the status transition.
type WithdrawalRequest struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	TutorID    uint       `json:"tutor_id"`
	Tutor      User       `json:"-" gorm:"foreignKey:TutorID"`
	Amount     float64    `json:"amount"`
	Status     string     `json:"status" gorm:"default:'PENDING'"`
	AdminNote  string     `json:"admin_note"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	ReviewedBy *uint      `json:"reviewed_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
