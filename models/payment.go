package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// PaymentTransaction is the checkout record keyed by the gateway reference.
// One reference maps to at most one successful fulfillment.
type PaymentTransaction struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Reference   string     `gorm:"uniqueIndex" json:"reference"`
	UserID      uint       `json:"user_id"`
	User        User       `json:"-" gorm:"foreignKey:UserID"`
	Subtotal    float64    `json:"subtotal"`
	Discount    float64    `json:"discount"`
	VAT         float64    `json:"vat"`
	Total       float64    `json:"total"`
	PromoCodeID *uint      `json:"promo_code_id"`
	PromoCode   *PromoCode `json:"-" gorm:"foreignKey:PromoCodeID"`
	Status      string     `json:"status" gorm:"default:'pending'"`
	// AccessURL is the gateway authorization URL handed to the client at initiation.
	AccessURL string `json:"access_url"`

	Items []PaymentItem `json:"items" gorm:"foreignKey:PaymentTransactionID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PaymentItem snapshots one course line at checkout time so fulfillment does
// not depend on later price edits.
type PaymentItem struct {
	ID                   uint    `gorm:"primaryKey" json:"id"`
	PaymentTransactionID uint    `json:"payment_transaction_id"`
	CourseID             uint    `json:"course_id"`
	TutorID              uint    `json:"tutor_id"`
	BasePrice            float64 `json:"base_price"`
	SalePrice            float64 `json:"sale_price"`
	FinalPrice           float64 `json:"final_price"`
}

// PaymentFulfillment marks a reference as fulfilled. The unique index on
// Reference is the synchronization primitive for the webhook/client finalize
// race: the first writer wins, the second detects the conflict.
type PaymentFulfillment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"uniqueIndex" json:"reference"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
