package models

import (
	"time"

	"gorm.io/gorm"
)

// BlacklistedToken is a JWT revoked at logout. Rows older than ExpiresAt are
// safe to purge since the token would no longer verify anyway.
type BlacklistedToken struct {
	gorm.Model
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}
