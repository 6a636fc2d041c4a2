package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a student or tutor account
type User struct {
	gorm.Model
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	ProfileImage string    `json:"profile_image"`
	IsBlocked    bool      `json:"is_blocked"`
	IsVerified   bool      `json:"is_verified" gorm:"default:false"`
	IsTutor      bool      `json:"is_tutor" gorm:"default:false"`
	Headline     string    `json:"headline"`
	Bio          string    `json:"bio"`
	LastLoginAt  time.Time `json:"last_login_at"`
	GoogleID     string    `gorm:"unique;default:null" json:"google_id"`
	Wallet       Wallet    `json:"wallet,omitempty" gorm:"foreignKey:UserID"`

	Courses []Course `json:"courses,omitempty" gorm:"foreignKey:TutorID"`
}

// Admin represents a platform administrator
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}
