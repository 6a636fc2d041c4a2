package config

import (
	"fmt"

	"github.com/iscedcs/palmtechniq/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection and migrates the schema
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	err = DB.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Category{},
		&models.Course{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.PromoCode{},
		&models.PromoCodeUser{},
		&models.PromoRedemption{},
		&models.PaymentTransaction{},
		&models.PaymentItem{},
		&models.PaymentFulfillment{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.WithdrawalRequest{},
		&models.TutorApplication{},
		&models.MentorshipBooking{},
		&models.BlacklistedToken{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	// Promo codes are matched case-insensitively; back the lookup with a
	// functional unique index AutoMigrate cannot express.
	err = DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_promo_codes_code_lower
		ON promo_codes (LOWER(code))
		WHERE deleted_at IS NULL
	`).Error
	if err != nil {
		panic(fmt.Sprintf("Failed to create promo code index: %v", err))
	}
}
