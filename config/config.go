package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	// PaystackSecretKey signs webhook bodies and authorizes gateway calls
	PaystackSecretKey string
	// VATRate is applied to the post-discount subtotal at checkout
	VATRate float64
	// TutorShare is the tutor's fraction of each final line price
	TutorShare float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:            os.Getenv("DB_HOST"),
		DBPort:            os.Getenv("DB_PORT"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		Port:              os.Getenv("PORT"),
		Env:               os.Getenv("ENV"),
		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		VATRate:           envFloat("VAT_RATE", 0.075),
		TutorShare:        envFloat("TUTOR_SHARE", 0.70),
	}

	return config, nil
}

// VATRate returns the configured VAT rate without requiring a Config instance
func VATRate() float64 {
	return envFloat("VAT_RATE", 0.075)
}

// TutorShare returns the configured tutor revenue share
func TutorShare() float64 {
	return envFloat("TUTOR_SHARE", 0.70)
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
