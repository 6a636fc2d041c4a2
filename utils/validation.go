package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	usernameRegex  = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	promoCodeRegex = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)
	slugRegex      = regexp.MustCompile(`[^a-z0-9]+`)
)

// SanitizeString removes potentially dangerous characters and HTML tags
func SanitizeString(input string) string {
	sanitized := html.EscapeString(input)

	htmlTagRegex := regexp.MustCompile(`<[^>]*>`)
	sanitized = htmlTagRegex.ReplaceAllString(sanitized, "")

	return strings.TrimSpace(sanitized)
}

// ValidateUsername checks username format
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-20 characters of letters, numbers or underscores")
	}
	return nil
}

// ValidateEmail checks email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password policy
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// ValidatePromoCodeFormat checks a normalized promo code's shape before lookup
func ValidatePromoCodeFormat(code string) error {
	if !promoCodeRegex.MatchString(code) {
		return fmt.Errorf("promo code must be 3-32 characters of letters, numbers, hyphen or underscore")
	}
	return nil
}

// ValidatePromoValue enforces sane discount values at creation time
func ValidatePromoValue(discountType string, value float64) error {
	if value <= 0 {
		return fmt.Errorf("discount value must be positive")
	}
	if discountType == "PERCENTAGE" && value > 100 {
		return fmt.Errorf("percentage discount cannot exceed 100")
	}
	return nil
}

// Slugify builds a URL slug from a course title
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
