package utils

// Application constants
const (
	// Application name
	AppName = "PalmTechnIQ"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// DefaultVATRate applies when VAT_RATE is unset (7.5%)
	DefaultVATRate = 0.075

	// DefaultTutorShare is the tutor's cut of each final line price when
	// TUTOR_SHARE is unset.
	DefaultTutorShare = 0.70

	// FreeReferencePrefix marks locally-issued references for zero-total
	// checkouts that never touch the gateway.
	FreeReferencePrefix = "FREE-"
)
