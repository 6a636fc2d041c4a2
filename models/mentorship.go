package models

import (
	"time"

	"gorm.io/gorm"
)

// Mentorship booking status constants
const (
	BookingStatusRequested = "requested"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// MentorshipBooking is a 1:1 session request from a student to a tutor.
// The tutor's earnings are credited when the session is marked completed.
type MentorshipBooking struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `json:"student_id"`
	Student     User      `json:"-" gorm:"foreignKey:StudentID"`
	TutorID     uint      `json:"tutor_id"`
	Tutor       User      `json:"-" gorm:"foreignKey:TutorID"`
	Topic       string    `json:"topic"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status" gorm:"default:'requested'"`
	MeetingURL  string    `json:"meeting_url"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
