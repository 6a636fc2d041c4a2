package controllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// BookMentorshipRequest represents a 1:1 session booking
type BookMentorshipRequest struct {
	TutorID     uint      `json:"tutor_id" binding:"required"`
	Topic       string    `json:"topic" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
}

// BookMentorship creates a session request with a tutor
// POST /user/mentorships
func BookMentorship(c *gin.Context) {
	utils.LogInfo("BookMentorship called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	student := userVal.(models.User)

	var req BookMentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid mentorship booking: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if req.ScheduledAt.Before(time.Now()) {
		utils.BadRequest(c, "scheduled_at must be in the future", nil)
		return
	}
	if req.TutorID == student.ID {
		utils.BadRequest(c, "You cannot book a session with yourself", nil)
		return
	}

	var tutor models.User
	if err := config.DB.Where("id = ? AND is_tutor = ? AND is_blocked = ?", req.TutorID, true, false).
		First(&tutor).Error; err != nil {
		utils.LogError("Tutor not found for booking: %d", req.TutorID)
		utils.NotFound(c, "Tutor not found")
		return
	}

	booking := models.MentorshipBooking{
		StudentID:   student.ID,
		TutorID:     tutor.ID,
		Topic:       utils.SanitizeString(req.Topic),
		ScheduledAt: req.ScheduledAt,
		Amount:      utils.RoundMoney(req.Amount),
		Status:      models.BookingStatusRequested,
	}
	if err := config.DB.Create(&booking).Error; err != nil {
		utils.LogError("Failed to create mentorship booking: %v", err)
		utils.InternalServerError(c, "Failed to create booking", nil)
		return
	}

	utils.LogInfo("Student %d booked session %d with tutor %d", student.ID, booking.ID, tutor.ID)
	utils.Created(c, "Session requested", gin.H{
		"id":           booking.ID,
		"tutor_id":     booking.TutorID,
		"topic":        booking.Topic,
		"scheduled_at": booking.ScheduledAt,
		"amount":       booking.Amount,
		"status":       booking.Status,
	})
}

// ListMyMentorships lists sessions for the caller, as student or tutor
// GET /user/mentorships
func ListMyMentorships(c *gin.Context) {
	utils.LogInfo("ListMyMentorships called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.MentorshipBooking{}).
		Where("student_id = ? OR tutor_id = ?", user.ID, user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count mentorship bookings: %v", err)
		utils.InternalServerError(c, "Failed to list sessions", nil)
		return
	}
	pagination.SetTotal(total)

	var bookings []models.MentorshipBooking
	if err := query.Order("scheduled_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&bookings).Error; err != nil {
		utils.LogError("Failed to fetch mentorship bookings: %v", err)
		utils.InternalServerError(c, "Failed to list sessions", nil)
		return
	}

	items := make([]gin.H, 0, len(bookings))
	for _, booking := range bookings {
		role := "student"
		if booking.TutorID == user.ID {
			role = "tutor"
		}
		items = append(items, gin.H{
			"id":           booking.ID,
			"topic":        booking.Topic,
			"scheduled_at": booking.ScheduledAt,
			"amount":       booking.Amount,
			"status":       booking.Status,
			"meeting_url":  booking.MeetingURL,
			"role":         role,
		})
	}

	utils.SendPaginatedResponse(c, items, pagination)
}

// ConfirmMentorshipRequest carries the meeting link set at confirmation
type ConfirmMentorshipRequest struct {
	MeetingURL string `json:"meeting_url" binding:"required,url"`
}

// ConfirmMentorship lets the tutor accept a requested session
// POST /tutor/mentorships/:id/confirm
func ConfirmMentorship(c *gin.Context) {
	utils.LogInfo("ConfirmMentorship called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	tutor := userVal.(models.User)

	var req ConfirmMentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	result := config.DB.Model(&models.MentorshipBooking{}).
		Where("id = ? AND tutor_id = ? AND status = ?", c.Param("id"), tutor.ID, models.BookingStatusRequested).
		Updates(map[string]interface{}{
			"status":      models.BookingStatusConfirmed,
			"meeting_url": req.MeetingURL,
		})
	if result.Error != nil {
		utils.LogError("Failed to confirm session %s: %v", c.Param("id"), result.Error)
		utils.InternalServerError(c, "Failed to confirm session", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Session not found or not awaiting confirmation")
		return
	}

	utils.LogInfo("Tutor %d confirmed session %s", tutor.ID, c.Param("id"))
	utils.Success(c, "Session confirmed", gin.H{"id": c.Param("id"), "status": models.BookingStatusConfirmed})
}

// CompleteMentorship marks a confirmed session done and credits the tutor.
// The status flip is conditional so a double call cannot credit twice.
// POST /tutor/mentorships/:id/complete
func CompleteMentorship(c *gin.Context) {
	utils.LogInfo("CompleteMentorship called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	tutor := userVal.(models.User)

	var booking models.MentorshipBooking
	if err := config.DB.Where("id = ? AND tutor_id = ?", c.Param("id"), tutor.ID).
		First(&booking).Error; err != nil {
		utils.NotFound(c, "Session not found")
		return
	}

	wallet, err := utils.GetOrCreateWallet(tutor.ID)
	if err != nil {
		utils.LogError("Failed to load wallet for tutor %d: %v", tutor.ID, err)
		utils.InternalServerError(c, "Failed to load wallet", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	result := tx.Model(&models.MentorshipBooking{}).
		Where("id = ? AND status = ?", booking.ID, models.BookingStatusConfirmed).
		Update("status", models.BookingStatusCompleted)
	if result.Error != nil {
		tx.Rollback()
		utils.LogError("Failed to complete session %d: %v", booking.ID, result.Error)
		utils.InternalServerError(c, "Failed to complete session", nil)
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.Conflict(c, "Session is not in a confirmed state", nil)
		return
	}

	earnings := utils.RoundMoney(booking.Amount * config.TutorShare())
	reference := fmt.Sprintf("MS-%d", booking.ID)
	if err := utils.CreditWallet(tx, wallet.ID, earnings, "Mentorship session earnings", reference, nil); err != nil {
		tx.Rollback()
		utils.LogError("Failed to credit wallet for session %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to credit wallet", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit session completion: %v", err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.LogInfo("Session %d completed, tutor %d credited %.2f", booking.ID, tutor.ID, earnings)
	utils.Success(c, "Session completed", gin.H{
		"id":       booking.ID,
		"status":   models.BookingStatusCompleted,
		"earnings": earnings,
	})
}

// CancelMentorship lets the student cancel before the session is completed
// POST /user/mentorships/:id/cancel
func CancelMentorship(c *gin.Context) {
	utils.LogInfo("CancelMentorship called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	result := config.DB.Model(&models.MentorshipBooking{}).
		Where("id = ? AND student_id = ? AND status IN ?", c.Param("id"), user.ID,
			[]string{models.BookingStatusRequested, models.BookingStatusConfirmed}).
		Update("status", models.BookingStatusCancelled)
	if result.Error != nil {
		utils.LogError("Failed to cancel session %s: %v", c.Param("id"), result.Error)
		utils.InternalServerError(c, "Failed to cancel session", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Session not found or cannot be cancelled")
		return
	}

	utils.LogInfo("Student %d cancelled session %s", user.ID, c.Param("id"))
	utils.Success(c, "Session cancelled", gin.H{"id": c.Param("id"), "status": models.BookingStatusCancelled})
}
