package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
	"gorm.io/gorm"
)

// ListMyEnrollments lists the calling user's enrollments with progress
// GET /user/enrollments
func ListMyEnrollments(c *gin.Context) {
	utils.LogInfo("ListMyEnrollments called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Enrollment{}).Where("user_id = ?", user.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count enrollments for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to list enrollments", nil)
		return
	}
	pagination.SetTotal(total)

	var enrollments []models.Enrollment
	if err := query.Preload("Course").Preload("Course.Tutor").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&enrollments).Error; err != nil {
		utils.LogError("Failed to fetch enrollments for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to list enrollments", nil)
		return
	}

	items := make([]gin.H, 0, len(enrollments))
	for _, enrollment := range enrollments {
		items = append(items, gin.H{
			"id":           enrollment.ID,
			"course_id":    enrollment.CourseID,
			"course_title": enrollment.Course.Title,
			"course_slug":  enrollment.Course.Slug,
			"price_paid":   enrollment.PricePaid,
			"progress":     enrollment.Progress,
			"completed_at": enrollment.CompletedAt,
			"enrolled_at":  enrollment.CreatedAt,
		})
	}

	utils.SendPaginatedResponse(c, items, pagination)
}

// GetCourseContent returns the full lesson list, video URLs included, for a
// course the user is enrolled in
// GET /user/enrollments/:courseId/content
func GetCourseContent(c *gin.Context) {
	utils.LogInfo("GetCourseContent called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var enrollment models.Enrollment
	if err := config.DB.Where("user_id = ? AND course_id = ?", user.ID, c.Param("courseId")).
		First(&enrollment).Error; err != nil {
		utils.LogError("User %d requested content for course %s without enrollment", user.ID, c.Param("courseId"))
		utils.Forbidden(c, "You are not enrolled in this course")
		return
	}

	var course models.Course
	if err := config.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&course, enrollment.CourseID).Error; err != nil {
		utils.LogError("Enrolled course %d missing: %v", enrollment.CourseID, err)
		utils.NotFound(c, "Course not found")
		return
	}

	lessons := make([]gin.H, 0, len(course.Lessons))
	for _, lesson := range course.Lessons {
		lessons = append(lessons, gin.H{
			"id":            lesson.ID,
			"title":         lesson.Title,
			"video_url":     lesson.VideoURL,
			"duration_secs": lesson.DurationSecs,
			"position":      lesson.Position,
		})
	}

	utils.Success(c, "Course content retrieved successfully", gin.H{
		"course": gin.H{
			"id":    course.ID,
			"title": course.Title,
			"slug":  course.Slug,
		},
		"progress": enrollment.Progress,
		"lessons":  lessons,
	})
}

// UpdateProgressRequest carries a progress update for an enrollment
type UpdateProgressRequest struct {
	Progress float64 `json:"progress" binding:"gte=0,lte=100"`
}

// UpdateEnrollmentProgress records how far through the course the user is.
// Progress only ever moves forward; hitting 100 stamps CompletedAt once.
// PATCH /user/enrollments/:courseId/progress
func UpdateEnrollmentProgress(c *gin.Context) {
	utils.LogInfo("UpdateEnrollmentProgress called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var enrollment models.Enrollment
	if err := config.DB.Where("user_id = ? AND course_id = ?", user.ID, c.Param("courseId")).
		First(&enrollment).Error; err != nil {
		utils.NotFound(c, "Enrollment not found")
		return
	}

	if req.Progress < enrollment.Progress {
		utils.Success(c, "Progress unchanged", gin.H{"progress": enrollment.Progress})
		return
	}

	updates := map[string]interface{}{"progress": req.Progress}
	if req.Progress >= 100 && enrollment.CompletedAt == nil {
		updates["completed_at"] = gorm.Expr("NOW()")
	}
	if err := config.DB.Model(&enrollment).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update progress for enrollment %d: %v", enrollment.ID, err)
		utils.InternalServerError(c, "Failed to update progress", nil)
		return
	}

	utils.LogInfo("User %d progress on course %s: %.1f%%", user.ID, c.Param("courseId"), req.Progress)
	utils.Success(c, "Progress updated", gin.H{"progress": req.Progress})
}
