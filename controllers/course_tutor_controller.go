package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// CourseRequest represents the create/update body for a tutor course
type CourseRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description" binding:"required"`
	CategoryID   uint    `json:"category_id" binding:"required"`
	BasePrice    float64 `json:"base_price" binding:"required,gte=0"`
	SalePrice    float64 `json:"sale_price" binding:"gte=0"`
	ThumbnailURL string  `json:"thumbnail_url"`
}

// CreateCourse creates a draft course owned by the calling tutor
// POST /tutor/courses
func CreateCourse(c *gin.Context) {
	utils.LogInfo("CreateCourse called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	tutor := userVal.(models.User)

	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid course request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if req.SalePrice > 0 && req.SalePrice >= req.BasePrice {
		utils.BadRequest(c, "sale_price must be below base_price", nil)
		return
	}

	var category models.Category
	if err := config.DB.Where("id = ? AND blocked = ?", req.CategoryID, false).First(&category).Error; err != nil {
		utils.LogError("Category not found or blocked: %d", req.CategoryID)
		utils.NotFound(c, "Category not found")
		return
	}

	slug := utils.Slugify(req.Title)
	var clash int64
	config.DB.Model(&models.Course{}).Where("slug = ?", slug).Count(&clash)
	if clash > 0 {
		slug = fmt.Sprintf("%s-%d", slug, clash+1)
	}

	course := models.Course{
		Title:        utils.SanitizeString(req.Title),
		Slug:         slug,
		Description:  req.Description,
		TutorID:      tutor.ID,
		CategoryID:   req.CategoryID,
		BasePrice:    utils.RoundMoney(req.BasePrice),
		SalePrice:    utils.RoundMoney(req.SalePrice),
		ThumbnailURL: req.ThumbnailURL,
	}
	if err := config.DB.Create(&course).Error; err != nil {
		utils.LogError("Failed to create course for tutor %d: %v", tutor.ID, err)
		utils.InternalServerError(c, "Failed to create course", nil)
		return
	}

	utils.LogInfo("Tutor %d created course %d (%s)", tutor.ID, course.ID, course.Slug)
	utils.Created(c, "Course created successfully", gin.H{
		"id":           course.ID,
		"title":        course.Title,
		"slug":         course.Slug,
		"base_price":   course.BasePrice,
		"sale_price":   course.SalePrice,
		"is_published": course.IsPublished,
	})
}

// UpdateCourse updates a tutor's own course
// PUT /tutor/courses/:id
func UpdateCourse(c *gin.Context) {
	utils.LogInfo("UpdateCourse called")

	course, ok := tutorOwnedCourse(c)
	if !ok {
		return
	}

	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid course update request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.SalePrice > 0 && req.SalePrice >= req.BasePrice {
		utils.BadRequest(c, "sale_price must be below base_price", nil)
		return
	}

	updates := map[string]interface{}{
		"title":         utils.SanitizeString(req.Title),
		"description":   req.Description,
		"category_id":   req.CategoryID,
		"base_price":    utils.RoundMoney(req.BasePrice),
		"sale_price":    utils.RoundMoney(req.SalePrice),
		"thumbnail_url": req.ThumbnailURL,
	}
	if err := config.DB.Model(course).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update course %d: %v", course.ID, err)
		utils.InternalServerError(c, "Failed to update course", nil)
		return
	}

	utils.LogInfo("Updated course %d", course.ID)
	utils.Success(c, "Course updated successfully", gin.H{"id": course.ID})
}

// PublishCourse flips a course live. A course needs at least one lesson
// before it can be published.
// PATCH /tutor/courses/:id/publish
func PublishCourse(c *gin.Context) {
	utils.LogInfo("PublishCourse called")

	course, ok := tutorOwnedCourse(c)
	if !ok {
		return
	}

	var lessonCount int64
	config.DB.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&lessonCount)
	if lessonCount == 0 {
		utils.BadRequest(c, "Course needs at least one lesson before publishing", nil)
		return
	}

	if err := config.DB.Model(course).Update("is_published", true).Error; err != nil {
		utils.LogError("Failed to publish course %d: %v", course.ID, err)
		utils.InternalServerError(c, "Failed to publish course", nil)
		return
	}

	utils.LogInfo("Published course %d", course.ID)
	utils.Success(c, "Course published successfully", gin.H{"id": course.ID, "slug": course.Slug})
}

// ListTutorCourses lists the calling tutor's courses, drafts included
// GET /tutor/courses
func ListTutorCourses(c *gin.Context) {
	utils.LogInfo("ListTutorCourses called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	tutor := userVal.(models.User)

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Course{}).Where("tutor_id = ?", tutor.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count tutor courses: %v", err)
		utils.InternalServerError(c, "Failed to list courses", nil)
		return
	}
	pagination.SetTotal(total)

	var courses []models.Course
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&courses).Error; err != nil {
		utils.LogError("Failed to fetch tutor courses: %v", err)
		utils.InternalServerError(c, "Failed to list courses", nil)
		return
	}

	items := make([]gin.H, 0, len(courses))
	for _, course := range courses {
		var enrolled int64
		config.DB.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrolled)
		items = append(items, gin.H{
			"id":           course.ID,
			"title":        course.Title,
			"slug":         course.Slug,
			"base_price":   course.BasePrice,
			"sale_price":   course.SalePrice,
			"is_published": course.IsPublished,
			"views":        course.Views,
			"enrollments":  enrolled,
		})
	}

	utils.SendPaginatedResponse(c, items, pagination)
}

// LessonRequest represents the create/update body for a lesson
type LessonRequest struct {
	Title         string `json:"title" binding:"required"`
	VideoURL      string `json:"video_url" binding:"required"`
	DurationSecs  int    `json:"duration_secs" binding:"gte=0"`
	Position      int    `json:"position" binding:"gte=0"`
	IsFreePreview bool   `json:"is_free_preview"`
}

// AddLesson appends a lesson to a tutor's own course
// POST /tutor/courses/:id/lessons
func AddLesson(c *gin.Context) {
	utils.LogInfo("AddLesson called")

	course, ok := tutorOwnedCourse(c)
	if !ok {
		return
	}

	var req LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid lesson request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	lesson := models.Lesson{
		CourseID:      course.ID,
		Title:         utils.SanitizeString(req.Title),
		VideoURL:      req.VideoURL,
		DurationSecs:  req.DurationSecs,
		Position:      req.Position,
		IsFreePreview: req.IsFreePreview,
	}
	if err := config.DB.Create(&lesson).Error; err != nil {
		utils.LogError("Failed to add lesson to course %d: %v", course.ID, err)
		utils.InternalServerError(c, "Failed to add lesson", nil)
		return
	}

	utils.LogInfo("Added lesson %d to course %d", lesson.ID, course.ID)
	utils.Created(c, "Lesson added successfully", gin.H{
		"id":       lesson.ID,
		"title":    lesson.Title,
		"position": lesson.Position,
	})
}

// DeleteLesson removes a lesson from a tutor's own course
// DELETE /tutor/courses/:id/lessons/:lessonId
func DeleteLesson(c *gin.Context) {
	utils.LogInfo("DeleteLesson called")

	course, ok := tutorOwnedCourse(c)
	if !ok {
		return
	}

	result := config.DB.Where("id = ? AND course_id = ?", c.Param("lessonId"), course.ID).
		Delete(&models.Lesson{})
	if result.Error != nil {
		utils.LogError("Failed to delete lesson %s: %v", c.Param("lessonId"), result.Error)
		utils.InternalServerError(c, "Failed to delete lesson", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Lesson not found")
		return
	}

	utils.LogInfo("Deleted lesson %s from course %d", c.Param("lessonId"), course.ID)
	utils.Success(c, "Lesson deleted successfully", nil)
}

// tutorOwnedCourse loads the :id course and enforces ownership. On failure it
// writes the response and returns ok=false.
func tutorOwnedCourse(c *gin.Context) (*models.Course, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return nil, false
	}
	tutor := userVal.(models.User)

	var course models.Course
	if err := config.DB.First(&course, c.Param("id")).Error; err != nil {
		utils.LogError("Course not found: %s", c.Param("id"))
		utils.NotFound(c, "Course not found")
		return nil, false
	}
	if course.TutorID != tutor.ID {
		utils.LogError("Tutor %d attempted to modify course %d they do not own", tutor.ID, course.ID)
		utils.Forbidden(c, "You can only manage your own courses")
		return nil, false
	}
	return &course, true
}
