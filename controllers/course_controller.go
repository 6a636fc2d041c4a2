package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
	"gorm.io/gorm"
)

// ListCourses lists published courses with search, category filter and
// pagination
// GET /courses
func ListCourses(c *gin.Context) {
	utils.LogInfo("ListCourses called")

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Course{}).
		Joins("JOIN categories ON categories.id = courses.category_id").
		Where("courses.is_published = ? AND categories.blocked = ?", true, false)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(courses.title) LIKE ? OR LOWER(courses.description) LIKE ?", like, like)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("courses.category_id = ?", categoryID)
	}

	switch c.DefaultQuery("sort", "newest") {
	case "price_asc":
		query = query.Order("COALESCE(NULLIF(courses.sale_price, 0), courses.base_price) ASC")
	case "price_desc":
		query = query.Order("COALESCE(NULLIF(courses.sale_price, 0), courses.base_price) DESC")
	case "rating":
		query = query.Order("courses.average_rating DESC")
	default:
		query = query.Order("courses.created_at DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count courses: %v", err)
		utils.InternalServerError(c, "Failed to list courses", nil)
		return
	}
	pagination.SetTotal(total)

	var courses []models.Course
	if err := query.Preload("Tutor").Preload("Category").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&courses).Error; err != nil {
		utils.LogError("Failed to fetch courses: %v", err)
		utils.InternalServerError(c, "Failed to list courses", nil)
		return
	}

	items := make([]gin.H, 0, len(courses))
	for i := range courses {
		items = append(items, courseSummary(&courses[i]))
	}

	utils.SendPaginatedResponse(c, items, pagination)
}

// GetCourseDetails returns one published course by slug, with its lessons.
// Video URLs are withheld for non-preview lessons; enrollment gates those.
// GET /courses/:slug
func GetCourseDetails(c *gin.Context) {
	utils.LogInfo("GetCourseDetails called")

	var course models.Course
	if err := config.DB.Preload("Tutor").Preload("Category").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("slug = ? AND is_published = ?", c.Param("slug"), true).
		First(&course).Error; err != nil {
		utils.LogError("Course not found: %s", c.Param("slug"))
		utils.NotFound(c, "Course not found")
		return
	}

	config.DB.Model(&course).Update("views", gorm.Expr("views + 1"))

	lessons := make([]gin.H, 0, len(course.Lessons))
	for _, lesson := range course.Lessons {
		entry := gin.H{
			"id":              lesson.ID,
			"title":           lesson.Title,
			"duration_secs":   lesson.DurationSecs,
			"position":        lesson.Position,
			"is_free_preview": lesson.IsFreePreview,
		}
		if lesson.IsFreePreview {
			entry["video_url"] = lesson.VideoURL
		}
		lessons = append(lessons, entry)
	}

	details := courseSummary(&course)
	details["description"] = course.Description
	details["lessons"] = lessons

	utils.Success(c, "Course details retrieved successfully", gin.H{"course": details})
}

// ListCategories lists unblocked categories
// GET /categories
func ListCategories(c *gin.Context) {
	utils.LogInfo("ListCategories called")

	var categories []models.Category
	if err := config.DB.Where("blocked = ?", false).Order("name ASC").Find(&categories).Error; err != nil {
		utils.LogError("Failed to fetch categories: %v", err)
		utils.InternalServerError(c, "Failed to list categories", nil)
		return
	}

	items := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		items = append(items, gin.H{
			"id":          category.ID,
			"name":        category.Name,
			"description": category.Description,
		})
	}

	utils.Success(c, "Categories retrieved successfully", gin.H{"categories": items})
}

func courseSummary(course *models.Course) gin.H {
	return gin.H{
		"id":             course.ID,
		"title":          course.Title,
		"slug":           course.Slug,
		"base_price":     course.BasePrice,
		"sale_price":     course.SalePrice,
		"price":          course.EffectivePrice(),
		"thumbnail_url":  course.ThumbnailURL,
		"average_rating": course.AverageRating,
		"category":       course.Category.Name,
		"tutor": gin.H{
			"id":   course.TutorID,
			"name": strings.TrimSpace(course.Tutor.FirstName + " " + course.Tutor.LastName),
		},
	}
}
