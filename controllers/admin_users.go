package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// GetUsers handles user listing with search, pagination, and sorting
// GET /admin/users
func GetUsers(c *gin.Context) {
	utils.LogInfo("GetUsers called")

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where(
			"email ILIKE ? OR username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm,
		)
	}
	if c.Query("tutors") == "true" {
		query = query.Where("is_tutor = ?", true)
	}

	order := c.DefaultQuery("order", "desc")
	if order != "asc" {
		order = "desc"
	}
	switch c.DefaultQuery("sort_by", "created_at") {
	case "email":
		query = query.Order(fmt.Sprintf("email %s", order))
	case "name":
		query = query.Order(fmt.Sprintf("first_name %s, last_name %s", order, order))
	default:
		query = query.Order(fmt.Sprintf("created_at %s", order))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count users: %v", err)
		utils.InternalServerError(c, "Failed to list users", nil)
		return
	}
	pagination.SetTotal(total)

	var users []models.User
	if err := query.Offset(pagination.Offset).Limit(pagination.Limit).Find(&users).Error; err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.InternalServerError(c, "Failed to list users", nil)
		return
	}

	items := make([]gin.H, 0, len(users))
	for _, user := range users {
		items = append(items, gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"email":         user.Email,
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"is_tutor":      user.IsTutor,
			"is_blocked":    user.IsBlocked,
			"last_login_at": user.LastLoginAt,
			"created_at":    user.CreatedAt,
		})
	}

	utils.SendPaginatedResponse(c, items, pagination)
}

// BlockUser blocks a user account. Blocked users cannot log in or pass auth.
// POST /admin/users/:id/block
func BlockUser(c *gin.Context) {
	utils.LogInfo("BlockUser called")
	setUserBlocked(c, true)
}

// UnblockUser lifts a block
// POST /admin/users/:id/unblock
func UnblockUser(c *gin.Context) {
	utils.LogInfo("UnblockUser called")
	setUserBlocked(c, false)
}

func setUserBlocked(c *gin.Context, blocked bool) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		utils.LogError("User not found: %s", c.Param("id"))
		utils.NotFound(c, "User not found")
		return
	}

	if user.IsBlocked == blocked {
		utils.Success(c, "User state unchanged", gin.H{"id": user.ID, "is_blocked": user.IsBlocked})
		return
	}

	if err := config.DB.Model(&user).Update("is_blocked", blocked).Error; err != nil {
		utils.LogError("Failed to update block state for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update user", nil)
		return
	}

	action := "unblocked"
	if blocked {
		action = "blocked"
	}
	utils.LogInfo("User %d %s", user.ID, action)
	utils.Success(c, fmt.Sprintf("User %s successfully", action), gin.H{"id": user.ID, "is_blocked": blocked})
}

// CategoryRequest represents the create/update body for a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateCategory adds a catalog category
// POST /admin/categories
func CreateCategory(c *gin.Context) {
	utils.LogInfo("CreateCategory called")

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var existing models.Category
	if err := config.DB.Where("LOWER(name) = LOWER(?)", req.Name).First(&existing).Error; err == nil {
		utils.Conflict(c, "Category already exists", nil)
		return
	}

	category := models.Category{
		Name:        utils.SanitizeString(req.Name),
		Description: req.Description,
	}
	if err := config.DB.Create(&category).Error; err != nil {
		utils.LogError("Failed to create category %s: %v", req.Name, err)
		utils.InternalServerError(c, "Failed to create category", nil)
		return
	}

	utils.LogInfo("Created category %s with ID: %d", category.Name, category.ID)
	utils.Created(c, "Category created successfully", gin.H{"id": category.ID, "name": category.Name})
}

// BlockCategory hides a category and its courses from the public catalog
// POST /admin/categories/:id/block
func BlockCategory(c *gin.Context) {
	utils.LogInfo("BlockCategory called")
	setCategoryBlocked(c, true)
}

// UnblockCategory restores a category to the catalog
// POST /admin/categories/:id/unblock
func UnblockCategory(c *gin.Context) {
	utils.LogInfo("UnblockCategory called")
	setCategoryBlocked(c, false)
}

func setCategoryBlocked(c *gin.Context, blocked bool) {
	result := config.DB.Model(&models.Category{}).
		Where("id = ?", c.Param("id")).
		Update("blocked", blocked)
	if result.Error != nil {
		utils.LogError("Failed to update category %s: %v", c.Param("id"), result.Error)
		utils.InternalServerError(c, "Failed to update category", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Category not found")
		return
	}
	utils.Success(c, "Category updated successfully", gin.H{"id": c.Param("id"), "blocked": blocked})
}
