package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// CreateTutorPromoRequest represents an instructor promo creation request
type CreateTutorPromoRequest struct {
	Code           string     `json:"code" binding:"required"`
	DiscountType   string     `json:"discount_type" binding:"required,oneof=PERCENTAGE FIXED"`
	Value          float64    `json:"value" binding:"required,gt=0"`
	StartsAt       *time.Time `json:"starts_at"`
	EndsAt         *time.Time `json:"ends_at"`
	CourseID       *uint      `json:"course_id"`
	MaxRedemptions *int       `json:"max_redemptions"`
	PerUserLimit   *int       `json:"per_user_limit"`
}

// CreateTutorPromo creates an INSTRUCTOR promo code. The discount only ever
// applies to the creating tutor's own course lines, so the tutor funds it out
// of their own share.
// POST /tutor/promos
func CreateTutorPromo(c *gin.Context) {
	utils.LogInfo("CreateTutorPromo called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	userID := userVal.(models.User).ID

	var req CreateTutorPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid tutor promo request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.Code = utils.NormalizePromoCode(req.Code)
	if err := utils.ValidatePromoCodeFormat(req.Code); err != nil {
		utils.BadRequest(c, err.Error(), nil)
		return
	}
	if err := utils.ValidatePromoValue(req.DiscountType, req.Value); err != nil {
		utils.BadRequest(c, err.Error(), nil)
		return
	}
	if req.StartsAt != nil && req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		utils.BadRequest(c, "ends_at must be after starts_at", nil)
		return
	}
	if req.CourseID != nil {
		var course models.Course
		if err := config.DB.Where("id = ? AND tutor_id = ?", *req.CourseID, userID).First(&course).Error; err != nil {
			utils.LogError("Tutor %d tried to scope promo to course %d they do not own", userID, *req.CourseID)
			utils.Forbidden(c, "You can only scope promos to your own courses")
			return
		}
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	var existing models.PromoCode
	if err := tx.Where("LOWER(code) = LOWER(?)", req.Code).First(&existing).Error; err == nil {
		tx.Rollback()
		utils.LogError("Promo code already exists: %s", req.Code)
		utils.Conflict(c, "Promo code already exists", nil)
		return
	}

	promo := models.PromoCode{
		Code:           req.Code,
		Type:           models.PromoTypeInstructor,
		DiscountType:   req.DiscountType,
		Value:          req.Value,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		CourseID:       req.CourseID,
		CreatedBy:      userID,
		MaxRedemptions: req.MaxRedemptions,
		PerUserLimit:   req.PerUserLimit,
		Active:         true,
	}
	if err := tx.Create(&promo).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create tutor promo %s: %v", req.Code, err)
		utils.InternalServerError(c, "Failed to create promo code", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit tutor promo creation: %v", err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.LogInfo("Tutor %d created promo %s with ID: %d", userID, promo.Code, promo.ID)
	utils.Created(c, "Promo code created successfully", gin.H{
		"id":            promo.ID,
		"code":          promo.Code,
		"type":          promo.Type,
		"discount_type": promo.DiscountType,
		"value":         promo.Value,
		"course_id":     promo.CourseID,
		"active":        promo.Active,
	})
}

// ListTutorPromos lists the calling tutor's own promo codes
// GET /tutor/promos
func ListTutorPromos(c *gin.Context) {
	utils.LogInfo("ListTutorPromos called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	userID := userVal.(models.User).ID
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.PromoCode{}).
		Where("type = ? AND created_by = ?", models.PromoTypeInstructor, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count tutor promos: %v", err)
		utils.InternalServerError(c, "Failed to list promo codes", nil)
		return
	}
	pagination.SetTotal(total)

	var promos []models.PromoCode
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&promos).Error; err != nil {
		utils.LogError("Failed to fetch tutor promos: %v", err)
		utils.InternalServerError(c, "Failed to list promo codes", nil)
		return
	}

	items := make([]gin.H, 0, len(promos))
	for _, promo := range promos {
		var redemptions int64
		config.DB.Model(&models.PromoRedemption{}).Where("promo_code_id = ?", promo.ID).Count(&redemptions)
		items = append(items, gin.H{
			"id":            promo.ID,
			"code":          promo.Code,
			"discount_type": promo.DiscountType,
			"value":         promo.Value,
			"starts_at":     promo.StartsAt,
			"ends_at":       promo.EndsAt,
			"course_id":     promo.CourseID,
			"redemptions":   redemptions,
			"active":        promo.Active,
		})
	}

	utils.SendPaginatedResponse(c, items, pagination)
}

// DeactivateTutorPromo turns off one of the tutor's own promos
// PATCH /tutor/promos/:id/deactivate
func DeactivateTutorPromo(c *gin.Context) {
	utils.LogInfo("DeactivateTutorPromo called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	userID := userVal.(models.User).ID

	result := config.DB.Model(&models.PromoCode{}).
		Where("id = ? AND type = ? AND created_by = ?", c.Param("id"), models.PromoTypeInstructor, userID).
		Update("active", false)
	if result.Error != nil {
		utils.LogError("Failed to deactivate promo %s: %v", c.Param("id"), result.Error)
		utils.InternalServerError(c, "Failed to deactivate promo code", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Promo code not found")
		return
	}

	utils.LogInfo("Tutor %d deactivated promo %s", userID, c.Param("id"))
	utils.Success(c, "Promo code deactivated", gin.H{"id": c.Param("id")})
}
