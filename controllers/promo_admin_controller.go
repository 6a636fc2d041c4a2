package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// CreatePromoRequest represents the request body for creating a promo code
type CreatePromoRequest struct {
	Code           string     `json:"code" binding:"required"`
	DiscountType   string     `json:"discount_type" binding:"required,oneof=PERCENTAGE FIXED"`
	Value          float64    `json:"value" binding:"required,gt=0"`
	StartsAt       *time.Time `json:"starts_at"`
	EndsAt         *time.Time `json:"ends_at"`
	CourseID       *uint      `json:"course_id"`
	MaxRedemptions *int       `json:"max_redemptions"`
	PerUserLimit   *int       `json:"per_user_limit"`
	AllowedUserIDs []uint     `json:"allowed_user_ids"`
}

// CreatePromoCode creates a platform promo code
// POST /admin/promos
func CreatePromoCode(c *gin.Context) {
	utils.LogInfo("CreatePromoCode called")

	var req CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid promo creation request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.Code = utils.NormalizePromoCode(req.Code)
	if err := utils.ValidatePromoCodeFormat(req.Code); err != nil {
		utils.LogError("Invalid promo code format %q: %v", req.Code, err)
		utils.BadRequest(c, err.Error(), nil)
		return
	}
	if err := utils.ValidatePromoValue(req.DiscountType, req.Value); err != nil {
		utils.LogError("Invalid promo value for code %s: %v", req.Code, err)
		utils.BadRequest(c, err.Error(), nil)
		return
	}
	if req.StartsAt != nil && req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		utils.LogError("Promo %s window ends before it starts", req.Code)
		utils.BadRequest(c, "ends_at must be after starts_at", nil)
		return
	}
	if req.CourseID != nil {
		var course models.Course
		if err := config.DB.First(&course, *req.CourseID).Error; err != nil {
			utils.LogError("Scoped course %d not found for promo %s", *req.CourseID, req.Code)
			utils.NotFound(c, "Scoped course not found")
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
		Type:           models.PromoTypePlatform,
		DiscountType:   req.DiscountType,
		Value:          req.Value,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		CourseID:       req.CourseID,
		MaxRedemptions: req.MaxRedemptions,
		PerUserLimit:   req.PerUserLimit,
		Active:         true,
	}
	if err := tx.Create(&promo).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create promo code %s: %v", req.Code, err)
		utils.InternalServerError(c, "Failed to create promo code", nil)
		return
	}

	for _, userID := range req.AllowedUserIDs {
		entry := models.PromoCodeUser{PromoCodeID: promo.ID, UserID: userID}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to add allow-list entry for promo %s: %v", req.Code, err)
			utils.InternalServerError(c, "Failed to save promo allow-list", nil)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit promo creation: %v", err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.LogInfo("Created promo code %s with ID: %d", promo.Code, promo.ID)
	utils.Created(c, "Promo code created successfully", gin.H{
		"id":              promo.ID,
		"code":            promo.Code,
		"type":            promo.Type,
		"discount_type":   promo.DiscountType,
		"value":           promo.Value,
		"starts_at":       promo.StartsAt,
		"ends_at":         promo.EndsAt,
		"course_id":       promo.CourseID,
		"max_redemptions": promo.MaxRedemptions,
		"per_user_limit":  promo.PerUserLimit,
		"allowed_users":   len(req.AllowedUserIDs),
		"active":          promo.Active,
	})
}

// ListPromoCodes lists promo codes with redemption counts
// GET /admin/promos
func ListPromoCodes(c *gin.Context) {
	utils.LogInfo("ListPromoCodes called")

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.PromoCode{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count promo codes: %v", err)
		utils.InternalServerError(c, "Failed to list promo codes", nil)
		return
	}
	pagination.SetTotal(total)

	var promos []models.PromoCode
	if err := config.DB.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&promos).Error; err != nil {
		utils.LogError("Failed to fetch promo codes: %v", err)
		utils.InternalServerError(c, "Failed to list promo codes", nil)
		return
	}

	items := make([]gin.H, 0, len(promos))
	for _, promo := range promos {
		var redemptions int64
		config.DB.Model(&models.PromoRedemption{}).Where("promo_code_id = ?", promo.ID).Count(&redemptions)
		items = append(items, gin.H{
			"id":              promo.ID,
			"code":            promo.Code,
			"type":            promo.Type,
			"discount_type":   promo.DiscountType,
			"value":           promo.Value,
			"starts_at":       promo.StartsAt,
			"ends_at":         promo.EndsAt,
			"course_id":       promo.CourseID,
			"max_redemptions": promo.MaxRedemptions,
			"per_user_limit":  promo.PerUserLimit,
			"redemptions":     redemptions,
			"active":          promo.Active,
		})
	}

	utils.SendPaginatedResponse(c, items, pagination)
}

// UpdatePromoRequest represents the mutable fields of a promo code
type UpdatePromoRequest struct {
	Value          *float64   `json:"value"`
	StartsAt       *time.Time `json:"starts_at"`
	EndsAt         *time.Time `json:"ends_at"`
	MaxRedemptions *int       `json:"max_redemptions"`
	PerUserLimit   *int       `json:"per_user_limit"`
	Active         *bool      `json:"active"`
}

// UpdatePromoCode updates a promo's limits, window or active flag. The code,
// scope and discount type are immutable once issued; redemptions already
// counted must keep meaning what they meant.
// PUT /admin/promos/:id
func UpdatePromoCode(c *gin.Context) {
	utils.LogInfo("UpdatePromoCode called")

	var promo models.PromoCode
	if err := config.DB.First(&promo, c.Param("id")).Error; err != nil {
		utils.LogError("Promo code not found: %s", c.Param("id"))
		utils.NotFound(c, "Promo code not found")
		return
	}

	var req UpdatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid promo update request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Value != nil {
		if err := utils.ValidatePromoValue(promo.DiscountType, *req.Value); err != nil {
			utils.BadRequest(c, err.Error(), nil)
			return
		}
		updates["value"] = *req.Value
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.EndsAt != nil {
		updates["ends_at"] = *req.EndsAt
	}
	if req.MaxRedemptions != nil {
		updates["max_redemptions"] = *req.MaxRedemptions
	}
	if req.PerUserLimit != nil {
		updates["per_user_limit"] = *req.PerUserLimit
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&promo).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update promo code %s: %v", promo.Code, err)
		utils.InternalServerError(c, "Failed to update promo code", nil)
		return
	}

	utils.LogInfo("Updated promo code %s", promo.Code)
	utils.Success(c, "Promo code updated successfully", gin.H{"id": promo.ID, "code": promo.Code})
}

// DeletePromoCode soft-deletes a promo. Redemption history stays intact.
// DELETE /admin/promos/:id
func DeletePromoCode(c *gin.Context) {
	utils.LogInfo("DeletePromoCode called")

	var promo models.PromoCode
	if err := config.DB.First(&promo, c.Param("id")).Error; err != nil {
		utils.LogError("Promo code not found: %s", c.Param("id"))
		utils.NotFound(c, "Promo code not found")
		return
	}

	if err := config.DB.Delete(&promo).Error; err != nil {
		utils.LogError("Failed to delete promo code %s: %v", promo.Code, err)
		utils.InternalServerError(c, "Failed to delete promo code", nil)
		return
	}

	utils.LogInfo("Deleted promo code %s", promo.Code)
	utils.Success(c, "Promo code deleted successfully", gin.H{"id": promo.ID})
}
