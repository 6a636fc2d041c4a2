package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// InitiateCheckoutRequest represents the request body for starting a checkout
type InitiateCheckoutRequest struct {
	CourseIDs []uint `json:"course_ids" binding:"required,min=1"`
	PromoCode string `json:"promo_code"`
}

// InitiateCheckout prices the selected courses, creates the gateway
// transaction and hands the authorization URL back to the client.
// POST /user/checkout/initiate
func InitiateCheckout(c *gin.Context) {
	utils.LogInfo("InitiateCheckout called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	utils.LogInfo("Processing checkout initiation for user ID: %d", user.ID)

	var req InitiateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid checkout request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. course_ids is required", err.Error())
		return
	}

	courses, lines, err := checkoutLinesForCourses(req.CourseIDs)
	if err != nil {
		utils.LogError("Failed to load courses for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load courses", nil)
		return
	}
	if len(courses) == 0 {
		utils.LogError("No purchasable courses among %v for user ID: %d", req.CourseIDs, user.ID)
		utils.NotFound(c, "No purchasable courses found")
		return
	}
	if len(courses) != len(req.CourseIDs) {
		utils.LogError("Checkout contains unknown or unpublished courses for user ID: %d", user.ID)
		utils.BadRequest(c, "One or more courses are not available for purchase", nil)
		return
	}

	// Reject courses the buyer already owns before taking money for them.
	var owned int64
	if err := config.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id IN ?", user.ID, req.CourseIDs).
		Count(&owned).Error; err != nil {
		utils.InternalServerError(c, "Failed to check enrollments", nil)
		return
	}
	if owned > 0 {
		utils.LogError("User ID: %d attempted to repurchase an owned course", user.ID)
		utils.Conflict(c, "You are already enrolled in one of these courses", nil)
		return
	}

	var promo *utils.PromoSnapshot
	if req.PromoCode != "" {
		snapshot, reason, err := resolvePromo(req.PromoCode, user.ID, loadedCourseIDs(courses))
		if err != nil {
			utils.LogError("Promo resolution failed for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to validate promo code", nil)
			return
		}
		if reason != "" {
			utils.LogError("Promo %q rejected for user ID: %d: %s", req.PromoCode, user.ID, reason)
			utils.ValidationFailed(c, "Promo code cannot be applied", reason)
			return
		}
		promo = snapshot
	}

	totals := utils.CalculateCheckoutTotals(lines, promo, config.VATRate())
	utils.LogInfo("Checkout for user ID: %d priced at %.2f (discount %.2f, vat %.2f)",
		user.ID, totals.Total, totals.Discount, totals.VAT)

	reference := "PTQ-" + uuid.New().String()
	accessURL := ""
	if totals.Total <= 0 {
		reference = utils.FreeReferencePrefix + uuid.New().String()
	} else {
		accessURL, err = utils.PaystackInitializeTransaction(user.Email, reference, utils.ToKobo(totals.Total))
		if err != nil {
			utils.LogError("Gateway initialization failed for user ID: %d: %v", user.ID, err)
			utils.GatewayError(c, "Failed to initialize payment")
			return
		}
	}

	txn := models.PaymentTransaction{
		Reference: reference,
		UserID:    user.ID,
		Subtotal:  totals.Subtotal,
		Discount:  totals.Discount,
		VAT:       totals.VAT,
		Total:     totals.Total,
		Status:    models.PaymentStatusPending,
		AccessURL: accessURL,
	}
	if promo != nil {
		promoID := promo.ID
		txn.PromoCodeID = &promoID
	}
	for _, line := range totals.Lines {
		txn.Items = append(txn.Items, models.PaymentItem{
			CourseID:   line.CourseID,
			TutorID:    line.TutorID,
			BasePrice:  line.BasePrice,
			SalePrice:  line.CurrentPrice,
			FinalPrice: line.FinalPrice,
		})
	}

	if err := config.DB.Create(&txn).Error; err != nil {
		utils.LogError("Failed to record payment transaction for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to record payment transaction", nil)
		return
	}

	if code := utils.GetAppliedPromo(c); code != "" {
		if err := utils.ClearAppliedPromo(c); err != nil {
			utils.LogDebug("Failed to clear session promo for user ID: %d: %v", user.ID, err)
		}
	}

	// Zero-total checkouts never visit the gateway; fulfill right away
	// through the same idempotent path.
	if totals.Total <= 0 {
		result, err := FinalizePayment(reference)
		if err != nil {
			utils.LogError("Free checkout fulfillment failed for reference %s: %v", reference, err)
			utils.InternalServerError(c, "Failed to complete enrollment", nil)
			return
		}
		utils.Success(c, "Enrollment completed", gin.H{
			"reference": reference,
			"outcome":   result.Outcome,
			"totals":    formatTotals(totals),
		})
		return
	}

	utils.LogInfo("Checkout initiated for user ID: %d, reference: %s", user.ID, reference)
	utils.Success(c, "Checkout initiated successfully", gin.H{
		"reference":         reference,
		"authorization_url": accessURL,
		"amount_kobo":       utils.ToKobo(totals.Total),
		"totals":            formatTotals(totals),
	})
}

// formatTotals renders a totals breakdown with fixed two-decimal strings
func formatTotals(totals utils.CheckoutTotals) gin.H {
	lines := make([]gin.H, 0, len(totals.Lines))
	for _, line := range totals.Lines {
		lines = append(lines, gin.H{
			"course_id":     line.CourseID,
			"tutor_id":      line.TutorID,
			"base_price":    fmt.Sprintf("%.2f", line.BasePrice),
			"current_price": fmt.Sprintf("%.2f", line.CurrentPrice),
			"discount":      fmt.Sprintf("%.2f", line.Discount),
			"final_price":   fmt.Sprintf("%.2f", line.FinalPrice),
		})
	}
	return gin.H{
		"lines":    lines,
		"subtotal": fmt.Sprintf("%.2f", totals.Subtotal),
		"discount": fmt.Sprintf("%.2f", totals.Discount),
		"vat":      fmt.Sprintf("%.2f", totals.VAT),
		"total":    fmt.Sprintf("%.2f", totals.Total),
	}
}
