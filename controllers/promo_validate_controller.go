package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// ValidatePromoRequest represents the request body for previewing a promo code
type ValidatePromoRequest struct {
	Code      string `json:"code" binding:"required"`
	CourseIDs []uint `json:"course_ids" binding:"required,min=1"`
}

// ValidatePromoCode previews a promo against a prospective basket and returns
// the discounted totals. Applying a code here reserves nothing; redemption is
// only counted at fulfillment.
// POST /user/promos/validate
func ValidatePromoCode(c *gin.Context) {
	utils.LogInfo("ValidatePromoCode called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid promo validation request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. code and course_ids are required", err.Error())
		return
	}
	utils.LogInfo("Validating promo %q for user ID: %d against %d course(s)", req.Code, user.ID, len(req.CourseIDs))

	courses, lines, err := checkoutLinesForCourses(req.CourseIDs)
	if err != nil {
		utils.LogError("Failed to load courses for promo validation, user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load courses", nil)
		return
	}
	if len(courses) == 0 {
		utils.LogError("None of the supplied course ids exist for user ID: %d", user.ID)
		utils.NotFound(c, "No such courses")
		return
	}

	// Scope checks run against the courses that actually loaded; ids that
	// matched nothing purchasable must not satisfy a course-scoped promo.
	snapshot, reason, err := resolvePromo(req.Code, user.ID, loadedCourseIDs(courses))
	if err != nil {
		utils.LogError("Promo resolution failed for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to validate promo code", nil)
		return
	}
	if reason != "" {
		utils.LogInfo("Promo %q rejected for user ID: %d: %s", req.Code, user.ID, reason)
		utils.ValidationFailed(c, "Promo code cannot be applied", reason)
		return
	}

	totals := utils.CalculateCheckoutTotals(lines, snapshot, config.VATRate())

	// Remember the previewed code so the checkout page survives a reload.
	if err := utils.SetAppliedPromo(c, snapshot.Code); err != nil {
		utils.LogDebug("Failed to persist applied promo in session for user ID: %d: %v", user.ID, err)
	}

	utils.LogInfo("Promo %s accepted for user ID: %d, discount %.2f", snapshot.Code, user.ID, totals.Discount)
	utils.Success(c, "Promo code applied", gin.H{
		"promo":  snapshot,
		"totals": formatTotals(totals),
	})
}
