package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// FinalizeCheckoutRequest represents the request body for finalizing a payment
type FinalizeCheckoutRequest struct {
	Reference string `json:"reference"`
}

// FinalizeCheckout is the client-side half of settlement: after the gateway
// redirect, the client posts the reference here. The webhook may already have
// fulfilled it; both paths share FinalizePayment and its idempotency guard.
// POST /user/checkout/finalize
func FinalizeCheckout(c *gin.Context) {
	utils.LogInfo("FinalizeCheckout called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req FinalizeCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Reference == "" {
		// Gateways commonly redirect with the reference in the query string.
		req.Reference = c.Query("reference")
	}
	if req.Reference == "" {
		utils.LogError("Missing reference in finalize request for user ID: %d", user.ID)
		utils.BadRequest(c, "reference is required", nil)
		return
	}
	utils.LogInfo("Finalizing reference %s for user ID: %d", req.Reference, user.ID)

	result, err := FinalizePayment(req.Reference)
	if err != nil {
		if appErr := utils.GetAppError(err); appErr != nil {
			switch appErr.Kind {
			case "not_found":
				utils.NotFound(c, "Payment reference not found")
			case "gateway_error":
				utils.GatewayError(c, "Payment verification is temporarily unavailable, please retry")
			case "invalid_request":
				utils.BadRequest(c, appErr.Message, nil)
			default:
				utils.InternalServerError(c, "Failed to finalize payment", nil)
			}
			return
		}
		utils.LogError("Finalize failed for reference %s: %v", req.Reference, err)
		utils.InternalServerError(c, "Failed to finalize payment", nil)
		return
	}

	switch result.Outcome {
	case OutcomeFailed:
		utils.LogError("Payment not successful for reference %s (gateway status: %s)", result.Reference, result.GatewayStatus)
		utils.BadRequest(c, "Payment was not successful", gin.H{"outcome": result.Outcome, "gateway_status": result.GatewayStatus})
	case OutcomeAlreadyProcessed:
		utils.Success(c, "Payment already processed", result)
	default:
		utils.Success(c, "Payment confirmed and enrollment completed", result)
	}
}
