package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/utils"
)

// paystackEvent is the envelope Paystack posts to the webhook
type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// PaystackWebhook receives gateway events. The signature is an HMAC-SHA512 of
// the raw body; anything unsigned or mis-signed is rejected with 401. A
// verified charge.success triggers fulfillment asynchronously, and the
// endpoint answers 200 even when fulfillment errors: client polling covers the
// one-time event, and a 5xx here would only provoke gateway retry storms.
// POST /webhooks/paystack
func PaystackWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.LogError("Failed to read webhook body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"ok": false})
		return
	}

	signature := c.GetHeader("x-paystack-signature")
	if !utils.VerifyPaystackSignature(body, signature) {
		utils.LogError("Webhook signature verification failed")
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false})
		return
	}

	var event paystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.LogError("Failed to parse webhook event: %v", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	utils.LogInfo("Verified webhook event %q for reference %s", event.Event, event.Data.Reference)

	if event.Event == "charge.success" && event.Data.Reference != "" {
		reference := event.Data.Reference
		go func() {
			if _, err := FinalizePayment(reference); err != nil {
				utils.LogError("Webhook fulfillment failed for reference %s: %v", reference, err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
