package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// WithdrawalRequestBody represents a tutor payout request
type WithdrawalRequestBody struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// RequestWithdrawal queues a payout request against the tutor's wallet.
// The balance is not debited here; that happens atomically at approval.
// POST /tutor/withdrawals
func RequestWithdrawal(c *gin.Context) {
	utils.LogInfo("RequestWithdrawal called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req WithdrawalRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid withdrawal request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	amount := utils.RoundMoney(req.Amount)

	wallet, err := utils.GetOrCreateWallet(user.ID)
	if err != nil {
		utils.LogError("Failed to load wallet for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load wallet", nil)
		return
	}

	// Pending requests reserve balance so a tutor cannot queue more than the
	// wallet holds across several requests.
	var pending float64
	config.DB.Model(&models.WithdrawalRequest{}).
		Where("tutor_id = ? AND status = ?", user.ID, models.WithdrawalStatusPending).
		Select("COALESCE(SUM(amount), 0)").Scan(&pending)

	if amount > wallet.Balance-pending {
		utils.LogError("Withdrawal %.2f exceeds available balance for tutor %d", amount, user.ID)
		utils.BadRequest(c, "Requested amount exceeds available balance",
			fmt.Sprintf("Available: %.2f", utils.RoundMoney(wallet.Balance-pending)))
		return
	}

	withdrawal := models.WithdrawalRequest{
		TutorID: user.ID,
		Amount:  amount,
		Status:  models.WithdrawalStatusPending,
	}
	if err := config.DB.Create(&withdrawal).Error; err != nil {
		utils.LogError("Failed to create withdrawal for tutor %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create withdrawal request", nil)
		return
	}

	utils.LogInfo("Tutor %d requested withdrawal of %.2f (ID: %d)", user.ID, amount, withdrawal.ID)
	utils.Created(c, "Withdrawal request submitted", gin.H{
		"id":     withdrawal.ID,
		"amount": withdrawal.Amount,
		"status": withdrawal.Status,
	})
}

// ListMyWithdrawals lists the tutor's withdrawal history
// GET /tutor/withdrawals
func ListMyWithdrawals(c *gin.Context) {
	utils.LogInfo("ListMyWithdrawals called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.WithdrawalRequest{}).Where("tutor_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count withdrawals: %v", err)
		utils.InternalServerError(c, "Failed to list withdrawals", nil)
		return
	}
	pagination.SetTotal(total)

	var withdrawals []models.WithdrawalRequest
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&withdrawals).Error; err != nil {
		utils.LogError("Failed to fetch withdrawals: %v", err)
		utils.InternalServerError(c, "Failed to list withdrawals", nil)
		return
	}

	items := make([]gin.H, 0, len(withdrawals))
	for _, withdrawal := range withdrawals {
		items = append(items, gin.H{
			"id":          withdrawal.ID,
			"amount":      withdrawal.Amount,
			"status":      withdrawal.Status,
			"admin_note":  withdrawal.AdminNote,
			"reviewed_at": withdrawal.ReviewedAt,
			"created_at":  withdrawal.CreatedAt,
		})
	}

	utils.SendPaginatedResponse(c, items, pagination)
}
