package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// GetWalletBalance returns the calling tutor's wallet balance
// GET /tutor/wallet
func GetWalletBalance(c *gin.Context) {
	utils.LogInfo("GetWalletBalance called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	wallet, err := utils.GetOrCreateWallet(user.ID)
	if err != nil {
		utils.LogError("Failed to load wallet for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load wallet", nil)
		return
	}

	var pendingWithdrawals float64
	config.DB.Model(&models.WithdrawalRequest{}).
		Where("tutor_id = ? AND status = ?", user.ID, models.WithdrawalStatusPending).
		Select("COALESCE(SUM(amount), 0)").Scan(&pendingWithdrawals)

	utils.Success(c, "Wallet retrieved successfully", gin.H{
		"balance":             wallet.Balance,
		"formatted_balance":   fmt.Sprintf("%.2f", wallet.Balance),
		"pending_withdrawals": utils.RoundMoney(pendingWithdrawals),
	})
}

// ListWalletTransactions lists the tutor's wallet ledger, newest first
// GET /tutor/wallet/transactions
func ListWalletTransactions(c *gin.Context) {
	utils.LogInfo("ListWalletTransactions called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	wallet, err := utils.GetOrCreateWallet(user.ID)
	if err != nil {
		utils.LogError("Failed to load wallet for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load wallet", nil)
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.WalletTransaction{}).Where("wallet_id = ?", wallet.ID)
	if txType := c.Query("type"); txType == models.TransactionTypeCredit || txType == models.TransactionTypeDebit {
		query = query.Where("type = ?", txType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count wallet transactions: %v", err)
		utils.InternalServerError(c, "Failed to list transactions", nil)
		return
	}
	pagination.SetTotal(total)

	var transactions []models.WalletTransaction
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to fetch wallet transactions: %v", err)
		utils.InternalServerError(c, "Failed to list transactions", nil)
		return
	}

	items := make([]gin.H, 0, len(transactions))
	for _, txn := range transactions {
		items = append(items, gin.H{
			"id":          txn.ID,
			"amount":      txn.Amount,
			"type":        txn.Type,
			"description": txn.Description,
			"course_id":   txn.CourseID,
			"reference":   txn.Reference,
			"status":      txn.Status,
			"created_at":  txn.CreatedAt,
		})
	}

	utils.SendPaginatedResponse(c, items, pagination)
}
