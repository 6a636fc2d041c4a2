package controllers

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// ListWithdrawalRequests lists withdrawal requests for admin review
// GET /admin/withdrawals
func ListWithdrawalRequests(c *gin.Context) {
	utils.LogInfo("ListWithdrawalRequests called")

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.WithdrawalRequest{})
	status := c.DefaultQuery("status", models.WithdrawalStatusPending)
	if status != "all" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count withdrawal requests: %v", err)
		utils.InternalServerError(c, "Failed to list withdrawal requests", nil)
		return
	}
	pagination.SetTotal(total)

	var withdrawals []models.WithdrawalRequest
	if err := query.Preload("Tutor").Order("created_at ASC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&withdrawals).Error; err != nil {
		utils.LogError("Failed to fetch withdrawal requests: %v", err)
		utils.InternalServerError(c, "Failed to list withdrawal requests", nil)
		return
	}

	items := make([]gin.H, 0, len(withdrawals))
	for _, withdrawal := range withdrawals {
		items = append(items, gin.H{
			"id":     withdrawal.ID,
			"amount": withdrawal.Amount,
			"status": withdrawal.Status,
			"tutor": gin.H{
				"id":    withdrawal.TutorID,
				"email": withdrawal.Tutor.Email,
				"name":  withdrawal.Tutor.FirstName + " " + withdrawal.Tutor.LastName,
			},
			"admin_note": withdrawal.AdminNote,
			"created_at": withdrawal.CreatedAt,
		})
	}

	utils.SendPaginatedResponse(c, items, pagination)
}

// ReviewWithdrawalRequest is the approve/reject body
type ReviewWithdrawalRequest struct {
	Note string `json:"note"`
}

// ApproveWithdrawal approves a pending request and debits the tutor's wallet.
// The status flip and the debit happen in one transaction; both are
// conditional single-statement updates so two admins racing on the same
// request cannot double-debit.
// POST /admin/withdrawals/:id/approve
func ApproveWithdrawal(c *gin.Context) {
	utils.LogInfo("ApproveWithdrawal called")

	adminVal, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}
	admin := adminVal.(models.Admin)

	var req ReviewWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var withdrawal models.WithdrawalRequest
	if err := config.DB.Preload("Tutor").First(&withdrawal, c.Param("id")).Error; err != nil {
		utils.LogError("Withdrawal request not found: %s", c.Param("id"))
		utils.NotFound(c, "Withdrawal request not found")
		return
	}

	wallet, err := utils.GetOrCreateWallet(withdrawal.TutorID)
	if err != nil {
		utils.LogError("Failed to load wallet for tutor %d: %v", withdrawal.TutorID, err)
		utils.InternalServerError(c, "Failed to load tutor wallet", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	now := time.Now()
	result := tx.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", withdrawal.ID, models.WithdrawalStatusPending).
		Updates(map[string]interface{}{
			"status":      models.WithdrawalStatusApproved,
			"admin_note":  req.Note,
			"reviewed_at": now,
			"reviewed_by": admin.ID,
		})
	if result.Error != nil {
		tx.Rollback()
		utils.LogError("Failed to approve withdrawal %d: %v", withdrawal.ID, result.Error)
		utils.InternalServerError(c, "Failed to approve withdrawal", nil)
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.LogError("Withdrawal %d already reviewed", withdrawal.ID)
		utils.Conflict(c, "Withdrawal request already reviewed", nil)
		return
	}

	reference := fmt.Sprintf("WD-%d", withdrawal.ID)
	if err := utils.DebitWallet(tx, wallet.ID, withdrawal.Amount, "Withdrawal payout", reference); err != nil {
		tx.Rollback()
		if errors.Is(err, utils.ErrInsufficientBalance) {
			utils.LogError("Insufficient balance approving withdrawal %d", withdrawal.ID)
			utils.BadRequest(c, "Tutor wallet balance is below the requested amount", nil)
			return
		}
		utils.LogError("Failed to debit wallet for withdrawal %d: %v", withdrawal.ID, err)
		utils.InternalServerError(c, "Failed to debit wallet", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit withdrawal approval: %v", err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	go func(email string, amount float64, note string) {
		if err := utils.SendWithdrawalDecision(email, amount, true, note); err != nil {
			utils.LogError("Failed to send withdrawal approval email: %v", err)
		}
	}(withdrawal.Tutor.Email, withdrawal.Amount, req.Note)

	utils.LogInfo("Admin %d approved withdrawal %d for %.2f", admin.ID, withdrawal.ID, withdrawal.Amount)
	utils.Success(c, "Withdrawal approved", gin.H{
		"id":     withdrawal.ID,
		"amount": withdrawal.Amount,
		"status": models.WithdrawalStatusApproved,
	})
}

// RejectWithdrawal rejects a pending request. The wallet is untouched since
// the balance was never debited.
// POST /admin/withdrawals/:id/reject
func RejectWithdrawal(c *gin.Context) {
	utils.LogInfo("RejectWithdrawal called")

	adminVal, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}
	admin := adminVal.(models.Admin)

	var req ReviewWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var withdrawal models.WithdrawalRequest
	if err := config.DB.Preload("Tutor").First(&withdrawal, c.Param("id")).Error; err != nil {
		utils.LogError("Withdrawal request not found: %s", c.Param("id"))
		utils.NotFound(c, "Withdrawal request not found")
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", withdrawal.ID, models.WithdrawalStatusPending).
		Updates(map[string]interface{}{
			"status":      models.WithdrawalStatusRejected,
			"admin_note":  req.Note,
			"reviewed_at": now,
			"reviewed_by": admin.ID,
		})
	if result.Error != nil {
		utils.LogError("Failed to reject withdrawal %d: %v", withdrawal.ID, result.Error)
		utils.InternalServerError(c, "Failed to reject withdrawal", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.Conflict(c, "Withdrawal request already reviewed", nil)
		return
	}

	go func(email string, amount float64, note string) {
		if err := utils.SendWithdrawalDecision(email, amount, false, note); err != nil {
			utils.LogError("Failed to send withdrawal rejection email: %v", err)
		}
	}(withdrawal.Tutor.Email, withdrawal.Amount, req.Note)

	utils.LogInfo("Admin %d rejected withdrawal %d", admin.ID, withdrawal.ID)
	utils.Success(c, "Withdrawal rejected", gin.H{
		"id":     withdrawal.ID,
		"status": models.WithdrawalStatusRejected,
	})
}
