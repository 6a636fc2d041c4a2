package controllers

import (
	"fmt"
	"strings"

	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fulfillment outcomes
const (
	OutcomeAlreadyProcessed = "alreadyProcessed"
	OutcomeFulfilled        = "fulfilled"
	OutcomeFailed           = "failed"
)

// FulfillmentResult reports what FinalizePayment did for a reference
type FulfillmentResult struct {
	Outcome       string `json:"outcome"`
	Reference     string `json:"reference"`
	GatewayStatus string `json:"gateway_status,omitempty"`
	CourseIDs     []uint `json:"course_ids,omitempty"`
}

// FinalizePayment verifies a gateway transaction by reference and performs
// idempotent fulfillment. It is safe to call concurrently and repeatedly for
// the same reference: the webhook and client polling race each other here, and
// the unique index on payment_fulfillments.reference decides the winner.
func FinalizePayment(reference string) (*FulfillmentResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, utils.InvalidRequestError("reference is required", nil)
	}
	utils.LogInfo("Finalizing payment for reference: %s", reference)

	// Fast path: a recorded fulfillment means everything already happened.
	var existing models.PaymentFulfillment
	if err := config.DB.Where("reference = ?", reference).First(&existing).Error; err == nil {
		utils.LogInfo("Reference %s already fulfilled, skipping", reference)
		return &FulfillmentResult{Outcome: OutcomeAlreadyProcessed, Reference: reference}, nil
	}

	var txn models.PaymentTransaction
	if err := config.DB.Preload("Items").Where("reference = ?", reference).First(&txn).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.LogError("No payment transaction for reference: %s", reference)
			return nil, utils.NotFoundError("Unknown payment reference", err)
		}
		return nil, err
	}

	gatewayStatus := "success"
	if txn.Total > 0 {
		// A transport failure here is transient: do not fulfill, let the
		// caller retry finalize later.
		gatewayTxn, err := utils.PaystackVerifyTransaction(reference)
		if err != nil {
			utils.LogError("Gateway verify failed for reference %s: %v", reference, err)
			return nil, utils.GatewayErr("Could not verify payment status", err)
		}
		gatewayStatus = gatewayTxn.Status

		if gatewayTxn.Status != "success" {
			utils.LogError("Gateway reports status %q for reference %s, not fulfilling", gatewayTxn.Status, reference)
			if gatewayTxn.Status == "failed" {
				config.DB.Model(&txn).Update("status", models.PaymentStatusFailed)
			}
			return &FulfillmentResult{Outcome: OutcomeFailed, Reference: reference, GatewayStatus: gatewayTxn.Status}, nil
		}

		if gatewayTxn.Amount < utils.ToKobo(txn.Total) {
			utils.LogError("Amount mismatch for reference %s: charged %d kobo, expected %d", reference, gatewayTxn.Amount, utils.ToKobo(txn.Total))
			return &FulfillmentResult{Outcome: OutcomeFailed, Reference: reference, GatewayStatus: "amount_mismatch"}, nil
		}
	}

	result, err := fulfill(&txn)
	if err != nil {
		utils.LogError("Fulfillment failed for reference %s: %v", reference, err)
		return nil, err
	}
	result.GatewayStatus = gatewayStatus
	return result, nil
}

// fulfill performs the fulfillment unit for a verified transaction: the
// processed marker, enrollments, tutor earnings and the promo redemption all
// commit or roll back together.
func fulfill(txn *models.PaymentTransaction) (*FulfillmentResult, error) {
	tx := config.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	// The marker insert is the race arbiter. ON CONFLICT DO NOTHING turns a
	// concurrent duplicate into zero affected rows instead of an error; the
	// loser treats the work as already done.
	marker := models.PaymentFulfillment{
		Reference: txn.Reference,
		UserID:    txn.UserID,
	}
	insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&marker)
	if insert.Error != nil {
		tx.Rollback()
		return nil, insert.Error
	}
	if insert.RowsAffected == 0 {
		tx.Rollback()
		utils.LogInfo("Lost fulfillment race for reference %s, treating as processed", txn.Reference)
		return &FulfillmentResult{Outcome: OutcomeAlreadyProcessed, Reference: txn.Reference}, nil
	}

	tutorShare := config.TutorShare()
	courseIDs := make([]uint, 0, len(txn.Items))

	for _, item := range txn.Items {
		enrollment := models.Enrollment{
			UserID:    txn.UserID,
			CourseID:  item.CourseID,
			Reference: txn.Reference,
			PricePaid: item.FinalPrice,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment).Error; err != nil {
			tx.Rollback()
			return nil, utils.WrapError(err, "failed to create enrollment")
		}
		courseIDs = append(courseIDs, item.CourseID)

		earning := utils.RoundMoney(item.FinalPrice * tutorShare)
		if earning > 0 {
			wallet, err := getOrCreateWalletTx(tx, item.TutorID)
			if err != nil {
				tx.Rollback()
				return nil, utils.WrapError(err, "failed to load tutor wallet")
			}
			courseID := item.CourseID
			description := fmt.Sprintf("Course sale earnings (course #%d)", item.CourseID)
			if err := utils.CreditWallet(tx, wallet.ID, earning, description, txn.Reference, &courseID); err != nil {
				tx.Rollback()
				return nil, utils.WrapError(err, "failed to credit tutor earnings")
			}
		}
	}

	if txn.PromoCodeID != nil {
		redemption := models.PromoRedemption{
			PromoCodeID: *txn.PromoCodeID,
			UserID:      txn.UserID,
			Reference:   txn.Reference,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			tx.Rollback()
			return nil, utils.WrapError(err, "failed to record promo redemption")
		}
	}

	if err := tx.Model(&models.PaymentTransaction{}).
		Where("id = ?", txn.ID).
		Update("status", models.PaymentStatusSuccess).Error; err != nil {
		tx.Rollback()
		return nil, utils.WrapError(err, "failed to mark transaction successful")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, utils.WrapError(err, "failed to commit fulfillment")
	}

	utils.LogInfo("Fulfilled reference %s: %d enrollment(s) for user %d", txn.Reference, len(courseIDs), txn.UserID)
	go sendEnrollmentEmail(txn.UserID, txn.Reference, courseIDs)

	return &FulfillmentResult{
		Outcome:   OutcomeFulfilled,
		Reference: txn.Reference,
		CourseIDs: courseIDs,
	}, nil
}

// getOrCreateWalletTx mirrors utils.GetOrCreateWallet but stays inside the
// caller's transaction.
func getOrCreateWalletTx(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		wallet = models.Wallet{UserID: userID, Balance: 0}
		if err := tx.Create(&wallet).Error; err != nil {
			return nil, err
		}
	}
	return &wallet, nil
}

// sendEnrollmentEmail is best-effort; failures are logged for reconciliation
func sendEnrollmentEmail(userID uint, reference string, courseIDs []uint) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.LogError("Enrollment email skipped, user %d not found: %v", userID, err)
		return
	}

	var titles []string
	if len(courseIDs) > 0 {
		var courses []models.Course
		if err := config.DB.Where("id IN ?", courseIDs).Find(&courses).Error; err == nil {
			for _, course := range courses {
				titles = append(titles, course.Title)
			}
		}
	}

	if err := utils.SendEnrollmentConfirmation(user.Email, reference, titles); err != nil {
		utils.LogError("Failed to send enrollment email for reference %s: %v", reference, err)
	}
}
