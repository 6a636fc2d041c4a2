package utils

import (
	"errors"

	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"gorm.io/gorm"
)

// ErrInsufficientBalance is returned when a debit would take a wallet negative.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// GetOrCreateWallet retrieves or creates the earnings wallet for a tutor
func GetOrCreateWallet(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := config.DB.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			wallet = models.Wallet{
				UserID:  userID,
				Balance: 0,
			}
			if err := config.DB.Create(&wallet).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	return &wallet, nil
}

// CreditWallet records a credit ledger entry and increments the balance inside
// the caller's transaction, as a single UPDATE expression.
func CreditWallet(tx *gorm.DB, walletID uint, amount float64, description, reference string, courseID *uint) error {
	entry := models.WalletTransaction{
		WalletID:    walletID,
		Amount:      amount,
		Type:        models.TransactionTypeCredit,
		Description: description,
		CourseID:    courseID,
		Reference:   reference,
		Status:      models.TransactionStatusCompleted,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	return tx.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}

// DebitWallet records a debit ledger entry and decrements the balance with a
// conditional update. The balance >= amount guard in the WHERE clause is what
// keeps two racing debits from overdrawing the wallet: the loser matches zero
// rows and gets ErrInsufficientBalance.
func DebitWallet(tx *gorm.DB, walletID uint, amount float64, description, reference string) error {
	result := tx.Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}

	entry := models.WalletTransaction{
		WalletID:    walletID,
		Amount:      amount,
		Type:        models.TransactionTypeDebit,
		Description: description,
		Reference:   reference,
		Status:      models.TransactionStatusCompleted,
	}
	return tx.Create(&entry).Error
}
