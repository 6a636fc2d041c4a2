package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB points config.DB at an in-memory database scoped to the test
// name. cache=shared keeps every pooled connection on the same database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Course{},
		&models.Lesson{},
		&models.PaymentTransaction{},
		&models.PaymentItem{},
		&models.PaymentFulfillment{},
		&models.Enrollment{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.PromoCode{},
		&models.PromoCodeUser{},
		&models.PromoRedemption{},
	))
	config.DB = db
	return db
}

// seedCheckout creates a buyer, a tutor with one course, and a pending
// transaction for that course under the given reference.
func seedCheckout(t *testing.T, db *gorm.DB, reference string, total, finalPrice float64) models.PaymentTransaction {
	t.Helper()

	buyer := models.User{Username: "buyer-" + reference, Email: "buyer-" + reference + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&buyer).Error)
	tutor := models.User{Username: "tutor-" + reference, Email: "tutor-" + reference + "@example.com", Password: "x", IsTutor: true}
	require.NoError(t, db.Create(&tutor).Error)
	course := models.Course{Title: "Intro to Go", Slug: "intro-to-go-" + reference, TutorID: tutor.ID, BasePrice: finalPrice, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	txn := models.PaymentTransaction{
		Reference: reference,
		UserID:    buyer.ID,
		Subtotal:  finalPrice,
		VAT:       utils.RoundMoney(total - finalPrice),
		Total:     total,
		Status:    models.PaymentStatusPending,
		Items: []models.PaymentItem{{
			CourseID:   course.ID,
			TutorID:    tutor.ID,
			BasePrice:  finalPrice,
			FinalPrice: finalPrice,
		}},
	}
	require.NoError(t, db.Create(&txn).Error)
	return txn
}

// stubGateway answers every verify call with a successful charge of the given
// amount and reports whether it was contacted at all.
func stubGateway(t *testing.T, amountKobo int64) *bool {
	t.Helper()
	contacted := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contacted = true
		fmt.Fprintf(w, `{"status":true,"message":"ok","data":{"status":"success","reference":"ref","amount":%d,"currency":"NGN"}}`, amountKobo)
	}))
	t.Cleanup(server.Close)

	oldBase := utils.PaystackBaseURL
	utils.PaystackBaseURL = server.URL
	t.Cleanup(func() { utils.PaystackBaseURL = oldBase })
	return &contacted
}

func TestFinalizePaymentIsIdempotent(t *testing.T) {
	t.Setenv("TUTOR_SHARE", "0.70")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")

	db := openTestDB(t)
	txn := seedCheckout(t, db, "PTQ-idem", 86.00, 80.00)
	stubGateway(t, utils.ToKobo(txn.Total))

	first, err := FinalizePayment(txn.Reference)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFulfilled, first.Outcome)
	assert.Equal(t, []uint{txn.Items[0].CourseID}, first.CourseIDs)

	second, err := FinalizePayment(txn.Reference)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyProcessed, second.Outcome)

	// Exactly one enrollment, one earnings credit, one marker.
	var enrollments int64
	db.Model(&models.Enrollment{}).Where("reference = ?", txn.Reference).Count(&enrollments)
	assert.Equal(t, int64(1), enrollments)

	var credits int64
	db.Model(&models.WalletTransaction{}).Where("reference = ?", txn.Reference).Count(&credits)
	assert.Equal(t, int64(1), credits)

	var markers int64
	db.Model(&models.PaymentFulfillment{}).Where("reference = ?", txn.Reference).Count(&markers)
	assert.Equal(t, int64(1), markers)

	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", txn.Items[0].TutorID).First(&wallet).Error)
	assert.InDelta(t, 56.00, wallet.Balance, 0.001)

	var stored models.PaymentTransaction
	require.NoError(t, db.Where("reference = ?", txn.Reference).First(&stored).Error)
	assert.Equal(t, models.PaymentStatusSuccess, stored.Status)
}

func TestFulfillLosingRaceLeavesNoSideEffects(t *testing.T) {
	t.Setenv("TUTOR_SHARE", "0.70")

	db := openTestDB(t)
	txn := seedCheckout(t, db, "PTQ-race", 86.00, 80.00)

	// A concurrent caller already won the marker insert.
	require.NoError(t, db.Create(&models.PaymentFulfillment{Reference: txn.Reference, UserID: txn.UserID}).Error)

	var loaded models.PaymentTransaction
	require.NoError(t, db.Preload("Items").Where("reference = ?", txn.Reference).First(&loaded).Error)

	result, err := fulfill(&loaded)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyProcessed, result.Outcome)

	// The loser's transaction rolled back without touching anything.
	var enrollments int64
	db.Model(&models.Enrollment{}).Count(&enrollments)
	assert.Equal(t, int64(0), enrollments)

	var credits int64
	db.Model(&models.WalletTransaction{}).Count(&credits)
	assert.Equal(t, int64(0), credits)

	var stored models.PaymentTransaction
	require.NoError(t, db.First(&stored, loaded.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
}

func TestFinalizePaymentZeroTotalSkipsGateway(t *testing.T) {
	db := openTestDB(t)
	txn := seedCheckout(t, db, "FREE-promo", 0, 0)
	contacted := stubGateway(t, 0)

	result, err := FinalizePayment(txn.Reference)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFulfilled, result.Outcome)
	assert.False(t, *contacted)

	var enrollments int64
	db.Model(&models.Enrollment{}).Where("reference = ?", txn.Reference).Count(&enrollments)
	assert.Equal(t, int64(1), enrollments)

	// A fully discounted sale earns the tutor nothing.
	var credits int64
	db.Model(&models.WalletTransaction{}).Count(&credits)
	assert.Equal(t, int64(0), credits)
}
