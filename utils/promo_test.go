package utils

import (
	"testing"
	"time"

	"github.com/iscedcs/palmtechniq/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }

func validPromoContext() *PromoCheckContext {
	return &PromoCheckContext{
		Promo: &models.PromoCode{
			ID:           1,
			Code:         "SAVE20",
			Type:         models.PromoTypePlatform,
			DiscountType: models.DiscountTypePercentage,
			Value:        20,
			Active:       true,
		},
		UserID:    7,
		CourseIDs: []uint{1, 2},
		Now:       time.Now(),
	}
}

func TestNormalizePromoCode(t *testing.T) {
	assert.Equal(t, "SAVE20", NormalizePromoCode("  save20 "))
	assert.Equal(t, "SAVE20", NormalizePromoCode("Save20"))
	assert.Equal(t, "", NormalizePromoCode("   "))
}

func TestValidatePromoHappyPath(t *testing.T) {
	snapshot, reason := ValidatePromo(validPromoContext())

	require.NotNil(t, snapshot)
	assert.Empty(t, reason)
	assert.Equal(t, "SAVE20", snapshot.Code)
	assert.Equal(t, models.DiscountTypePercentage, snapshot.DiscountType)
	assert.Equal(t, 20.0, snapshot.Value)
}

func TestValidatePromoMissingCodeIsInactive(t *testing.T) {
	ctx := validPromoContext()
	ctx.Promo = nil

	snapshot, reason := ValidatePromo(ctx)

	assert.Nil(t, snapshot)
	assert.Equal(t, PromoReasonInactive, reason)
}

func TestValidatePromoInactive(t *testing.T) {
	ctx := validPromoContext()
	ctx.Promo.Active = false

	_, reason := ValidatePromo(ctx)
	assert.Equal(t, PromoReasonInactive, reason)
}

func TestValidatePromoNotStarted(t *testing.T) {
	ctx := validPromoContext()
	future := ctx.Now.Add(time.Hour)
	ctx.Promo.StartsAt = &future

	_, reason := ValidatePromo(ctx)
	assert.Equal(t, PromoReasonNotStarted, reason)
}

func TestValidatePromoExpired(t *testing.T) {
	ctx := validPromoContext()
	past := ctx.Now.Add(-time.Hour)
	ctx.Promo.EndsAt = &past

	_, reason := ValidatePromo(ctx)
	assert.Equal(t, PromoReasonExpired, reason)
}

func TestValidatePromoNotApplicableToBasket(t *testing.T) {
	ctx := validPromoContext()
	ctx.Promo.CourseID = uintPtr(99)

	_, reason := ValidatePromo(ctx)
	assert.Equal(t, PromoReasonNotApplicable, reason)
}

func TestValidatePromoCourseScopeMatchesBasket(t *testing.T) {
	ctx := validPromoContext()
	ctx.Promo.CourseID = uintPtr(2)

	snapshot, reason := ValidatePromo(ctx)
	require.NotNil(t, snapshot)
	assert.Empty(t, reason)
	require.NotNil(t, snapshot.CourseID)
	assert.Equal(t, uint(2), *snapshot.CourseID)
}

func TestValidatePromoAllowList(t *testing.T) {
	ctx := validPromoContext()
	ctx.AllowedUserIDs = []uint{1, 2, 3}

	_, reason := ValidatePromo(ctx)
	assert.Equal(t, PromoReasonNotAllowed, reason)

	ctx.AllowedUserIDs = []uint{1, 7}
	snapshot, reason := ValidatePromo(ctx)
	assert.NotNil(t, snapshot)
	assert.Empty(t, reason)
}

func TestValidatePromoMaxedOut(t *testing.T) {
	ctx := validPromoContext()
	ctx.Promo.MaxRedemptions = intPtr(1)
	ctx.TotalRedemptions = 1

	_, reason := ValidatePromo(ctx)
	assert.Equal(t, PromoReasonMaxedOut, reason)
}

func TestValidatePromoUserLimit(t *testing.T) {
	ctx := validPromoContext()
	ctx.Promo.PerUserLimit = intPtr(1)
	ctx.UserRedemptions = 1

	_, reason := ValidatePromo(ctx)
	assert.Equal(t, PromoReasonUserLimit, reason)
}

// A code that is both expired and off the allow-list must report expired:
// the sequence runs in declaration order and stops at the first failure.
func TestValidatePromoFirstFailureWins(t *testing.T) {
	ctx := validPromoContext()
	past := ctx.Now.Add(-time.Hour)
	ctx.Promo.EndsAt = &past
	ctx.AllowedUserIDs = []uint{999}

	_, reason := ValidatePromo(ctx)
	assert.Equal(t, PromoReasonExpired, reason)
}

func TestValidatePromoSnapshotCopiesCourseID(t *testing.T) {
	ctx := validPromoContext()
	ctx.Promo.CourseID = uintPtr(1)

	snapshot, _ := ValidatePromo(ctx)
	require.NotNil(t, snapshot)

	*ctx.Promo.CourseID = 42
	assert.Equal(t, uint(1), *snapshot.CourseID)
}
