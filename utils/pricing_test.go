package utils

import (
	"testing"

	"github.com/iscedcs/palmtechniq/models"
	"github.com/stretchr/testify/assert"
)

func TestCurrentPriceUsesSalePriceWhenLower(t *testing.T) {
	line := CheckoutLine{CourseID: 1, BasePrice: 100, SalePrice: 60}
	assert.Equal(t, 60.0, line.CurrentPrice())

	noSale := CheckoutLine{CourseID: 2, BasePrice: 100}
	assert.Equal(t, 100.0, noSale.CurrentPrice())

	badSale := CheckoutLine{CourseID: 3, BasePrice: 100, SalePrice: 150}
	assert.Equal(t, 100.0, badSale.CurrentPrice())
}

func TestCalculateCheckoutTotalsNoPromo(t *testing.T) {
	lines := []CheckoutLine{
		{CourseID: 1, TutorID: 10, BasePrice: 40},
		{CourseID: 2, TutorID: 11, BasePrice: 80, SalePrice: 60},
	}

	totals := CalculateCheckoutTotals(lines, nil, 0.075)

	assert.Equal(t, 100.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Discount)
	assert.Equal(t, 7.5, totals.VAT)
	assert.Equal(t, 107.5, totals.Total)
	assert.Len(t, totals.Lines, 2)
	assert.Equal(t, 60.0, totals.Lines[1].FinalPrice)
}

func TestCalculateCheckoutTotalsPercentagePromo(t *testing.T) {
	lines := []CheckoutLine{
		{CourseID: 1, TutorID: 10, BasePrice: 100},
	}
	promo := &PromoSnapshot{
		Code:         "SAVE20",
		Type:         models.PromoTypePlatform,
		DiscountType: models.DiscountTypePercentage,
		Value:        20,
	}

	totals := CalculateCheckoutTotals(lines, promo, 0.075)

	assert.Equal(t, 80.0, totals.Subtotal)
	assert.Equal(t, 20.0, totals.Discount)
	assert.Equal(t, 6.0, totals.VAT)
	assert.Equal(t, 86.0, totals.Total)
}

func TestCalculateCheckoutTotalsFixedPromoClampsAtZero(t *testing.T) {
	lines := []CheckoutLine{
		{CourseID: 1, TutorID: 10, BasePrice: 30},
	}
	promo := &PromoSnapshot{
		Code:         "BIGFIXED",
		Type:         models.PromoTypePlatform,
		DiscountType: models.DiscountTypeFixed,
		Value:        50,
	}

	totals := CalculateCheckoutTotals(lines, promo, 0.075)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 30.0, totals.Discount)
	assert.Equal(t, 0.0, totals.VAT)
	assert.Equal(t, 0.0, totals.Total)
}

func TestInstructorPromoOnlyDiscountsOwnCourses(t *testing.T) {
	lines := []CheckoutLine{
		{CourseID: 1, TutorID: 10, BasePrice: 100},
		{CourseID: 2, TutorID: 99, BasePrice: 100},
	}
	promo := &PromoSnapshot{
		Code:         "MYCLASS",
		Type:         models.PromoTypeInstructor,
		DiscountType: models.DiscountTypePercentage,
		Value:        50,
		CreatedBy:    10,
	}

	totals := CalculateCheckoutTotals(lines, promo, 0)

	assert.Equal(t, 50.0, totals.Lines[0].FinalPrice)
	assert.Equal(t, 100.0, totals.Lines[1].FinalPrice)
	assert.Equal(t, 150.0, totals.Subtotal)
	assert.Equal(t, 50.0, totals.Discount)
}

func TestCourseScopedPromoOnlyDiscountsItsCourse(t *testing.T) {
	courseID := uint(2)
	lines := []CheckoutLine{
		{CourseID: 1, TutorID: 10, BasePrice: 40},
		{CourseID: 2, TutorID: 10, BasePrice: 40},
	}
	promo := &PromoSnapshot{
		Code:         "ONECOURSE",
		Type:         models.PromoTypePlatform,
		DiscountType: models.DiscountTypeFixed,
		Value:        10,
		CourseID:     &courseID,
	}

	totals := CalculateCheckoutTotals(lines, promo, 0)

	assert.Equal(t, 40.0, totals.Lines[0].FinalPrice)
	assert.Equal(t, 30.0, totals.Lines[1].FinalPrice)
	assert.Equal(t, 10.0, totals.Discount)
}

func TestCalculateCheckoutTotalsRoundsToCents(t *testing.T) {
	lines := []CheckoutLine{
		{CourseID: 1, TutorID: 10, BasePrice: 33.33},
	}
	promo := &PromoSnapshot{
		Code:         "THIRD",
		Type:         models.PromoTypePlatform,
		DiscountType: models.DiscountTypePercentage,
		Value:        33,
	}

	totals := CalculateCheckoutTotals(lines, promo, 0.075)

	// 33.33 * 0.67 = 22.3311 -> 22.33
	assert.Equal(t, 22.33, totals.Subtotal)
	assert.Equal(t, 11.0, totals.Discount)
	assert.Equal(t, RoundMoney(22.33*0.075), totals.VAT)
	assert.Equal(t, RoundMoney(totals.Subtotal+totals.VAT), totals.Total)
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 10.56, RoundMoney(10.556))
	assert.Equal(t, 10.55, RoundMoney(10.554))
	assert.Equal(t, 10.0, RoundMoney(10.0001))
	assert.Equal(t, 0.0, RoundMoney(0))
}
