package utils

import (
	"math"

	"github.com/iscedcs/palmtechniq/models"
)

// CheckoutLine is one course in the checkout basket, priced before discount.
type CheckoutLine struct {
	CourseID  uint
	TutorID   uint
	BasePrice float64
	// SalePrice of 0 means the course is not on sale.
	SalePrice float64
}

// CurrentPrice returns the pre-discount price charged for this line.
func (l CheckoutLine) CurrentPrice() float64 {
	if l.SalePrice > 0 && l.SalePrice < l.BasePrice {
		return l.SalePrice
	}
	return l.BasePrice
}

// PricedLine is a checkout line after discount application.
type PricedLine struct {
	CourseID     uint    `json:"course_id"`
	TutorID      uint    `json:"tutor_id"`
	BasePrice    float64 `json:"base_price"`
	CurrentPrice float64 `json:"current_price"`
	Discount     float64 `json:"discount"`
	FinalPrice   float64 `json:"final_price"`
}

// CheckoutTotals is the derived pricing breakdown for a checkout. It is never
// persisted as-is; the payment transaction snapshots it at initiation.
type CheckoutTotals struct {
	Lines    []PricedLine `json:"lines"`
	Subtotal float64      `json:"subtotal"`
	Discount float64      `json:"discount"`
	VAT      float64      `json:"vat"`
	Total    float64      `json:"total"`
}

// RoundMoney rounds to two decimal places
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateCheckoutTotals computes per-course final prices and the grand total
// for a basket, an optional validated promo and a VAT rate. Pure function:
// inputs are never mutated, no I/O.
//
// Percentage promos take value percent off each applicable line, clamped at
// zero. Fixed promos subtract the value from each applicable line, clamped at
// zero. INSTRUCTOR promos apply only to lines taught by the promo's creator;
// a course-scoped promo applies only to its course. VAT is charged on the
// post-discount subtotal.
func CalculateCheckoutTotals(lines []CheckoutLine, promo *PromoSnapshot, vatRate float64) CheckoutTotals {
	totals := CheckoutTotals{Lines: make([]PricedLine, 0, len(lines))}

	for _, line := range lines {
		price := line.CurrentPrice()
		priced := PricedLine{
			CourseID:     line.CourseID,
			TutorID:      line.TutorID,
			BasePrice:    line.BasePrice,
			CurrentPrice: price,
			FinalPrice:   price,
		}

		if promo != nil && promoAppliesToLine(promo, line) {
			var final float64
			switch promo.DiscountType {
			case models.DiscountTypePercentage:
				final = price * (1 - promo.Value/100)
			case models.DiscountTypeFixed:
				final = price - promo.Value
			default:
				final = price
			}
			if final < 0 {
				final = 0
			}
			priced.FinalPrice = RoundMoney(final)
			priced.Discount = RoundMoney(price - priced.FinalPrice)
		}

		totals.Subtotal += priced.FinalPrice
		totals.Discount += priced.Discount
		totals.Lines = append(totals.Lines, priced)
	}

	totals.Subtotal = RoundMoney(totals.Subtotal)
	totals.Discount = RoundMoney(totals.Discount)
	totals.VAT = RoundMoney(totals.Subtotal * vatRate)
	totals.Total = RoundMoney(totals.Subtotal + totals.VAT)
	return totals
}

// promoAppliesToLine reports whether the promo discounts this line. Scope
// narrows first by course, then by tutor for instructor codes.
func promoAppliesToLine(promo *PromoSnapshot, line CheckoutLine) bool {
	if promo.CourseID != nil && *promo.CourseID != line.CourseID {
		return false
	}
	if promo.Type == models.PromoTypeInstructor && promo.CreatedBy != line.TutorID {
		return false
	}
	return true
}
