package utils

import (
	"strings"
	"time"

	"github.com/iscedcs/palmtechniq/models"
)

// Promo validation failure reasons, surfaced verbatim to the client so the UI
// can show targeted messaging.
const (
	PromoReasonInvalidCode   = "invalid_code"
	PromoReasonInactive      = "inactive"
	PromoReasonNotStarted    = "not_started"
	PromoReasonExpired       = "expired"
	PromoReasonNotApplicable = "not_applicable"
	PromoReasonNotAllowed    = "not_allowed"
	PromoReasonMaxedOut      = "maxed_out"
	PromoReasonUserLimit     = "user_limit"
)

// PromoSnapshot is the immutable view of a promo handed back on successful
// validation. It deliberately excludes the allow-list and redemption counts so
// callers cannot act on stale mutable state.
type PromoSnapshot struct {
	ID           uint    `json:"id"`
	Code         string  `json:"code"`
	Type         string  `json:"type"`
	DiscountType string  `json:"discount_type"`
	Value        float64 `json:"value"`
	CourseID     *uint   `json:"course_id,omitempty"`
	CreatedBy    uint    `json:"-"`
}

// PromoCheckContext carries everything the validator needs, pre-loaded by the
// caller, so the check sequence itself touches no storage.
type PromoCheckContext struct {
	// Promo is nil when the code lookup found nothing.
	Promo            *models.PromoCode
	UserID           uint
	CourseIDs        []uint
	AllowedUserIDs   []uint
	TotalRedemptions int64
	UserRedemptions  int64
	Now              time.Time
}

// promoCheck is one named predicate in the validation sequence. The reason of
// the first check that fails is what the caller surfaces.
type promoCheck struct {
	reason string
	failed func(*PromoCheckContext) bool
}

// promoChecks run in order; the order is a contract, not an accident.
var promoChecks = []promoCheck{
	{PromoReasonInactive, func(ctx *PromoCheckContext) bool {
		return ctx.Promo == nil || !ctx.Promo.Active
	}},
	{PromoReasonNotStarted, func(ctx *PromoCheckContext) bool {
		return ctx.Promo.StartsAt != nil && ctx.Now.Before(*ctx.Promo.StartsAt)
	}},
	{PromoReasonExpired, func(ctx *PromoCheckContext) bool {
		return ctx.Promo.EndsAt != nil && ctx.Now.After(*ctx.Promo.EndsAt)
	}},
	{PromoReasonNotApplicable, func(ctx *PromoCheckContext) bool {
		if ctx.Promo.CourseID == nil {
			return false
		}
		for _, id := range ctx.CourseIDs {
			if id == *ctx.Promo.CourseID {
				return false
			}
		}
		return true
	}},
	{PromoReasonNotAllowed, func(ctx *PromoCheckContext) bool {
		if len(ctx.AllowedUserIDs) == 0 {
			return false
		}
		for _, id := range ctx.AllowedUserIDs {
			if id == ctx.UserID {
				return false
			}
		}
		return true
	}},
	{PromoReasonMaxedOut, func(ctx *PromoCheckContext) bool {
		return ctx.Promo.MaxRedemptions != nil && ctx.TotalRedemptions >= int64(*ctx.Promo.MaxRedemptions)
	}},
	{PromoReasonUserLimit, func(ctx *PromoCheckContext) bool {
		return ctx.Promo.PerUserLimit != nil && ctx.UserRedemptions >= int64(*ctx.Promo.PerUserLimit)
	}},
}

// NormalizePromoCode trims and uppercases a user-supplied code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidatePromo runs the ordered check sequence and returns either an
// immutable snapshot of the promo or the reason of the first failing check.
func ValidatePromo(ctx *PromoCheckContext) (*PromoSnapshot, string) {
	for _, check := range promoChecks {
		if check.failed(ctx) {
			return nil, check.reason
		}
	}

	snapshot := &PromoSnapshot{
		ID:           ctx.Promo.ID,
		Code:         ctx.Promo.Code,
		Type:         ctx.Promo.Type,
		DiscountType: ctx.Promo.DiscountType,
		Value:        ctx.Promo.Value,
		CreatedBy:    ctx.Promo.CreatedBy,
	}
	if ctx.Promo.CourseID != nil {
		courseID := *ctx.Promo.CourseID
		snapshot.CourseID = &courseID
	}
	return snapshot, ""
}
