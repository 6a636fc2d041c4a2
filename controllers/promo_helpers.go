package controllers

import (
	"time"

	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
	"gorm.io/gorm"
)

// resolvePromo normalizes, loads and validates a promo code for a user and
// course set. It returns the immutable snapshot on success, or the reason tag
// of the first failing check. A non-nil error is an internal failure, not a
// validation outcome.
func resolvePromo(code string, userID uint, courseIDs []uint) (*utils.PromoSnapshot, string, error) {
	normalized := utils.NormalizePromoCode(code)
	if normalized == "" {
		return nil, utils.PromoReasonInvalidCode, nil
	}
	if err := utils.ValidatePromoCodeFormat(normalized); err != nil {
		return nil, utils.PromoReasonInvalidCode, nil
	}

	var promo models.PromoCode
	err := config.DB.Preload("AllowedUsers").
		Where("LOWER(code) = LOWER(?)", normalized).
		First(&promo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// An unknown code and a disabled one are indistinguishable to
			// the caller.
			return nil, utils.PromoReasonInactive, nil
		}
		return nil, "", err
	}

	var totalRedemptions int64
	if err := config.DB.Model(&models.PromoRedemption{}).
		Where("promo_code_id = ?", promo.ID).
		Count(&totalRedemptions).Error; err != nil {
		return nil, "", err
	}

	var userRedemptions int64
	if err := config.DB.Model(&models.PromoRedemption{}).
		Where("promo_code_id = ? AND user_id = ?", promo.ID, userID).
		Count(&userRedemptions).Error; err != nil {
		return nil, "", err
	}

	allowedIDs := make([]uint, 0, len(promo.AllowedUsers))
	for _, entry := range promo.AllowedUsers {
		allowedIDs = append(allowedIDs, entry.UserID)
	}

	snapshot, reason := utils.ValidatePromo(&utils.PromoCheckContext{
		Promo:            &promo,
		UserID:           userID,
		CourseIDs:        courseIDs,
		AllowedUserIDs:   allowedIDs,
		TotalRedemptions: totalRedemptions,
		UserRedemptions:  userRedemptions,
		Now:              time.Now(),
	})
	if reason != "" {
		return nil, reason, nil
	}
	return snapshot, "", nil
}

// loadedCourseIDs extracts the ids of the courses a basket query returned.
func loadedCourseIDs(courses []models.Course) []uint {
	ids := make([]uint, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
	}
	return ids
}

// checkoutLinesForCourses loads purchasable courses and converts them to
// pricing input. Courses the user already owns are rejected by the caller.
func checkoutLinesForCourses(courseIDs []uint) ([]models.Course, []utils.CheckoutLine, error) {
	var courses []models.Course
	if err := config.DB.Where("id IN ? AND is_published = ?", courseIDs, true).Find(&courses).Error; err != nil {
		return nil, nil, err
	}

	lines := make([]utils.CheckoutLine, 0, len(courses))
	for _, course := range courses {
		lines = append(lines, utils.CheckoutLine{
			CourseID:  course.ID,
			TutorID:   course.TutorID,
			BasePrice: course.BasePrice,
			SalePrice: course.SalePrice,
		})
	}
	return courses, lines, nil
}
