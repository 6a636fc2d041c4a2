package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promoRouter mounts the validate endpoint behind a stub that injects the
// given user the way the auth middleware would.
func promoRouter(user models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("palmtechniq", cookie.NewStore([]byte("test-secret"))))
	router.Use(func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	})
	router.POST("/promos/validate", ValidatePromoCode)
	return router
}

func postPromoValidate(t *testing.T, router *gin.Engine, code string, courseIDs []uint) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(gin.H{"code": code, "course_ids": courseIDs})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/promos/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestValidatePromoScopedToUnknownCourseIsNotApplicable(t *testing.T) {
	db := openTestDB(t)

	user := models.User{Username: "student", Email: "student@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	tutor := models.User{Username: "scope-tutor", Email: "scope-tutor@example.com", Password: "x", IsTutor: true}
	require.NoError(t, db.Create(&tutor).Error)
	course := models.Course{Title: "Real Course", Slug: "real-course", TutorID: tutor.ID, BasePrice: 100, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	// Scoped to a course id that matches nothing purchasable.
	ghostID := course.ID + 999
	promo := models.PromoCode{
		Code:         "GHOST10",
		Type:         models.PromoTypePlatform,
		DiscountType: models.DiscountTypePercentage,
		Value:        10,
		CourseID:     &ghostID,
		Active:       true,
	}
	require.NoError(t, db.Create(&promo).Error)

	// Listing the ghost id in the basket must not satisfy the scope check.
	w := postPromoValidate(t, promoRouter(user), "GHOST10", []uint{course.ID, ghostID})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "not_applicable")
}

func TestValidatePromoScopedToLoadedCourseApplies(t *testing.T) {
	db := openTestDB(t)

	user := models.User{Username: "student2", Email: "student2@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	tutor := models.User{Username: "scope-tutor2", Email: "scope-tutor2@example.com", Password: "x", IsTutor: true}
	require.NoError(t, db.Create(&tutor).Error)
	course := models.Course{Title: "Applied Course", Slug: "applied-course", TutorID: tutor.ID, BasePrice: 100, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	courseID := course.ID
	promo := models.PromoCode{
		Code:         "REAL10",
		Type:         models.PromoTypePlatform,
		DiscountType: models.DiscountTypePercentage,
		Value:        10,
		CourseID:     &courseID,
		Active:       true,
	}
	require.NoError(t, db.Create(&promo).Error)

	// Unknown ids in the basket are ignored, not fatal, as long as
	// something purchasable loaded.
	w := postPromoValidate(t, promoRouter(user), "REAL10", []uint{course.ID, course.ID + 999})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"discount":"10.00"`)
}
