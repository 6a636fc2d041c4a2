package routes

import (
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/controllers"
	"github.com/iscedcs/palmtechniq/utils"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "palmtechniq-dev-secret"
	}
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24,
		Path:     "/",
		Secure:   os.Getenv("GIN_MODE") == "release",
		HttpOnly: true,
	})
	router.Use(sessions.Sessions("palmtechniq", store))

	// Gateway callbacks live outside the versioned API; the gateway signs the
	// body instead of carrying a bearer token.
	router.POST("/webhooks/paystack", controllers.PaystackWebhook)

	api := router.Group("/v1")
	{
		initUserRoutes(api)
		initTutorRoutes(api)
		initAdminRoutes(api)
	}

	return router
}
