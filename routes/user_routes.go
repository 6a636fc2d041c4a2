package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/controllers"
	"github.com/iscedcs/palmtechniq/middleware"
)

// initUserRoutes wires the public catalog and the student-facing API
func initUserRoutes(api *gin.RouterGroup) {
	// Public catalog
	api.GET("/courses", controllers.ListCourses)
	api.GET("/courses/:slug", controllers.GetCourseDetails)
	api.GET("/categories", controllers.ListCategories)

	user := api.Group("/user")
	{
		user.POST("/register", controllers.RegisterUser)
		user.POST("/login", controllers.LoginUser)
		user.GET("/auth/google", controllers.GoogleLogin)
		user.GET("/auth/google/callback", controllers.GoogleCallback)

		authenticated := user.Group("")
		authenticated.Use(middleware.AuthMiddleware())
		{
			authenticated.POST("/logout", controllers.LogoutUser)

			authenticated.POST("/promos/validate", controllers.ValidatePromoCode)
			authenticated.POST("/checkout/initiate", controllers.InitiateCheckout)
			authenticated.POST("/checkout/finalize", controllers.FinalizeCheckout)
			authenticated.GET("/payments/:reference/receipt", controllers.DownloadReceipt)

			authenticated.GET("/enrollments", controllers.ListMyEnrollments)
			authenticated.GET("/enrollments/:courseId/content", controllers.GetCourseContent)
			authenticated.PATCH("/enrollments/:courseId/progress", controllers.UpdateEnrollmentProgress)

			authenticated.POST("/mentorships", controllers.BookMentorship)
			authenticated.GET("/mentorships", controllers.ListMyMentorships)
			authenticated.POST("/mentorships/:id/cancel", controllers.CancelMentorship)

			authenticated.POST("/tutor-application", controllers.ApplyAsTutor)
			authenticated.GET("/tutor-application", controllers.GetMyTutorApplication)
		}
	}
}
