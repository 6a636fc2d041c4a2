package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/controllers"
	"github.com/iscedcs/palmtechniq/middleware"
)

// initTutorRoutes wires the tutor console API
func initTutorRoutes(api *gin.RouterGroup) {
	tutor := api.Group("/tutor")
	tutor.Use(middleware.AuthMiddleware(), middleware.TutorMiddleware())
	{
		tutor.GET("/courses", controllers.ListTutorCourses)
		tutor.POST("/courses", controllers.CreateCourse)
		tutor.PUT("/courses/:id", controllers.UpdateCourse)
		tutor.PATCH("/courses/:id/publish", controllers.PublishCourse)
		tutor.POST("/courses/:id/lessons", controllers.AddLesson)
		tutor.DELETE("/courses/:id/lessons/:lessonId", controllers.DeleteLesson)

		tutor.GET("/promos", controllers.ListTutorPromos)
		tutor.POST("/promos", controllers.CreateTutorPromo)
		tutor.PATCH("/promos/:id/deactivate", controllers.DeactivateTutorPromo)

		tutor.GET("/wallet", controllers.GetWalletBalance)
		tutor.GET("/wallet/transactions", controllers.ListWalletTransactions)

		tutor.POST("/withdrawals", controllers.RequestWithdrawal)
		tutor.GET("/withdrawals", controllers.ListMyWithdrawals)

		tutor.POST("/mentorships/:id/confirm", controllers.ConfirmMentorship)
		tutor.POST("/mentorships/:id/complete", controllers.CompleteMentorship)
	}
}
