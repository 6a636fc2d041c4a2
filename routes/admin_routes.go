package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/controllers"
	"github.com/iscedcs/palmtechniq/middleware"
)

// initAdminRoutes wires the admin console API
func initAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin")
	{
		admin.POST("/login", controllers.AdminLogin)

		protected := admin.Group("")
		protected.Use(middleware.AdminAuthMiddleware())
		{
			protected.POST("/logout", controllers.AdminLogout)

			protected.GET("/users", controllers.GetUsers)
			protected.POST("/users/:id/block", controllers.BlockUser)
			protected.POST("/users/:id/unblock", controllers.UnblockUser)

			protected.POST("/categories", controllers.CreateCategory)
			protected.POST("/categories/:id/block", controllers.BlockCategory)
			protected.POST("/categories/:id/unblock", controllers.UnblockCategory)

			protected.GET("/promos", controllers.ListPromoCodes)
			protected.POST("/promos", controllers.CreatePromoCode)
			protected.PUT("/promos/:id", controllers.UpdatePromoCode)
			protected.DELETE("/promos/:id", controllers.DeletePromoCode)

			protected.GET("/withdrawals", controllers.ListWithdrawalRequests)
			protected.POST("/withdrawals/:id/approve", controllers.ApproveWithdrawal)
			protected.POST("/withdrawals/:id/reject", controllers.RejectWithdrawal)

			protected.GET("/tutor-applications", controllers.ListTutorApplications)
			protected.POST("/tutor-applications/:id/approve", controllers.ReviewTutorApplication(true))
			protected.POST("/tutor-applications/:id/reject", controllers.ReviewTutorApplication(false))

			protected.GET("/payments", controllers.ListPayments)
			protected.GET("/reports/settlements", controllers.DownloadSettlementReportExcel)
		}
	}
}
