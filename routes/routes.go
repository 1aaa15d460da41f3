package routes

import (
	"admission-portal-api/controllers"
	"admission-portal-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Payment provider callback (authenticated by HMAC signature,
			// not by a session)
			public.POST("/payments/webhook", controllers.PaystackWebhook)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Admission Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)

			// Application wizard
			application := protected.Group("/application")
			{
				application.GET("", controllers.GetApplication)
				application.POST("/steps/:step", controllers.SaveStep)
				application.POST("/finalize", controllers.FinalizeApplication)
				application.POST("/passport", controllers.UploadPassport)
			}

			// Payments
			protected.POST("/payments/initiate", controllers.InitiatePayment)

			// Admissions office
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole("admin"))
			{
				admin.GET("/applications", controllers.ListApplications)
			}
		}
	}
}
