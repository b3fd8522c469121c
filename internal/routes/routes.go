package routes

import (
	"github.com/gin-gonic/gin"

	"student-sync-backend/internal/app"
	handler "student-sync-backend/internal/handlers"
)

func RegisterRoutes(r *gin.Engine, services *app.Services) {
	syncHandler := handler.NewSyncHandler(services.Sync)
	studentHandler := handler.NewStudentHandler(services.Duplicates)
	paymentHandler := handler.NewPaymentHandler(services.Payments)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Sync runs
	runs := api.Group("/sync/runs")
	runs.POST("", syncHandler.StartRun)
	runs.GET("/:runId", syncHandler.GetRun)

	// Student directory maintenance
	students := api.Group("/students")
	students.GET("/duplicates", studentHandler.ListDuplicates)
	students.POST("/duplicates/resolve", studentHandler.ResolveDuplicates)
	students.POST("/batch-delete", studentHandler.BatchDelete)

	payments := api.Group("/payments")
	{
		payments.POST("/update", paymentHandler.Update)
	}
}
