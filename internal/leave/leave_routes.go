package leave

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/blaze-nyan/brillar-lms/internal/middleware"
	"github.com/blaze-nyan/brillar-lms/internal/session"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, manager *session.Manager, rdb *redis.Client) {
	leaves := r.Group("/leave")

	employee := leaves.Group("")
	employee.Use(middleware.RequireEmployee(manager))
	{
		employee.GET("/balance", h.GetBalance)
		employee.POST("/request", middleware.Idempotency(rdb), h.RequestLeave)
		employee.GET("/history", h.GetHistory)
		employee.POST("/cancel/:requestId", h.CancelRequest)
	}

	admin := leaves.Group("")
	admin.Use(middleware.RequireAdmin(manager))
	{
		admin.GET("/admin/all", h.GetAllBalances)
		admin.PUT("/admin/:userId/reset", h.ResetBalance)
		admin.PATCH("/admin/:userId/adjust", h.AdjustBalance)
		admin.GET("/statistics", h.GetStatistics)
	}
}
