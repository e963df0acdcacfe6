package employee

import (
	"github.com/gin-gonic/gin"

	"github.com/blaze-nyan/brillar-lms/internal/middleware"
	"github.com/blaze-nyan/brillar-lms/internal/session"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, manager *session.Manager) {
	employees := r.Group("/employees")

	// The supervisor list backs the public registration form.
	employees.GET("/supervisors", h.GetSupervisors)

	admin := employees.Group("")
	admin.Use(middleware.RequireAdmin(manager))
	{
		admin.GET("", h.GetAll)
		admin.GET("/:id", h.GetByID)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
