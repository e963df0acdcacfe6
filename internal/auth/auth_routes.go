package auth

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/blaze-nyan/brillar-lms/internal/middleware"
	"github.com/blaze-nyan/brillar-lms/internal/session"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, manager *session.Manager) {
	// Credential endpoints get a tighter per-IP budget than the rest of the
	// API to slow down brute forcing.
	loginLimiter := middleware.RateLimitByIP(rate.Limit(1), 5)

	emp := r.Group("/auth/employee")
	{
		emp.POST("/register", loginLimiter, h.Register)
		emp.POST("/login", loginLimiter, h.LoginEmployee)
		emp.POST("/refresh", h.RefreshEmployee)

		authed := emp.Group("")
		authed.Use(middleware.RequireEmployee(manager))
		{
			authed.POST("/logout", h.LogoutEmployee)
			authed.GET("/profile", h.EmployeeProfile)
			authed.PUT("/profile", h.UpdateEmployeeProfile)
		}
	}

	admin := r.Group("/auth/admin")
	{
		admin.POST("/login", loginLimiter, h.LoginAdmin)
		admin.POST("/refresh", h.RefreshAdmin)

		authed := admin.Group("")
		authed.Use(middleware.RequireAdmin(manager))
		{
			authed.POST("/logout", h.LogoutAdmin)
			authed.GET("/profile", h.AdminProfile)
		}
	}
}
