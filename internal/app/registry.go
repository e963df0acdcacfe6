package app

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/blaze-nyan/brillar-lms/internal/auth"
	"github.com/blaze-nyan/brillar-lms/internal/employee"
	"github.com/blaze-nyan/brillar-lms/internal/leave"
	"github.com/blaze-nyan/brillar-lms/internal/messaging/kafka"
	"github.com/blaze-nyan/brillar-lms/internal/session"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	manager *session.Manager,
) error {
	// --- Repositories ---
	sessionRepo := session.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	adminRepo := auth.NewAdminRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	sessionService := session.NewService(db, manager, sessionRepo)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, outboxRepo, rdb)
	employeeService := employee.NewService(db, employeeRepo, leaveService)
	authService := auth.NewService(employeeRepo, employeeService, adminRepo, sessionService, leaveRepo)

	// The admin principal exists before the first request is served.
	if err := authService.EnsureAdmin(context.Background()); err != nil {
		return err
	}

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, manager)
		employee.RegisterRoutes(api, employeeHandler, manager)
		leave.RegisterRoutes(api, leaveHandler, manager, rdb)
	}

	return nil
}
