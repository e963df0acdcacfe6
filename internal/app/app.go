package app

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/blaze-nyan/brillar-lms/internal/auth"
	"github.com/blaze-nyan/brillar-lms/internal/employee"
	"github.com/blaze-nyan/brillar-lms/internal/leave"
	"github.com/blaze-nyan/brillar-lms/internal/middleware"
	"github.com/blaze-nyan/brillar-lms/internal/session"
	"github.com/blaze-nyan/brillar-lms/internal/shared/connection"
)

const outboxDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id TEXT,
	aggregate_type TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	topic TEXT NOT NULL,
	payload JSONB NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	error_message TEXT,
	next_retry_at TIMESTAMPTZ,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_status ON outbox_events (status, next_retry_at);
`

// BuildApp connects the infrastructure, runs migrations and the admin
// bootstrap, and registers all routes on the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	manager := session.NewManager(session.ConfigFromEnv())

	router.Use(middleware.ContextLogger(zap.L()))

	return registerModules(router, sqlDB, gormDB, redisClient, manager)
}

func migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&employee.Employee{},
		&auth.Admin{},
		&session.RefreshToken{},
		&leave.LeaveBalance{},
		&leave.LeaveRequest{},
	); err != nil {
		return err
	}
	// The outbox table is written with raw SQL, so its DDL lives here too.
	return gormDB.Exec(outboxDDL).Error
}
