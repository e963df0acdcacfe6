package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/blaze-nyan/brillar-lms/internal/messaging/kafka"
	"github.com/blaze-nyan/brillar-lms/internal/messaging/kafka/producer"
	"github.com/blaze-nyan/brillar-lms/internal/session"
	"github.com/blaze-nyan/brillar-lms/internal/shared/connection"
)

const tokenSweepInterval = 1 * time.Hour

// RunWorker relays pending outbox events to Kafka and periodically sweeps
// expired refresh tokens. Runs as its own process next to the API server.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

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

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	sessionRepo := session.NewRepository(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)
	go sweepExpiredTokens(ctx, sessionRepo, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func sweepExpiredTokens(ctx context.Context, repo session.Repository, logger *zap.Logger) {
	ticker := time.NewTicker(tokenSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteExpired(ctx, time.Now().UTC())
			if err != nil {
				logger.Error("expired token sweep failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				logger.Info("expired refresh tokens removed", zap.Int64("count", deleted))
			}
		}
	}
}
