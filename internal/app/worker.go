package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-attendance/internal/attendance"
	"go-attendance/internal/employee"
	"go-attendance/internal/holiday"
	"go-attendance/internal/leave"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/messaging/kafka/producer"
	"go-attendance/internal/notify"
	"go-attendance/internal/shared/connection"
	"go-attendance/internal/shared/dateutil"

	"go.uber.org/zap"
)

// RunWorker hosts the two background loops: the outbox relay that ships
// queued notifications to the broker, and the daily reconciliation pass
// that closes the attendance ledger for the previous day.
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
	emitter := notify.NewOutboxEmitter(outboxRepo)

	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)

	attendanceService := attendance.NewService(
		sqlDB,
		attendanceRepo,
		employeeRepo,
		holiday.NewLookup(holidayRepo),
		leave.NewLookup(leaveRepo),
		emitter,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go runReconcileLoop(ctx, attendanceService, logger, reconcileInterval())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func reconcileInterval() time.Duration {
	if v := os.Getenv("RECONCILE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 24 * time.Hour
}

// runReconcileLoop settles the previous calendar day on every tick. The
// pass is idempotent, so a shorter interval only means the ledger closes
// sooner after midnight, never double-booking.
func runReconcileLoop(
	ctx context.Context,
	svc attendance.Service,
	logger *zap.Logger,
	interval time.Duration,
) {
	log := logger.Named("reconcile.worker")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("reconcile worker started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("reconcile worker stopped")
			return
		case <-ticker.C:
			target := dateutil.Today().AddDate(0, 0, -1)
			if _, err := svc.ReconcileDate(ctx, target); err != nil {
				log.Error("reconcile pass failed",
					zap.String("date", dateutil.Format(target)),
					zap.Error(err),
				)
			}
		}
	}
}
