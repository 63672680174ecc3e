package app

import (
	"database/sql"

	"go-attendance/internal/attendance"
	"go-attendance/internal/auth"
	"go-attendance/internal/employee"
	"go-attendance/internal/holiday"
	"go-attendance/internal/leave"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/middleware"
	"go-attendance/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	emitter := notify.NewOutboxEmitter(outboxRepo)

	// --- Services ---
	authService := auth.NewService(employeeRepo)
	employeeService := employee.NewService(db, employeeRepo, rdb)
	holidayService := holiday.NewService(db, holidayRepo, emitter)
	attendanceService := attendance.NewService(
		db,
		attendanceRepo,
		employeeRepo,
		holiday.NewLookup(holidayRepo),
		leave.NewLookup(leaveRepo),
		emitter,
	)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, attendanceRepo, emitter)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	holidayHandler := holiday.NewHandler(holidayService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaveHandler := leave.NewHandler(leaveService)

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler)
		holiday.RegisterRoutes(api, holidayHandler)
		attendance.RegisterRoutes(api, attendanceHandler)
		leave.RegisterRoutes(api, leaveHandler, middleware.Idempotency(rdb))
	}

	return nil
}
