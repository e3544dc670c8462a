package app

import (
	"go-emp-mgmt/internal/attendance"
	"go-emp-mgmt/internal/config"
	"go-emp-mgmt/internal/employee"
	"go-emp-mgmt/internal/messaging/kafka"
	"go-emp-mgmt/internal/middleware"
	"go-emp-mgmt/internal/summary"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type moduleDeps struct {
	store     *recordStore
	rdb       *redis.Client
	locker    *redislock.Client
	publisher kafka.Publisher
	logger    *zap.Logger
}

func registerModules(router *gin.Engine, cfg config.Config, deps moduleDeps) {
	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(deps.logger),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	)

	// --- Services ---
	summaryService := summary.NewService(
		deps.store.attendance,
		deps.store.employees,
		deps.rdb,
		deps.locker,
		cfg.SummaryCacheTTL,
		deps.logger,
	)
	employeeService := employee.NewService(
		deps.store.sqlDB,
		deps.store.employees,
		deps.publisher,
		deps.rdb,
		summaryService,
		deps.logger,
	)
	attendanceService := attendance.NewService(
		deps.store.sqlDB,
		deps.store.attendance,
		deps.publisher,
		summaryService,
		deps.logger,
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, deps.logger)
	attendanceHandler := attendance.NewHandler(attendanceService, deps.logger)
	summaryHandler := summary.NewHandler(summaryService, deps.logger)

	// --- Routes ---
	employee.RegisterRoutes(router, employeeHandler)
	attendance.RegisterRoutes(router, attendanceHandler)
	summary.RegisterRoutes(router, summaryHandler)
}
