package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/config"
	appHTTP "github.com/sahl-hr/attendance-backend-go/internal/handler/http"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/cache"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/cron"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/email"
	"github.com/sahl-hr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/sahl-hr/attendance-backend-go/internal/service/attendance"
	catalogService "github.com/sahl-hr/attendance-backend-go/internal/service/catalog"
	leaveService "github.com/sahl-hr/attendance-backend-go/internal/service/leave"
	metricsService "github.com/sahl-hr/attendance-backend-go/internal/service/metrics"
	notificationService "github.com/sahl-hr/attendance-backend-go/internal/service/notification"
	shiftService "github.com/sahl-hr/attendance-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	}))
	slog.SetDefault(logger)
	loc := cfg.Location()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logRepo := postgresql.NewLogRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	ramadanRepo := postgresql.NewRamadanPeriodRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	balanceRepo := postgresql.NewLeaveBalanceRepository(db)
	beginningRepo := postgresql.NewBeginningBalanceRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	assignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	dateSpecificRepo := postgresql.NewDateSpecificShiftRepository(db)
	overrideRepo := postgresql.NewDateSpecificShiftOverrideRepository(db)

	store := cache.NewMemoryStore()
	invalidator := cache.NewInvalidator(store, 256, logger)
	invalidator.Start()
	defer invalidator.Stop()

	resolver := shiftService.NewResolver(
		shiftRepo, assignmentRepo, dateSpecificRepo, overrideRepo,
		ramadanRepo, employeeRepo, store, cfg)
	shiftSvc := shiftService.NewShiftService(
		db, shiftRepo, assignmentRepo, dateSpecificRepo, overrideRepo,
		employeeRepo, invalidator, logger)
	attendanceSvc := attendanceService.NewAttendanceService(
		logRepo, punchRepo, employeeRepo, holidayRepo, ramadanRepo,
		leaveRepo, resolver, cfg, logger)
	leaveSvc, err := leaveService.NewLeaveService(
		db, leaveTypeRepo, leaveRepo, balanceRepo, beginningRepo,
		employeeRepo, holidayRepo, logRepo, attendanceSvc, cfg, logger)
	if err != nil {
		logger.Error("Leave service initialization failed", "error", err)
		os.Exit(1)
	}
	catalogSvc := catalogService.NewCatalogService(
		db, leaveTypeRepo, balanceRepo, employeeRepo, holidayRepo,
		ramadanRepo, shiftRepo, assignmentRepo, logRepo, invalidator, loc, logger)
	metricsSvc := metricsService.NewMetricsService(logRepo, store, cfg)
	notificationSvc := notificationService.NewNotificationService(
		notificationRepo, assignmentRepo, ramadanRepo, employeeRepo,
		resolver, email.NewSender(cfg.SMTP), cfg, logger)

	scheduler := cron.NewScheduler(db)
	cron.NewAttendanceJobs(assignmentRepo, shiftSvc, metricsSvc, loc).RegisterJobs(scheduler)
	cron.NewLeaveJobs(leaveSvc, catalogSvc, leaveRepo, logRepo, punchRepo,
		cfg.Retention.ArchiveAfterDays, loc).RegisterJobs(scheduler)
	cron.NewNotificationJobs(notificationSvc, notificationSvc, ramadanRepo,
		employeeRepo, invalidator, loc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg,
		appHTTP.NewAttendanceHandler(attendanceSvc, metricsSvc, loc),
		appHTTP.NewLeaveHandler(leaveSvc, loc),
		appHTTP.NewShiftHandler(shiftSvc, resolver, loc),
		appHTTP.NewCatalogHandler(catalogSvc, loc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
