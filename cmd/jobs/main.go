package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/config"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/cache"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
	"github.com/sahl-hr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/sahl-hr/attendance-backend-go/internal/service/attendance"
	catalogService "github.com/sahl-hr/attendance-backend-go/internal/service/catalog"
	leaveService "github.com/sahl-hr/attendance-backend-go/internal/service/leave"
	shiftService "github.com/sahl-hr/attendance-backend-go/internal/service/shift"
)

const usage = `Usage: jobs <command> [flags]

Commands:
  cleanup_shifts           deactivate long-expired shift assignments
  generate_holidays        materialize recurring holidays for a year
  init_leave_types         seed the canonical leave-type catalog
  init_ramadan_periods     seed the published Ramadan calendar
  recalculate_leave_balance  re-run accrual for a month
  reprocess_attendance     re-derive attendance logs for a date range
  reset_annual_leave       create next year's yearly balances
  year_end_processing      holidays + balance reset + retention archive
`

type app struct {
	cfg *config.Config
	db  *database.DB
	loc *time.Location

	attendanceSvc *attendanceService.AttendanceServiceImpl
	leaveSvc      *leaveService.LeaveServiceImpl
	catalogSvc    *catalogService.CatalogServiceImpl
	shiftSvc      *shiftService.ShiftServiceImpl
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	a, err := newApp(cfg, db, logger)
	if err != nil {
		logger.Error("Initialization failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, db *database.DB, logger *slog.Logger) (*app, error) {
	logRepo := postgresql.NewLogRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	ramadanRepo := postgresql.NewRamadanPeriodRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	balanceRepo := postgresql.NewLeaveBalanceRepository(db)
	beginningRepo := postgresql.NewBeginningBalanceRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	assignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	dateSpecificRepo := postgresql.NewDateSpecificShiftRepository(db)
	overrideRepo := postgresql.NewDateSpecificShiftOverrideRepository(db)

	// One-shot commands: cache stays process-local and invalidations
	// drain on exit.
	store := cache.NewMemoryStore()
	invalidator := cache.NewInvalidator(store, 256, logger)
	invalidator.Start()

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
		return nil, err
	}
	catalogSvc := catalogService.NewCatalogService(
		db, leaveTypeRepo, balanceRepo, employeeRepo, holidayRepo,
		ramadanRepo, shiftRepo, assignmentRepo, logRepo, invalidator, cfg.Location(), logger)

	return &app{
		cfg:           cfg,
		db:            db,
		loc:           cfg.Location(),
		attendanceSvc: attendanceSvc,
		leaveSvc:      leaveSvc,
		catalogSvc:    catalogSvc,
		shiftSvc:      shiftSvc,
	}, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "cleanup_shifts":
		return a.cleanupShifts(ctx, args)
	case "generate_holidays":
		return a.generateHolidays(ctx, args)
	case "init_leave_types":
		return a.initLeaveTypes(ctx, args)
	case "init_ramadan_periods":
		return a.initRamadanPeriods(ctx, args)
	case "recalculate_leave_balance":
		return a.recalculateLeaveBalance(ctx, args)
	case "reprocess_attendance":
		return a.reprocessAttendance(ctx, args)
	case "reset_annual_leave":
		return a.resetAnnualLeave(ctx, args)
	case "year_end_processing":
		return a.yearEndProcessing(ctx, args)
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cleanupShifts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cleanup_shifts", flag.ExitOnError)
	days := fs.Int("days", 30, "deactivate assignments expired at least this many days ago")
	dryRun := fs.Bool("dry-run", false, "report without writing")
	fs.Parse(args)

	cutoff := time.Now().In(a.loc).AddDate(0, 0, -*days)
	expired, err := a.shiftSvc.ShiftAssignmentRepository.ListExpired(ctx, cutoff)
	if err != nil {
		return err
	}
	deactivated := 0
	for _, assignment := range expired {
		if !*dryRun {
			if err := a.shiftSvc.EndAssignment(ctx, assignment.ID); err != nil {
				return err
			}
		}
		deactivated++
	}
	fmt.Printf("cleanup_shifts: deactivated=%d dry_run=%v\n", deactivated, *dryRun)
	return nil
}

func (a *app) generateHolidays(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate_holidays", flag.ExitOnError)
	year := fs.Int("year", time.Now().In(a.loc).Year(), "target year")
	dryRun := fs.Bool("dry-run", false, "report without writing")
	fs.Parse(args)

	created, err := a.catalogSvc.GenerateRecurringHolidays(ctx, *year, *dryRun)
	if err != nil {
		return err
	}
	fmt.Printf("generate_holidays: year=%d created=%d dry_run=%v\n", *year, created, *dryRun)
	return nil
}

func (a *app) initLeaveTypes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init_leave_types", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "report without writing")
	fs.Parse(args)

	created, err := a.catalogSvc.InitLeaveTypes(ctx, *dryRun)
	if err != nil {
		return err
	}
	fmt.Printf("init_leave_types: created=%d dry_run=%v\n", created, *dryRun)
	return nil
}

func (a *app) initRamadanPeriods(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init_ramadan_periods", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "report without writing")
	fs.Parse(args)

	created, err := a.catalogSvc.InitRamadanPeriods(ctx, *dryRun)
	if err != nil {
		return err
	}
	fmt.Printf("init_ramadan_periods: created=%d dry_run=%v\n", created, *dryRun)
	return nil
}

func (a *app) recalculateLeaveBalance(ctx context.Context, args []string) error {
	now := time.Now().In(a.loc)
	fs := flag.NewFlagSet("recalculate_leave_balance", flag.ExitOnError)
	year := fs.Int("year", now.Year(), "accrual year")
	month := fs.Int("month", int(now.Month()), "accrual month (1-12)")
	employeeID := fs.String("employee", "", "restrict to one employee id")
	leaveType := fs.String("leave-type", "", "restrict to one leave type code")
	dryRun := fs.Bool("dry-run", false, "report without writing")
	fs.Parse(args)

	if *month < 1 || *month > 12 {
		return fmt.Errorf("month must be within 1-12, got %d", *month)
	}
	start := time.Date(*year, time.Month(*month), 1, 0, 0, 0, 0, a.loc)
	end := start.AddDate(0, 1, -1)

	credited, err := a.leaveSvc.MonthlyAccrual(ctx, start, end, *employeeID, *leaveType, *dryRun)
	if err != nil {
		return err
	}
	fmt.Printf("recalculate_leave_balance: period=%s credited=%d dry_run=%v\n",
		start.Format("2006-01"), credited, *dryRun)
	return nil
}

func (a *app) reprocessAttendance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reprocess_attendance", flag.ExitOnError)
	startStr := fs.String("start", "", "start date YYYY-MM-DD (required)")
	endStr := fs.String("end", "", "end date YYYY-MM-DD (defaults to start)")
	employeeID := fs.String("employee", "", "restrict to one employee id")
	fs.Parse(args)

	if *startStr == "" {
		return fmt.Errorf("-start is required")
	}
	start, err := time.ParseInLocation("2006-01-02", *startStr, a.loc)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	end := start
	if *endStr != "" {
		end, err = time.ParseInLocation("2006-01-02", *endStr, a.loc)
		if err != nil {
			return fmt.Errorf("invalid -end: %w", err)
		}
	}

	if *employeeID != "" {
		err = a.attendanceSvc.RecomputeRange(ctx, *employeeID, start, end)
	} else {
		for d := start; !d.After(end) && err == nil; d = d.AddDate(0, 0, 1) {
			err = a.attendanceSvc.RecomputeDateForAll(ctx, d)
		}
	}
	if err != nil {
		return err
	}
	fmt.Printf("reprocess_attendance: start=%s end=%s employee=%q\n",
		start.Format("2006-01-02"), end.Format("2006-01-02"), *employeeID)
	return nil
}

func (a *app) resetAnnualLeave(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset_annual_leave", flag.ExitOnError)
	year := fs.Int("year", time.Now().In(a.loc).Year()+1, "balance year to create")
	dryRun := fs.Bool("dry-run", false, "report without writing")
	fs.Parse(args)

	created, err := a.leaveSvc.ResetYearlyBalances(ctx, *year, *dryRun)
	if err != nil {
		return err
	}
	fmt.Printf("reset_annual_leave: year=%d created=%d dry_run=%v\n", *year, created, *dryRun)
	return nil
}

func (a *app) yearEndProcessing(ctx context.Context, args []string) error {
	now := time.Now().In(a.loc)
	fs := flag.NewFlagSet("year_end_processing", flag.ExitOnError)
	year := fs.Int("year", now.Year()+1, "year to prepare")
	skipHolidays := fs.Bool("skip-holidays", false, "skip recurring holiday generation")
	skipBalances := fs.Bool("skip-balances", false, "skip yearly balance reset")
	skipArchive := fs.Bool("skip-archive", false, "skip retention archival")
	dryRun := fs.Bool("dry-run", false, "report without writing")
	fs.Parse(args)

	if !*skipHolidays {
		created, err := a.catalogSvc.GenerateRecurringHolidays(ctx, *year, *dryRun)
		if err != nil {
			return err
		}
		fmt.Printf("year_end_processing: holidays_created=%d\n", created)
	}
	if !*skipBalances {
		created, err := a.leaveSvc.ResetYearlyBalances(ctx, *year, *dryRun)
		if err != nil {
			return err
		}
		fmt.Printf("year_end_processing: balances_created=%d\n", created)
	}
	if !*skipArchive && !*dryRun {
		cutoff := now.AddDate(0, 0, -a.cfg.Retention.ArchiveAfterDays)
		leaves, err := a.leaveSvc.LeaveRepository.ArchiveClosedOlderThan(ctx, cutoff)
		if err != nil {
			return err
		}
		logs, err := a.leaveSvc.LogRepository.DeleteInactiveOlderThan(ctx, cutoff)
		if err != nil {
			return err
		}
		punches, err := a.attendanceSvc.PunchRepository.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return err
		}
		fmt.Printf("year_end_processing: leaves_archived=%d logs_purged=%d punches_purged=%d\n",
			leaves, logs, punches)
	}
	fmt.Printf("year_end_processing: year=%d dry_run=%v done\n", *year, *dryRun)
	return nil
}
