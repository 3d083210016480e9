package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/sahl-hr/attendance-backend-go/internal/config"
	"github.com/sahl-hr/attendance-backend-go/internal/handler/http/middleware"
)

func NewRouter(
	cfg *config.Config,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	shiftHandler ShiftHandler,
	catalogHandler CatalogHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "sahl-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Actor-ID"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.Actor)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", attendanceHandler.ListLogs)
			r.Get("/metrics", attendanceHandler.Metrics)
			r.Put("/manual", attendanceHandler.UpsertManual)
			r.Post("/reprocess", attendanceHandler.Reprocess)
			r.Get("/calendar/{employeeID}", attendanceHandler.Calendar)
			r.Get("/{employeeID}/{date}", attendanceHandler.GetLog)

			r.Route("/punches", func(r chi.Router) {
				r.Post("/upload", attendanceHandler.UploadPunches)
				r.Delete("/{id}", attendanceHandler.RemovePunch)
			})
		})

		r.Route("/leaves", func(r chi.Router) {
			r.Get("/", leaveHandler.List)
			r.Post("/", leaveHandler.Create)
			r.Post("/validate", leaveHandler.Validate)
			r.Get("/balances/{employeeID}", leaveHandler.Balances)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/approve", leaveHandler.Approve)
				r.Post("/reject", leaveHandler.Reject)
				r.Post("/cancel", leaveHandler.Cancel)
				r.Delete("/", leaveHandler.Delete)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", catalogHandler.ListShifts)
			r.Post("/", shiftHandler.Create)
			r.Delete("/{id}", catalogHandler.DeactivateShift)
			r.Post("/date-specific", shiftHandler.SetDateSpecific)
			r.Post("/overrides", shiftHandler.SetOverride)

			r.Route("/assignments", func(r chi.Router) {
				r.Post("/", shiftHandler.Assign)
				r.Delete("/{id}", shiftHandler.EndAssignment)
			})

			r.Get("/resolve/{employeeID}/{date}", shiftHandler.Resolve)
			r.Get("/schedule/{employeeID}", shiftHandler.Schedule)
		})

		r.Route("/leave-types", func(r chi.Router) {
			r.Get("/", catalogHandler.ListLeaveTypes)
			r.Post("/", catalogHandler.CreateLeaveType)
			r.Post("/init", catalogHandler.InitLeaveTypes)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", catalogHandler.ListHolidays)
			r.Post("/", catalogHandler.CreateHoliday)
			r.Delete("/{id}", catalogHandler.DeleteHoliday)
			r.Post("/generate", catalogHandler.GenerateHolidays)
		})

		r.Route("/ramadan-periods", func(r chi.Router) {
			r.Post("/", catalogHandler.CreateRamadanPeriod)
			r.Put("/{id}", catalogHandler.UpdateRamadanPeriod)
		})
	})
	return r
}

func actorID(r *http.Request) string {
	return middleware.ActorID(r.Context())
}
