package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/kelolahr/hr-backend-go/internal/config"
)

func NewRouter(
	cfg *config.Config,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
	loanHandler LoanHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hr-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/punch-in", attendanceHandler.PunchIn)
			r.Post("/punch-out", attendanceHandler.PunchOut)
			r.Get("/", attendanceHandler.List)
		})

		r.Route("/payroll/runs", func(r chi.Router) {
			r.Post("/", payrollHandler.InitiateRun)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", payrollHandler.GetRun)
				r.Post("/finalize", payrollHandler.FinalizeRun)
				r.Get("/payslips", payrollHandler.ListPayslips)
			})
		})

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", loanHandler.Apply)
			r.Post("/repayments", loanHandler.ManualRepay)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/approve", loanHandler.Approve)
				r.Post("/disburse", loanHandler.Disburse)
				r.Get("/schedule", loanHandler.GetSchedule)
			})
		})
	})
	return r
}
