package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/suweldohq/suweldo-backend-go/internal/config"
	"github.com/suweldohq/suweldo-backend-go/internal/handler/http/middleware"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	rateConfigHandler RateConfigHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	deductionHandler DeductionHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "suweldo-backend"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
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
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/rate-configurations", func(r chi.Router) {
				r.Get("/", rateConfigHandler.GetActive)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", rateConfigHandler.Upsert)
					r.Post("/bulk", rateConfigHandler.BulkUpsert)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", attendanceHandler.ListRecords)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/import/preview", attendanceHandler.PreviewImport)
					r.Post("/import", attendanceHandler.SubmitImport)
					r.Post("/", attendanceHandler.CreateManual)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/requests", leaveHandler.CreateRequest)
				r.Get("/balance", leaveHandler.GetBalance)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/requests/{id}/approve", leaveHandler.ApproveRequest)
					r.Post("/requests/{id}/cancel", leaveHandler.CancelRequest)
				})
			})

			r.Route("/loans", func(r chi.Router) {
				r.Get("/", deductionHandler.ListLoans)
				r.Get("/{id}", deductionHandler.GetLoan)
				r.Get("/{id}/payments", deductionHandler.ListPayments)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", deductionHandler.CreateLoan)
					r.Post("/{id}/payments", deductionHandler.RecordPayment)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/runs", payrollHandler.ListRuns)
				r.Get("/runs/{id}", payrollHandler.GetRun)
				r.Get("/payslips/{id}", payrollHandler.GetPayslip)
				r.Get("/payslips/{id}/pdf", payrollHandler.DownloadPayslipPDF)
				r.Get("/employees/{employeeID}/payslips", payrollHandler.ListEmployeePayslips)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/runs", payrollHandler.GenerateRun)
				})
			})
		})
	})

	return r
}
