package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(JWTService jwt.Service, payrollHandler PayrollHandler, disbursementHandler DisbursementHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
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

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {

				r.Route("/cycles", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateCycle)
					r.Get("/", payrollHandler.ListCycles)
					r.Get("/{id}", payrollHandler.GetCycle)
					r.Post("/{id}/generate", payrollHandler.GeneratePayslips)
					r.Get("/{id}/payslips", payrollHandler.ListCyclePayslips)
					r.Post("/{id}/disbursements", disbursementHandler.CreateForCycle)
					r.Get("/{id}/disbursements", disbursementHandler.ListByCycle)
				})

				r.Route("/payslips", func(r chi.Router) {
					r.Get("/", payrollHandler.ListPayslips)
					r.Get("/{id}", payrollHandler.GetPayslip)
					r.Post("/{id}/approve", payrollHandler.ApprovePayslip)
				})

				r.Route("/components", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateComponent)
					r.Get("/", payrollHandler.ListComponents)
					r.Get("/{id}", payrollHandler.GetComponent)
					r.Put("/{id}", payrollHandler.UpdateComponent)
					r.Delete("/{id}", payrollHandler.DeactivateComponent)
				})

				r.Route("/rules", func(r chi.Router) {
					r.Get("/", payrollHandler.GetRules)
					r.Put("/", payrollHandler.UpdateRules)
				})

				r.Route("/tax-configurations", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateTaxConfiguration)
					r.Get("/", payrollHandler.ListTaxConfigurations)
				})

				r.Route("/calculate", func(r chi.Router) {
					r.Post("/tax", payrollHandler.CalculateTax)
					r.Post("/statutory", payrollHandler.CalculateStatutory)
				})
			})

			r.Route("/disbursements", func(r chi.Router) {
				r.Get("/{id}", disbursementHandler.Get)
				r.Put("/{id}/status", disbursementHandler.UpdateStatus)
				r.Put("/status", disbursementHandler.BulkUpdateStatus)
				r.Post("/payment-file", disbursementHandler.GeneratePaymentFile)
				r.Post("/reconcile", disbursementHandler.Reconcile)
			})
		})
	})
	return r
}
