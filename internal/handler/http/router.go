package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/driver-settlement-go/internal/config"
	"github.com/cmlabs-hris/driver-settlement-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg *config.Config,
	JWTService jwt.Service,
	authHandler AuthHandler,
	driverHandler DriverHandler,
	loadHandler LoadHandler,
	fuelHandler FuelHandler,
	deductionHandler DeductionHandler,
	settlementHandler SettlementHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	origins := cfg.App.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.SlogLevel(),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/drivers", func(r chi.Router) {
				r.Get("/", driverHandler.ListDrivers)
				r.Post("/", driverHandler.CreateDriver)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", driverHandler.GetDriver)
					r.Put("/", driverHandler.UpdateDriver)
					r.With(middleware.AdminOnly).Delete("/", driverHandler.DeleteDriver)
				})
			})

			r.Route("/loads", func(r chi.Router) {
				r.Get("/", loadHandler.ListLoads)
				r.Post("/", loadHandler.CreateLoad)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", loadHandler.GetLoad)
					r.Put("/", loadHandler.UpdateLoad)
					r.Patch("/status", loadHandler.UpdateLoadStatus)
					r.With(middleware.AdminOnly).Delete("/", loadHandler.DeleteLoad)
				})
			})

			r.Route("/fuel-transactions", func(r chi.Router) {
				r.Get("/", fuelHandler.ListFuelTransactions)
				r.Post("/", fuelHandler.CreateFuelTransaction)
				r.Post("/import", fuelHandler.ImportFuelTransactions)
				r.Put("/{id}/driver", fuelHandler.AssignDriver)
				r.With(middleware.AdminOnly).Delete("/{id}", fuelHandler.DeleteFuelTransaction)
			})

			r.Route("/fees", func(r chi.Router) {
				r.Get("/", deductionHandler.ListFees)
				r.Post("/", deductionHandler.CreateFee)
				r.With(middleware.AdminOnly).Post("/batch", settlementHandler.ApplyBatchFees)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", deductionHandler.GetFee)
					r.Put("/", deductionHandler.UpdateFee)
					r.With(middleware.AdminOnly).Delete("/", deductionHandler.DeleteFee)
				})
			})

			r.Route("/advances", func(r chi.Router) {
				r.Get("/", deductionHandler.ListAdvances)
				r.Post("/", deductionHandler.CreateAdvance)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", deductionHandler.GetAdvance)
					r.Put("/", deductionHandler.UpdateAdvance)
					r.With(middleware.AdminOnly).Delete("/", deductionHandler.DeleteAdvance)
				})
			})

			r.Route("/settlements", func(r chi.Router) {
				r.Post("/calculate", settlementHandler.CalculateSettlements)
				r.Get("/export", settlementHandler.ExportSettlements)
				r.Get("/overview", settlementHandler.GetOverview)
			})
		})
	})
	return r
}
