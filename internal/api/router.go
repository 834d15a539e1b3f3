package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/develper21/grow-sub000/internal/api/handlers"
	custommiddleware "github.com/develper21/grow-sub000/internal/api/middleware"
	"github.com/develper21/grow-sub000/internal/config"
	"github.com/develper21/grow-sub000/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(systemService *service.SystemService, commissionService *service.CommissionService, accrualService *service.AccrualService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/commission", func(r chi.Router) {
			commissionHandler := handlers.NewCommissionHandler(commissionService)
			r.Get("/summary", commissionHandler.Summary)
			r.Get("/available", commissionHandler.Available)
			r.Post("/withdraw", commissionHandler.Withdraw)
			r.Get("/history", commissionHandler.History)
		})

		// Operator triggers, guarded by the internal API key
		r.Route("/internal/accrual", func(r chi.Router) {
			r.Use(custommiddleware.APIKeyMiddleware(cfg.Internal.APIKey))
			accrualHandler := handlers.NewAccrualHandler(accrualService)
			r.Post("/run", accrualHandler.Run)
			r.Post("/promote", accrualHandler.Promote)
		})
	})

	return r
}
