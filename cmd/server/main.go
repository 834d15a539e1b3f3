package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/develper21/grow-sub000/internal/api"
	"github.com/develper21/grow-sub000/internal/config"
	"github.com/develper21/grow-sub000/internal/database"
	"github.com/develper21/grow-sub000/internal/repository"
	"github.com/develper21/grow-sub000/internal/scheduler"
	"github.com/develper21/grow-sub000/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	commissionRepo := repository.NewCommissionRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	userRepo := repository.NewUserRepository(db)

	defaultRate, err := decimal.NewFromString(cfg.Accrual.DefaultAnnualRatePercent)
	if err != nil {
		log.Fatalf("Invalid DEFAULT_ANNUAL_RATE_PERCENT %q: %v", cfg.Accrual.DefaultAnnualRatePercent, err)
	}

	// Create services
	systemService := service.NewSystemService(db)
	commissionService := service.NewCommissionService(commissionRepo)
	accrualService := service.NewAccrualService(
		commissionRepo,
		portfolioRepo,
		userRepo,
		service.AccrualOptions{DefaultAnnualRate: defaultRate},
	)

	// Start the accrual/promotion scheduler
	sched, err := scheduler.New(accrualService, cfg.Accrual.Schedule, cfg.Accrual.PromotionSchedule)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Create router
	router := api.NewRouter(systemService, commissionService, accrualService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
