package testutil

import (
	"database/sql"
	"testing"

	"github.com/develper21/grow-sub000/internal/repository"
	"github.com/develper21/grow-sub000/internal/service"
)

func NewTestCommissionService(t *testing.T, db *sql.DB) *service.CommissionService {
	t.Helper()

	commissionRepo := repository.NewCommissionRepository(db)

	return service.NewCommissionService(commissionRepo)
}

func NewTestAccrualService(t *testing.T, db *sql.DB) *service.AccrualService {
	t.Helper()

	return NewTestAccrualServiceWithOptions(t, db, service.AccrualOptions{})
}

func NewTestAccrualServiceWithOptions(t *testing.T, db *sql.DB, opts service.AccrualOptions) *service.AccrualService {
	t.Helper()

	commissionRepo := repository.NewCommissionRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	userRepo := repository.NewUserRepository(db)

	return service.NewAccrualService(
		commissionRepo,
		portfolioRepo,
		userRepo,
		opts,
	)
}
