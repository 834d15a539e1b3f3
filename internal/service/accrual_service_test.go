package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/develper21/grow-sub000/internal/model"
	"github.com/develper21/grow-sub000/internal/repository"
	"github.com/develper21/grow-sub000/internal/service"
	"github.com/develper21/grow-sub000/internal/testutil"
)

// TestAccrualService_Run tests the monthly accrual cycle end to end against
// an in-memory ledger.
//
// WHY: the accrual job is the only writer of ledger rows. Its fan-out (one
// row per stakeholder), its skip rules and its idempotency guard decide
// whether anyone gets double-credited, so they are pinned here.
func TestAccrualService_Run(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("creates one row per stakeholder", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccrualService(t, db)
		repo := repository.NewCommissionRepository(db)

		companyID := testutil.MakeID()
		testutil.NewCompanySettings().WithCompany(companyID).WithAnnualRate("2.0").WithPayoutDay(5).Build(t, db)

		seller := testutil.NewUser().WithRole(model.RoleSeller).Build(t, db)
		admin := testutil.NewUser().WithRole(model.RoleAdmin).Build(t, db)
		customer := testutil.NewUser().
			WithRole(model.RoleCustomer).
			WithParent(seller.ID).
			WithAdmin(admin.ID).
			WithCompany(companyID).
			Build(t, db)
		testutil.NewPortfolio().WithOwner(customer.ID).WithValue("1000000").WithName("Growth Fund").Build(t, db)

		result, err := svc.Run(now)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if result.RecordsCreated != 4 {
			t.Errorf("Expected 4 records created, got %d", result.RecordsCreated)
		}

		period := model.Period{Month: 6, Year: 2025}
		sellerScope, _ := model.RoleSeller.Scope()
		rows, err := repo.ListByActorAndPeriod(sellerScope, seller.ID, period)
		if err != nil {
			t.Fatalf("Failed to load seller rows: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("Expected 1 seller row, got %d", len(rows))
		}

		row := rows[0]
		if row.CustomerID != customer.ID {
			t.Errorf("Expected customer %s, got %s", customer.ID, row.CustomerID)
		}
		if row.Amount.String() != "416.67" {
			t.Errorf("Expected seller amount 416.67, got %s", row.Amount)
		}
		if row.TotalCommission.String() != "1666.67" {
			t.Errorf("Expected total commission 1666.67, got %s", row.TotalCommission)
		}
		if row.Status != model.StatusAccrued {
			t.Errorf("Expected status accrued, got %s", row.Status)
		}
		if row.Note != "Growth Fund" {
			t.Errorf("Expected note 'Growth Fund', got %q", row.Note)
		}

		// Withdrawal opens on the company's payout day of the next month.
		wantDate := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)
		if !row.ScheduledWithdrawalDate.Equal(wantDate) {
			t.Errorf("Expected scheduled date %s, got %s", wantDate, row.ScheduledWithdrawalDate)
		}

		// The customer-scoped view spans the whole fan-out.
		customerScope, _ := model.RoleCustomer.Scope()
		customerRows, err := repo.ListByActorAndPeriod(customerScope, customer.ID, period)
		if err != nil {
			t.Fatalf("Failed to load customer rows: %v", err)
		}
		if len(customerRows) != 4 {
			t.Errorf("Expected 4 customer rows, got %d", len(customerRows))
		}
	})

	t.Run("second run in the same period is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccrualService(t, db)
		repo := repository.NewCommissionRepository(db)

		companyID := testutil.MakeID()
		testutil.NewCompanySettings().WithCompany(companyID).Build(t, db)
		customer := testutil.NewUser().WithRole(model.RoleCustomer).WithCompany(companyID).Build(t, db)
		testutil.NewPortfolio().WithOwner(customer.ID).Build(t, db)

		first, err := svc.Run(now)
		if err != nil {
			t.Fatalf("First run failed: %v", err)
		}
		if first.RecordsCreated == 0 {
			t.Fatal("Expected first run to create records")
		}

		second, err := svc.Run(now)
		if err != nil {
			t.Fatalf("Second run failed: %v", err)
		}
		if second.RecordsCreated != 0 {
			t.Errorf("Expected second run to create 0 records, got %d", second.RecordsCreated)
		}

		period := model.PeriodOf(now)
		count, err := repo.CountByPeriod(period)
		if err != nil {
			t.Fatalf("Failed to count rows: %v", err)
		}
		if count != first.RecordsCreated {
			t.Errorf("Expected %d total rows after both runs, got %d", first.RecordsCreated, count)
		}
	})

	t.Run("zero-value portfolio produces no rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccrualService(t, db)

		companyID := testutil.MakeID()
		testutil.NewCompanySettings().WithCompany(companyID).Build(t, db)
		customer := testutil.NewUser().WithRole(model.RoleCustomer).WithCompany(companyID).Build(t, db)
		testutil.NewPortfolio().WithOwner(customer.ID).WithValue("0").Build(t, db)

		result, err := svc.Run(now)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if result.RecordsCreated != 0 {
			t.Errorf("Expected 0 records for zero-value portfolio, got %d", result.RecordsCreated)
		}
	})

	t.Run("non-customer owner is skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccrualService(t, db)

		companyID := testutil.MakeID()
		testutil.NewCompanySettings().WithCompany(companyID).Build(t, db)
		seller := testutil.NewUser().WithRole(model.RoleSeller).WithCompany(companyID).Build(t, db)
		testutil.NewPortfolio().WithOwner(seller.ID).Build(t, db)

		result, err := svc.Run(now)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if result.RecordsCreated != 0 {
			t.Errorf("Expected 0 records for non-customer owner, got %d", result.RecordsCreated)
		}
	})

	t.Run("customer without resolvable company is skipped entirely", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccrualService(t, db)

		// No company affiliation at all.
		orphan := testutil.NewUser().WithRole(model.RoleCustomer).Build(t, db)
		testutil.NewPortfolio().WithOwner(orphan.ID).Build(t, db)

		// Company id set but no settings record exists.
		unconfigured := testutil.NewUser().WithRole(model.RoleCustomer).WithCompany(testutil.MakeID()).Build(t, db)
		testutil.NewPortfolio().WithOwner(unconfigured.ID).Build(t, db)

		result, err := svc.Run(now)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if result.RecordsCreated != 0 {
			t.Errorf("Expected 0 records when company cannot be resolved, got %d", result.RecordsCreated)
		}
	})

	t.Run("one broken customer does not abort the batch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccrualService(t, db)

		companyID := testutil.MakeID()
		testutil.NewCompanySettings().WithCompany(companyID).Build(t, db)

		broken := testutil.NewUser().WithRole(model.RoleCustomer).Build(t, db) // no company
		testutil.NewPortfolio().WithOwner(broken.ID).Build(t, db)

		healthy := testutil.NewUser().WithRole(model.RoleCustomer).WithCompany(companyID).Build(t, db)
		testutil.NewPortfolio().WithOwner(healthy.ID).Build(t, db)

		result, err := svc.Run(now)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		// Self-as-seller, company and mutual-fund rows; no admin configured.
		if result.RecordsCreated != 3 {
			t.Errorf("Expected 3 records for the healthy customer, got %d", result.RecordsCreated)
		}
	})

	t.Run("configured fallback rate applies when the company rate is non-positive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccrualServiceWithOptions(t, db, service.AccrualOptions{
			DefaultAnnualRate: decimal.RequireFromString("3.0"),
		})
		repo := repository.NewCommissionRepository(db)

		companyID := testutil.MakeID()
		testutil.NewCompanySettings().WithCompany(companyID).WithAnnualRate("0").Build(t, db)
		customer := testutil.NewUser().WithRole(model.RoleCustomer).WithCompany(companyID).Build(t, db)
		testutil.NewPortfolio().WithOwner(customer.ID).Build(t, db)

		if _, err := svc.Run(now); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		customerScope, _ := model.RoleCustomer.Scope()
		rows, err := repo.ListByActorAndPeriod(customerScope, customer.ID, model.PeriodOf(now))
		if err != nil {
			t.Fatalf("Failed to load rows: %v", err)
		}
		if len(rows) == 0 {
			t.Fatal("Expected ledger rows for the fallback rate")
		}

		if rows[0].AnnualRate.String() != "3" {
			t.Errorf("Expected annual rate 3, got %s", rows[0].AnnualRate)
		}
		if rows[0].TotalCommission.String() != "2500" {
			t.Errorf("Expected total commission 2500, got %s", rows[0].TotalCommission)
		}
		if rows[0].Amount.String() != "625" {
			t.Errorf("Expected share amount 625, got %s", rows[0].Amount)
		}
	})

	t.Run("december accrual schedules withdrawal in january", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccrualService(t, db)
		repo := repository.NewCommissionRepository(db)

		companyID := testutil.MakeID()
		testutil.NewCompanySettings().WithCompany(companyID).WithPayoutDay(10).Build(t, db)
		customer := testutil.NewUser().WithRole(model.RoleCustomer).WithCompany(companyID).Build(t, db)
		testutil.NewPortfolio().WithOwner(customer.ID).Build(t, db)

		december := time.Date(2025, 12, 20, 8, 0, 0, 0, time.UTC)
		if _, err := svc.Run(december); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		customerScope, _ := model.RoleCustomer.Scope()
		rows, err := repo.ListByActorAndPeriod(customerScope, customer.ID, model.Period{Month: 12, Year: 2025})
		if err != nil {
			t.Fatalf("Failed to load rows: %v", err)
		}
		if len(rows) == 0 {
			t.Fatal("Expected ledger rows for december")
		}

		wantDate := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		if !rows[0].ScheduledWithdrawalDate.Equal(wantDate) {
			t.Errorf("Expected scheduled date %s, got %s", wantDate, rows[0].ScheduledWithdrawalDate)
		}
	})
}

// TestAccrualService_PerCustomerGuard exercises the opt-in re-entrant guard:
// an already-processed customer is skipped while a new one still accrues
// within the same period.
func TestAccrualService_PerCustomerGuard(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestAccrualServiceWithOptions(t, db, service.AccrualOptions{PerCustomerGuard: true})

	companyID := testutil.MakeID()
	testutil.NewCompanySettings().WithCompany(companyID).Build(t, db)

	first := testutil.NewUser().WithRole(model.RoleCustomer).WithCompany(companyID).Build(t, db)
	testutil.NewPortfolio().WithOwner(first.ID).Build(t, db)

	result, err := svc.Run(now)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if result.RecordsCreated != 3 {
		t.Fatalf("Expected 3 records on first run, got %d", result.RecordsCreated)
	}

	// A coarse guard would now skip the whole period. The per-customer
	// variant only skips the processed customer.
	second := testutil.NewUser().WithRole(model.RoleCustomer).WithCompany(companyID).Build(t, db)
	testutil.NewPortfolio().WithOwner(second.ID).Build(t, db)

	result, err = svc.Run(now)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if result.RecordsCreated != 3 {
		t.Errorf("Expected 3 new records for the late customer, got %d", result.RecordsCreated)
	}

	repo := repository.NewCommissionRepository(db)
	count, err := repo.CountByPeriod(model.PeriodOf(now))
	if err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 6 {
		t.Errorf("Expected 6 rows in total, got %d", count)
	}
}

// TestAccrualService_PromoteDue verifies the daily promotion sweep: due
// accrued rows become available, future-dated ones stay accrued.
func TestAccrualService_PromoteDue(t *testing.T) {
	now := time.Date(2025, 7, 6, 3, 0, 0, 0, time.UTC)

	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestAccrualService(t, db)
	repo := repository.NewCommissionRepository(db)

	due := testutil.NewCommissionEntry().
		ForSeller(testutil.MakeID()).
		WithScheduledDate(time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)).
		Build(t, db)
	future := testutil.NewCommissionEntry().
		ForSeller(testutil.MakeID()).
		WithScheduledDate(time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)).
		Build(t, db)

	promoted, err := svc.PromoteDue(now)
	if err != nil {
		t.Fatalf("PromoteDue failed: %v", err)
	}
	if promoted != 1 {
		t.Errorf("Expected 1 promoted row, got %d", promoted)
	}

	dueRow, err := repo.GetEntryOnID(due.ID)
	if err != nil {
		t.Fatalf("Failed to reload due row: %v", err)
	}
	if dueRow.Status != model.StatusAvailable {
		t.Errorf("Expected due row to be available, got %s", dueRow.Status)
	}

	futureRow, err := repo.GetEntryOnID(future.ID)
	if err != nil {
		t.Fatalf("Failed to reload future row: %v", err)
	}
	if futureRow.Status != model.StatusAccrued {
		t.Errorf("Expected future row to stay accrued, got %s", futureRow.Status)
	}
}
