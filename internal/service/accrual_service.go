package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/develper21/grow-sub000/internal/apperrors"
	"github.com/develper21/grow-sub000/internal/model"
	"github.com/develper21/grow-sub000/internal/repository"
)

// AccrualOptions tunes the accrual job's guard and rate fallback behavior.
type AccrualOptions struct {
	// PerCustomerGuard switches the idempotency guard from "skip the whole
	// run once any row exists for the period" to "skip only customers that
	// already have rows for the period". The coarse guard is the default;
	// the per-customer variant makes a partially failed run re-entrant.
	PerCustomerGuard bool

	// DefaultAnnualRate substitutes for a company's configured rate when that
	// rate is non-positive. Comes from DEFAULT_ANNUAL_RATE_PERCENT; when left
	// zero the calculator's own built-in default applies.
	DefaultAnnualRate decimal.Decimal
}

// AccrualResult reports the outcome of one accrual invocation.
type AccrualResult struct {
	RecordsCreated int `json:"recordsCreated"`
}

// AccrualService orchestrates the monthly commission accrual: period guard,
// stakeholder resolution, split calculation and the bulk ledger insert. It
// also owns the promotion of due rows from accrued to available.
type AccrualService struct {
	commissionRepo *repository.CommissionRepository
	portfolioRepo  *repository.PortfolioRepository
	userRepo       *repository.UserRepository
	opts           AccrualOptions
}

// NewAccrualService creates a new AccrualService with the provided repository dependencies.
func NewAccrualService(
	commissionRepo *repository.CommissionRepository,
	portfolioRepo *repository.PortfolioRepository,
	userRepo *repository.UserRepository,
	opts AccrualOptions,
) *AccrualService {
	return &AccrualService{
		commissionRepo: commissionRepo,
		portfolioRepo:  portfolioRepo,
		userRepo:       userRepo,
		opts:           opts,
	}
}

// Run performs one accrual cycle for the period containing now.
//
// Re-running within an already-processed period is a successful no-op with
// RecordsCreated = 0, so a retried scheduler never double-credits anyone.
// Per-customer inconsistencies (missing owner, non-customer owner, missing
// company settings) are logged and skipped; a failure of the final bulk
// insert is fatal for the whole invocation and is returned to the caller.
func (s *AccrualService) Run(now time.Time) (AccrualResult, error) {
	period := model.PeriodOf(now)

	if !s.opts.PerCustomerGuard {
		count, err := s.commissionRepo.CountByPeriod(period)
		if err != nil {
			return AccrualResult{}, fmt.Errorf("failed to check period guard: %w", err)
		}
		if count > 0 {
			log.Printf("accrual: period %s already processed, skipping run", period)
			return AccrualResult{RecordsCreated: 0}, nil
		}
	}

	portfolios, err := s.portfolioRepo.GetPortfolios()
	if err != nil {
		return AccrualResult{}, fmt.Errorf("failed to load portfolios: %w", err)
	}

	var entries []model.CommissionEntry

	for _, p := range portfolios {
		// No zero or negative-value accrual rows, ever.
		if p.CurrentValue.Sign() <= 0 {
			continue
		}

		owner, err := s.userRepo.GetUserOnID(p.OwnerID)
		if err != nil {
			log.Printf("accrual: portfolio %s: cannot resolve owner %s: %v, skipping", p.ID, p.OwnerID, err)
			continue
		}
		if owner.Role != model.RoleCustomer {
			continue
		}

		if owner.CompanyID == "" {
			log.Printf("accrual: customer %s has no company affiliation, skipping", owner.ID)
			continue
		}
		settings, err := s.userRepo.GetCompanySettingsOnCompanyID(owner.CompanyID)
		if err != nil {
			if errors.Is(err, apperrors.ErrCompanySettingsNotFound) {
				log.Printf("accrual: customer %s: no settings for company %s, skipping", owner.ID, owner.CompanyID)
				continue
			}
			return AccrualResult{}, fmt.Errorf("failed to load company settings: %w", err)
		}

		if s.opts.PerCustomerGuard {
			count, err := s.commissionRepo.CountByPeriodAndCustomer(period, owner.ID)
			if err != nil {
				return AccrualResult{}, fmt.Errorf("failed to check customer guard: %w", err)
			}
			if count > 0 {
				continue
			}
		}

		annualRate := settings.AnnualRatePercent
		if annualRate.Sign() <= 0 {
			annualRate = s.opts.DefaultAnnualRate
		}

		calc, err := CalculateCommission(p.CurrentValue, annualRate)
		if err != nil {
			// Unreachable after the sign filter above; surface it loudly.
			return AccrualResult{}, fmt.Errorf("commission calculation for portfolio %s: %w", p.ID, err)
		}

		stakeholders := ResolveStakeholders(owner)
		entries = append(entries, buildEntries(period, p, stakeholders, calc, settings, now)...)
	}

	if len(entries) == 0 {
		log.Printf("accrual: period %s produced no eligible portfolios", period)
		return AccrualResult{RecordsCreated: 0}, nil
	}

	var created int
	if s.opts.PerCustomerGuard {
		created, err = s.commissionRepo.InsertBatch(entries)
	} else {
		created, err = s.commissionRepo.InsertBatchForPeriod(period, entries)
	}
	if err != nil {
		return AccrualResult{}, fmt.Errorf("failed to insert commission batch: %w", err)
	}
	if created == 0 {
		log.Printf("accrual: period %s was processed by a concurrent run, skipping", period)
		return AccrualResult{RecordsCreated: 0}, nil
	}

	log.Printf("accrual: period %s: created %d ledger rows", period, created)
	return AccrualResult{RecordsCreated: created}, nil
}

// PromoteDue transitions accrued rows whose scheduled withdrawal date has
// passed to available. Runs daily from the scheduler.
func (s *AccrualService) PromoteDue(now time.Time) (int64, error) {
	promoted, err := s.commissionRepo.PromoteDue(now)
	if err != nil {
		return 0, fmt.Errorf("failed to promote due commissions: %w", err)
	}

	if promoted > 0 {
		log.Printf("accrual: promoted %d ledger rows to available", promoted)
	}
	return promoted, nil
}

// buildEntries constructs one ledger row per resolvable stakeholder, up to
// four. A stakeholder with an empty id gets no row this cycle.
func buildEntries(
	period model.Period,
	portfolio model.Portfolio,
	stakeholders model.StakeholderSet,
	calc CommissionCalculation,
	settings model.CompanySettings,
	now time.Time,
) []model.CommissionEntry {
	scheduled := nextPayoutDate(now, settings.PayoutDay)

	base := model.CommissionEntry{
		Period:                  period,
		CustomerID:              stakeholders.CustomerID,
		PortfolioValue:          portfolio.CurrentValue,
		AnnualRate:              calc.AnnualRate,
		MonthlyRate:             calc.MonthlyRate,
		CompanyShare:            calc.Breakdown.Company,
		AdminShare:              calc.Breakdown.Admin,
		SellerShare:             calc.Breakdown.Seller,
		MutualFundShare:         calc.Breakdown.MutualFund,
		TotalCommission:         calc.TotalMonthlyCommission,
		Status:                  model.StatusAccrued,
		ScheduledWithdrawalDate: scheduled,
		GeneratedAt:             now.UTC(),
		Note:                    portfolio.Name,
	}

	var entries []model.CommissionEntry

	if stakeholders.SellerID != "" {
		e := base
		e.ID = uuid.NewString()
		e.SellerID = stakeholders.SellerID
		e.Amount = calc.Breakdown.Seller
		entries = append(entries, e)
	}
	if stakeholders.AdminID != "" {
		e := base
		e.ID = uuid.NewString()
		e.AdminID = stakeholders.AdminID
		e.Amount = calc.Breakdown.Admin
		entries = append(entries, e)
	}
	if stakeholders.CompanyID != "" {
		e := base
		e.ID = uuid.NewString()
		e.CompanyID = stakeholders.CompanyID
		e.Amount = calc.Breakdown.Company
		entries = append(entries, e)
	}
	if stakeholders.MutualFundID != "" {
		e := base
		e.ID = uuid.NewString()
		e.MutualFundID = stakeholders.MutualFundID
		e.Amount = calc.Breakdown.MutualFund
		entries = append(entries, e)
	}

	return entries
}

// nextPayoutDate is the payout day of the month after now. time.Date
// normalizes month 13 into January of the next year.
func nextPayoutDate(now time.Time, payoutDay int) time.Time {
	return time.Date(now.Year(), now.Month()+1, payoutDay, 0, 0, 0, 0, time.UTC)
}
