package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/develper21/grow-sub000/internal/apperrors"
	"github.com/develper21/grow-sub000/internal/model"
	"github.com/develper21/grow-sub000/internal/repository"
)

// WithdrawalResult reports the outcome of a withdrawal request. The count of
// actually-modified rows is the only truth about how many succeeded; ids the
// eligibility predicate excluded are listed in RejectedIDs rather than
// reported as errors.
type WithdrawalResult struct {
	WithdrawnCount int      `json:"withdrawnCount"`
	RejectedIDs    []string `json:"rejectedIds,omitempty"`
	Message        string   `json:"message"`
}

// HistoryPage is one page of an actor's ledger history, newest first.
type HistoryPage struct {
	Commissions []model.CommissionEntry `json:"commissions"`
	Total       int                     `json:"total"`
	HasMore     bool                    `json:"hasMore"`
}

// CommissionService exposes the role-scoped read models and the withdrawal
// mutation over the commission ledger.
type CommissionService struct {
	commissionRepo *repository.CommissionRepository
}

// NewCommissionService creates a new CommissionService with the provided repository dependencies.
func NewCommissionService(commissionRepo *repository.CommissionRepository) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
	}
}

// Summarize aggregates the actor's ledger rows for one period: the stored
// per-customer commission totals, the actor's own share, a row count and the
// average portfolio value at accrual. An unknown role fails loudly.
func (s *CommissionService) Summarize(actorID string, role model.Role, period model.Period) (model.CommissionSummary, error) {
	scope, ok := role.Scope()
	if !ok {
		return model.CommissionSummary{}, fmt.Errorf("summarize %q: %w", role, apperrors.ErrUnknownRole)
	}
	if !period.Valid() {
		return model.CommissionSummary{}, fmt.Errorf("summarize %s: %w", period, apperrors.ErrInvalidPeriod)
	}

	entries, err := s.commissionRepo.ListByActorAndPeriod(scope, actorID, period)
	if err != nil {
		return model.CommissionSummary{}, fmt.Errorf("failed to load summary rows: %w", err)
	}

	summary := model.CommissionSummary{Count: len(entries)}
	var valueSum decimal.Decimal

	for i := range entries {
		e := &entries[i]
		summary.TotalCommission = summary.TotalCommission.Add(e.TotalCommission)
		summary.UserShare = summary.UserShare.Add(e.ShareFor(scope))
		valueSum = valueSum.Add(e.PortfolioValue)
	}

	if summary.Count > 0 {
		summary.AvgPortfolioValue = valueSum.Div(decimal.NewFromInt(int64(summary.Count))).Round(2)
	}

	return summary, nil
}

// ListAvailable returns the actor's withdrawable rows: status available with
// the scheduled withdrawal date in the past. Read-only; listing a due row
// never mutates it.
func (s *CommissionService) ListAvailable(actorID string, role model.Role, now time.Time) ([]model.CommissionEntry, error) {
	scope, ok := role.Scope()
	if !ok {
		return nil, fmt.Errorf("list available %q: %w", role, apperrors.ErrUnknownRole)
	}

	entries, err := s.commissionRepo.ListAvailable(scope, actorID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list available commissions: %w", err)
	}

	return entries, nil
}

// Withdraw transitions the requested rows to withdrawn. Eligibility (scope,
// status, due date) is re-validated inside the update itself rather than
// trusting the caller's earlier read, so a forged or stale id cannot touch
// another actor's row or a not-yet-due one; it just ends up in RejectedIDs.
func (s *CommissionService) Withdraw(ids []string, actorID string, role model.Role, now time.Time) (WithdrawalResult, error) {
	scope, ok := role.Scope()
	if !ok {
		return WithdrawalResult{}, fmt.Errorf("withdraw %q: %w", role, apperrors.ErrUnknownRole)
	}
	if len(ids) == 0 {
		return WithdrawalResult{Message: "no commissions requested"}, nil
	}

	withdrawnIDs, err := s.commissionRepo.Withdraw(scope, actorID, ids, now)
	if err != nil {
		return WithdrawalResult{}, fmt.Errorf("failed to withdraw commissions: %w", err)
	}

	withdrawn := make(map[string]bool, len(withdrawnIDs))
	for _, id := range withdrawnIDs {
		withdrawn[id] = true
	}

	var rejected []string
	for _, id := range ids {
		if !withdrawn[id] {
			rejected = append(rejected, id)
		}
	}

	return WithdrawalResult{
		WithdrawnCount: len(withdrawnIDs),
		RejectedIDs:    rejected,
		Message:        fmt.Sprintf("withdrew %d of %d requested commissions", len(withdrawnIDs), len(ids)),
	}, nil
}

// History returns one page of the actor's ledger rows ordered by generation
// time descending. The page and the total count are fetched concurrently.
func (s *CommissionService) History(actorID string, role model.Role, limit, offset int) (HistoryPage, error) {
	scope, ok := role.Scope()
	if !ok {
		return HistoryPage{}, fmt.Errorf("history %q: %w", role, apperrors.ErrUnknownRole)
	}

	var (
		entries []model.CommissionEntry
		total   int
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		entries, err = s.commissionRepo.ListByActor(scope, actorID, limit, offset)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.commissionRepo.CountByActor(scope, actorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return HistoryPage{}, fmt.Errorf("failed to load commission history: %w", err)
	}

	return HistoryPage{
		Commissions: entries,
		Total:       total,
		HasMore:     offset+len(entries) < total,
	}, nil
}
