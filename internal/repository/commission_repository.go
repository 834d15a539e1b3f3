package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/develper21/grow-sub000/internal/apperrors"
	"github.com/develper21/grow-sub000/internal/model"
)

// availableListLimit caps the number of rows returned by the availability
// query; callers are expected to withdraw and re-query.
const availableListLimit = 50

const entryColumns = `
	id, month, year, customer_id, seller_id, admin_id, company_id, mutual_fund_id,
	portfolio_value, annual_rate, monthly_rate,
	company_share, admin_share, seller_share, mutual_fund_share,
	amount, total_commission,
	status, scheduled_withdrawal_date, generated_at, withdrawn_at, note
`

// CommissionRepository provides data access methods for the commission_ledger
// table. Role-scoped filters take a model.RoleScope whose column names come
// from the fixed lookup table in the model package, never from user input.
type CommissionRepository struct {
	db *sql.DB
}

// NewCommissionRepository creates a new CommissionRepository with the provided database connection.
func NewCommissionRepository(db *sql.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// CountByPeriod returns the number of ledger rows recorded for the period.
// The accrual guard treats any non-zero count as "period already processed".
func (r *CommissionRepository) CountByPeriod(period model.Period) (int, error) {
	query := `SELECT COUNT(*) FROM commission_ledger WHERE month = ? AND year = ?`

	var count int
	if err := r.db.QueryRow(query, period.Month, period.Year).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count commission_ledger rows for period: %w", err)
	}

	return count, nil
}

// CountByPeriodAndCustomer returns the number of ledger rows recorded for one
// customer in the period. Used by the per-customer guard variant.
func (r *CommissionRepository) CountByPeriodAndCustomer(period model.Period, customerID string) (int, error) {
	query := `SELECT COUNT(*) FROM commission_ledger WHERE month = ? AND year = ? AND customer_id = ?`

	var count int
	if err := r.db.QueryRow(query, period.Month, period.Year, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count commission_ledger rows for customer: %w", err)
	}

	return count, nil
}

// InsertBatchForPeriod inserts all entries in a single transaction after
// re-checking that the period is still unprocessed inside that transaction.
// Returns the number of rows inserted; 0 means a concurrent run materialized
// the period first and this run became a no-op.
func (r *CommissionRepository) InsertBatchForPeriod(period model.Period, entries []model.CommissionEntry) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin insert transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var count int
	check := `SELECT COUNT(*) FROM commission_ledger WHERE month = ? AND year = ?`
	if err := tx.QueryRow(check, period.Month, period.Year).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to re-check period guard: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted, err := insertEntries(tx, entries)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit commission batch: %w", err)
	}

	return inserted, nil
}

// InsertBatch inserts all entries in a single transaction without a period
// guard re-check. Used by the per-customer guard variant, which has already
// filtered out processed customers.
func (r *CommissionRepository) InsertBatch(entries []model.CommissionEntry) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin insert transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	inserted, err := insertEntries(tx, entries)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit commission batch: %w", err)
	}

	return inserted, nil
}

func insertEntries(tx *sql.Tx, entries []model.CommissionEntry) (int, error) {
	query := `
		INSERT INTO commission_ledger (
			id, month, year, customer_id, seller_id, admin_id, company_id, mutual_fund_id,
			portfolio_value, annual_rate, monthly_rate,
			company_share, admin_share, seller_share, mutual_fund_share,
			amount, total_commission,
			status, scheduled_withdrawal_date, generated_at, withdrawn_at, note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare commission insert: %w", err)
	}
	defer stmt.Close()

	for i := range entries {
		e := &entries[i]
		_, err := stmt.Exec(
			e.ID,
			e.Period.Month,
			e.Period.Year,
			e.CustomerID,
			nullable(e.SellerID),
			nullable(e.AdminID),
			nullable(e.CompanyID),
			nullable(e.MutualFundID),
			e.PortfolioValue.String(),
			e.AnnualRate.String(),
			e.MonthlyRate.String(),
			e.CompanyShare.String(),
			e.AdminShare.String(),
			e.SellerShare.String(),
			e.MutualFundShare.String(),
			e.Amount.String(),
			e.TotalCommission.String(),
			string(e.Status),
			e.ScheduledWithdrawalDate.UTC(),
			e.GeneratedAt.UTC(),
			nullableTime(e.WithdrawnAt),
			e.Note,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert commission row %s: %w", e.ID, err)
		}
	}

	return len(entries), nil
}

// ListByActorAndPeriod retrieves the rows the given scope matches for one
// period. Aggregation happens in the service layer with exact decimals.
func (r *CommissionRepository) ListByActorAndPeriod(scope model.RoleScope, actorID string, period model.Period) ([]model.CommissionEntry, error) {
	//#nosec G202 -- Safe: the column name comes from the fixed role table, not from user input
	query := `
		SELECT ` + entryColumns + `
		FROM commission_ledger
		WHERE ` + scope.SubjectColumn + ` = ? AND month = ? AND year = ?
		ORDER BY generated_at DESC
	`

	rows, err := r.db.Query(query, actorID, period.Month, period.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to query commission_ledger for summary: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListAvailable retrieves the actor's rows that are withdrawable right now:
// status available and scheduled withdrawal date in the past. Sorted by
// scheduled date descending, capped at 50 rows. Read-only.
func (r *CommissionRepository) ListAvailable(scope model.RoleScope, actorID string, now time.Time) ([]model.CommissionEntry, error) {
	//#nosec G202 -- Safe: the column name comes from the fixed role table, not from user input
	query := `
		SELECT ` + entryColumns + `
		FROM commission_ledger
		WHERE ` + scope.SubjectColumn + ` = ? AND status = ? AND scheduled_withdrawal_date <= ?
		ORDER BY scheduled_withdrawal_date DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, actorID, string(model.StatusAvailable), now.UTC(), availableListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query available commissions: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Withdraw transitions the requested rows to withdrawn in one statement,
// re-validating scope, status and due date at mutation time. Rows in ids that
// do not match the predicate are left untouched. Returns the ids actually
// withdrawn; that list is the sole source of truth for how many succeeded.
func (r *CommissionRepository) Withdraw(scope model.RoleScope, actorID string, ids []string, now time.Time) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically and the column name comes from the fixed role table
	query := `
		UPDATE commission_ledger
		SET status = ?, withdrawn_at = ?
		WHERE id IN (` + strings.Join(placeholders, ",") + `)
		  AND ` + scope.SubjectColumn + ` = ?
		  AND status = ?
		  AND scheduled_withdrawal_date <= ?
		RETURNING id
	`

	args := make([]any, 0, len(ids)+5)
	args = append(args, string(model.StatusWithdrawn), now.UTC())
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, actorID, string(model.StatusAvailable), now.UTC())

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to withdraw commissions: %w", err)
	}
	defer rows.Close()

	var withdrawn []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan withdrawn commission id: %w", err)
		}
		withdrawn = append(withdrawn, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating withdrawn commission ids: %w", err)
	}

	return withdrawn, nil
}

// PromoteDue transitions accrued rows whose scheduled withdrawal date has
// arrived to available. Returns the number of rows promoted.
func (r *CommissionRepository) PromoteDue(now time.Time) (int64, error) {
	query := `
		UPDATE commission_ledger
		SET status = ?
		WHERE status = ? AND scheduled_withdrawal_date <= ?
	`

	result, err := r.db.Exec(query, string(model.StatusAvailable), string(model.StatusAccrued), now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to promote due commissions: %w", err)
	}

	promoted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read promoted row count: %w", err)
	}

	return promoted, nil
}

// ListByActor retrieves one history page for the actor, newest first.
func (r *CommissionRepository) ListByActor(scope model.RoleScope, actorID string, limit, offset int) ([]model.CommissionEntry, error) {
	//#nosec G202 -- Safe: the column name comes from the fixed role table, not from user input
	query := `
		SELECT ` + entryColumns + `
		FROM commission_ledger
		WHERE ` + scope.SubjectColumn + ` = ?
		ORDER BY generated_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, actorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query commission history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// CountByActor returns the total number of ledger rows the scope matches.
func (r *CommissionRepository) CountByActor(scope model.RoleScope, actorID string) (int, error) {
	//#nosec G202 -- Safe: the column name comes from the fixed role table, not from user input
	query := `SELECT COUNT(*) FROM commission_ledger WHERE ` + scope.SubjectColumn + ` = ?`

	var count int
	if err := r.db.QueryRow(query, actorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count commission history: %w", err)
	}

	return count, nil
}

// GetEntryOnID retrieves a single ledger row. Test and diagnostic helper.
func (r *CommissionRepository) GetEntryOnID(id string) (model.CommissionEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM commission_ledger WHERE id = ?`

	rows, err := r.db.Query(query, id)
	if err != nil {
		return model.CommissionEntry{}, fmt.Errorf("failed to query commission row: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return model.CommissionEntry{}, err
	}
	if len(entries) == 0 {
		return model.CommissionEntry{}, fmt.Errorf("commission %s: %w", id, apperrors.ErrCommissionNotFound)
	}

	return entries[0], nil
}

func scanEntries(rows *sql.Rows) ([]model.CommissionEntry, error) {
	entries := []model.CommissionEntry{}

	for rows.Next() {
		var (
			e                                          model.CommissionEntry
			sellerID, adminID, companyID, mutualFundID sql.NullString
			portfolioValue, annualRate, monthlyRate    string
			companyShare, adminShare, sellerShare      string
			mutualFundShare, amount, totalCommission   string
			status                                     string
			withdrawnAt                                sql.NullTime
			note                                       sql.NullString
		)

		err := rows.Scan(
			&e.ID,
			&e.Period.Month,
			&e.Period.Year,
			&e.CustomerID,
			&sellerID,
			&adminID,
			&companyID,
			&mutualFundID,
			&portfolioValue,
			&annualRate,
			&monthlyRate,
			&companyShare,
			&adminShare,
			&sellerShare,
			&mutualFundShare,
			&amount,
			&totalCommission,
			&status,
			&e.ScheduledWithdrawalDate,
			&e.GeneratedAt,
			&withdrawnAt,
			&note,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission_ledger row: %w", err)
		}

		e.SellerID = sellerID.String
		e.AdminID = adminID.String
		e.CompanyID = companyID.String
		e.MutualFundID = mutualFundID.String
		e.Status = model.CommissionStatus(status)
		e.Note = note.String
		if withdrawnAt.Valid {
			t := withdrawnAt.Time
			e.WithdrawnAt = &t
		}

		if e.PortfolioValue, err = decimal.NewFromString(portfolioValue); err != nil {
			return nil, fmt.Errorf("failed to parse portfolio_value %q: %w", portfolioValue, err)
		}
		if e.AnnualRate, err = decimal.NewFromString(annualRate); err != nil {
			return nil, fmt.Errorf("failed to parse annual_rate %q: %w", annualRate, err)
		}
		if e.MonthlyRate, err = decimal.NewFromString(monthlyRate); err != nil {
			return nil, fmt.Errorf("failed to parse monthly_rate %q: %w", monthlyRate, err)
		}
		if e.CompanyShare, err = decimal.NewFromString(companyShare); err != nil {
			return nil, fmt.Errorf("failed to parse company_share %q: %w", companyShare, err)
		}
		if e.AdminShare, err = decimal.NewFromString(adminShare); err != nil {
			return nil, fmt.Errorf("failed to parse admin_share %q: %w", adminShare, err)
		}
		if e.SellerShare, err = decimal.NewFromString(sellerShare); err != nil {
			return nil, fmt.Errorf("failed to parse seller_share %q: %w", sellerShare, err)
		}
		if e.MutualFundShare, err = decimal.NewFromString(mutualFundShare); err != nil {
			return nil, fmt.Errorf("failed to parse mutual_fund_share %q: %w", mutualFundShare, err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
		}
		if e.TotalCommission, err = decimal.NewFromString(totalCommission); err != nil {
			return nil, fmt.Errorf("failed to parse total_commission %q: %w", totalCommission, err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commission_ledger rows: %w", err)
	}

	return entries, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
