package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/develper21/grow-sub000/internal/model"
)

// MakeID returns a fresh UUID string.
func MakeID() string {
	return uuid.NewString()
}

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	customer := testutil.NewUser().
//	    WithRole(model.RoleCustomer).
//	    WithCompany(companyID).
//	    Build(t, db)
type UserBuilder struct {
	ID        string
	Name      string
	Role      model.Role
	ParentID  string
	AdminID   string
	CompanyID string
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:   MakeID(),
		Name: "Test User",
		Role: model.RoleCustomer,
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.Name = name
	return b
}

// WithRole sets the user's role.
func (b *UserBuilder) WithRole(role model.Role) *UserBuilder {
	b.Role = role
	return b
}

// WithParent sets the referring seller.
func (b *UserBuilder) WithParent(parentID string) *UserBuilder {
	b.ParentID = parentID
	return b
}

// WithAdmin sets the supervising admin.
func (b *UserBuilder) WithAdmin(adminID string) *UserBuilder {
	b.AdminID = adminID
	return b
}

// WithCompany sets the company affiliation.
func (b *UserBuilder) WithCompany(companyID string) *UserBuilder {
	b.CompanyID = companyID
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	query := `
		INSERT INTO user (id, name, role, parent_id, admin_id, company_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, string(b.Role),
		orNil(b.ParentID), orNil(b.AdminID), orNil(b.CompanyID))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{
		ID:        b.ID,
		Name:      b.Name,
		Role:      b.Role,
		ParentID:  b.ParentID,
		AdminID:   b.AdminID,
		CompanyID: b.CompanyID,
	}
}

// CompanySettingsBuilder provides a fluent interface for creating commission
// configuration records.
type CompanySettingsBuilder struct {
	ID                string
	CompanyID         string
	AnnualRatePercent string
	PayoutDay         int
}

// NewCompanySettings creates a CompanySettingsBuilder with sensible defaults.
func NewCompanySettings() *CompanySettingsBuilder {
	return &CompanySettingsBuilder{
		ID:                MakeID(),
		CompanyID:         MakeID(),
		AnnualRatePercent: "2.0",
		PayoutDay:         5,
	}
}

// WithCompany sets the company the settings belong to.
func (b *CompanySettingsBuilder) WithCompany(companyID string) *CompanySettingsBuilder {
	b.CompanyID = companyID
	return b
}

// WithAnnualRate sets the annual commission rate in percent.
func (b *CompanySettingsBuilder) WithAnnualRate(rate string) *CompanySettingsBuilder {
	b.AnnualRatePercent = rate
	return b
}

// WithPayoutDay sets the day of month withdrawals open.
func (b *CompanySettingsBuilder) WithPayoutDay(day int) *CompanySettingsBuilder {
	b.PayoutDay = day
	return b
}

// Build creates the settings record in the database and returns it.
func (b *CompanySettingsBuilder) Build(t *testing.T, db *sql.DB) model.CompanySettings {
	t.Helper()

	query := `
		INSERT INTO company_settings (id, company_id, annual_rate_percent, payout_day)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.CompanyID, b.AnnualRatePercent, b.PayoutDay)
	if err != nil {
		t.Fatalf("Failed to create test company settings: %v", err)
	}

	return model.CompanySettings{
		ID:                b.ID,
		CompanyID:         b.CompanyID,
		AnnualRatePercent: decimal.RequireFromString(b.AnnualRatePercent),
		PayoutDay:         b.PayoutDay,
	}
}

// PortfolioBuilder provides a fluent interface for creating test portfolios.
type PortfolioBuilder struct {
	ID           string
	OwnerID      string
	Name         string
	CurrentValue string
	LastValuedAt time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:           MakeID(),
		Name:         "Test Portfolio",
		CurrentValue: "1000000",
		LastValuedAt: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

// WithOwner sets the owning user.
func (b *PortfolioBuilder) WithOwner(ownerID string) *PortfolioBuilder {
	b.OwnerID = ownerID
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithValue sets the current valuation as a decimal string.
func (b *PortfolioBuilder) WithValue(value string) *PortfolioBuilder {
	b.CurrentValue = value
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, owner_id, name, current_value, last_valued_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.OwnerID, b.Name, b.CurrentValue, b.LastValuedAt)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:           b.ID,
		OwnerID:      b.OwnerID,
		Name:         b.Name,
		CurrentValue: decimal.RequireFromString(b.CurrentValue),
		LastValuedAt: b.LastValuedAt,
	}
}

// CommissionEntryBuilder provides a fluent interface for seeding ledger rows
// directly, bypassing the accrual job. Exactly one subject setter should be
// used per row.
type CommissionEntryBuilder struct {
	entry model.CommissionEntry
}

// NewCommissionEntry creates a CommissionEntryBuilder with sensible defaults:
// an accrued seller-subject row for June 2025 on a 1,000,000 portfolio at 2%.
func NewCommissionEntry() *CommissionEntryBuilder {
	return &CommissionEntryBuilder{
		entry: model.CommissionEntry{
			ID:                      MakeID(),
			Period:                  model.Period{Month: 6, Year: 2025},
			CustomerID:              MakeID(),
			PortfolioValue:          decimal.RequireFromString("1000000"),
			AnnualRate:              decimal.RequireFromString("2.0"),
			MonthlyRate:             decimal.RequireFromString("0.1667"),
			CompanyShare:            decimal.RequireFromString("416.67"),
			AdminShare:              decimal.RequireFromString("416.67"),
			SellerShare:             decimal.RequireFromString("416.67"),
			MutualFundShare:         decimal.RequireFromString("416.67"),
			Amount:                  decimal.RequireFromString("416.67"),
			TotalCommission:         decimal.RequireFromString("1666.67"),
			Status:                  model.StatusAccrued,
			ScheduledWithdrawalDate: time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
			GeneratedAt:             time.Date(2025, 6, 1, 2, 0, 0, 0, time.UTC),
			Note:                    "Test Portfolio",
		},
	}
}

// WithPeriod sets the accrual period.
func (b *CommissionEntryBuilder) WithPeriod(month, year int) *CommissionEntryBuilder {
	b.entry.Period = model.Period{Month: month, Year: year}
	return b
}

// WithCustomer sets the customer the row was accrued for.
func (b *CommissionEntryBuilder) WithCustomer(customerID string) *CommissionEntryBuilder {
	b.entry.CustomerID = customerID
	return b
}

// ForSeller makes the row a seller-subject row.
func (b *CommissionEntryBuilder) ForSeller(sellerID string) *CommissionEntryBuilder {
	b.entry.SellerID = sellerID
	return b
}

// ForAdmin makes the row an admin-subject row.
func (b *CommissionEntryBuilder) ForAdmin(adminID string) *CommissionEntryBuilder {
	b.entry.AdminID = adminID
	return b
}

// ForCompany makes the row a company-subject row.
func (b *CommissionEntryBuilder) ForCompany(companyID string) *CommissionEntryBuilder {
	b.entry.CompanyID = companyID
	return b
}

// ForMutualFund makes the row the mutual-fund sentinel row.
func (b *CommissionEntryBuilder) ForMutualFund() *CommissionEntryBuilder {
	b.entry.MutualFundID = model.MutualFundSentinel
	return b
}

// WithStatus sets the lifecycle status.
func (b *CommissionEntryBuilder) WithStatus(status model.CommissionStatus) *CommissionEntryBuilder {
	b.entry.Status = status
	return b
}

// WithScheduledDate sets the scheduled withdrawal date.
func (b *CommissionEntryBuilder) WithScheduledDate(date time.Time) *CommissionEntryBuilder {
	b.entry.ScheduledWithdrawalDate = date
	return b
}

// WithGeneratedAt sets the generation timestamp.
func (b *CommissionEntryBuilder) WithGeneratedAt(at time.Time) *CommissionEntryBuilder {
	b.entry.GeneratedAt = at
	return b
}

// WithAmount sets the subject's share amount.
func (b *CommissionEntryBuilder) WithAmount(amount string) *CommissionEntryBuilder {
	b.entry.Amount = decimal.RequireFromString(amount)
	return b
}

// Entry returns the built row without inserting it, for feeding repository
// batch inserts directly.
func (b *CommissionEntryBuilder) Entry() model.CommissionEntry {
	return b.entry
}

// Build inserts the ledger row and returns it.
func (b *CommissionEntryBuilder) Build(t *testing.T, db *sql.DB) model.CommissionEntry {
	t.Helper()

	query := `
		INSERT INTO commission_ledger (
			id, month, year, customer_id, seller_id, admin_id, company_id, mutual_fund_id,
			portfolio_value, annual_rate, monthly_rate,
			company_share, admin_share, seller_share, mutual_fund_share,
			amount, total_commission,
			status, scheduled_withdrawal_date, generated_at, withdrawn_at, note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	e := b.entry
	_, err := db.Exec(query,
		e.ID, e.Period.Month, e.Period.Year, e.CustomerID,
		orNil(e.SellerID), orNil(e.AdminID), orNil(e.CompanyID), orNil(e.MutualFundID),
		e.PortfolioValue.String(), e.AnnualRate.String(), e.MonthlyRate.String(),
		e.CompanyShare.String(), e.AdminShare.String(), e.SellerShare.String(), e.MutualFundShare.String(),
		e.Amount.String(), e.TotalCommission.String(),
		string(e.Status), e.ScheduledWithdrawalDate.UTC(), e.GeneratedAt.UTC(), nil, e.Note,
	)
	if err != nil {
		t.Fatalf("Failed to create test commission entry: %v", err)
	}

	return e
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
