package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MutualFundSentinel is the fixed subject id of the fund's retained share.
// The fund is not a user; its rows carry this sentinel instead of a UUID.
const MutualFundSentinel = "MUTUAL-FUND"

// CommissionStatus is the lifecycle state of a ledger row. Transitions are
// strictly forward: accrued -> available -> withdrawn.
type CommissionStatus string

const (
	StatusAccrued   CommissionStatus = "accrued"
	StatusAvailable CommissionStatus = "available"
	StatusWithdrawn CommissionStatus = "withdrawn"
)

// Period identifies one accrual month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Valid reports whether the period is a real calendar month.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year > 0
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Role names the four parties the ledger serves.
type Role string

const (
	RoleCompanyHead Role = "company_head"
	RoleAdmin       Role = "admin"
	RoleSeller      Role = "seller"
	RoleCustomer    Role = "customer"
)

// RoleScope maps a role onto the ledger columns that scope its view: the
// subject column its rows are filtered on and the share column that holds
// its cut. Both values are trusted in SQL, so they only ever come from the
// fixed table below.
type RoleScope struct {
	SubjectColumn string
	ShareColumn   string
}

// The customer scope reads the mutual-fund share column; customer-facing
// statements report the fund's retained cut as the customer's number.
var roleScopes = map[Role]RoleScope{
	RoleCompanyHead: {SubjectColumn: "company_id", ShareColumn: "company_share"},
	RoleAdmin:       {SubjectColumn: "admin_id", ShareColumn: "admin_share"},
	RoleSeller:      {SubjectColumn: "seller_id", ShareColumn: "seller_share"},
	RoleCustomer:    {SubjectColumn: "customer_id", ShareColumn: "mutual_fund_share"},
}

// Scope returns the ledger scope for the role. The second return value is
// false for any role outside the fixed table; callers must fail loudly
// rather than fall back to a default scope.
func (r Role) Scope() (RoleScope, bool) {
	scope, ok := roleScopes[r]
	return scope, ok
}

// CommissionEntry is one ledger row. Each accrual fans out into up to four
// rows per customer and month, one per stakeholder; every row repeats the
// full split breakdown and carries exactly one non-empty subject id among
// SellerID, AdminID, CompanyID and MutualFundID.
type CommissionEntry struct {
	ID         string `json:"id"`
	Period     Period `json:"period"`
	CustomerID string `json:"customerId"`

	SellerID     string `json:"sellerId,omitempty"`
	AdminID      string `json:"adminId,omitempty"`
	CompanyID    string `json:"companyId,omitempty"`
	MutualFundID string `json:"mutualFundId,omitempty"`

	PortfolioValue decimal.Decimal `json:"portfolioValue"`
	AnnualRate     decimal.Decimal `json:"annualRate"`
	MonthlyRate    decimal.Decimal `json:"monthlyRate"`

	CompanyShare    decimal.Decimal `json:"companyShare"`
	AdminShare      decimal.Decimal `json:"adminShare"`
	SellerShare     decimal.Decimal `json:"sellerShare"`
	MutualFundShare decimal.Decimal `json:"mutualFundShare"`

	// Amount is the subject's own cut, duplicated out of the breakdown so
	// scoped reads never need to know which share column applies.
	Amount          decimal.Decimal `json:"amount"`
	TotalCommission decimal.Decimal `json:"totalCommission"`

	Status                  CommissionStatus `json:"status"`
	ScheduledWithdrawalDate time.Time        `json:"scheduledWithdrawalDate"`
	GeneratedAt             time.Time        `json:"generatedAt"`
	WithdrawnAt             *time.Time       `json:"withdrawnAt,omitempty"`
	Note                    string           `json:"note,omitempty"`
}

// SubjectID returns the row's single non-empty subject id.
func (e *CommissionEntry) SubjectID() string {
	switch {
	case e.SellerID != "":
		return e.SellerID
	case e.AdminID != "":
		return e.AdminID
	case e.CompanyID != "":
		return e.CompanyID
	default:
		return e.MutualFundID
	}
}

// ShareFor returns the share the scope's share column points at.
func (e *CommissionEntry) ShareFor(scope RoleScope) decimal.Decimal {
	switch scope.ShareColumn {
	case "company_share":
		return e.CompanyShare
	case "admin_share":
		return e.AdminShare
	case "seller_share":
		return e.SellerShare
	default:
		return e.MutualFundShare
	}
}

// CommissionSummary aggregates an actor's rows for one period.
type CommissionSummary struct {
	TotalCommission   decimal.Decimal `json:"totalCommission"`
	UserShare         decimal.Decimal `json:"userShare"`
	Count             int             `json:"count"`
	AvgPortfolioValue decimal.Decimal `json:"avgPortfolioValue"`
}
