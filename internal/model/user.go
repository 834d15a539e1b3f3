package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the slice of the user/org subsystem's record the ledger needs:
// the role plus the hierarchy fields that drive stakeholder resolution.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	ParentID  string    `json:"parentId,omitempty"`  // referring seller, empty for self-referred customers
	AdminID   string    `json:"adminId,omitempty"`   // supervising admin
	CompanyID string    `json:"companyId,omitempty"` // company affiliation
	CreatedAt time.Time `json:"createdAt"`
}

// CompanySettings holds the per-company commission configuration. One record
// per company; read-only to the ledger.
type CompanySettings struct {
	ID                string          `json:"id"`
	CompanyID         string          `json:"companyId"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	PayoutDay         int             `json:"payoutDay"` // 1-28, day of month withdrawals open
	CreatedAt         time.Time       `json:"createdAt"`
}

// StakeholderSet names the up-to-four parties entitled to a share of one
// customer's monthly commission. Derived at accrual time, never persisted.
// An empty id means that role gets no ledger row this cycle.
type StakeholderSet struct {
	CustomerID   string
	SellerID     string
	AdminID      string
	CompanyID    string
	MutualFundID string
}
