package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio is the read model the ledger consumes at accrual time. The
// portfolio subsystem owns these records; the ledger never writes them and
// only reads OwnerID, CurrentValue and Name.
type Portfolio struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"ownerId"`
	Name         string          `json:"name"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	LastValuedAt time.Time       `json:"lastValuedAt"`
}
