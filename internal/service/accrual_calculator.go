package service

import (
	"github.com/shopspring/decimal"

	"github.com/develper21/grow-sub000/internal/apperrors"
)

// DefaultAnnualRatePercent is applied when a caller supplies a non-positive
// annual rate.
var DefaultAnnualRatePercent = decimal.NewFromFloat(2.0)

var (
	four    = decimal.NewFromInt(4)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// CommissionBreakdown holds the four stakeholder shares of one customer's
// monthly commission. All four values are equal by construction.
type CommissionBreakdown struct {
	Company    decimal.Decimal
	Admin      decimal.Decimal
	Seller     decimal.Decimal
	MutualFund decimal.Decimal
}

// CommissionCalculation is the full result of one accrual computation.
type CommissionCalculation struct {
	AnnualRate             decimal.Decimal // percent per year
	MonthlyRate            decimal.Decimal // AnnualRate / 12
	TotalMonthlyCommission decimal.Decimal
	Breakdown              CommissionBreakdown
}

// CalculateCommission computes the monthly commission on a portfolio value
// and its four-way stakeholder split. Pure function, no I/O.
//
// The per-stakeholder amount keeps the historical two-step division chain:
// shareAnnual = annual/4, shareMonthly = shareAnnual/12, then
// value * shareMonthly / 100. Do not collapse this into total/4 — the
// intermediate rounding differs and downstream amounts must not change.
//
// A negative portfolio value is a caller bug; such portfolios must be
// filtered before calculation.
func CalculateCommission(portfolioValue, annualRatePercent decimal.Decimal) (CommissionCalculation, error) {
	if portfolioValue.IsNegative() {
		return CommissionCalculation{}, apperrors.ErrNegativePortfolioValue
	}
	if annualRatePercent.Sign() <= 0 {
		annualRatePercent = DefaultAnnualRatePercent
	}

	monthlyRate := annualRatePercent.Div(twelve)
	totalMonthly := portfolioValue.Mul(monthlyRate).Div(hundred).Round(2)

	shareAnnualRate := annualRatePercent.Div(four)
	shareMonthlyRate := shareAnnualRate.Div(twelve)
	share := portfolioValue.Mul(shareMonthlyRate).Div(hundred).Round(2)

	return CommissionCalculation{
		AnnualRate:             annualRatePercent,
		MonthlyRate:            monthlyRate.Round(4),
		TotalMonthlyCommission: totalMonthly,
		Breakdown: CommissionBreakdown{
			Company:    share,
			Admin:      share,
			Seller:     share,
			MutualFund: share,
		},
	}, nil
}
