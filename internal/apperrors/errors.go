package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrCompanySettingsNotFound indicates that no commission configuration
	// exists for the given company.
	ErrCompanySettingsNotFound = errors.New("company settings not found")

	// ErrCommissionNotFound indicates that a ledger row with the given ID does not exist.
	ErrCommissionNotFound = errors.New("commission not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrUnknownRole indicates that a role was passed that the ledger has no
	// column mapping for. This is a programming error in the caller, not a
	// condition to coerce into an empty result.
	ErrUnknownRole = errors.New("unknown actor role")

	// ErrNegativePortfolioValue indicates that a negative portfolio value
	// reached the commission calculator. Callers must filter these out.
	ErrNegativePortfolioValue = errors.New("portfolio value cannot be negative")

	// ErrInvalidPeriod indicates a month outside 1-12 or a non-positive year.
	ErrInvalidPeriod = errors.New("invalid accrual period")
)
