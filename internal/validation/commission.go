package validation

import (
	"fmt"
	"strings"

	"github.com/develper21/grow-sub000/internal/api/request"
)

// Error collects per-field validation failures for a single request.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(msgs, "; ")
}

// ValidateWithdrawRequest checks the withdrawal request body: a non-empty
// list of well-formed commission ids plus the acting user.
func ValidateWithdrawRequest(req request.WithdrawRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.UserID) == "" {
		errors["userId"] = "userId is required"
	} else if err := ValidateUUID(req.UserID); err != nil {
		errors["userId"] = "userId must be a valid UUID"
	}

	if strings.TrimSpace(req.Role) == "" {
		errors["role"] = "role is required"
	}

	if len(req.CommissionIDs) == 0 {
		errors["commissionIds"] = "at least one commission id is required"
	} else if err := ValidateUUIDs(req.CommissionIDs); err != nil {
		errors["commissionIds"] = "all commission ids must be valid UUIDs"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
