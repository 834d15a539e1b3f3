package request

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/develper21/grow-sub000/internal/model"
)

// History pagination bounds.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// WithdrawRequest represents the request body for withdrawing commissions.
type WithdrawRequest struct {
	CommissionIDs []string `json:"commissionIds"`
	UserID        string   `json:"userId"`
	Role          string   `json:"role"`
}

// Actor extracts the acting user's id and role from query parameters.
// Authentication lives outside this service; the API layer passes identity
// through as plain parameters.
func Actor(r *http.Request) (string, model.Role, error) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		return "", "", fmt.Errorf("user_id is required")
	}

	role := r.URL.Query().Get("role")
	if role == "" {
		return "", "", fmt.Errorf("role is required")
	}

	return userID, model.Role(role), nil
}

// PeriodOrCurrent extracts month/year query parameters, defaulting to the
// period containing now when both are absent.
func PeriodOrCurrent(r *http.Request, now time.Time) (model.Period, error) {
	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")

	if monthStr == "" && yearStr == "" {
		return model.PeriodOf(now), nil
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return model.Period{}, fmt.Errorf("failed to parse month: %w", err)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return model.Period{}, fmt.Errorf("failed to parse year: %w", err)
	}

	period := model.Period{Month: month, Year: year}
	if !period.Valid() {
		return model.Period{}, fmt.Errorf("month must be 1-12 and year positive")
	}

	return period, nil
}

// Pagination extracts limit/offset query parameters with defaults and caps.
func Pagination(r *http.Request) (limit, offset int, err error) {
	limit = DefaultHistoryLimit
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
		if limit > MaxHistoryLimit {
			limit = MaxHistoryLimit
		}
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}

	return limit, offset, nil
}
