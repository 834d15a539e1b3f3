package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/develper21/grow-sub000/internal/api/request"
	"github.com/develper21/grow-sub000/internal/apperrors"
	"github.com/develper21/grow-sub000/internal/model"
	"github.com/develper21/grow-sub000/internal/service"
	"github.com/develper21/grow-sub000/internal/validation"
)

// CommissionHandler handles commission-ledger HTTP requests
type CommissionHandler struct {
	commissionService *service.CommissionService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissionService *service.CommissionService) *CommissionHandler {
	return &CommissionHandler{
		commissionService: commissionService,
	}
}

// CommissionResponse represents one ledger row in API responses.
// Monetary values are decimal strings.
type CommissionResponse struct {
	ID                      string  `json:"id"`
	Month                   int     `json:"month"`
	Year                    int     `json:"year"`
	CustomerID              string  `json:"customerId"`
	SubjectID               string  `json:"subjectId"`
	Amount                  string  `json:"amount"`
	TotalCommission         string  `json:"totalCommission"`
	PortfolioValue          string  `json:"portfolioValue"`
	AnnualRate              string  `json:"annualRate"`
	MonthlyRate             string  `json:"monthlyRate"`
	Status                  string  `json:"status"`
	ScheduledWithdrawalDate string  `json:"scheduledWithdrawalDate"`
	GeneratedAt             string  `json:"generatedAt"`
	WithdrawnAt             *string `json:"withdrawnAt,omitempty"`
	Note                    string  `json:"note"`
}

func toCommissionResponse(e *model.CommissionEntry) CommissionResponse {
	resp := CommissionResponse{
		ID:                      e.ID,
		Month:                   e.Period.Month,
		Year:                    e.Period.Year,
		CustomerID:              e.CustomerID,
		SubjectID:               e.SubjectID(),
		Amount:                  e.Amount.String(),
		TotalCommission:         e.TotalCommission.String(),
		PortfolioValue:          e.PortfolioValue.String(),
		AnnualRate:              e.AnnualRate.String(),
		MonthlyRate:             e.MonthlyRate.String(),
		Status:                  string(e.Status),
		ScheduledWithdrawalDate: e.ScheduledWithdrawalDate.Format("2006-01-02"),
		GeneratedAt:             e.GeneratedAt.Format(time.RFC3339),
		Note:                    e.Note,
	}
	if e.WithdrawnAt != nil {
		withdrawnAt := e.WithdrawnAt.Format(time.RFC3339)
		resp.WithdrawnAt = &withdrawnAt
	}
	return resp
}

func toCommissionResponses(entries []model.CommissionEntry) []CommissionResponse {
	responses := make([]CommissionResponse, len(entries))
	for i := range entries {
		responses[i] = toCommissionResponse(&entries[i])
	}
	return responses
}

// SummaryResponse represents the monthly summary response
type SummaryResponse struct {
	TotalCommission   string `json:"totalCommission"`
	UserShare         string `json:"userShare"`
	Count             int    `json:"count"`
	AvgPortfolioValue string `json:"avgPortfolioValue"`
}

// Summary returns the actor's commission aggregate for one period.
//
// Endpoint: GET /api/commission/summary?user_id=&role=&month=&year=
func (h *CommissionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actorID, role, err := request.Actor(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid actor parameters",
			"detail": err.Error(),
		})
		return
	}

	period, err := request.PeriodOrCurrent(r, time.Now().UTC())
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid period parameters",
			"detail": err.Error(),
		})
		return
	}

	summary, err := h.commissionService.Summarize(actorID, role, period)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownRole) {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error":  "unknown role",
				"detail": err.Error(),
			})
			return
		}
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "failed to get commission summary",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, SummaryResponse{
		TotalCommission:   summary.TotalCommission.String(),
		UserShare:         summary.UserShare.String(),
		Count:             summary.Count,
		AvgPortfolioValue: summary.AvgPortfolioValue.String(),
	})
}

// Available lists the actor's withdrawable ledger rows.
//
// Endpoint: GET /api/commission/available?user_id=&role=
func (h *CommissionHandler) Available(w http.ResponseWriter, r *http.Request) {
	actorID, role, err := request.Actor(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid actor parameters",
			"detail": err.Error(),
		})
		return
	}

	entries, err := h.commissionService.ListAvailable(actorID, role, time.Now().UTC())
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownRole) {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error":  "unknown role",
				"detail": err.Error(),
			})
			return
		}
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "failed to list available commissions",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, toCommissionResponses(entries))
}

// WithdrawResponse represents the withdrawal mutation response
type WithdrawResponse struct {
	WithdrawnCount int      `json:"withdrawnCount"`
	RejectedIDs    []string `json:"rejectedIds,omitempty"`
	Message        string   `json:"message"`
}

// Withdraw transitions a batch of the actor's due rows to withdrawn.
//
// Endpoint: POST /api/commission/withdraw
func (h *CommissionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req request.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid request body",
			"detail": err.Error(),
		})
		return
	}

	if err := validation.ValidateWithdrawRequest(req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "validation failed",
			"detail": err.Error(),
		})
		return
	}

	result, err := h.commissionService.Withdraw(req.CommissionIDs, req.UserID, model.Role(req.Role), time.Now().UTC())
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownRole) {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error":  "unknown role",
				"detail": err.Error(),
			})
			return
		}
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "failed to withdraw commissions",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, WithdrawResponse{
		WithdrawnCount: result.WithdrawnCount,
		RejectedIDs:    result.RejectedIDs,
		Message:        result.Message,
	})
}

// HistoryResponse represents one page of commission history
type HistoryResponse struct {
	Commissions []CommissionResponse `json:"commissions"`
	Total       int                  `json:"total"`
	HasMore     bool                 `json:"hasMore"`
}

// History returns a paginated slice of the actor's ledger rows, newest first.
//
// Endpoint: GET /api/commission/history?user_id=&role=&limit=&offset=
func (h *CommissionHandler) History(w http.ResponseWriter, r *http.Request) {
	actorID, role, err := request.Actor(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid actor parameters",
			"detail": err.Error(),
		})
		return
	}

	limit, offset, err := request.Pagination(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid pagination parameters",
			"detail": err.Error(),
		})
		return
	}

	page, err := h.commissionService.History(actorID, role, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownRole) {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error":  "unknown role",
				"detail": err.Error(),
			})
			return
		}
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "failed to get commission history",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, HistoryResponse{
		Commissions: toCommissionResponses(page.Commissions),
		Total:       page.Total,
		HasMore:     page.HasMore,
	})
}
