package handlers

import (
	"net/http"
	"time"

	"github.com/develper21/grow-sub000/internal/service"
)

// AccrualHandler handles the internal accrual trigger endpoints. These are
// the same code paths the cron scheduler invokes; exposing them lets an
// operator re-trigger a run safely (the period guard makes it a no-op when
// the month is already processed).
type AccrualHandler struct {
	accrualService *service.AccrualService
}

// NewAccrualHandler creates a new AccrualHandler
func NewAccrualHandler(accrualService *service.AccrualService) *AccrualHandler {
	return &AccrualHandler{
		accrualService: accrualService,
	}
}

// RunResponse represents the accrual trigger response
type RunResponse struct {
	RecordsCreated int `json:"recordsCreated"`
}

// Run triggers an accrual cycle for the current period.
//
// Endpoint: POST /api/internal/accrual/run
func (h *AccrualHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.accrualService.Run(time.Now().UTC())
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "accrual run failed",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, RunResponse{RecordsCreated: result.RecordsCreated})
}

// PromoteResponse represents the promotion trigger response
type PromoteResponse struct {
	Promoted int64 `json:"promoted"`
}

// Promote transitions due accrued rows to available.
//
// Endpoint: POST /api/internal/accrual/promote
func (h *AccrualHandler) Promote(w http.ResponseWriter, r *http.Request) {
	promoted, err := h.accrualService.PromoteDue(time.Now().UTC())
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "promotion run failed",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, PromoteResponse{Promoted: promoted})
}
