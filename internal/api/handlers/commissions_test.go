package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/develper21/grow-sub000/internal/api/handlers"
	"github.com/develper21/grow-sub000/internal/api/request"
	"github.com/develper21/grow-sub000/internal/model"
	"github.com/develper21/grow-sub000/internal/testutil"
)

func TestCommissionHandler_Summary(t *testing.T) {
	t.Run("returns the actor's aggregate for the period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCommissionHandler(testutil.NewTestCommissionService(t, db))

		sellerID := testutil.MakeID()
		testutil.NewCommissionEntry().ForSeller(sellerID).Build(t, db)
		testutil.NewCommissionEntry().ForSeller(sellerID).Build(t, db)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/commission/summary", map[string]string{
			"user_id": sellerID,
			"role":    "seller",
			"month":   "6",
			"year":    "2025",
		})
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp handlers.SummaryResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if resp.Count != 2 {
			t.Errorf("Expected count 2, got %d", resp.Count)
		}
		if resp.UserShare != "833.34" {
			t.Errorf("Expected user share 833.34, got %s", resp.UserShare)
		}
		if resp.TotalCommission != "3333.34" {
			t.Errorf("Expected total commission 3333.34, got %s", resp.TotalCommission)
		}
	})

	t.Run("requires actor parameters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCommissionHandler(testutil.NewTestCommissionService(t, db))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/commission/summary", map[string]string{
			"role": "seller",
		})
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 without user_id, got %d", w.Code)
		}
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCommissionHandler(testutil.NewTestCommissionService(t, db))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/commission/summary", map[string]string{
			"user_id": testutil.MakeID(),
			"role":    "auditor",
			"month":   "6",
			"year":    "2025",
		})
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for unknown role, got %d", w.Code)
		}
	})

	t.Run("rejects an invalid period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCommissionHandler(testutil.NewTestCommissionService(t, db))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/commission/summary", map[string]string{
			"user_id": testutil.MakeID(),
			"role":    "seller",
			"month":   "13",
			"year":    "2025",
		})
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for month 13, got %d", w.Code)
		}
	})
}

func TestCommissionHandler_Available(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewCommissionHandler(testutil.NewTestCommissionService(t, db))

	sellerID := testutil.MakeID()
	due := testutil.NewCommissionEntry().
		ForSeller(sellerID).
		WithStatus(model.StatusAvailable).
		WithScheduledDate(time.Now().UTC().AddDate(0, 0, -1)).
		Build(t, db)
	// Accrued row must not show up.
	testutil.NewCommissionEntry().
		ForSeller(sellerID).
		WithScheduledDate(time.Now().UTC().AddDate(0, 0, -1)).
		Build(t, db)

	req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/commission/available", map[string]string{
		"user_id": sellerID,
		"role":    "seller",
	})
	w := httptest.NewRecorder()

	handler.Available(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp []handlers.CommissionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(resp) != 1 {
		t.Fatalf("Expected 1 withdrawable row, got %d", len(resp))
	}
	if resp[0].ID != due.ID {
		t.Errorf("Expected row %s, got %s", due.ID, resp[0].ID)
	}
	if resp[0].SubjectID != sellerID {
		t.Errorf("Expected subject id %s, got %s", sellerID, resp[0].SubjectID)
	}
	if resp[0].Amount != "416.67" {
		t.Errorf("Expected amount 416.67, got %s", resp[0].Amount)
	}
}

func TestCommissionHandler_Withdraw(t *testing.T) {
	t.Run("withdraws a due row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCommissionHandler(testutil.NewTestCommissionService(t, db))

		sellerID := testutil.MakeID()
		entry := testutil.NewCommissionEntry().
			ForSeller(sellerID).
			WithStatus(model.StatusAvailable).
			WithScheduledDate(time.Now().UTC().AddDate(0, 0, -1)).
			Build(t, db)

		req := testutil.NewRequestWithJSONBody(t, http.MethodPost, "/api/commission/withdraw", request.WithdrawRequest{
			CommissionIDs: []string{entry.ID},
			UserID:        sellerID,
			Role:          "seller",
		})
		w := httptest.NewRecorder()

		handler.Withdraw(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp handlers.WithdrawResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if resp.WithdrawnCount != 1 {
			t.Errorf("Expected 1 withdrawn, got %d", resp.WithdrawnCount)
		}
		if len(resp.RejectedIDs) != 0 {
			t.Errorf("Expected no rejected ids, got %v", resp.RejectedIDs)
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCommissionHandler(testutil.NewTestCommissionService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/commission/withdraw", nil)
		w := httptest.NewRecorder()

		handler.Withdraw(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for empty body, got %d", w.Code)
		}
	})

	t.Run("rejects missing commission ids", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCommissionHandler(testutil.NewTestCommissionService(t, db))

		req := testutil.NewRequestWithJSONBody(t, http.MethodPost, "/api/commission/withdraw", request.WithdrawRequest{
			UserID: testutil.MakeID(),
			Role:   "seller",
		})
		w := httptest.NewRecorder()

		handler.Withdraw(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 without commission ids, got %d", w.Code)
		}
	})

	t.Run("rejects non-uuid commission ids", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCommissionHandler(testutil.NewTestCommissionService(t, db))

		req := testutil.NewRequestWithJSONBody(t, http.MethodPost, "/api/commission/withdraw", request.WithdrawRequest{
			CommissionIDs: []string{"not-a-uuid"},
			UserID:        testutil.MakeID(),
			Role:          "seller",
		})
		w := httptest.NewRecorder()

		handler.Withdraw(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for malformed ids, got %d", w.Code)
		}
	})
}

func TestCommissionHandler_History(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewCommissionHandler(testutil.NewTestCommissionService(t, db))

	sellerID := testutil.MakeID()
	for month := 4; month <= 6; month++ {
		testutil.NewCommissionEntry().
			ForSeller(sellerID).
			WithPeriod(month, 2025).
			WithGeneratedAt(time.Date(2025, time.Month(month), 1, 2, 0, 0, 0, time.UTC)).
			Build(t, db)
	}

	req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/commission/history", map[string]string{
		"user_id": sellerID,
		"role":    "seller",
		"limit":   "2",
	})
	w := httptest.NewRecorder()

	handler.History(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp handlers.HistoryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Total != 3 {
		t.Errorf("Expected total 3, got %d", resp.Total)
	}
	if len(resp.Commissions) != 2 {
		t.Fatalf("Expected 2 rows on the first page, got %d", len(resp.Commissions))
	}
	if resp.Commissions[0].Month != 6 {
		t.Errorf("Expected newest row first (month 6), got month %d", resp.Commissions[0].Month)
	}
	if !resp.HasMore {
		t.Error("Expected HasMore on the first page")
	}
}
