package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/develper21/grow-sub000/internal/model"
)

func TestPeriod(t *testing.T) {
	t.Run("PeriodOf extracts month and year", func(t *testing.T) {
		p := model.PeriodOf(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
		if p.Month != 6 || p.Year != 2025 {
			t.Errorf("Expected 2025-06, got %s", p)
		}
	})

	t.Run("String pads to four-digit year and two-digit month", func(t *testing.T) {
		p := model.Period{Month: 3, Year: 2025}
		if p.String() != "2025-03" {
			t.Errorf("Expected 2025-03, got %s", p)
		}
	})

	t.Run("Valid rejects out-of-range months", func(t *testing.T) {
		cases := []struct {
			period model.Period
			want   bool
		}{
			{model.Period{Month: 1, Year: 2025}, true},
			{model.Period{Month: 12, Year: 2025}, true},
			{model.Period{Month: 0, Year: 2025}, false},
			{model.Period{Month: 13, Year: 2025}, false},
			{model.Period{Month: 6, Year: 0}, false},
		}
		for _, c := range cases {
			if got := c.period.Valid(); got != c.want {
				t.Errorf("Valid(%s) = %v, want %v", c.period, got, c.want)
			}
		}
	})
}

func TestRoleScope(t *testing.T) {
	t.Run("each role maps to its subject and share columns", func(t *testing.T) {
		cases := []struct {
			role    model.Role
			subject string
			share   string
		}{
			{model.RoleCompanyHead, "company_id", "company_share"},
			{model.RoleAdmin, "admin_id", "admin_share"},
			{model.RoleSeller, "seller_id", "seller_share"},
			{model.RoleCustomer, "customer_id", "mutual_fund_share"},
		}
		for _, c := range cases {
			scope, ok := c.role.Scope()
			if !ok {
				t.Fatalf("Expected scope for role %s", c.role)
			}
			if scope.SubjectColumn != c.subject || scope.ShareColumn != c.share {
				t.Errorf("Scope(%s) = {%s, %s}, want {%s, %s}",
					c.role, scope.SubjectColumn, scope.ShareColumn, c.subject, c.share)
			}
		}
	})

	t.Run("unknown role has no scope", func(t *testing.T) {
		if _, ok := model.Role("auditor").Scope(); ok {
			t.Error("Expected no scope for unknown role")
		}
	})
}

func TestCommissionEntry_SubjectID(t *testing.T) {
	if got := (&model.CommissionEntry{SellerID: "s"}).SubjectID(); got != "s" {
		t.Errorf("Expected seller subject, got %q", got)
	}
	if got := (&model.CommissionEntry{AdminID: "a"}).SubjectID(); got != "a" {
		t.Errorf("Expected admin subject, got %q", got)
	}
	if got := (&model.CommissionEntry{CompanyID: "c"}).SubjectID(); got != "c" {
		t.Errorf("Expected company subject, got %q", got)
	}
	if got := (&model.CommissionEntry{MutualFundID: model.MutualFundSentinel}).SubjectID(); got != model.MutualFundSentinel {
		t.Errorf("Expected mutual-fund sentinel subject, got %q", got)
	}
}

func TestCommissionEntry_ShareFor(t *testing.T) {
	entry := model.CommissionEntry{
		CompanyShare:    decimal.RequireFromString("1"),
		AdminShare:      decimal.RequireFromString("2"),
		SellerShare:     decimal.RequireFromString("3"),
		MutualFundShare: decimal.RequireFromString("4"),
	}

	cases := []struct {
		role model.Role
		want string
	}{
		{model.RoleCompanyHead, "1"},
		{model.RoleAdmin, "2"},
		{model.RoleSeller, "3"},
		{model.RoleCustomer, "4"},
	}
	for _, c := range cases {
		scope, _ := c.role.Scope()
		if got := entry.ShareFor(scope); got.String() != c.want {
			t.Errorf("ShareFor(%s) = %s, want %s", c.role, got, c.want)
		}
	}
}
