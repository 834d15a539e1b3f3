package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/develper21/grow-sub000/internal/model"
	"github.com/develper21/grow-sub000/internal/service"
)

func TestResolveStakeholders(t *testing.T) {
	t.Run("referred customer uses parent as seller", func(t *testing.T) {
		customer := model.User{
			ID:        "cust-1",
			Role:      model.RoleCustomer,
			ParentID:  "seller-1",
			AdminID:   "admin-1",
			CompanyID: "company-1",
		}

		set := service.ResolveStakeholders(customer)

		assert.Equal(t, "cust-1", set.CustomerID)
		assert.Equal(t, "seller-1", set.SellerID)
		assert.Equal(t, "admin-1", set.AdminID)
		assert.Equal(t, "company-1", set.CompanyID)
		assert.Equal(t, model.MutualFundSentinel, set.MutualFundID)
	})

	t.Run("self-referred customer is their own seller", func(t *testing.T) {
		customer := model.User{
			ID:        "cust-2",
			Role:      model.RoleCustomer,
			CompanyID: "company-1",
		}

		set := service.ResolveStakeholders(customer)

		assert.Equal(t, "cust-2", set.SellerID)
	})

	t.Run("missing hierarchy fields stay empty", func(t *testing.T) {
		customer := model.User{ID: "cust-3", Role: model.RoleCustomer}

		set := service.ResolveStakeholders(customer)

		assert.Empty(t, set.AdminID)
		assert.Empty(t, set.CompanyID)
		assert.Equal(t, model.MutualFundSentinel, set.MutualFundID)
	})
}
