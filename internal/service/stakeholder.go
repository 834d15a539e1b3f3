package service

import "github.com/develper21/grow-sub000/internal/model"

// ResolveStakeholders determines which parties are entitled to a share of the
// customer's monthly commission.
//
// The seller is the customer's direct parent when one exists; a customer with
// no parent sold to themselves and takes the seller share. Admin and company
// come straight from the user's hierarchy fields and may be empty, in which
// case that role simply gets no ledger row this cycle. The mutual-fund slot
// always resolves to the fixed sentinel.
func ResolveStakeholders(customer model.User) model.StakeholderSet {
	sellerID := customer.ParentID
	if sellerID == "" {
		sellerID = customer.ID
	}

	return model.StakeholderSet{
		CustomerID:   customer.ID,
		SellerID:     sellerID,
		AdminID:      customer.AdminID,
		CompanyID:    customer.CompanyID,
		MutualFundID: model.MutualFundSentinel,
	}
}
