package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/develper21/grow-sub000/internal/apperrors"
	"github.com/develper21/grow-sub000/internal/model"
)

// UserRepository provides read access to the user and company_settings
// tables, both owned by the user/org subsystem.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserOnID retrieves a user by id.
func (r *UserRepository) GetUserOnID(userID string) (model.User, error) {
	query := `
		SELECT id, name, role, parent_id, admin_id, company_id, created_at
		FROM user
		WHERE id = ?
	`

	var u model.User
	var role string
	var parentID, adminID, companyID sql.NullString

	err := r.db.QueryRow(query, userID).Scan(
		&u.ID,
		&u.Name,
		&role,
		&parentID,
		&adminID,
		&companyID,
		&u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	u.Role = model.Role(role)
	u.ParentID = parentID.String
	u.AdminID = adminID.String
	u.CompanyID = companyID.String

	return u, nil
}

// GetCompanySettingsOnCompanyID retrieves the commission configuration for a
// company. Returns apperrors.ErrCompanySettingsNotFound when the company has
// no record; the accrual job skips those customers.
func (r *UserRepository) GetCompanySettingsOnCompanyID(companyID string) (model.CompanySettings, error) {
	query := `
		SELECT id, company_id, annual_rate_percent, payout_day, created_at
		FROM company_settings
		WHERE company_id = ?
	`

	var cs model.CompanySettings
	var annualRate string

	err := r.db.QueryRow(query, companyID).Scan(
		&cs.ID,
		&cs.CompanyID,
		&annualRate,
		&cs.PayoutDay,
		&cs.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return model.CompanySettings{}, apperrors.ErrCompanySettingsNotFound
	}
	if err != nil {
		return model.CompanySettings{}, fmt.Errorf("failed to query company_settings: %w", err)
	}

	if cs.AnnualRatePercent, err = decimal.NewFromString(annualRate); err != nil {
		return model.CompanySettings{}, fmt.Errorf("failed to parse annual_rate_percent %q: %w", annualRate, err)
	}

	return cs, nil
}
