package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/develper21/grow-sub000/internal/model"
)

// PortfolioRepository provides read access to the portfolio table. The
// portfolio subsystem owns these rows; the accrual job only reads them.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetPortfolios retrieves all portfolios. Value-based filtering (skipping
// zero or negative valuations) happens in the accrual service.
func (r *PortfolioRepository) GetPortfolios() ([]model.Portfolio, error) {
	query := `
		SELECT id, owner_id, name, current_value, last_valued_at
		FROM portfolio
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		var p model.Portfolio
		var currentValue string

		err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.Name,
			&currentValue,
			&p.LastValuedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}

		if p.CurrentValue, err = decimal.NewFromString(currentValue); err != nil {
			return nil, fmt.Errorf("failed to parse current_value %q: %w", currentValue, err)
		}

		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}
