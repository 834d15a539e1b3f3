package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- User/org read model
		CREATE TABLE IF NOT EXISTS user (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			role VARCHAR(20) NOT NULL,
			parent_id VARCHAR(36),
			admin_id VARCHAR(36),
			company_id VARCHAR(36),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Per-company commission configuration
		CREATE TABLE IF NOT EXISTS company_settings (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			company_id VARCHAR(36) NOT NULL UNIQUE,
			annual_rate_percent TEXT NOT NULL,
			payout_day INTEGER NOT NULL CHECK (payout_day BETWEEN 1 AND 28),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Portfolio read model
		CREATE TABLE IF NOT EXISTS portfolio (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL,
			name VARCHAR(100) NOT NULL,
			current_value TEXT NOT NULL,
			last_valued_at DATETIME NOT NULL,
			FOREIGN KEY(owner_id) REFERENCES user(id)
		);

		-- Commission ledger
		CREATE TABLE IF NOT EXISTS commission_ledger (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
			year INTEGER NOT NULL,
			customer_id VARCHAR(36) NOT NULL,
			seller_id VARCHAR(36),
			admin_id VARCHAR(36),
			company_id VARCHAR(36),
			mutual_fund_id VARCHAR(36),
			portfolio_value TEXT NOT NULL,
			annual_rate TEXT NOT NULL,
			monthly_rate TEXT NOT NULL,
			company_share TEXT NOT NULL,
			admin_share TEXT NOT NULL,
			seller_share TEXT NOT NULL,
			mutual_fund_share TEXT NOT NULL,
			amount TEXT NOT NULL,
			total_commission TEXT NOT NULL,
			status VARCHAR(10) NOT NULL CHECK (status IN ('accrued', 'available', 'withdrawn')),
			scheduled_withdrawal_date DATE NOT NULL,
			generated_at DATETIME NOT NULL,
			withdrawn_at DATETIME,
			note TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_commission_ledger_period ON commission_ledger(year, month);
		CREATE INDEX IF NOT EXISTS idx_commission_ledger_seller ON commission_ledger(seller_id, status);
		CREATE INDEX IF NOT EXISTS idx_commission_ledger_admin ON commission_ledger(admin_id, status);
		CREATE INDEX IF NOT EXISTS idx_commission_ledger_company ON commission_ledger(company_id, status);
		CREATE INDEX IF NOT EXISTS idx_commission_ledger_customer ON commission_ledger(customer_id, status);
	`

	_, err := db.Exec(schema)
	return err
}
