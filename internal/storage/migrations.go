package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS cards (
					id TEXT PRIMARY KEY,
					bank_name TEXT NOT NULL,
					type TEXT NOT NULL,
					suffix TEXT NOT NULL,
					color1 TEXT NOT NULL DEFAULT '',
					color2 TEXT NOT NULL DEFAULT '',
					issue_region TEXT NOT NULL,
					default_rate REAL NOT NULL DEFAULT 0,
					foreign_rate REAL,
					special_rates TEXT NOT NULL DEFAULT '{}',
					local_base_cap REAL NOT NULL DEFAULT 0,
					foreign_base_cap REAL NOT NULL DEFAULT 0,
					category_caps TEXT NOT NULL DEFAULT '{}',
					cap_period TEXT NOT NULL DEFAULT 'yearly',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_cards_suffix ON cards(suffix)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					merchant TEXT NOT NULL,
					category TEXT NOT NULL,
					region TEXT NOT NULL,
					amount REAL NOT NULL,
					billing_amount REAL NOT NULL,
					cashback_amount REAL NOT NULL DEFAULT 0,
					date DATETIME NOT NULL,
					card_id TEXT REFERENCES cards(id) ON DELETE SET NULL,
					receipt BLOB,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_card ON transactions(card_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add card templates",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS card_templates (
					template_key TEXT PRIMARY KEY,
					bank_name TEXT NOT NULL,
					type TEXT NOT NULL,
					color1 TEXT NOT NULL DEFAULT '',
					color2 TEXT NOT NULL DEFAULT '',
					region TEXT NOT NULL,
					default_rate REAL NOT NULL DEFAULT 0,
					foreign_rate REAL,
					special_rates TEXT NOT NULL DEFAULT '{}',
					local_base_cap REAL NOT NULL DEFAULT 0,
					foreign_base_cap REAL NOT NULL DEFAULT 0,
					category_caps TEXT NOT NULL DEFAULT '{}',
					cap_period TEXT NOT NULL DEFAULT 'yearly',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`ALTER TABLE cards ADD COLUMN template_key TEXT`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add income ledger",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS incomes (
					id TEXT PRIMARY KEY,
					amount REAL NOT NULL,
					date DATETIME NOT NULL,
					currency_code TEXT NOT NULL DEFAULT '',
					note TEXT NOT NULL DEFAULT '',
					transaction_id TEXT REFERENCES transactions(id) ON DELETE SET NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_incomes_transaction ON incomes(transaction_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     4,
		Description: "Add repayment reminder day",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE cards ADD COLUMN repayment_day INTEGER NOT NULL DEFAULT 0`)
			return err
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
