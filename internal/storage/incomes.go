package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/junhaoh/cashcount/internal/common"
	"github.com/junhaoh/cashcount/internal/model"
)

// SaveIncome inserts or updates an income entry.
func (s *SQLiteStorage) SaveIncome(ctx context.Context, income *model.Income) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateIncome(income); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO incomes (
			id, amount, date, currency_code, note, transaction_id
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		income.ID, income.Amount, income.Date, income.CurrencyCode,
		income.Note, nullableString(income.TransactionID),
	)
	if err != nil {
		return fmt.Errorf("failed to save income: %w", err)
	}
	return nil
}

// GetIncomes returns income entries, optionally filtered by the transaction
// they are linked to, newest first.
func (s *SQLiteStorage) GetIncomes(ctx context.Context, transactionID string) ([]*model.Income, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT id, amount, date, currency_code, note, transaction_id, created_at
		FROM incomes`
	var args []any
	if transactionID != "" {
		query += ` WHERE transaction_id = ?`
		args = append(args, transactionID)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var incomes []*model.Income
	for rows.Next() {
		var income model.Income
		var linkedID sql.NullString
		if err := rows.Scan(&income.ID, &income.Amount, &income.Date,
			&income.CurrencyCode, &income.Note, &linkedID, &income.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		if linkedID.Valid {
			income.TransactionID = linkedID.String
		}
		incomes = append(incomes, &income)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incomes: %w", err)
	}

	return incomes, nil
}

// DeleteIncome removes an income entry.
func (s *SQLiteStorage) DeleteIncome(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("income %s: %w", id, common.ErrNotFound)
	}
	return nil
}
