package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/common"
	"github.com/junhaoh/cashcount/internal/model"
	"github.com/junhaoh/cashcount/internal/reward"
	"github.com/junhaoh/cashcount/internal/service"
)

const transactionColumns = `id, merchant, category, region, amount,
	billing_amount, cashback_amount, date, card_id, receipt, created_at`

// SaveTransactions saves multiple transactions in one database transaction.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO transactions (
			id, merchant, category, region, amount, billing_amount,
			cashback_amount, date, card_id, receipt
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		_, err = stmt.ExecContext(ctx,
			txn.ID, txn.Merchant, string(txn.Category), string(txn.Region),
			txn.Amount, txn.BillingAmount, txn.CashbackAmount, txn.Date,
			nullableString(txn.CardID), txn.Receipt,
		)
		if err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}

	slog.Debug("saved transactions", "count", len(transactions))
	return nil
}

// GetTransactions returns transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var conditions []string
	var args []any
	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date < ?")
		args = append(args, *filter.EndDate)
	}
	if filter.CardID != "" {
		conditions = append(conditions, "card_id = ?")
		args = append(args, filter.CardID)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// GetTransactionByID returns the transaction with the given ID, or
// common.ErrNotFound.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransaction removes a transaction and nullifies the reference on any
// income entries linked to it.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE incomes SET transaction_id = NULL WHERE transaction_id = ?`, id); err != nil {
		return fmt.Errorf("failed to nullify income references: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}

	return tx.Commit()
}

// RewardUsage snapshots the rewards a card has already been granted inside
// one cap accounting window, split into the buckets caps are tracked
// against. The snapshot is taken in a single query so cap math never runs
// against a half-updated ledger.
func (s *SQLiteStorage) RewardUsage(ctx context.Context, cardID string, window reward.Window) (reward.Usage, error) {
	var usage reward.Usage
	if err := validateContext(ctx); err != nil {
		return usage, err
	}
	if err := validateString(cardID, "cardID"); err != nil {
		return usage, err
	}

	var issueRegion string
	err := s.db.QueryRowContext(ctx,
		`SELECT issue_region FROM cards WHERE id = ?`, cardID).Scan(&issueRegion)
	if errors.Is(err, sql.ErrNoRows) {
		return usage, fmt.Errorf("card %s: %w", cardID, common.ErrNotFound)
	}
	if err != nil {
		return usage, fmt.Errorf("failed to look up card region: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, region, cashback_amount
		FROM transactions
		WHERE card_id = ? AND date >= ? AND date < ?
	`, cardID, window.Start, window.End)
	if err != nil {
		return usage, fmt.Errorf("failed to query reward history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var category, region string
		var cashback float64
		if err := rows.Scan(&category, &region, &cashback); err != nil {
			return usage, fmt.Errorf("failed to scan reward history: %w", err)
		}
		crossBorder := region != issueRegion
		usage.Add(catalog.Category(category), crossBorder, cashback)
	}
	if err := rows.Err(); err != nil {
		return usage, fmt.Errorf("error iterating reward history: %w", err)
	}

	return usage, nil
}

func scanTransaction(row scanner) (model.Transaction, error) {
	var txn model.Transaction
	var category, region string
	var cardID sql.NullString
	var date, createdAt time.Time

	err := row.Scan(
		&txn.ID, &txn.Merchant, &category, &region, &txn.Amount,
		&txn.BillingAmount, &txn.CashbackAmount, &date, &cardID,
		&txn.Receipt, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return txn, err
	}
	if err != nil {
		return txn, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.Category = catalog.Category(category)
	txn.Region = catalog.Region(region)
	txn.Date = date
	txn.CreatedAt = createdAt
	if cardID.Valid {
		txn.CardID = cardID.String
	}
	return txn, nil
}
