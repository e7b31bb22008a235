package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/common"
	"github.com/junhaoh/cashcount/internal/model"
)

const cardColumns = `id, bank_name, type, suffix, color1, color2, issue_region,
	default_rate, foreign_rate, special_rates, local_base_cap, foreign_base_cap,
	category_caps, cap_period, repayment_day, template_key, created_at`

// SaveCard inserts or updates a card.
func (s *SQLiteStorage) SaveCard(ctx context.Context, card *model.Card) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCard(card); err != nil {
		return err
	}

	specialRates, err := marshalCategoryMap(card.SpecialRates)
	if err != nil {
		return fmt.Errorf("failed to marshal special rates: %w", err)
	}
	categoryCaps, err := marshalCategoryMap(card.CategoryCaps)
	if err != nil {
		return fmt.Errorf("failed to marshal category caps: %w", err)
	}

	createdAt := card.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cards (
			id, bank_name, type, suffix, color1, color2, issue_region,
			default_rate, foreign_rate, special_rates, local_base_cap,
			foreign_base_cap, category_caps, cap_period, repayment_day,
			template_key, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			bank_name = excluded.bank_name,
			type = excluded.type,
			suffix = excluded.suffix,
			color1 = excluded.color1,
			color2 = excluded.color2,
			issue_region = excluded.issue_region,
			default_rate = excluded.default_rate,
			foreign_rate = excluded.foreign_rate,
			special_rates = excluded.special_rates,
			local_base_cap = excluded.local_base_cap,
			foreign_base_cap = excluded.foreign_base_cap,
			category_caps = excluded.category_caps,
			cap_period = excluded.cap_period,
			repayment_day = excluded.repayment_day,
			template_key = excluded.template_key
	`,
		card.ID, card.BankName, card.Type, card.Suffix,
		card.ColorHexes[0], card.ColorHexes[1], string(card.IssueRegion),
		card.DefaultRate, nullableFloat(card.ForeignRate), specialRates,
		card.LocalBaseCap, card.ForeignBaseCap, categoryCaps,
		string(card.CapPeriod), card.RepaymentDay, nullableString(card.TemplateKey),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}

	return nil
}

// GetCards returns all cards, oldest first. This order also decides which
// card wins a suffix-only match during import, so it must stay stable.
func (s *SQLiteStorage) GetCards(ctx context.Context) ([]*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*model.Card
	for rows.Next() {
		card, scanErr := scanCard(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	slog.Debug("retrieved cards", "count", len(cards))
	return cards, nil
}

// GetCardByID returns the card with the given ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetCardByID(ctx context.Context, id string) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", id, common.ErrNotFound)
	}
	return card, err
}

// GetCardBySuffix returns the oldest card with the given display suffix, or
// common.ErrNotFound. With duplicate suffixes the first in creation order
// wins; that choice is documented as non-guaranteed.
func (s *SQLiteStorage) GetCardBySuffix(ctx context.Context, suffix string) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(suffix, "suffix"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE suffix = ? ORDER BY created_at, id LIMIT 1`, suffix)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card with suffix %s: %w", suffix, common.ErrNotFound)
	}
	return card, err
}

// DeleteCard removes a card and nullifies the card reference on every
// transaction that points at it. Transactions themselves are kept.
func (s *SQLiteStorage) DeleteCard(ctx context.Context, id string) error {
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

	// Explicit nullify sweep; the schema's ON DELETE SET NULL is a backstop.
	swept, err := tx.ExecContext(ctx,
		`UPDATE transactions SET card_id = NULL WHERE card_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to nullify card references: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("card %s: %w", id, common.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit card delete: %w", err)
	}

	if n, rowsErr := swept.RowsAffected(); rowsErr == nil && n > 0 {
		slog.Info("nullified transactions for deleted card", "card_id", id, "transactions", n)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (*model.Card, error) {
	var card model.Card
	var region, capPeriod, specialRates, categoryCaps string
	var foreignRate sql.NullFloat64
	var templateKey sql.NullString

	err := row.Scan(
		&card.ID, &card.BankName, &card.Type, &card.Suffix,
		&card.ColorHexes[0], &card.ColorHexes[1], &region,
		&card.DefaultRate, &foreignRate, &specialRates,
		&card.LocalBaseCap, &card.ForeignBaseCap, &categoryCaps,
		&capPeriod, &card.RepaymentDay, &templateKey, &card.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan card: %w", err)
	}

	card.IssueRegion = catalog.Region(region)
	card.CapPeriod = model.CapPeriod(capPeriod)
	if foreignRate.Valid {
		rate := foreignRate.Float64
		card.ForeignRate = &rate
	}
	if templateKey.Valid {
		card.TemplateKey = templateKey.String
	}
	if card.SpecialRates, err = unmarshalCategoryMap(specialRates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal special rates: %w", err)
	}
	if card.CategoryCaps, err = unmarshalCategoryMap(categoryCaps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal category caps: %w", err)
	}

	return &card, nil
}

func marshalCategoryMap(m map[catalog.Category]float64) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalCategoryMap(s string) (map[catalog.Category]float64, error) {
	m := make(map[catalog.Category]float64)
	if s == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
