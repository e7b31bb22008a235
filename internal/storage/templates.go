package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/common"
	"github.com/junhaoh/cashcount/internal/model"
)

const templateColumns = `template_key, bank_name, type, color1, color2, region,
	default_rate, foreign_rate, special_rates, local_base_cap, foreign_base_cap,
	category_caps, cap_period, created_at`

// SaveTemplate inserts or updates a card template, keyed by its template key.
func (s *SQLiteStorage) SaveTemplate(ctx context.Context, template *model.CardTemplate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTemplate(template); err != nil {
		return err
	}

	specialRates, err := marshalCategoryMap(template.SpecialRates)
	if err != nil {
		return fmt.Errorf("failed to marshal special rates: %w", err)
	}
	categoryCaps, err := marshalCategoryMap(template.CategoryCaps)
	if err != nil {
		return fmt.Errorf("failed to marshal category caps: %w", err)
	}

	createdAt := template.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO card_templates (
			template_key, bank_name, type, color1, color2, region,
			default_rate, foreign_rate, special_rates, local_base_cap,
			foreign_base_cap, category_caps, cap_period, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(template_key) DO UPDATE SET
			bank_name = excluded.bank_name,
			type = excluded.type,
			color1 = excluded.color1,
			color2 = excluded.color2,
			region = excluded.region,
			default_rate = excluded.default_rate,
			foreign_rate = excluded.foreign_rate,
			special_rates = excluded.special_rates,
			local_base_cap = excluded.local_base_cap,
			foreign_base_cap = excluded.foreign_base_cap,
			category_caps = excluded.category_caps,
			cap_period = excluded.cap_period
	`,
		template.Key, template.BankName, template.Type,
		template.ColorHexes[0], template.ColorHexes[1], string(template.Region),
		template.DefaultRate, nullableFloat(template.ForeignRate), specialRates,
		template.LocalBaseCap, template.ForeignBaseCap, categoryCaps,
		string(template.CapPeriod), createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	return nil
}

// GetTemplates returns all templates ordered by key.
func (s *SQLiteStorage) GetTemplates(ctx context.Context) ([]*model.CardTemplate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM card_templates ORDER BY template_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []*model.CardTemplate
	for rows.Next() {
		template, scanErr := scanTemplate(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, nil
}

// GetTemplateByKey returns the template with the given key, or
// common.ErrNotFound.
func (s *SQLiteStorage) GetTemplateByKey(ctx context.Context, key string) (*model.CardTemplate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM card_templates WHERE template_key = ?`, key)
	template, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %s: %w", key, common.ErrNotFound)
	}
	return template, err
}

// SyncTemplateSeeds upserts the built-in template catalog: existing templates
// are updated in place (matched by key) and missing ones are inserted, so
// rule corrections reach stores created by older releases.
func (s *SQLiteStorage) SyncTemplateSeeds(ctx context.Context, seeds []model.CardTemplate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	for i := range seeds {
		if err := s.SaveTemplate(ctx, &seeds[i]); err != nil {
			return fmt.Errorf("failed to sync template %s: %w", seeds[i].Key, err)
		}
	}

	slog.Info("synced template seeds", "count", len(seeds))
	return nil
}

// RefreshCardsFromTemplates re-applies template rules to every card that
// carries a template key, and returns how many cards were updated. Cards
// without a template key are untouched.
func (s *SQLiteStorage) RefreshCardsFromTemplates(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	templates, err := s.GetTemplates(ctx)
	if err != nil {
		return 0, err
	}
	byKey := make(map[string]*model.CardTemplate, len(templates))
	for _, template := range templates {
		byKey[template.Key] = template
	}

	cards, err := s.GetCards(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, card := range cards {
		template, ok := byKey[card.TemplateKey]
		if card.TemplateKey == "" || !ok {
			continue
		}
		template.ApplyTo(card)
		if err := s.SaveCard(ctx, card); err != nil {
			return refreshed, fmt.Errorf("failed to refresh card %s: %w", card.ID, err)
		}
		refreshed++
	}

	slog.Info("refreshed cards from templates", "cards", refreshed)
	return refreshed, nil
}

func scanTemplate(row scanner) (*model.CardTemplate, error) {
	var template model.CardTemplate
	var region, capPeriod, specialRates, categoryCaps string
	var foreignRate sql.NullFloat64

	err := row.Scan(
		&template.Key, &template.BankName, &template.Type,
		&template.ColorHexes[0], &template.ColorHexes[1], &region,
		&template.DefaultRate, &foreignRate, &specialRates,
		&template.LocalBaseCap, &template.ForeignBaseCap, &categoryCaps,
		&capPeriod, &template.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}

	template.Region = catalog.Region(region)
	template.CapPeriod = model.CapPeriod(capPeriod)
	if foreignRate.Valid {
		rate := foreignRate.Float64
		template.ForeignRate = &rate
	}
	if template.SpecialRates, err = unmarshalCategoryMap(specialRates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal special rates: %w", err)
	}
	if template.CategoryCaps, err = unmarshalCategoryMap(categoryCaps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal category caps: %w", err)
	}

	return &template, nil
}
