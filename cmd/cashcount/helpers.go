package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/common"
	"github.com/junhaoh/cashcount/internal/config"
	"github.com/junhaoh/cashcount/internal/model"
	"github.com/junhaoh/cashcount/internal/storage"
)

const defaultDBPath = "~/.local/share/cashcount/cashcount.db"

// openStorage opens the ledger database and brings its schema up to date.
// The caller is responsible for closing it.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewSQLiteStorage(config.ExpandPath(dbPath))
	if err != nil {
		return nil, common.NewUserError("Failed to open ledger database", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserError("Failed to migrate ledger database", err)
	}

	return store, nil
}

// parseCategory resolves a category flag strictly: unlike import, a typo on
// the command line should fail, not silently become "other".
func parseCategory(s string) (catalog.Category, error) {
	for _, c := range catalog.Categories() {
		if s == string(c) || s == c.DisplayName() {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (valid: dining, grocery, travel, digital, other)", s)
}

// parseRegion resolves a region flag strictly.
func parseRegion(s string) (catalog.Region, error) {
	for _, r := range catalog.Regions() {
		if s == string(r) || strings.EqualFold(s, r.Code()) || s == r.DisplayName() {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown region %q (valid: cn, hk, us, other)", s)
}

// parseDate parses a YYYY-MM-DD flag, defaulting to today when empty.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return date, nil
}

// parseCategoryAmounts parses repeated "category=value" flag values, with
// values given as percentages for rates and currency amounts for caps.
func parseCategoryAmounts(pairs []string) (map[catalog.Category]float64, error) {
	result := make(map[catalog.Category]float64)
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid value %q, expected category=amount", pair)
		}
		category, err := parseCategory(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount in %q: %w", pair, err)
		}
		result[category] = amount
	}
	return result, nil
}

// findCardBySuffix resolves a card by its display suffix through storage.
func findCardBySuffix(ctx context.Context, store *storage.SQLiteStorage, suffix string) (*model.Card, error) {
	card, err := store.GetCardBySuffix(ctx, suffix)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("No card with suffix %s", suffix), err)
	}
	return card, nil
}
