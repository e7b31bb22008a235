// Package service defines the interfaces between the CLI, the reward engine,
// and the persistence layer.
package service

import (
	"context"
	"time"

	"github.com/junhaoh/cashcount/internal/model"
	"github.com/junhaoh/cashcount/internal/reward"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	CardID    string
	Limit     int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Card operations. DeleteCard nullifies the card reference on every
	// transaction that points at the card; transactions are never cascaded.
	SaveCard(ctx context.Context, card *model.Card) error
	GetCards(ctx context.Context) ([]*model.Card, error)
	GetCardByID(ctx context.Context, id string) (*model.Card, error)
	GetCardBySuffix(ctx context.Context, suffix string) (*model.Card, error)
	DeleteCard(ctx context.Context, id string) error

	// Transaction operations. DeleteTransaction nullifies linked incomes.
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Reward history. RewardUsage snapshots the rewards a card has already
	// earned inside one cap accounting window; the reward calculator clamps
	// against it.
	RewardUsage(ctx context.Context, cardID string, window reward.Window) (reward.Usage, error)

	// Template operations.
	SaveTemplate(ctx context.Context, template *model.CardTemplate) error
	GetTemplates(ctx context.Context) ([]*model.CardTemplate, error)
	GetTemplateByKey(ctx context.Context, key string) (*model.CardTemplate, error)
	SyncTemplateSeeds(ctx context.Context, seeds []model.CardTemplate) error
	RefreshCardsFromTemplates(ctx context.Context) (int, error)

	// Income operations.
	SaveIncome(ctx context.Context, income *model.Income) error
	GetIncomes(ctx context.Context, transactionID string) ([]*model.Income, error)
	DeleteIncome(ctx context.Context, id string) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
