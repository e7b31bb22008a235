package reward

import (
	"context"
	"fmt"
	"time"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/model"
)

// HistoryProvider supplies the rewards a card has already been granted inside
// an accounting window. The storage layer implements it; tests use in-memory
// stubs.
type HistoryProvider interface {
	RewardUsage(ctx context.Context, cardID string, window Window) (Usage, error)
}

// Input is the transaction-shaped data a reward computation needs. It is
// deliberately scalar so previews for not-yet-saved transactions use exactly
// the same path as committed ones.
type Input struct {
	Date     time.Time
	Category catalog.Category
	Region   catalog.Region
	Amount   float64
}

// Calculator composes rate resolution and cap accounting into a final reward
// amount. It holds no state of its own; period history is supplied by the
// injected provider.
type Calculator struct {
	history HistoryProvider
}

// NewCalculator returns a calculator backed by the given history provider.
// A nil provider skips the history lookup; caps still clamp against empty
// usage.
func NewCalculator(history HistoryProvider) *Calculator {
	return &Calculator{history: history}
}

// Compute returns the final reward for one transaction against the card,
// clamped to the cap headroom remaining in the transaction's own accounting
// period. A nil card earns nothing.
func (c *Calculator) Compute(ctx context.Context, in Input, card *model.Card) (float64, error) {
	if card == nil {
		return 0, nil
	}

	rate := Resolve(in.Category, in.Region, card)
	proposed := in.Amount * rate

	var used Usage
	if c.history != nil {
		window := PeriodWindow(in.Date, card.CapPeriod)
		var err error
		used, err = c.history.RewardUsage(ctx, card.ID, window)
		if err != nil {
			return 0, fmt.Errorf("failed to load reward history: %w", err)
		}
	}

	crossBorder := in.Region != card.IssueRegion
	return Clamp(proposed, in.Category, crossBorder, card, used), nil
}

// Preview computes the reward for an uncommitted transaction from raw
// scalars. It queries the same period history as Compute so a preview never
// overstates the headroom a subsequent save would actually get.
func (c *Calculator) Preview(ctx context.Context, amount float64, category catalog.Category, region catalog.Region, date time.Time, card *model.Card) (float64, error) {
	return c.Compute(ctx, Input{
		Date:     date,
		Category: category,
		Region:   region,
		Amount:   amount,
	}, card)
}
