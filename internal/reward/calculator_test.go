package reward

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/model"
)

type stubHistory struct {
	err    error
	usage  Usage
	window Window
	cardID string
	calls  int
}

func (s *stubHistory) RewardUsage(_ context.Context, cardID string, window Window) (Usage, error) {
	s.calls++
	s.cardID = cardID
	s.window = window
	return s.usage, s.err
}

func TestCalculator_Compute(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("nil card earns nothing", func(t *testing.T) {
		history := &stubHistory{}
		calc := NewCalculator(history)

		got, err := calc.Compute(ctx, Input{Date: date, Amount: 100}, nil)
		require.NoError(t, err)
		assert.Zero(t, got)
		assert.Zero(t, history.calls, "no history lookup for a card-less transaction")
	})

	t.Run("cross-border foreign rate on a plain card", func(t *testing.T) {
		card := &model.Card{
			ID:          "card-1",
			IssueRegion: catalog.RegionCN,
			DefaultRate: 0.01,
			ForeignRate: ratePtr(0.03),
			SpecialRates: map[catalog.Category]float64{
				catalog.CategoryDining: 0.05,
			},
			CapPeriod: model.CapPeriodYearly,
		}
		calc := NewCalculator(&stubHistory{})

		// The dining override already beats the foreign bonus.
		got, err := calc.Compute(ctx, Input{
			Date:     date,
			Category: catalog.CategoryDining,
			Region:   catalog.RegionUS,
			Amount:   100,
		}, card)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, got, 1e-9)
	})

	t.Run("reward clamps to remaining category headroom", func(t *testing.T) {
		card := &model.Card{
			ID:          "card-1",
			IssueRegion: catalog.RegionCN,
			SpecialRates: map[catalog.Category]float64{
				catalog.CategoryDining: 0.05,
			},
			CategoryCaps: map[catalog.Category]float64{
				catalog.CategoryDining: 20,
			},
			CapPeriod: model.CapPeriodMonthly,
		}
		history := &stubHistory{usage: Usage{
			LocalBase:  18,
			ByCategory: map[catalog.Category]float64{catalog.CategoryDining: 18},
		}}
		calc := NewCalculator(history)

		got, err := calc.Compute(ctx, Input{
			Date:     date,
			Category: catalog.CategoryDining,
			Region:   catalog.RegionCN,
			Amount:   100,
		}, card)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, got, 1e-9)

		assert.Equal(t, "card-1", history.cardID)
		wantWindow := PeriodWindow(date, model.CapPeriodMonthly)
		assert.True(t, history.window.Start.Equal(wantWindow.Start))
		assert.True(t, history.window.End.Equal(wantWindow.End))
	})

	t.Run("nil history provider still clamps against empty usage", func(t *testing.T) {
		card := &model.Card{
			ID:           "card-1",
			IssueRegion:  catalog.RegionCN,
			DefaultRate:  0.01,
			LocalBaseCap: 1,
			CapPeriod:    model.CapPeriodYearly,
		}
		calc := NewCalculator(nil)

		got, err := calc.Compute(ctx, Input{
			Date:     date,
			Category: catalog.CategoryOther,
			Region:   catalog.RegionCN,
			Amount:   1000,
		}, card)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got, 1e-9, "cap still applies against empty usage")
	})

	t.Run("history error propagates", func(t *testing.T) {
		card := &model.Card{
			ID:          "card-1",
			IssueRegion: catalog.RegionCN,
			DefaultRate: 0.01,
			CapPeriod:   model.CapPeriodYearly,
		}
		wantErr := errors.New("database locked")
		calc := NewCalculator(&stubHistory{err: wantErr})

		_, err := calc.Compute(ctx, Input{Date: date, Amount: 100, Region: catalog.RegionCN}, card)
		require.Error(t, err)
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestCalculator_Preview(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	card := &model.Card{
		ID:           "card-1",
		IssueRegion:  catalog.RegionHK,
		DefaultRate:  0.04,
		LocalBaseCap: 4800,
		CapPeriod:    model.CapPeriodYearly,
	}
	history := &stubHistory{usage: Usage{LocalBase: 4790}}
	calc := NewCalculator(history)

	preview, err := calc.Preview(ctx, 1000, catalog.CategoryOther, catalog.RegionHK, date, card)
	require.NoError(t, err)

	computed, err := calc.Compute(ctx, Input{
		Date:     date,
		Category: catalog.CategoryOther,
		Region:   catalog.RegionHK,
		Amount:   1000,
	}, card)
	require.NoError(t, err)

	assert.InDelta(t, computed, preview, 1e-9, "preview and save see identical headroom")
	assert.InDelta(t, 10.0, preview, 1e-9)
}
