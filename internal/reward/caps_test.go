package reward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/model"
)

func TestPeriodWindow(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		period    model.CapPeriod
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "monthly window starts on the 1st",
			date:      time.Date(2025, 1, 15, 13, 30, 0, 0, time.UTC),
			period:    model.CapPeriodMonthly,
			wantStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "december rolls into the next year",
			date:      time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
			period:    model.CapPeriodMonthly,
			wantStart: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "yearly window starts on Jan 1",
			date:      time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
			period:    model.CapPeriodYearly,
			wantStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "window anchors to the transaction's own date",
			date:      time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC),
			period:    model.CapPeriodYearly,
			wantStart: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := PeriodWindow(tt.date, tt.period)
			assert.True(t, window.Start.Equal(tt.wantStart), "start: got %v, want %v", window.Start, tt.wantStart)
			assert.True(t, window.End.Equal(tt.wantEnd), "end: got %v, want %v", window.End, tt.wantEnd)
			assert.True(t, window.Contains(tt.date))
		})
	}
}

func TestWindow_Contains(t *testing.T) {
	window := Window{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, window.Contains(window.Start), "start is inclusive")
	assert.True(t, window.Contains(time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, window.Contains(window.End), "end is exclusive")
	assert.False(t, window.Contains(window.Start.Add(-time.Second)))
}

func TestUsage_Add(t *testing.T) {
	var usage Usage

	usage.Add(catalog.CategoryDining, false, 10)
	usage.Add(catalog.CategoryDining, true, 5)
	usage.Add(catalog.CategoryTravel, false, 2)

	assert.InDelta(t, 12.0, usage.LocalBase, 1e-9)
	assert.InDelta(t, 5.0, usage.ForeignBase, 1e-9)
	assert.InDelta(t, 15.0, usage.ByCategory[catalog.CategoryDining], 1e-9)
	assert.InDelta(t, 2.0, usage.ByCategory[catalog.CategoryTravel], 1e-9)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		card        *model.Card
		used        Usage
		name        string
		category    catalog.Category
		proposed    float64
		want        float64
		crossBorder bool
	}{
		{
			name:     "no caps means no clamp",
			card:     &model.Card{},
			proposed: 123.45,
			category: catalog.CategoryOther,
			want:     123.45,
		},
		{
			name:     "zero cap means unlimited",
			card:     &model.Card{LocalBaseCap: 0},
			used:     Usage{LocalBase: 99999},
			proposed: 50,
			category: catalog.CategoryOther,
			want:     50,
		},
		{
			name:     "local base cap clamps a local transaction",
			card:     &model.Card{LocalBaseCap: 100},
			used:     Usage{LocalBase: 95},
			proposed: 10,
			category: catalog.CategoryOther,
			want:     5,
		},
		{
			name:        "foreign base cap clamps a cross-border transaction",
			card:        &model.Card{LocalBaseCap: 100, ForeignBaseCap: 30},
			used:        Usage{LocalBase: 0, ForeignBase: 28},
			proposed:    10,
			category:    catalog.CategoryOther,
			crossBorder: true,
			want:        2,
		},
		{
			name: "category cap binds below the base cap",
			card: &model.Card{
				LocalBaseCap: 1000,
				CategoryCaps: map[catalog.Category]float64{catalog.CategoryDining: 20},
			},
			used: Usage{
				LocalBase:  18,
				ByCategory: map[catalog.Category]float64{catalog.CategoryDining: 18},
			},
			proposed: 5,
			category: catalog.CategoryDining,
			want:     2,
		},
		{
			name: "binding constraint wins when both caps apply",
			card: &model.Card{
				LocalBaseCap: 50,
				CategoryCaps: map[catalog.Category]float64{catalog.CategoryTravel: 100},
			},
			used: Usage{
				LocalBase:  48,
				ByCategory: map[catalog.Category]float64{catalog.CategoryTravel: 10},
			},
			proposed: 20,
			category: catalog.CategoryTravel,
			want:     2,
		},
		{
			name:     "exhausted cap floors at zero",
			card:     &model.Card{LocalBaseCap: 100},
			used:     Usage{LocalBase: 120},
			proposed: 10,
			category: catalog.CategoryOther,
			want:     0,
		},
		{
			name: "category without a cap is unaffected by other caps",
			card: &model.Card{
				CategoryCaps: map[catalog.Category]float64{catalog.CategoryDining: 20},
			},
			used: Usage{
				ByCategory: map[catalog.Category]float64{catalog.CategoryDining: 20},
			},
			proposed: 7,
			category: catalog.CategoryGrocery,
			want:     7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.proposed, tt.category, tt.crossBorder, tt.card, tt.used)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

// Granting a reward and folding it back into usage must never create
// headroom: across a sequence of grants the total never exceeds the cap.
func TestClamp_SequenceNeverExceedsCap(t *testing.T) {
	card := &model.Card{
		LocalBaseCap: 100,
		CategoryCaps: map[catalog.Category]float64{catalog.CategoryDining: 40},
	}

	var usage Usage
	var total, dining float64
	for i := 0; i < 20; i++ {
		category := catalog.CategoryOther
		if i%2 == 0 {
			category = catalog.CategoryDining
		}
		granted := Clamp(13, category, false, card, usage)
		usage.Add(category, false, granted)
		total += granted
		if category == catalog.CategoryDining {
			dining += granted
		}
	}

	assert.LessOrEqual(t, total, 100.0+1e-9)
	assert.LessOrEqual(t, dining, 40.0+1e-9)
}
