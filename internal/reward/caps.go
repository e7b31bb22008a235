package reward

import (
	"time"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/model"
)

// Window is one cap accounting period, [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the instant falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// PeriodWindow returns the cap accounting window containing the given date.
// Monthly windows start on the 1st, yearly windows on Jan 1. Windows are
// anchored to the transaction's own date, not wall-clock now, so caps enforce
// correctly when importing historical data.
func PeriodWindow(date time.Time, period model.CapPeriod) Window {
	var start time.Time
	switch period {
	case model.CapPeriodMonthly:
		start = time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
		return Window{Start: start, End: start.AddDate(0, 1, 0)}
	default:
		start = time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
		return Window{Start: start, End: start.AddDate(1, 0, 0)}
	}
}

// Usage is a snapshot of the rewards a card has already been granted within
// one accounting window, split into the buckets caps are tracked against.
type Usage struct {
	ByCategory  map[catalog.Category]float64
	LocalBase   float64
	ForeignBase float64
}

// Add folds one granted reward into the snapshot.
func (u *Usage) Add(category catalog.Category, crossBorder bool, amount float64) {
	if crossBorder {
		u.ForeignBase += amount
	} else {
		u.LocalBase += amount
	}
	if u.ByCategory == nil {
		u.ByCategory = make(map[catalog.Category]float64)
	}
	u.ByCategory[category] += amount
}

// Clamp limits a proposed reward to the headroom remaining under the card's
// caps for the period the usage snapshot covers.
//
// Two ceilings apply independently: the base cap for the transaction's bucket
// (local or foreign, keyed by cross-border) and the category cap when the
// category has one. The binding constraint wins — min, never cap precedence.
// A cap of 0 means unlimited headroom.
func Clamp(proposed float64, category catalog.Category, crossBorder bool, card *model.Card, used Usage) float64 {
	allowed := proposed

	baseCap, baseUsed := card.LocalBaseCap, used.LocalBase
	if crossBorder {
		baseCap, baseUsed = card.ForeignBaseCap, used.ForeignBase
	}
	if baseCap > 0 {
		if headroom := baseCap - baseUsed; headroom < allowed {
			allowed = headroom
		}
	}

	if categoryCap, ok := card.CategoryCaps[category]; ok && categoryCap > 0 {
		if headroom := categoryCap - used.ByCategory[category]; headroom < allowed {
			allowed = headroom
		}
	}

	if allowed < 0 {
		return 0
	}
	return allowed
}
