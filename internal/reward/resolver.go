// Package reward implements cashback rate resolution and cap accounting.
package reward

import (
	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/model"
)

// Resolve returns the effective reward rate for a transaction in the given
// category and spend region against the card's rule set.
//
// The base rate is the card's category override, or its default rate when the
// category has none. On a cross-border transaction a foreign bonus rate, if
// set, lifts the result to max(base, foreign) — it never lowers a category
// that already earns more. The function is total: every category resolves,
// and the result is always in [0, 1].
func Resolve(category catalog.Category, spendRegion catalog.Region, card *model.Card) float64 {
	rate, ok := card.SpecialRates[category]
	if !ok {
		rate = card.DefaultRate
	}

	if spendRegion != card.IssueRegion && card.ForeignRate != nil && *card.ForeignRate > rate {
		rate = *card.ForeignRate
	}

	return rate
}
