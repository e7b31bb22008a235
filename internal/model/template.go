package model

import (
	"time"

	"github.com/junhaoh/cashcount/internal/catalog"
)

// CardTemplate is a named, shareable cashback rule set. Applying a template
// overwrites a card's rules and appearance but keeps its identity and
// transaction history.
//
// Unlike Card, template rates are stored as percentages (4.0 = 4%); ApplyTo
// converts them to fractions. This matches the seed catalog, which is written
// the way banks advertise rates.
type CardTemplate struct {
	CreatedAt      time.Time
	SpecialRates   map[catalog.Category]float64
	CategoryCaps   map[catalog.Category]float64
	ForeignRate    *float64
	Key            string
	BankName       string
	Type           string
	Region         catalog.Region
	CapPeriod      CapPeriod
	ColorHexes     [2]string
	DefaultRate    float64
	LocalBaseCap   float64
	ForeignBaseCap float64
}

// TemplateKey derives the unique key a card uses to reference its template.
func TemplateKey(bankName, cardType string) string {
	return bankName + "-" + cardType
}

// ApplyTo overwrites the card's rule fields and appearance with the
// template's, converting percentage rates to fractions. The card's ID,
// suffix, and repayment day are preserved.
func (t *CardTemplate) ApplyTo(card *Card) {
	card.BankName = t.BankName
	card.Type = t.Type
	card.ColorHexes = t.ColorHexes
	card.IssueRegion = t.Region
	card.DefaultRate = t.DefaultRate / 100
	if t.ForeignRate != nil {
		rate := *t.ForeignRate / 100
		card.ForeignRate = &rate
	} else {
		card.ForeignRate = nil
	}
	card.SpecialRates = make(map[catalog.Category]float64, len(t.SpecialRates))
	for category, percent := range t.SpecialRates {
		card.SpecialRates[category] = percent / 100
	}
	card.CategoryCaps = make(map[catalog.Category]float64, len(t.CategoryCaps))
	for category, cap := range t.CategoryCaps {
		card.CategoryCaps[category] = cap
	}
	card.LocalBaseCap = t.LocalBaseCap
	card.ForeignBaseCap = t.ForeignBaseCap
	card.CapPeriod = t.CapPeriod
	card.TemplateKey = t.Key
}
