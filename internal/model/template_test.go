package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/junhaoh/cashcount/internal/catalog"
)

func TestTemplateKey(t *testing.T) {
	assert.Equal(t, "滙豐香港-Red信用卡", TemplateKey("滙豐香港", "Red信用卡"))
	assert.Equal(t, "HSBC US-Elite", TemplateKey("HSBC US", "Elite"))
}

func TestCardTemplate_ApplyTo(t *testing.T) {
	template := &CardTemplate{
		Key:        TemplateKey("滙豐香港", "Pulse銀聯信用卡"),
		BankName:   "滙豐香港",
		Type:       "Pulse銀聯信用卡",
		ColorHexes: [2]string{"DB0011", "1A1A1A"},
		Region:     catalog.RegionCN,
		SpecialRates: map[catalog.Category]float64{
			catalog.CategoryDining: 5,
		},
		DefaultRate:    4.4,
		ForeignRate:    pct(2.4),
		LocalBaseCap:   4400,
		ForeignBaseCap: 2400,
		CategoryCaps: map[catalog.Category]float64{
			catalog.CategoryDining: 500,
		},
		CapPeriod: CapPeriodYearly,
	}

	card := &Card{
		ID:           "card-1",
		BankName:     "old bank",
		Type:         "old type",
		Suffix:       "4896",
		IssueRegion:  catalog.RegionHK,
		DefaultRate:  0.99,
		RepaymentDay: 12,
		CapPeriod:    CapPeriodMonthly,
	}

	template.ApplyTo(card)

	// Identity survives.
	assert.Equal(t, "card-1", card.ID)
	assert.Equal(t, "4896", card.Suffix)
	assert.Equal(t, 12, card.RepaymentDay)

	// Rules are replaced, percentages become fractions.
	assert.Equal(t, "滙豐香港", card.BankName)
	assert.Equal(t, "Pulse銀聯信用卡", card.Type)
	assert.Equal(t, catalog.RegionCN, card.IssueRegion)
	assert.InDelta(t, 0.044, card.DefaultRate, 1e-9)
	if assert.NotNil(t, card.ForeignRate) {
		assert.InDelta(t, 0.024, *card.ForeignRate, 1e-9)
	}
	assert.InDelta(t, 0.05, card.SpecialRates[catalog.CategoryDining], 1e-9)
	assert.InDelta(t, 500.0, card.CategoryCaps[catalog.CategoryDining], 1e-9)
	assert.InDelta(t, 4400.0, card.LocalBaseCap, 1e-9)
	assert.InDelta(t, 2400.0, card.ForeignBaseCap, 1e-9)
	assert.Equal(t, CapPeriodYearly, card.CapPeriod)
	assert.Equal(t, template.Key, card.TemplateKey)
}

func TestCardTemplate_ApplyTo_ClearsForeignRate(t *testing.T) {
	template := &CardTemplate{
		Key:       TemplateKey("农行", "储蓄卡"),
		BankName:  "农行",
		Type:      "储蓄卡",
		Region:    catalog.RegionCN,
		CapPeriod: CapPeriodYearly,
	}
	old := 0.03
	card := &Card{ID: "card-1", ForeignRate: &old}

	template.ApplyTo(card)

	assert.Nil(t, card.ForeignRate, "a template without a foreign rate unsets the card's")
}

func TestDefaultTemplateSeeds(t *testing.T) {
	seeds := DefaultTemplateSeeds()
	assert.NotEmpty(t, seeds)

	keys := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		assert.Equal(t, TemplateKey(seed.BankName, seed.Type), seed.Key)
		assert.False(t, keys[seed.Key], "duplicate template key %s", seed.Key)
		keys[seed.Key] = true

		switch seed.CapPeriod {
		case CapPeriodMonthly, CapPeriodYearly:
		default:
			t.Errorf("seed %s has unknown cap period %q", seed.Key, seed.CapPeriod)
		}
	}
}
