package model

import (
	"time"

	"github.com/junhaoh/cashcount/internal/catalog"
)

// CapPeriod is the calendar window over which a card's cashback caps reset.
type CapPeriod string

// Cap reset periods. Monthly resets on the 1st, yearly on Jan 1.
const (
	CapPeriodMonthly CapPeriod = "monthly"
	CapPeriodYearly  CapPeriod = "yearly"
)

// Card is a credit or debit card with its cashback rule set.
//
// Rates are fractions in [0, 1] (0.01 = 1%). Caps are currency amounts in the
// card's local currency; a cap of 0 means uncapped.
type Card struct {
	CreatedAt      time.Time
	SpecialRates   map[catalog.Category]float64
	CategoryCaps   map[catalog.Category]float64
	ForeignRate    *float64
	ID             string
	BankName       string
	Type           string
	Suffix         string
	TemplateKey    string
	IssueRegion    catalog.Region
	CapPeriod      CapPeriod
	ColorHexes     [2]string
	DefaultRate    float64
	LocalBaseCap   float64
	ForeignBaseCap float64
	RepaymentDay   int
}

// DisplayName is the card's user-facing name, and the exact string written to
// the transactions CSV card-name column.
func (c *Card) DisplayName() string {
	return c.BankName + " " + c.Type
}
