package model

import (
	"time"

	"github.com/junhaoh/cashcount/internal/catalog"
)

// Transaction is a single spend entry in the ledger.
//
// CashbackAmount is computed once when the transaction is saved and never
// recomputed afterwards; changing a card's rules does not retroactively alter
// historical rewards.
type Transaction struct {
	Date           time.Time
	CreatedAt      time.Time
	ID             string
	Merchant       string
	CardID         string
	Category       catalog.Category
	Region         catalog.Region
	Receipt        []byte
	Amount         float64
	BillingAmount  float64
	CashbackAmount float64
}

// CrossBorder reports whether the transaction was spent outside the given
// card's issuing region.
func (t *Transaction) CrossBorder(card *Card) bool {
	return card != nil && t.Region != card.IssueRegion
}
