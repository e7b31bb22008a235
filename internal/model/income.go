package model

import "time"

// Income is money recovered against a transaction, such as a reimbursement.
// It is linked nullify-on-delete to its transaction and plays no part in
// reward calculation.
type Income struct {
	Date          time.Time
	CreatedAt     time.Time
	ID            string
	TransactionID string
	CurrencyCode  string
	Note          string
	Amount        float64
}
