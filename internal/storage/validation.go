package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/junhaoh/cashcount/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidCard        = errors.New("invalid card")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidTemplate    = errors.New("invalid template")
	ErrInvalidIncome      = errors.New("invalid income")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCard validates a single card.
func validateCard(card *model.Card) error {
	if card == nil {
		return fmt.Errorf("%w: card", ErrNilParameter)
	}
	if card.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCard)
	}
	if strings.TrimSpace(card.BankName) == "" {
		return fmt.Errorf("%w: missing bank name", ErrInvalidCard)
	}
	if card.DefaultRate < 0 || card.DefaultRate > 1 {
		return fmt.Errorf("%w: default rate must be a fraction in [0, 1]", ErrInvalidCard)
	}
	if card.ForeignRate != nil && (*card.ForeignRate < 0 || *card.ForeignRate > 1) {
		return fmt.Errorf("%w: foreign rate must be a fraction in [0, 1]", ErrInvalidCard)
	}
	for category, rate := range card.SpecialRates {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: %s rate must be a fraction in [0, 1]", ErrInvalidCard, category)
		}
	}
	if card.LocalBaseCap < 0 || card.ForeignBaseCap < 0 {
		return fmt.Errorf("%w: caps must be >= 0", ErrInvalidCard)
	}
	for category, cap := range card.CategoryCaps {
		if cap < 0 {
			return fmt.Errorf("%w: %s cap must be >= 0", ErrInvalidCard, category)
		}
	}
	if card.RepaymentDay < 0 || card.RepaymentDay > 31 {
		return fmt.Errorf("%w: repayment day must be in [0, 31]", ErrInvalidCard)
	}
	switch card.CapPeriod {
	case model.CapPeriodMonthly, model.CapPeriodYearly:
	default:
		return fmt.Errorf("%w: unknown cap period %q", ErrInvalidCard, card.CapPeriod)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.Merchant) == "" {
		return fmt.Errorf("%w: missing merchant", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	return nil
}

// validateTemplate validates a card template.
func validateTemplate(template *model.CardTemplate) error {
	if template == nil {
		return fmt.Errorf("%w: template", ErrNilParameter)
	}
	if template.Key == "" {
		return fmt.Errorf("%w: missing key", ErrInvalidTemplate)
	}
	if strings.TrimSpace(template.BankName) == "" {
		return fmt.Errorf("%w: missing bank name", ErrInvalidTemplate)
	}
	return nil
}

// validateIncome validates an income entry.
func validateIncome(income *model.Income) error {
	if income == nil {
		return fmt.Errorf("%w: income", ErrNilParameter)
	}
	if income.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidIncome)
	}
	if income.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidIncome)
	}
	return nil
}
