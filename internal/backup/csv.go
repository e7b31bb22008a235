// Package backup implements the portable backup format: delimited text for
// transactions and cards, plus a ZIP archive bundling receipt images.
//
// The format is positional and versionless. Readers identify columns by
// index, never by header name, and favor partial-import survivability:
// malformed rows are skipped, not fatal.
package backup

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/model"
)

// bom is prepended to every exported CSV so locale-naive spreadsheet apps
// open non-Latin merchant names without mangling them.
const bom = "\uFEFF"

// dateLayout is the wire format for transaction dates.
const dateLayout = "2006-01-02"

// Sentinel values written to the card columns when a transaction has no card.
const (
	NoCardSuffix    = "无卡"
	DeletedCardName = "已删除卡片"
)

const transactionHeader = "交易时间,商户名称,消费类别,消费金额(原币),入账金额(本币),返现金额(本币),支付卡片,卡片尾号,消费地区"

// transactionColumns is the minimum column count a row needs to be imported.
const transactionColumns = 9

// Row is one decoded transaction together with its 1-based position in the
// CSV (header excluded). The position doubles as the receipt filename ordinal
// and must match the sequence number used at export time.
type Row struct {
	Transaction model.Transaction
	Ordinal     int
}

// EncodeTransactions renders the ledger to the transactions CSV, resolving
// card names through the given lookup (keyed by card ID). Cached reward
// amounts are written verbatim; they are historical facts, not recomputed.
func EncodeTransactions(transactions []model.Transaction, cards map[string]*model.Card) string {
	var b strings.Builder
	b.WriteString(bom)
	b.WriteString(transactionHeader)
	b.WriteString("\n")

	for _, t := range transactions {
		cardName := DeletedCardName
		cardSuffix := NoCardSuffix
		if card := cards[t.CardID]; card != nil {
			cardName = quoteField(card.DisplayName())
			cardSuffix = card.Suffix
		}

		fmt.Fprintf(&b, "%s,%s,%s,%.2f,%.2f,%.2f,%s,%s,%s\n",
			t.Date.Format(dateLayout),
			quoteField(t.Merchant),
			t.Category.DisplayName(),
			t.Amount,
			t.BillingAmount,
			t.CashbackAmount,
			cardName,
			cardSuffix,
			t.Region.DisplayName(),
		)
	}

	return b.String()
}

// DecodeTransactions parses the transactions CSV back into ledger entries,
// re-linking rows to existing cards through the matcher. Rows that are blank,
// too short, or carry unparsable numbers or dates are skipped; the rest of
// the file still imports.
func DecodeTransactions(content string, matcher *CardMatcher) []Row {
	content = strings.TrimPrefix(content, bom)
	lines := strings.Split(content, "\n")

	var rows []Row
	for i, line := range lines {
		// Line 0 is the header; data rows start at 1, which is also the
		// receipt ordinal of the first row.
		if i == 0 {
			continue
		}
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		columns := splitLine(line)
		if len(columns) < transactionColumns {
			slog.Debug("skipping short transaction row", "line", i, "columns", len(columns))
			continue
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(columns[0]))
		if err != nil {
			slog.Debug("skipping transaction row with bad date", "line", i, "value", columns[0])
			continue
		}
		amount, errAmount := parseAmount(columns[3])
		billing, errBilling := parseAmount(columns[4])
		cashback, errCashback := parseAmount(columns[5])
		if errAmount != nil || errBilling != nil || errCashback != nil {
			slog.Debug("skipping transaction row with bad amount", "line", i)
			continue
		}

		merchant := cleanField(columns[1])
		cardName := cleanField(columns[6])
		cardSuffix := strings.TrimSpace(columns[7])

		txn := model.Transaction{
			ID:             uuid.NewString(),
			Merchant:       merchant,
			Category:       catalog.ParseCategory(strings.TrimSpace(columns[2])),
			Region:         catalog.ParseRegion(strings.TrimSpace(columns[8])),
			Amount:         amount,
			BillingAmount:  billing,
			CashbackAmount: cashback,
			Date:           date,
		}
		if card := matcher.Match(cardName, cardSuffix); card != nil {
			txn.CardID = card.ID
		}

		rows = append(rows, Row{Transaction: txn, Ordinal: i})
	}

	return rows
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// quoteField wraps a free-text field in double quotes, doubling any internal
// quotes, so merchant names containing commas survive the round trip.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// cleanField strips the surrounding quotes from a field, if present, and
// restores doubled quotes.
func cleanField(s string) string {
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `""`, `"`)
}

// splitLine splits a CSV line on commas, ignoring commas inside quoted
// fields. Quotes are kept in the output; cleanField removes them.
func splitLine(line string) []string {
	var fields []string
	var current strings.Builder
	insideQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			insideQuotes = !insideQuotes
			current.WriteRune(r)
		case r == ',' && !insideQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())

	return fields
}
