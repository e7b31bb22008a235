package backup

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// merchantSanitizer matches every character that may not appear in a receipt
// filename. CJK characters are allowed so Chinese merchant names stay
// recognizable.
var merchantSanitizer = regexp.MustCompile(`[^A-Za-z0-9_\x{4e00}-\x{9fa5}-]`)

// maxMerchantRunes caps the merchant component so filenames stay portable
// across filesystems and still match on re-import.
const maxMerchantRunes = 40

// ReceiptFilename derives the deterministic archive filename for one
// transaction's receipt. The ordinal is the transaction's 1-based position in
// the exported collection, and the importer recomputes the identical name
// from the row's position in the CSV — the two sequences must stay in
// lockstep or receipts silently detach.
func ReceiptFilename(merchant string, date time.Time, ordinal int) string {
	return fmt.Sprintf("receipt_%s_%s_%d.jpg",
		date.Format("20060102"),
		sanitizedMerchant(merchant),
		ordinal,
	)
}

func sanitizedMerchant(merchant string) string {
	name := merchantSanitizer.ReplaceAllString(merchant, "_")
	name = strings.Trim(name, "_")

	if runes := []rune(name); len(runes) > maxMerchantRunes {
		name = string(runes[:maxMerchantRunes])
	}
	if name == "" {
		return "receipt"
	}
	return name
}
