package backup

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/junhaoh/cashcount/internal/model"
)

// Archive layout. The CSV and the receipts folder sit at the archive root —
// no wrapping top-level directory — so decompressing lands directly on them.
const (
	TransactionsFilename = "Transactions.csv"
	receiptsDirname      = "Receipts"
)

// ErrNoTransactionsCSV is returned when an imported archive does not contain
// the transactions file. Nothing is imported in that case.
var ErrNoTransactionsCSV = errors.New("archive does not contain " + TransactionsFilename)

// ArchiveFilename returns the backup archive filename for the given instant,
// e.g. Cashback_Export_20250131_101010.zip.
func ArchiveFilename(now time.Time) string {
	return fmt.Sprintf("Cashback_Export_%s.zip", now.Format("20060102_150405"))
}

// Pack writes the backup archive for the given transactions to w: the
// transactions CSV plus every non-empty receipt under Receipts/. Receipt
// filenames carry the transaction's 1-based position in the slice, which is
// exactly the row index Unpack recomputes.
//
// Output is streamed; on error the caller must discard whatever was written,
// a partial archive is never a valid backup.
func Pack(transactions []model.Transaction, cards map[string]*model.Card, w io.Writer) error {
	zw := zip.NewWriter(w)

	csvEntry, err := zw.Create(TransactionsFilename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", TransactionsFilename, err)
	}
	if _, err := io.WriteString(csvEntry, EncodeTransactions(transactions, cards)); err != nil {
		return fmt.Errorf("failed to write %s: %w", TransactionsFilename, err)
	}

	for i, txn := range transactions {
		if len(txn.Receipt) == 0 {
			continue
		}
		name := path.Join(receiptsDirname, ReceiptFilename(txn.Merchant, txn.Date, i+1))
		entry, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create receipt entry %s: %w", name, err)
		}
		if _, err := entry.Write(txn.Receipt); err != nil {
			return fmt.Errorf("failed to write receipt %s: %w", name, err)
		}
	}

	return zw.Close()
}

// Unpack reads a backup archive from disk, decodes the transactions CSV, and
// re-attaches receipts by recomputing each row's filename from its own CSV
// position. Rows whose receipt is missing import without one; an archive
// without the transactions file fails with ErrNoTransactionsCSV.
func Unpack(archivePath string, matcher *CardMatcher) ([]model.Transaction, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	var csvContent []byte
	receipts := make(map[string][]byte)

	for _, f := range zr.File {
		name := path.Clean(f.Name)
		switch {
		case name == TransactionsFilename:
			csvContent, err = readZipEntry(f)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", TransactionsFilename, err)
			}
		case path.Dir(name) == receiptsDirname:
			data, readErr := readZipEntry(f)
			if readErr != nil {
				slog.Warn("skipping unreadable receipt", "name", name, "error", readErr)
				continue
			}
			receipts[path.Base(name)] = data
		}
	}

	if csvContent == nil {
		return nil, ErrNoTransactionsCSV
	}

	rows := DecodeTransactions(string(csvContent), matcher)
	transactions := make([]model.Transaction, 0, len(rows))
	attached := 0
	for _, row := range rows {
		name := ReceiptFilename(row.Transaction.Merchant, row.Transaction.Date, row.Ordinal)
		if data, ok := receipts[name]; ok {
			row.Transaction.Receipt = data
			attached++
		}
		transactions = append(transactions, row.Transaction)
	}

	slog.Debug("unpacked backup archive",
		"transactions", len(transactions),
		"receipts", len(receipts),
		"attached", attached)

	return transactions, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
