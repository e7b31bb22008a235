package backup

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/model"
)

func TestArchiveFilename(t *testing.T) {
	now := time.Date(2025, 1, 31, 10, 10, 10, 0, time.UTC)
	assert.Equal(t, "Cashback_Export_20250131_101010.zip", ArchiveFilename(now))
}

func writeArchive(t *testing.T, transactions []model.Transaction, cards map[string]*model.Card) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Pack(transactions, cards, &buf))

	path := filepath.Join(t.TempDir(), "backup.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	card := testCard()
	cards := map[string]*model.Card{card.ID: card}

	transactions := []model.Transaction{
		{
			ID:             "txn-1",
			Merchant:       "Starbucks, Inc.",
			Category:       catalog.CategoryDining,
			Region:         catalog.RegionHK,
			Amount:         38,
			BillingAmount:  38,
			CashbackAmount: 1.52,
			Date:           time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			CardID:         card.ID,
			Receipt:        []byte("jpeg-bytes-1"),
		},
		{
			ID:            "txn-2",
			Merchant:      "无小票商户",
			Category:      catalog.CategoryOther,
			Region:        catalog.RegionCN,
			Amount:        10,
			BillingAmount: 10,
			Date:          time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:            "txn-3",
			Merchant:      "喜茶",
			Category:      catalog.CategoryOther,
			Region:        catalog.RegionCN,
			Amount:        25,
			BillingAmount: 25,
			Date:          time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
			Receipt:       []byte("jpeg-bytes-3"),
		},
	}

	path := writeArchive(t, transactions, cards)

	restored, err := Unpack(path, NewCardMatcher([]*model.Card{card}))
	require.NoError(t, err)
	require.Len(t, restored, 3)

	assert.Equal(t, []byte("jpeg-bytes-1"), restored[0].Receipt, "receipt re-attaches by position")
	assert.Equal(t, card.ID, restored[0].CardID)
	assert.Nil(t, restored[1].Receipt, "row without a receipt imports without one")
	assert.Equal(t, []byte("jpeg-bytes-3"), restored[2].Receipt)
	assert.Equal(t, "喜茶", restored[2].Merchant)
}

func TestPack_ArchiveLayout(t *testing.T) {
	transactions := []model.Transaction{{
		ID:       "txn-1",
		Merchant: "喜茶",
		Category: catalog.CategoryOther,
		Region:   catalog.RegionCN,
		Date:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Receipt:  []byte("jpeg"),
	}}

	path := writeArchive(t, transactions, nil)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	// CSV and receipts sit at the archive root, no wrapper directory.
	assert.Contains(t, names, TransactionsFilename)
	assert.Contains(t, names, "Receipts/receipt_20250115_喜茶_1.jpg")
	assert.Len(t, names, 2)
}

func TestUnpack_MissingTransactionsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.zip")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entry, err := zw.Create("Receipts/receipt_20250115_x_1.jpg")
	require.NoError(t, err)
	_, err = entry.Write([]byte("jpeg"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

	_, err = Unpack(path, NewCardMatcher(nil))
	assert.ErrorIs(t, err, ErrNoTransactionsCSV)
}

func TestUnpack_OrphanReceiptIsIgnored(t *testing.T) {
	transactions := []model.Transaction{{
		ID:       "txn-1",
		Merchant: "商户",
		Category: catalog.CategoryOther,
		Region:   catalog.RegionCN,
		Date:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, Pack(transactions, nil, &buf))

	// Re-write the archive with an extra receipt no row points at.
	path := filepath.Join(t.TempDir(), "backup.zip")
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, f := range zr.File {
		data, readErr := readZipEntry(f)
		require.NoError(t, readErr)
		entry, createErr := zw.Create(f.Name)
		require.NoError(t, createErr)
		_, err = entry.Write(data)
		require.NoError(t, err)
	}
	orphan, err := zw.Create("Receipts/receipt_19990101_ghost_42.jpg")
	require.NoError(t, err)
	_, err = orphan.Write([]byte("jpeg"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0600))

	restored, err := Unpack(path, NewCardMatcher(nil))
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Nil(t, restored[0].Receipt)
}
