package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/junhaoh/cashcount/internal/backup"
	"github.com/junhaoh/cashcount/internal/cli"
	"github.com/junhaoh/cashcount/internal/config"
	"github.com/junhaoh/cashcount/internal/model"
	"github.com/junhaoh/cashcount/internal/service"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as a portable backup",
	}

	cmd.PersistentFlags().String("out", "", "output directory (default: export.directory config, else the current directory)")

	cmd.AddCommand(exportBackupCmd())
	cmd.AddCommand(exportCardsCmd())

	return cmd
}

func exportBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Export transactions and receipts as a ZIP archive",
		Long: `Export every transaction to Transactions.csv and every attached receipt
to a Receipts/ folder, bundled into one ZIP. The archive either fully
succeeds or nothing is left behind; a partial file is never a backup.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions, err := store.GetTransactions(ctx, service.TransactionFilter{})
			if err != nil {
				return err
			}
			cards, err := store.GetCards(ctx)
			if err != nil {
				return err
			}
			cardsByID := make(map[string]*model.Card, len(cards))
			for _, card := range cards {
				cardsByID[card.ID] = card
			}

			outDir, err := outputDir(cmd)
			if err != nil {
				return err
			}
			target := filepath.Join(outDir, backup.ArchiveFilename(time.Now()))
			err = writeFileAtomic(outDir, target, func(w io.Writer) error {
				return backup.Pack(transactions, cardsByID, w)
			})
			if err != nil {
				return err
			}

			receipts := 0
			for _, txn := range transactions {
				if len(txn.Receipt) > 0 {
					receipts++
				}
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d transactions (%d receipts) to %s",
				len(transactions), receipts, target)))
			return nil
		},
	}
}

func exportCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "Export cards as a standalone CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cards, err := store.GetCards(ctx)
			if err != nil {
				return err
			}

			outDir, err := outputDir(cmd)
			if err != nil {
				return err
			}
			target := filepath.Join(outDir, backup.CardsBackupFilename(time.Now()))
			err = writeFileAtomic(outDir, target, func(w io.Writer) error {
				_, writeErr := io.WriteString(w, backup.EncodeCards(cards))
				return writeErr
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d cards to %s", len(cards), target)))
			return nil
		},
	}
}

func outputDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("out")
	if dir == "" {
		dir = viper.GetString("export.directory")
	}
	if dir == "" {
		dir = "."
	}
	dir = config.ExpandPath(dir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// writeFileAtomic writes through a temporary file in the same directory and
// renames it into place only when the write fully succeeds. On any failure
// the temporary file is removed, so a half-written export never survives.
func writeFileAtomic(dir, target string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(dir, ".cashcount-export-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to finish writing export: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}
