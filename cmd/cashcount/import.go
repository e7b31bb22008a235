package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/junhaoh/cashcount/internal/backup"
	"github.com/junhaoh/cashcount/internal/cli"
	"github.com/junhaoh/cashcount/internal/model"
)

// saveChunkSize bounds the rows written per storage call so the progress
// bar advances during large restores.
const saveChunkSize = 50

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore a ledger from a portable backup",
	}

	cmd.PersistentFlags().Bool("dry-run", false, "parse and report without writing anything")

	cmd.AddCommand(importBackupCmd())
	cmd.AddCommand(importCardsCmd())

	return cmd
}

func importBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <archive.zip>",
		Short: "Import transactions and receipts from a ZIP backup",
		Long: `Import a backup archive produced by "cashcount export backup". Rows are
matched to existing cards by name and suffix; rows whose card no longer
exists are kept as card-less entries. Malformed rows are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			transactions, err := backup.Unpack(args[0], backup.NewCardMatcher(cards))
			if err != nil {
				return err
			}
			if len(transactions) == 0 {
				fmt.Println(cli.FormatWarning("Archive contained no importable transactions."))
				return nil
			}

			receipts := 0
			for _, txn := range transactions {
				if len(txn.Receipt) > 0 {
					receipts++
				}
			}

			if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("Dry run: would import %d transactions (%d receipts)",
					len(transactions), receipts)))
				return nil
			}

			bar := progressbar.NewOptions(len(transactions),
				progressbar.OptionSetDescription("Importing transactions"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			for start := 0; start < len(transactions); start += saveChunkSize {
				end := min(start+saveChunkSize, len(transactions))
				if err := store.SaveTransactions(ctx, transactions[start:end]); err != nil {
					return err
				}
				_ = bar.Add(end - start)
			}
			_ = bar.Finish()

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d receipts)",
				len(transactions), receipts)))
			return nil
		},
	}
}

func importCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cards <cards.csv>",
		Short: "Import cards from a cards CSV backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read cards file: %w", err)
			}
			cards := backup.DecodeCards(string(content))
			if len(cards) == 0 {
				fmt.Println(cli.FormatWarning("File contained no importable cards."))
				return nil
			}

			if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("Dry run: would import %d cards", len(cards))))
				return nil
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			for _, card := range cards {
				if err := store.SaveCard(ctx, card); err != nil {
					return fmt.Errorf("failed to save card %s: %w", card.DisplayName(), err)
				}
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d cards", len(cards))))
			printCards(cards)
			return nil
		},
	}
}

func printCards(cards []*model.Card) {
	for _, card := range cards {
		fmt.Printf("  %s %s •%s\n", cli.CardIcon, card.DisplayName(), card.Suffix)
	}
}
