package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/junhaoh/cashcount/internal/cli"
	"github.com/junhaoh/cashcount/internal/model"
	"github.com/junhaoh/cashcount/internal/reward"
	"github.com/junhaoh/cashcount/internal/service"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage ledger transactions",
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txDeleteCmd())

	return cmd
}

func txAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction and its cashback",
		Long: `Record a transaction. The cashback amount is computed now, against the
card's current rules and remaining cap headroom, and stored with the
transaction. Later rule changes never alter it.`,
		Example: `  cashcount tx add --merchant "Starbucks, Inc." --amount 38 \
    --category dining --region cn --card 4896 --date 2025-01-15`,
		RunE: runTxAdd,
	}

	cmd.Flags().String("merchant", "", "merchant name")
	cmd.Flags().Float64("amount", 0, "amount in the origin currency")
	cmd.Flags().Float64("billing", 0, "billed amount in the card's currency (defaults to amount)")
	cmd.Flags().String("category", "other", "spending category")
	cmd.Flags().String("region", "cn", "region where spent")
	cmd.Flags().String("date", "", "transaction date, YYYY-MM-DD (defaults to today)")
	cmd.Flags().String("card", "", "card suffix; omit for a card-less entry")
	cmd.Flags().String("receipt", "", "path to a receipt image to attach")
	_ = cmd.MarkFlagRequired("merchant")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runTxAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	categoryFlag, _ := cmd.Flags().GetString("category")
	category, err := parseCategory(categoryFlag)
	if err != nil {
		return err
	}
	regionFlag, _ := cmd.Flags().GetString("region")
	region, err := parseRegion(regionFlag)
	if err != nil {
		return err
	}
	dateFlag, _ := cmd.Flags().GetString("date")
	date, err := parseDate(dateFlag)
	if err != nil {
		return err
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var card *model.Card
	if suffix, _ := cmd.Flags().GetString("card"); suffix != "" {
		if card, err = findCardBySuffix(ctx, store, suffix); err != nil {
			return err
		}
	}

	merchant, _ := cmd.Flags().GetString("merchant")
	amount, _ := cmd.Flags().GetFloat64("amount")
	billing, _ := cmd.Flags().GetFloat64("billing")
	if billing == 0 {
		billing = amount
	}

	var receipt []byte
	if receiptPath, _ := cmd.Flags().GetString("receipt"); receiptPath != "" {
		if receipt, err = os.ReadFile(receiptPath); err != nil {
			return fmt.Errorf("failed to read receipt: %w", err)
		}
	}

	calculator := reward.NewCalculator(store)
	cashback, err := calculator.Compute(ctx, reward.Input{
		Date:     date,
		Category: category,
		Region:   region,
		Amount:   amount,
	}, card)
	if err != nil {
		return err
	}

	txn := model.Transaction{
		ID:             uuid.NewString(),
		Merchant:       merchant,
		Category:       category,
		Region:         region,
		Amount:         amount,
		BillingAmount:  billing,
		CashbackAmount: cashback,
		Date:           date,
		Receipt:        receipt,
	}
	if card != nil {
		txn.CardID = card.ID
	}

	if err := store.SaveTransactions(ctx, []model.Transaction{txn}); err != nil {
		return err
	}

	symbol := "¥"
	if card != nil {
		symbol = card.IssueRegion.CurrencySymbol()
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s %s%.2f, cashback %s%.2f",
		merchant, symbol, amount, symbol, cashback)))
	return nil
}

func txListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var filter service.TransactionFilter
			if from, _ := cmd.Flags().GetString("from"); from != "" {
				date, parseErr := parseDate(from)
				if parseErr != nil {
					return parseErr
				}
				filter.StartDate = &date
			}
			if to, _ := cmd.Flags().GetString("to"); to != "" {
				date, parseErr := parseDate(to)
				if parseErr != nil {
					return parseErr
				}
				filter.EndDate = &date
			}
			if suffix, _ := cmd.Flags().GetString("card"); suffix != "" {
				card, cardErr := findCardBySuffix(ctx, store, suffix)
				if cardErr != nil {
					return cardErr
				}
				filter.CardID = card.ID
			}
			filter.Limit, _ = cmd.Flags().GetInt("limit")

			transactions, err := store.GetTransactions(ctx, filter)
			if err != nil {
				return err
			}
			if len(transactions) == 0 {
				fmt.Println(cli.FormatSubtle("No transactions."))
				return nil
			}

			cards, err := store.GetCards(ctx)
			if err != nil {
				return err
			}
			cardsByID := make(map[string]*model.Card, len(cards))
			for _, card := range cards {
				cardsByID[card.ID] = card
			}

			fmt.Println(cli.FormatTitle("Transactions"))
			var total float64
			for _, txn := range transactions {
				cardName := cli.FormatSubtle("no card")
				if card := cardsByID[txn.CardID]; card != nil {
					cardName = fmt.Sprintf("%s •%s", card.DisplayName(), card.Suffix)
					if txn.CrossBorder(card) {
						cardName += " " + cli.FormatSubtle(txn.Region.DisplayName())
					}
				}
				receiptMark := " "
				if len(txn.Receipt) > 0 {
					receiptMark = "🧾"
				}
				fmt.Printf("  %s  %-24s %-6s %10.2f  cashback %8.2f  %s %s\n",
					txn.Date.Format("2006-01-02"),
					txn.Merchant,
					txn.Category.DisplayName(),
					txn.Amount,
					txn.CashbackAmount,
					cardName,
					receiptMark,
				)
				total += txn.CashbackAmount
			}
			fmt.Printf("\n  %d transactions, total cashback %.2f\n", len(transactions), total)
			return nil
		},
	}

	cmd.Flags().String("from", "", "earliest date, YYYY-MM-DD")
	cmd.Flags().String("to", "", "latest date (exclusive), YYYY-MM-DD")
	cmd.Flags().String("card", "", "only this card's transactions (by suffix)")
	cmd.Flags().Int("limit", 0, "maximum rows, 0 = all")

	return cmd
}

func txDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction, unlinking any incomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteTransaction(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Deleted transaction " + args[0]))
			return nil
		},
	}
}

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the cashback a transaction would earn, without saving it",
		Long: `Preview the effective rate and reward for a hypothetical transaction.
The preview consults the same period history as a real save, so it never
overstates the cap headroom actually remaining.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			categoryFlag, _ := cmd.Flags().GetString("category")
			category, err := parseCategory(categoryFlag)
			if err != nil {
				return err
			}
			regionFlag, _ := cmd.Flags().GetString("region")
			region, err := parseRegion(regionFlag)
			if err != nil {
				return err
			}
			dateFlag, _ := cmd.Flags().GetString("date")
			date, err := parseDate(dateFlag)
			if err != nil {
				return err
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			suffix, _ := cmd.Flags().GetString("card")
			card, err := findCardBySuffix(ctx, store, suffix)
			if err != nil {
				return err
			}

			amount, _ := cmd.Flags().GetFloat64("amount")
			rate := reward.Resolve(category, region, card)
			estimated, err := reward.NewCalculator(store).Preview(ctx, amount, category, region, date, card)
			if err != nil {
				return err
			}

			symbol := card.IssueRegion.CurrencySymbol()
			fmt.Printf("%s •%s\n", card.DisplayName(), card.Suffix)
			fmt.Printf("  rate      %.2f%%\n", rate*100)
			fmt.Printf("  uncapped  %s%.2f\n", symbol, amount*rate)
			fmt.Printf("  cashback  %s%.2f\n", symbol, estimated)
			if estimated < amount*rate {
				fmt.Println(cli.FormatWarning("  capped by remaining headroom this period"))
			}
			return nil
		},
	}

	cmd.Flags().Float64("amount", 0, "amount in the origin currency")
	cmd.Flags().String("category", "other", "spending category")
	cmd.Flags().String("region", "cn", "region where spent")
	cmd.Flags().String("date", "", "transaction date, YYYY-MM-DD (defaults to today)")
	cmd.Flags().String("card", "", "card suffix")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("card")

	return cmd
}
