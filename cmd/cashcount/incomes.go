package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/junhaoh/cashcount/internal/cli"
	"github.com/junhaoh/cashcount/internal/model"
)

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Track money recovered against transactions",
	}

	cmd.AddCommand(incomeAddCmd())
	cmd.AddCommand(incomeListCmd())
	cmd.AddCommand(incomeDeleteCmd())

	return cmd
}

func incomeAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income entry, optionally linked to a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

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

			transactionID, _ := cmd.Flags().GetString("transaction")
			if transactionID != "" {
				// Fail early on a dangling link rather than storing it.
				if _, err := store.GetTransactionByID(ctx, transactionID); err != nil {
					return err
				}
			}

			amount, _ := cmd.Flags().GetFloat64("amount")
			currency, _ := cmd.Flags().GetString("currency")
			note, _ := cmd.Flags().GetString("note")

			income := &model.Income{
				ID:            uuid.NewString(),
				Amount:        amount,
				Date:          date,
				CurrencyCode:  currency,
				Note:          note,
				TransactionID: transactionID,
			}
			if err := store.SaveIncome(ctx, income); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded income %.2f %s", amount, currency)))
			return nil
		},
	}

	cmd.Flags().Float64("amount", 0, "income amount")
	cmd.Flags().String("date", "", "income date, YYYY-MM-DD (defaults to today)")
	cmd.Flags().String("currency", "CNY", "ISO currency code")
	cmd.Flags().String("note", "", "free-text note")
	cmd.Flags().String("transaction", "", "transaction ID this income offsets")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func incomeListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List income entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactionID, _ := cmd.Flags().GetString("transaction")
			incomes, err := store.GetIncomes(ctx, transactionID)
			if err != nil {
				return err
			}
			if len(incomes) == 0 {
				fmt.Println(cli.FormatSubtle("No income entries."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Income"))
			for _, income := range incomes {
				link := cli.FormatSubtle("unlinked")
				if income.TransactionID != "" {
					link = "→ " + income.TransactionID
				}
				fmt.Printf("  %s  %10.2f %s  %-20s %s\n",
					income.Date.Format("2006-01-02"),
					income.Amount,
					income.CurrencyCode,
					income.Note,
					link,
				)
			}
			return nil
		},
	}

	cmd.Flags().String("transaction", "", "only incomes linked to this transaction ID")

	return cmd
}

func incomeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <income-id>",
		Short: "Delete an income entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteIncome(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Deleted income " + args[0]))
			return nil
		},
	}
}
