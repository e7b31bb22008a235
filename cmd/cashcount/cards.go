package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/cli"
	"github.com/junhaoh/cashcount/internal/model"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage cards and their cashback rules",
	}

	cmd.AddCommand(cardsListCmd())
	cmd.AddCommand(cardsAddCmd())
	cmd.AddCommand(cardsDeleteCmd())
	cmd.AddCommand(cardsApplyCmd())

	return cmd
}

func cardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all cards",
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
			if len(cards) == 0 {
				fmt.Println(cli.FormatSubtle("No cards yet. Add one with: cashcount cards add"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Cards"))
			for _, card := range cards {
				foreign := "—"
				if card.ForeignRate != nil {
					foreign = fmt.Sprintf("%.2f%%", *card.ForeignRate*100)
				}
				fmt.Printf("  %s  •%s  %s  base %.2f%%  foreign %s  %s\n",
					card.DisplayName(),
					card.Suffix,
					card.IssueRegion.Code(),
					card.DefaultRate*100,
					foreign,
					cli.FormatSubtle(string(card.CapPeriod)),
				)
				for category, rate := range card.SpecialRates {
					fmt.Printf("      %s %.2f%%\n", category.DisplayName(), rate*100)
				}
			}
			return nil
		},
	}
}

func cardsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card",
		Example: `  cashcount cards add --bank "滙豐香港" --type "Red信用卡" --suffix 4896 \
    --region hk --default-rate 4.0 --foreign-rate 1.0 --local-cap 4800 \
    --rate dining=5.0 --cap dining=500 --cap-period yearly`,
		RunE: runCardsAdd,
	}

	cmd.Flags().String("bank", "", "issuing bank name")
	cmd.Flags().String("type", "", "card product name")
	cmd.Flags().String("suffix", "", "last-4 display digits")
	cmd.Flags().String("region", "cn", "issuing region (cn, hk, us, other)")
	cmd.Flags().Float64("default-rate", 0, "default cashback rate in percent")
	cmd.Flags().Float64("foreign-rate", 0, "foreign-region bonus rate in percent")
	cmd.Flags().Float64("local-cap", 0, "local-currency cashback cap, 0 = uncapped")
	cmd.Flags().Float64("foreign-cap", 0, "foreign-currency cashback cap, 0 = uncapped")
	cmd.Flags().StringArray("rate", nil, "category rate override, category=percent (repeatable)")
	cmd.Flags().StringArray("cap", nil, "category cashback cap, category=amount (repeatable)")
	cmd.Flags().String("cap-period", "yearly", "cap reset period (monthly, yearly)")
	cmd.Flags().Int("repayment-day", 0, "monthly repayment reminder day, 0 = disabled")
	cmd.Flags().String("color1", "333333", "primary display color (hex)")
	cmd.Flags().String("color2", "666666", "secondary display color (hex)")
	_ = cmd.MarkFlagRequired("bank")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("suffix")

	return cmd
}

func runCardsAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	regionFlag, _ := cmd.Flags().GetString("region")
	region, err := parseRegion(regionFlag)
	if err != nil {
		return err
	}

	capPeriodFlag, _ := cmd.Flags().GetString("cap-period")
	capPeriod := model.CapPeriod(capPeriodFlag)
	switch capPeriod {
	case model.CapPeriodMonthly, model.CapPeriodYearly:
	default:
		return fmt.Errorf("unknown cap period %q (valid: monthly, yearly)", capPeriodFlag)
	}

	ratePairs, _ := cmd.Flags().GetStringArray("rate")
	ratePercents, err := parseCategoryAmounts(ratePairs)
	if err != nil {
		return err
	}
	capPairs, _ := cmd.Flags().GetStringArray("cap")
	categoryCaps, err := parseCategoryAmounts(capPairs)
	if err != nil {
		return err
	}

	bank, _ := cmd.Flags().GetString("bank")
	cardType, _ := cmd.Flags().GetString("type")
	suffix, _ := cmd.Flags().GetString("suffix")
	defaultRate, _ := cmd.Flags().GetFloat64("default-rate")
	localCap, _ := cmd.Flags().GetFloat64("local-cap")
	foreignCap, _ := cmd.Flags().GetFloat64("foreign-cap")
	repaymentDay, _ := cmd.Flags().GetInt("repayment-day")
	color1, _ := cmd.Flags().GetString("color1")
	color2, _ := cmd.Flags().GetString("color2")

	card := &model.Card{
		ID:             uuid.NewString(),
		BankName:       strings.TrimSpace(bank),
		Type:           strings.TrimSpace(cardType),
		Suffix:         strings.TrimSpace(suffix),
		ColorHexes:     [2]string{color1, color2},
		IssueRegion:    region,
		DefaultRate:    defaultRate / 100,
		SpecialRates:   make(map[catalog.Category]float64),
		LocalBaseCap:   localCap,
		ForeignBaseCap: foreignCap,
		CapPeriod:      capPeriod,
		RepaymentDay:   repaymentDay,
	}

	if cmd.Flags().Changed("foreign-rate") {
		foreignPercent, _ := cmd.Flags().GetFloat64("foreign-rate")
		foreignRate := foreignPercent / 100
		card.ForeignRate = &foreignRate
	}
	for category, percent := range ratePercents {
		card.SpecialRates[category] = percent / 100
	}
	card.CategoryCaps = categoryCaps

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveCard(ctx, card); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added card %s •%s", card.DisplayName(), card.Suffix)))
	return nil
}

func cardsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <suffix>",
		Short: "Delete a card, keeping its transactions as card-less entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			card, err := findCardBySuffix(ctx, store, args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteCard(ctx, card.ID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted card %s •%s", card.DisplayName(), card.Suffix)))
			fmt.Println(cli.FormatSubtle("Its transactions were kept and unlinked."))
			return nil
		},
	}
}

func cardsApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply-template <suffix> <template-key>",
		Short: "Overwrite a card's rules from a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			card, err := findCardBySuffix(ctx, store, args[0])
			if err != nil {
				return err
			}
			template, err := store.GetTemplateByKey(ctx, args[1])
			if err != nil {
				return err
			}

			template.ApplyTo(card)
			if err := store.SaveCard(ctx, card); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Applied %s to card •%s", template.Key, card.Suffix)))
			return nil
		},
	}
	return cmd
}
