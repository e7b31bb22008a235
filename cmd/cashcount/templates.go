package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/junhaoh/cashcount/internal/cli"
	"github.com/junhaoh/cashcount/internal/model"
)

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage reusable card rule templates",
	}

	cmd.AddCommand(templatesListCmd())
	cmd.AddCommand(templatesSyncCmd())
	cmd.AddCommand(templatesRefreshCmd())

	return cmd
}

func templatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			templates, err := store.GetTemplates(ctx)
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				fmt.Println(cli.FormatSubtle("No templates. Seed the built-in catalog with: cashcount templates sync"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Templates"))
			for _, template := range templates {
				foreign := "—"
				if template.ForeignRate != nil {
					foreign = fmt.Sprintf("%.2f%%", *template.ForeignRate)
				}
				fmt.Printf("  %-40s %s  base %.2f%%  foreign %s\n",
					template.Key, template.Region.Code(), template.DefaultRate, foreign)
			}
			return nil
		},
	}
}

func templatesSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync the built-in template catalog into the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			seeds := model.DefaultTemplateSeeds()
			if err := store.SyncTemplateSeeds(ctx, seeds); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Synced %d templates", len(seeds))))
			return nil
		},
	}
}

func templatesRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-apply template rules to every card linked to a template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			refreshed, err := store.RefreshCardsFromTemplates(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Refreshed %d cards from templates", refreshed)))
			return nil
		},
	}
}
