package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/junhaoh/cashcount/internal/cli"
	"github.com/junhaoh/cashcount/internal/common"
	"github.com/junhaoh/cashcount/internal/config"
	"github.com/junhaoh/cashcount/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the ledger database schema up to date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			dbPath := viper.GetString("database.path")
			if dbPath == "" {
				dbPath = defaultDBPath
			}

			store, err := storage.NewSQLiteStorage(config.ExpandPath(dbPath))
			if err != nil {
				return common.NewUserError("Failed to open ledger database", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return common.NewUserError("Failed to migrate ledger database", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Database schema is up to date (version %d)",
				storage.ExpectedSchemaVersion)))
			return nil
		},
	}
}
