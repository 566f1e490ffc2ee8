package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shandysiswandi/goexemplar/internal/app"
	"github.com/shandysiswandi/goexemplar/internal/exemplar"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the exemplar table in the configured database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}

		storage, err := exemplar.OpenStore(ctx, cfg, nil)
		if err != nil {
			return err
		}
		defer storage.Close()

		if err := storage.Migrate(ctx); err != nil {
			return err
		}

		slog.InfoContext(ctx, "database migrated", "driver", cfg.GetString("database.driver"))
		return nil
	},
}
