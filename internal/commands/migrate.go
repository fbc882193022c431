package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/treasury_app/internal/platform/config"
	"github.com/SscSPs/treasury_app/pkg/database"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
	}
	migrateCmd.AddCommand(newMigrateDirectionCommand(database.Up, "Apply all pending migrations"))
	migrateCmd.AddCommand(newMigrateDirectionCommand(database.Down, "Revert all migrations"))
	return migrateCmd
}

func newMigrateDirectionCommand(direction database.Direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(direction),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			if cfg.StorageDriver != config.StoragePostgres {
				return fmt.Errorf("migrations require STORAGE_DRIVER=%s, got %s", config.StoragePostgres, cfg.StorageDriver)
			}
			logger.Info("Running database migrations",
				slog.String("direction", string(direction)),
				slog.String("source", cfg.MigrationsPath))
			return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction)
		},
	}
}
