package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/logger"
	"github.com/willyosu/willybot/willybot/migration"
)

var (
	migrateFrom  string
	migrateBatch int
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "Import a database written by the previous bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if _, err := os.Stat(migrateFrom); err != nil {
			return fmt.Errorf("legacy database: %w", err)
		}

		_, db, err := setup(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		legacy, err := database.New(ctx, database.DBConfig{Driver: database.DriverSQLite, Path: migrateFrom})
		if err != nil {
			logger.LogError("Failed to open legacy database", err, slog.String("path", migrateFrom))
			return err
		}
		defer legacy.Close()

		migrator := migration.NewMigrator(legacy.BunDB(), db.BunDB())
		migrator.SetBatchSize(migrateBatch)
		if err := migrator.MigrateAll(ctx); err != nil {
			logger.LogError("Migration failed", err)
			return err
		}

		stats := migrator.Stats()
		processed, inserted, skipped := stats.Totals()
		slog.Info("Migration completed successfully!",
			slog.String("type", "db"),
			slog.Int("processed", processed),
			slog.Int("inserted", inserted),
			slog.Int("skipped", skipped),
			slog.Duration("took", stats.EndTime.Sub(stats.StartTime).Round(time.Millisecond)))
		return nil
	},
}

func init() {
	migrateCMD.Flags().StringVar(&migrateFrom, "from", "", "path to the legacy database")
	migrateCMD.Flags().IntVar(&migrateBatch, "batch-size", 500, "rows per insert")
	migrateCMD.MarkFlagRequired("from")
	rootCmd.AddCommand(migrateCMD)
}
