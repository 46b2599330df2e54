package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/willyosu/willybot/willybot"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/logger"
)

var (
	version = "dev"
	commit  = "unknown"

	configPath string
)

var rootCmd = &cobra.Command{
	Use:          "willybot",
	Short:        "Community bot with levels, badges and quests",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
}

// Execute runs the command line. Without a sub command the bot is served.
func Execute(v, c string) error {
	version, commit = v, c
	return rootCmd.Execute()
}

// setup loads the configuration, installs the logger and opens the store
// with its schema in place.
func setup(ctx context.Context) (*willybot.Config, *database.DB, error) {
	cfg, err := willybot.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	logger.LogSystem("Configuration loaded successfully", slog.String("path", configPath))

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	slog.Info("Database ready",
		slog.String("type", "db"),
		slog.String("driver", db.Driver()),
		slog.Duration("took", time.Since(dbStartTime)))
	return cfg, db, nil
}
