package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/rest"
	"github.com/spf13/cobra"
	"github.com/willyosu/willybot/willybot"
	"github.com/willyosu/willybot/willybot/tasks"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the database once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, closeFn, err := offlineBot(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := b.Scheduler.RunAll(cmd.Context(), tasks.CodeBackup); err != nil {
			return err
		}
		for _, job := range b.Scheduler.Jobs() {
			backup, ok := job.(*tasks.BackupJob)
			if !ok || backup.Last() == "" {
				continue
			}
			if b.Spaces != nil {
				fmt.Fprintln(cmd.OutOrStdout(), b.Spaces.GetBackupURL(backup.Last()))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), backup.Last())
			}
		}
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Purge temporary files, inactive users and expired quests once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, closeFn, err := offlineBot(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		return b.Scheduler.RunAll(cmd.Context(), tasks.CodeTempFiles, tasks.CodeUsers, tasks.CodeQuests)
	},
}

func init() {
	rootCmd.AddCommand(backupCmd, purgeCmd)
}

// offlineBot wires the services without a gateway connection. Quest
// announcements are still removed over REST when a token is configured.
func offlineBot(ctx context.Context) (*willybot.Bot, func(), error) {
	cfg, db, err := setup(ctx)
	if err != nil {
		return nil, nil, err
	}

	b := willybot.New(*cfg, version, commit)
	b.DB = db

	var channels rest.Channels
	if cfg.Bot.Token != "" {
		channels = rest.New(rest.NewClient(cfg.Bot.Token))
	} else {
		slog.Warn("No bot token configured, quest announcements will not be removed", slog.String("type", "sys"))
	}
	if err := b.SetupServices(ctx, channels); err != nil {
		db.Close()
		return nil, nil, err
	}
	return b, func() { db.Close() }, nil
}
