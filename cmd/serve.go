package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/spf13/cobra"
	"github.com/willyosu/willybot/willybot"
	"github.com/willyosu/willybot/willybot/commands"
	"github.com/willyosu/willybot/willybot/handlers"
	"github.com/willyosu/willybot/willybot/metrics"
	"github.com/willyosu/willybot/willybot/utils"
)

var syncCommands bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and run the bot",
	RunE:  runServe,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().BoolVar(&syncCommands, "sync-commands", false, "Whether to sync commands to discord")
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("Starting WillyBot",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	b := willybot.New(*cfg, version, commit)
	b.DB = db

	h := handler.New()
	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady), handlers.MessageHandler(b)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if err = b.SetupServices(ctx, b.Client.Rest()); err != nil {
		return fmt.Errorf("failed to setup services: %w", err)
	}
	commands.Register(h, b, handlers.NewCommandWrapper(b.Cooldowns, b.Metrics))

	if syncCommands || cfg.Bot.SyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	processes := utils.NewBackgroundProcessManager(context.Background())
	defer func() {
		if err := processes.Shutdown(10 * time.Second); err != nil {
			slog.Warn("Background processes did not stop in time", slog.String("type", "sys"), slog.Any("error", err))
		}
	}()

	if !cfg.Tasks.Disabled {
		processes.StartProcess("scheduler", "maintenance jobs", func(ctx context.Context) {
			if err := b.Scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Scheduler stopped", slog.String("type", "task"), slog.Any("error", err))
			}
		})
	}

	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, b.Registry)
		processes.StartProcess("metrics", "prometheus listener", func(ctx context.Context) {
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics listener failed", slog.String("type", "sys"), slog.Any("error", err))
			}
		})
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		return err
	}

	slog.Info("Bot is running. Press CTRL-C to exit.", slog.String("type", "sys"))
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...", slog.String("type", "sys"))
	return nil
}
