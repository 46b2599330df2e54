package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/utils"
)

// CommandRecorder counts command outcomes.
type CommandRecorder interface {
	ObserveCommand(command, status string)
}

// Limiter decides whether a user may run another command.
type Limiter interface {
	Allow(userID snowflake.ID) (bool, time.Duration)
}

// CommandWrapper adds logging, cooldowns and outcome metrics around command
// handlers. Either dependency may be nil.
type CommandWrapper struct {
	limiter  Limiter
	recorder CommandRecorder
	timeout  time.Duration
}

func NewCommandWrapper(limiter Limiter, recorder CommandRecorder) *CommandWrapper {
	return &CommandWrapper{
		limiter:  limiter,
		recorder: recorder,
		timeout:  config.CommandExecutionTimeout,
	}
}

func (w *CommandWrapper) observe(name, status string) {
	if w.recorder != nil {
		w.recorder.ObserveCommand(name, status)
	}
}

// WrapWithLogging wraps a command handler with logging functionality
func (w *CommandWrapper) WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()

		if w.limiter != nil {
			if ok, wait := w.limiter.Allow(e.User().ID); !ok {
				w.observe(name, "cooldown")
				slog.Debug("Command on cooldown",
					slog.String("type", "cmd"),
					slog.String("name", name),
					slog.String("user_id", e.User().ID.String()),
					slog.Duration("wait", wait),
				)
				return utils.EH.CreateClassifiedError(e, utils.CooldownError,
					fmt.Sprintf("Slow down! Try again in %.1fs.", wait.Seconds()))
			}
		}

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
			slog.String("guild_id", guildString(e)),
			slog.String("channel_id", e.ChannelID().String()),
		)

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		select {
		case err := <-done:
			duration := time.Since(start)
			attrs := []any{
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.String("user_name", e.User().Username),
				slog.Duration("took", duration),
			}

			switch {
			case err != nil:
				w.observe(name, "failed")
				slog.Error("Command failed", append(attrs,
					slog.Any("error", err),
					slog.String("status", "failed"),
				)...)
			case duration > config.SlowCommandThreshold:
				w.observe(name, "slow")
				slog.Warn("Command executed slowly", append(attrs,
					slog.String("status", "slow"),
				)...)
			default:
				w.observe(name, "success")
				slog.Info("Command completed", append(attrs,
					slog.String("status", "success"),
				)...)
			}
			return err

		case <-time.After(w.timeout):
			w.observe(name, "timeout")
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.String("user_name", e.User().Username),
				slog.String("status", "timeout"),
				slog.Duration("timeout", w.timeout),
			)
			return fmt.Errorf("command %s timed out after %s", name, w.timeout)
		}
	}
}

func guildString(e *handler.CommandEvent) string {
	if id := e.GuildID(); id != nil {
		return id.String()
	}
	return "dm"
}
