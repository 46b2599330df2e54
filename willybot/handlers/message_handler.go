package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/willyosu/willybot/willybot"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/services"
)

// MessageHandler grants message XP for guild chatter.
func MessageHandler(b *willybot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageCreate) {
		if !tracked(b.Cfg.Bot.GuildID, e.GuildID, e.Message.Author) {
			return
		}

		joined := e.Message.CreatedAt
		if member := e.Message.Member; member != nil {
			joined = member.JoinedAt
		}
		activity := activityFromMessage(e.Message, joined)

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		granted, err := b.Users.RecordActivity(ctx, activity)
		if err != nil {
			slog.Error("Failed to record activity",
				slog.String("type", "db"),
				slog.String("user_id", e.Message.Author.ID.String()),
				slog.Any("error", err))
			return
		}
		if b.Metrics != nil {
			b.Metrics.AddXP(granted)
		}
	})
}

// tracked reports whether a message counts towards XP. Bots never do; when a
// home guild is configured only its messages do.
func tracked(home, guild snowflake.ID, author discord.User) bool {
	if author.Bot || author.System {
		return false
	}
	return home == 0 || home == guild
}

func activityFromMessage(m discord.Message, joined time.Time) services.Activity {
	return services.Activity{
		Author:         services.MemberFromDiscord(m.Author, joined),
		ContentLength:  len([]rune(m.Content)),
		HasAttachments: len(m.Attachments) > 0,
	}
}
