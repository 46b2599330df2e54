package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/willyosu/willybot/willybot"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/services"
	"github.com/willyosu/willybot/willybot/utils"
)

var Commands = []discord.ApplicationCommandCreate{
	ColorMe,
	UncolorMe,
	NotifyMe,
	UnnotifyMe,
	Game,
	DatabaseStats,
}

var Game = discord.SlashCommandCreate{
	Name:        "game",
	Description: "Change what the bot is playing",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{Name: "game", Description: "Game name", Required: true},
	},
}

var DatabaseStats = discord.SlashCommandCreate{
	Name:        "databasestats",
	Description: "Row counts and size of the database",
}

func GameHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		game := strings.TrimSpace(e.SlashCommandInteractionData().String("game"))
		if game == "" {
			return utils.EH.CreateErrorEmbed(e, "Game can not be empty.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()
		if err := b.SetGame(ctx, game); err != nil {
			return utils.EH.HandleError(e, err, "game")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Now playing %s.", utils.Sanitize(game)))
	}
}

func DatabaseStatsHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		stats, err := b.Stats.Collect(ctx)
		if err != nil {
			return utils.EH.HandleError(e, err, "database stats")
		}
		return utils.EH.CreateInfoEmbed(e, FormatStats(stats))
	}
}

// FormatStats renders database stats with the size in kilobytes.
func FormatStats(s *services.DatabaseStats) string {
	return fmt.Sprintf("Users: %d  Badges: %d   Quests: %d\nSize: %.1f kB", s.Users, s.Badges, s.Quests, float64(s.Bytes)/1024)
}
