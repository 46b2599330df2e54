package badges

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/spf13/afero"
	"github.com/willyosu/willybot/willybot"
	"github.com/willyosu/willybot/willybot/commands/users"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/database/models"
	"github.com/willyosu/willybot/willybot/services"
	"github.com/willyosu/willybot/willybot/utils"
)

const attachmentName = "badge.png"

var Commands = []discord.ApplicationCommandCreate{
	Badge,
	ListBadges,
	TopBadges,
	AddBadge,
	RemoveBadge,
	CreateBadge,
	DeleteBadge,
	UpdateBadge,
}

var badgeOption = discord.ApplicationCommandOptionString{
	Name:        "badge",
	Description: "Badge id or part of its name",
	Required:    true,
}

var Badge = discord.SlashCommandCreate{
	Name:        "badge",
	Description: "Show a badge and who owns it",
	Options:     []discord.ApplicationCommandOption{badgeOption},
}

var ListBadges = discord.SlashCommandCreate{
	Name:        "listbadges",
	Description: "Every badge and how many own it",
	Options:     []discord.ApplicationCommandOption{utils.PageOption},
}

var TopBadges = discord.SlashCommandCreate{
	Name:        "topbadges",
	Description: "Users with the most badges",
	Options:     []discord.ApplicationCommandOption{utils.PageOption},
}

var AddBadge = discord.SlashCommandCreate{
	Name:        "addbadge",
	Description: "Award a badge to a user",
	Options: []discord.ApplicationCommandOption{
		utils.UserOption("Mention, id or name", true),
		badgeOption,
	},
}

var RemoveBadge = discord.SlashCommandCreate{
	Name:        "removebadge",
	Description: "Take a badge away from a user",
	Options: []discord.ApplicationCommandOption{
		utils.UserOption("Mention, id or name", true),
		badgeOption,
	},
}

var CreateBadge = discord.SlashCommandCreate{
	Name:        "createbadge",
	Description: "Create a badge",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{Name: "args", Description: "NAME::IMAGE::DESCRIPTION", Required: true},
	},
}

var DeleteBadge = discord.SlashCommandCreate{
	Name:        "deletebadge",
	Description: "Delete a badge and every award of it",
	Options:     []discord.ApplicationCommandOption{badgeOption},
}

var UpdateBadge = discord.SlashCommandCreate{
	Name:        "updatebadge",
	Description: "Change a badge attribute",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{Name: "args", Description: "BADGE::ATTRIBUTE::VALUE", Required: true},
	},
}

func BadgeHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		details, err := b.Badges.Show(ctx, e.SlashCommandInteractionData().String("badge"))
		if err != nil {
			return utils.EH.HandleError(e, err, "badge")
		}

		msg := discord.MessageCreate{}
		embed := badgeEmbed(details)
		image, err := openImage(b.FS, b.Cfg.Paths.Badges, details.Badge.Image)
		if err != nil {
			slog.Warn("Badge image unavailable",
				slog.String("type", "sys"),
				slog.String("image", details.Badge.Image),
				slog.Any("error", err))
		} else {
			defer image.Close()
			msg.Files = []*discord.File{{Name: attachmentName, Reader: image}}
			embed.Thumbnail = &discord.EmbedResource{URL: "attachment://" + attachmentName}
		}
		msg.Embeds = []discord.Embed{embed}
		return e.CreateMessage(msg)
	}
}

// openImage opens a badge image inside dir. Names escaping dir are rejected.
func openImage(fsys afero.Fs, dir, name string) (io.ReadCloser, error) {
	clean := filepath.Clean(name)
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, fmt.Errorf("invalid image name %q", name)
	}
	return fsys.Open(filepath.Join(dir, clean))
}

func badgeEmbed(d *services.BadgeDetails) discord.Embed {
	owners := "Nobody yet."
	if len(d.Owners) > 0 {
		names := make([]string, len(d.Owners))
		for i, name := range d.Owners {
			names[i] = utils.Sanitize(name)
		}
		owners = utils.CutoffText(strings.Join(names, ", "), config.DescriptionCutoff)
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(utils.Sanitize(d.Badge.Name)).
		SetColor(config.InfoColor).
		AddField(fmt.Sprintf("Owners (%d)", len(d.Owners)), owners, false).
		SetFooter(fmt.Sprintf("Badge #%d", d.Badge.ID), "")
	if d.Badge.Description != "" {
		embed.SetDescription(utils.CutoffText(d.Badge.Description, config.DescriptionCutoff))
	}
	return embed.Build()
}

func ListBadgesHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		rows, page, err := b.Badges.List(ctx, utils.PageArg(e))
		if err != nil {
			return utils.EH.HandleError(e, err, "badge")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{utils.PagedEmbed("Badges", listing(rows), page, config.InfoColor)},
		})
	}
}

func listing(rows []services.BadgeListing) string {
	var sb strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&sb, "`%d` **%s**  %d owners\n", row.Badge.ID, utils.Sanitize(row.Badge.Name), row.Owners)
	}
	return sb.String()
}

func TopBadgesHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		rows, page, err := b.Badges.Top(ctx, utils.PageArg(e))
		if err != nil {
			return utils.EH.HandleError(e, err, "badge")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{utils.PagedEmbed("Badge leaderboard", users.Ranking(asRanked(rows), page.Offset, "badges"), page, config.InfoColor)},
		})
	}
}

func asRanked(rows []models.BadgeCount) []models.RankedUser {
	ranked := make([]models.RankedUser, len(rows))
	for i, row := range rows {
		ranked[i] = models.RankedUser{ID: row.ID, Name: row.Name, Value: row.Count}
	}
	return ranked
}

func AddBadgeHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		user, badge, err := b.Badges.Award(ctx, data.String("user"), data.String("badge"))
		if err != nil {
			return utils.EH.HandleError(e, err, "badge award")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Gave %s the %s badge!", utils.Sanitize(user.Name), utils.Sanitize(badge.Name)))
	}
}

func RemoveBadgeHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		user, badge, err := b.Badges.Revoke(ctx, data.String("user"), data.String("badge"))
		if err != nil {
			return utils.EH.HandleError(e, err, "badge award")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Removed the %s badge from %s.", utils.Sanitize(badge.Name), utils.Sanitize(user.Name)))
	}
}

func CreateBadgeHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		badge, err := b.Badges.Create(ctx, e.SlashCommandInteractionData().String("args"))
		if err != nil {
			return utils.EH.HandleError(e, err, "badge")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Created badge %s with id %d.", utils.Sanitize(badge.Name), badge.ID))
	}
}

func DeleteBadgeHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		badge, err := b.Badges.Delete(ctx, e.SlashCommandInteractionData().String("badge"))
		if err != nil {
			return utils.EH.HandleError(e, err, "badge")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Deleted badge %s.", utils.Sanitize(badge.Name)))
	}
}

func UpdateBadgeHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		badge, attr, err := b.Badges.Update(ctx, e.SlashCommandInteractionData().String("args"))
		if err != nil {
			return utils.EH.HandleError(e, err, "badge")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Updated the %s of badge %s.", attr, utils.Sanitize(badge.Name)))
	}
}
