package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/willyosu/willybot/willybot"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/database/models"
	"github.com/willyosu/willybot/willybot/leveling"
	"github.com/willyosu/willybot/willybot/services"
	"github.com/willyosu/willybot/willybot/utils"
)

var Commands = []discord.ApplicationCommandCreate{
	Profile,
	Level,
	LevelCalc,
	XPCalc,
	TopXP,
	Titles,
	ChangeName,
	ChangeTitle,
	ChangeJoined,
	AddXP,
}

var Profile = discord.SlashCommandCreate{
	Name:        "profile",
	Description: "Show a user's profile",
	Options: []discord.ApplicationCommandOption{
		utils.UserOption("Mention, id or name, defaults to you", false),
	},
}

var Level = discord.SlashCommandCreate{
	Name:        "level",
	Description: "Show a user's level progress",
	Options: []discord.ApplicationCommandOption{
		utils.UserOption("Mention, id or name, defaults to you", false),
	},
}

var LevelCalc = discord.SlashCommandCreate{
	Name:        "levelcalc",
	Description: "XP needed to reach a level",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{Name: "level", Description: "Target level", Required: true},
	},
}

var XPCalc = discord.SlashCommandCreate{
	Name:        "xpcalc",
	Description: "Level reached with an amount of XP",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{Name: "xp", Description: "XP total", Required: true},
	},
}

var TopXP = discord.SlashCommandCreate{
	Name:        "topxp",
	Description: "XP leaderboard",
	Options:     []discord.ApplicationCommandOption{utils.PageOption},
}

var Titles = discord.SlashCommandCreate{
	Name:        "titles",
	Description: "List every title in use",
}

var ChangeName = discord.SlashCommandCreate{
	Name:        "changename",
	Description: "Rename a user",
	Options: []discord.ApplicationCommandOption{
		utils.UserOption("Mention, id or name", true),
		discord.ApplicationCommandOptionString{Name: "name", Description: "New name", Required: true},
	},
}

var ChangeTitle = discord.SlashCommandCreate{
	Name:        "changetitle",
	Description: "Set or clear a user's title",
	Options: []discord.ApplicationCommandOption{
		utils.UserOption("Mention, id or name", true),
		discord.ApplicationCommandOptionString{Name: "title", Description: "New title, empty to clear", Required: false},
	},
}

var ChangeJoined = discord.SlashCommandCreate{
	Name:        "changejoined",
	Description: "Override a user's join date",
	Options: []discord.ApplicationCommandOption{
		utils.UserOption("Mention, id or name", true),
		discord.ApplicationCommandOptionString{Name: "date", Description: "YYYY-MM-DD", Required: true},
	},
}

var AddXP = discord.SlashCommandCreate{
	Name:        "addxp",
	Description: "Grant or remove XP",
	Options: []discord.ApplicationCommandOption{
		utils.UserOption("Mention, id or name", true),
		discord.ApplicationCommandOptionInt{Name: "amount", Description: "XP to add, negative to remove", Required: true},
	},
}

func ProfileHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		profile, err := b.Users.Profile(ctx, utils.UserArg(e, "user"), b.LookupMember)
		if err != nil {
			return utils.EH.HandleError(e, err, "user")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{profileEmbed(profile)},
		})
	}
}

func profileEmbed(p *services.Profile) discord.Embed {
	u := p.User
	embed := discord.NewEmbedBuilder().
		SetTitle(utils.Sanitize(u.Name)).
		SetColor(p.Color).
		AddField("Level", fmt.Sprintf("%d (%d / %d XP)", p.Progress.Level, u.XP, p.Progress.Next), true).
		AddField("Rank", fmt.Sprintf("#%d", p.Rank), true).
		AddField("Joined", p.JoinedAgo, true).
		AddField("Last active", p.ActiveAgo, true)
	if u.Title != "" {
		embed.SetDescription("*" + utils.Sanitize(u.Title) + "*")
	}
	if len(p.Badges) > 0 {
		embed.AddField("Badges", fmt.Sprintf("%d", len(p.Badges)), true)
	}
	if p.Registered {
		embed.SetFooter("Registered just now", "")
	}
	return embed.Build()
}

func LevelHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		user, progress, err := b.Users.Level(ctx, utils.UserArg(e, "user"))
		if err != nil {
			return utils.EH.HandleError(e, err, "user")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("%s is level %d", utils.Sanitize(user.Name), progress.Level),
				Description: fmt.Sprintf("%s %.0f%%\n%d XP to level %d", progressBar(progress), progress.Fraction()*100, progress.Remaining(), progress.Level+1),
				Color:       leveling.LevelColor(progress.Level),
			}},
		})
	}
}

func progressBar(p leveling.Progress) string {
	const width = 12
	filled := int(p.Fraction() * width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func LevelCalcHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		level := int64(e.SlashCommandInteractionData().Int("level"))
		xp, err := b.Users.LevelCalc(level)
		if err != nil {
			return utils.EH.HandleError(e, err, "level")
		}
		if level < 0 {
			level = -level
		}
		return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("Level %d needs **%d** XP.", level, xp))
	}
}

func XPCalcHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		xp := int64(e.SlashCommandInteractionData().Int("xp"))
		level, err := b.Users.XPCalc(xp)
		if err != nil {
			return utils.EH.HandleError(e, err, "xp")
		}
		if xp < 0 {
			xp = -xp
		}
		return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("%d XP reaches level **%d**.", xp, level))
	}
}

func TopXPHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		rows, page, err := b.Users.TopXP(ctx, utils.PageArg(e))
		if err != nil {
			return utils.EH.HandleError(e, err, "leaderboard")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{utils.PagedEmbed("XP leaderboard", Ranking(rows, page.Offset, "XP"), page, config.DefaultLevelColor)},
		})
	}
}

// Ranking renders leaderboard rows numbered from offset+1.
func Ranking(rows []models.RankedUser, offset int, unit string) string {
	var sb strings.Builder
	for i, row := range rows {
		fmt.Fprintf(&sb, "**%d.** %s  %d %s\n", offset+i+1, utils.Sanitize(row.Name), row.Value, unit)
	}
	return sb.String()
}

func TitlesHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		titles, err := b.Users.ListTitles(ctx)
		if err != nil {
			return utils.EH.HandleError(e, err, "title")
		}
		if len(titles) == 0 {
			return utils.EH.CreateInfoEmbed(e, "Nobody has a title yet.")
		}

		pages := (len(titles) + config.DefaultPageSize - 1) / config.DefaultPageSize
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * config.DefaultPageSize
				end := min(start+config.DefaultPageSize, len(titles))
				var sb strings.Builder
				for _, title := range titles[start:end] {
					sb.WriteString("• " + utils.Sanitize(title) + "\n")
				}
				embed.
					SetTitle("Titles").
					SetDescription(sb.String()).
					SetColor(config.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d • %d titles", page+1, pages, len(titles)), "")
			},
			Pages:      pages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func ChangeNameHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		user, err := b.Users.ChangeName(ctx, utils.ConvertMention(data.String("user")), data.String("name"))
		if err != nil {
			return utils.EH.HandleError(e, err, "name")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Changed name to %s.", utils.Sanitize(user.Name)))
	}
}

func ChangeTitleHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		title, _ := data.OptString("title")
		user, err := b.Users.ChangeTitle(ctx, utils.ConvertMention(data.String("user")), title)
		if err != nil {
			return utils.EH.HandleError(e, err, "user")
		}
		if user.Title == "" {
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Removed the title of %s.", utils.Sanitize(user.Name)))
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Changed the title of %s to %s.", utils.Sanitize(user.Name), utils.Sanitize(user.Title)))
	}
}

func ChangeJoinedHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		user, err := b.Users.ChangeJoined(ctx, utils.ConvertMention(data.String("user")), data.String("date"))
		if err != nil {
			return utils.EH.HandleError(e, err, "user")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Changed the join date of %s to <t:%d:D>.", utils.Sanitize(user.Name), user.Joined))
	}
}

func AddXPHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		amount := int64(data.Int("amount"))
		user, err := b.Users.AddXP(ctx, utils.ConvertMention(data.String("user")), amount)
		if err != nil {
			return utils.EH.HandleError(e, err, "user")
		}
		b.Metrics.AddXP(amount)
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Added %d XP to %s, who now has %d.", amount, utils.Sanitize(user.Name), user.XP))
	}
}
