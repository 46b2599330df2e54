package quests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/willyosu/willybot/willybot"
	"github.com/willyosu/willybot/willybot/commands/users"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
	"github.com/willyosu/willybot/willybot/database/repositories"
	"github.com/willyosu/willybot/willybot/services"
	"github.com/willyosu/willybot/willybot/utils"
)

var Commands = []discord.ApplicationCommandCreate{
	ListQuests,
	Quest,
	QuestStats,
	TopQP,
	CreateQuest,
	UpdateQuest,
	DeleteQuest,
	AddQuestPoints,
}

var questOption = discord.ApplicationCommandOptionString{
	Name:        "quest",
	Description: "Quest id or name",
	Required:    true,
}

var ListQuests = discord.SlashCommandCreate{
	Name:        "listquests",
	Description: "The quest board",
	Options:     []discord.ApplicationCommandOption{utils.PageOption},
}

var Quest = discord.SlashCommandCreate{
	Name:        "quest",
	Description: "Show a quest",
	Options:     []discord.ApplicationCommandOption{questOption},
}

var QuestStats = discord.SlashCommandCreate{
	Name:        "queststats",
	Description: "A user's completed quests",
	Options: []discord.ApplicationCommandOption{
		utils.UserOption("Mention, id or name, defaults to you", false),
	},
}

var TopQP = discord.SlashCommandCreate{
	Name:        "topqp",
	Description: "Quest point leaderboard",
	Options:     []discord.ApplicationCommandOption{utils.PageOption},
}

var CreateQuest = discord.SlashCommandCreate{
	Name:        "createquest",
	Description: "Post a new quest",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{Name: "args", Description: "NAME::TIER::DESCRIPTION::EXPIRES (e.g. 3D)", Required: true},
	},
}

var UpdateQuest = discord.SlashCommandCreate{
	Name:        "updatequest",
	Description: "Change a quest attribute",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{Name: "args", Description: "QUEST::ATTRIBUTE::VALUE", Required: true},
	},
}

var DeleteQuest = discord.SlashCommandCreate{
	Name:        "deletequest",
	Description: "Delete a quest and its announcement",
	Options:     []discord.ApplicationCommandOption{questOption},
}

var AddQuestPoints = discord.SlashCommandCreate{
	Name:        "addquestpoints",
	Description: "Record quest completions for a user",
	Options: []discord.ApplicationCommandOption{
		utils.UserOption("Mention, id or name", true),
		discord.ApplicationCommandOptionString{Name: "tier", Description: "Tier 1 to 5", Required: true},
		discord.ApplicationCommandOptionInt{Name: "amount", Description: "Completions to add", Required: false},
	},
}

func ListQuestsHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		quests, page, err := b.Quests.ListActive(ctx, utils.PageArg(e))
		if err != nil {
			return utils.EH.HandleError(e, err, "quest")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{utils.PagedEmbed("Quests", board(quests), page, config.DefaultLevelColor)},
		})
	}
}

func board(quests []models.Quest) string {
	var sb strings.Builder
	for _, q := range quests {
		fmt.Fprintf(&sb, "%s **%s**  expires <t:%d:R>\n", q.Tier.Icon(), utils.Sanitize(q.Name), q.Expires)
	}
	return sb.String()
}

func QuestHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		quest, err := b.Quests.Show(ctx, e.SlashCommandInteractionData().String("quest"))
		if err != nil {
			return utils.EH.HandleError(e, err, "quest")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{services.QuestEmbed(quest.Name, quest.Description, quest.Tier, quest.Expires)},
		})
	}
}

func QuestStatsHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		stats, err := b.Quests.Stats(ctx, utils.UserArg(e, "user"))
		if err != nil {
			if noCompletions(err) {
				return utils.EH.CreateInfoEmbed(e, "User has not completed any quests.")
			}
			return utils.EH.HandleError(e, err, "user")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{statsEmbed(stats)},
		})
	}
}

func noCompletions(err error) bool {
	var nf *database.NotFoundError
	return errors.As(err, &nf) && nf.Entity == repositories.UserQuestsTable.Entity
}

func statsEmbed(s *services.QuestStats) discord.Embed {
	var sb strings.Builder
	for _, tier := range models.CountedTiers() {
		fmt.Fprintf(&sb, "%s  %d\n", tier, s.Counts.Count(tier))
	}
	return discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("%s's quests", utils.Sanitize(s.User.Name))).
		SetDescription(sb.String()).
		SetColor(config.DefaultLevelColor).
		AddField("Completed", fmt.Sprintf("%d", s.Finished), true).
		AddField("Quest points", fmt.Sprintf("%d", s.Points), true).
		AddField("Rank", fmt.Sprintf("#%d", s.Rank), true).
		Build()
}

func TopQPHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		rows, page, err := b.Quests.TopQP(ctx, utils.PageArg(e))
		if err != nil {
			return utils.EH.HandleError(e, err, "leaderboard")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{utils.PagedEmbed("Quest point leaderboard", users.Ranking(rows, page.Offset, "QP"), page, config.DefaultLevelColor)},
		})
	}
}

func CreateQuestHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		quest, err := b.Quests.Create(ctx, e.SlashCommandInteractionData().String("args"))
		if err != nil {
			return utils.EH.HandleError(e, err, "quest")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Posted quest %s.", utils.Sanitize(quest.Name)))
	}
}

func UpdateQuestHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		quest, attr, err := b.Quests.Update(ctx, e.SlashCommandInteractionData().String("args"))
		if err != nil {
			return utils.EH.HandleError(e, err, "quest")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Updated the %s of quest %s.", attr, utils.Sanitize(quest.Name)))
	}
}

func DeleteQuestHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		quest, err := b.Quests.Delete(ctx, e.SlashCommandInteractionData().String("quest"))
		if err != nil {
			return utils.EH.HandleError(e, err, "quest")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Deleted quest %s.", utils.Sanitize(quest.Name)))
	}
}

func AddQuestPointsHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		amount := int64(config.DefaultQuestPoints)
		if v, ok := data.OptInt("amount"); ok {
			amount = int64(v)
		}
		if amount < 1 {
			return utils.EH.CreateErrorEmbed(e, "Amount must be at least 1.")
		}

		user, points, err := b.Quests.AddQuestPoints(ctx, utils.ConvertMention(data.String("user")), data.String("tier"), amount)
		if err != nil {
			return utils.EH.HandleError(e, err, "user")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Added %d quest points to %s!", points, utils.Sanitize(user.Name)))
	}
}
