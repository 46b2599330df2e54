package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/willyosu/willybot/willybot"
	"github.com/willyosu/willybot/willybot/commands/badges"
	"github.com/willyosu/willybot/willybot/commands/quests"
	"github.com/willyosu/willybot/willybot/commands/server"
	"github.com/willyosu/willybot/willybot/commands/system"
	"github.com/willyosu/willybot/willybot/commands/users"
	"github.com/willyosu/willybot/willybot/handlers"
)

var Commands = []discord.ApplicationCommandCreate{}

func init() {
	Commands = append(Commands, users.Commands...)
	Commands = append(Commands, badges.Commands...)
	Commands = append(Commands, quests.Commands...)
	Commands = append(Commands, server.Commands...)
	Commands = append(Commands, system.Commands...)
}

// access is who may run a command.
type access int

const (
	everyone access = iota
	staff
	owner
)

type route struct {
	name    string
	access  access
	handler func(b *willybot.Bot) handler.CommandHandler
}

var routes = []route{
	{"profile", everyone, users.ProfileHandler},
	{"level", everyone, users.LevelHandler},
	{"levelcalc", everyone, users.LevelCalcHandler},
	{"xpcalc", everyone, users.XPCalcHandler},
	{"topxp", everyone, users.TopXPHandler},
	{"titles", everyone, users.TitlesHandler},
	{"changename", owner, users.ChangeNameHandler},
	{"changetitle", owner, users.ChangeTitleHandler},
	{"changejoined", owner, users.ChangeJoinedHandler},
	{"addxp", owner, users.AddXPHandler},

	{"badge", everyone, badges.BadgeHandler},
	{"listbadges", everyone, badges.ListBadgesHandler},
	{"topbadges", everyone, badges.TopBadgesHandler},
	{"addbadge", owner, badges.AddBadgeHandler},
	{"removebadge", owner, badges.RemoveBadgeHandler},
	{"createbadge", owner, badges.CreateBadgeHandler},
	{"deletebadge", owner, badges.DeleteBadgeHandler},
	{"updatebadge", owner, badges.UpdateBadgeHandler},

	{"listquests", everyone, quests.ListQuestsHandler},
	{"quest", everyone, quests.QuestHandler},
	{"queststats", everyone, quests.QuestStatsHandler},
	{"topqp", everyone, quests.TopQPHandler},
	{"createquest", owner, quests.CreateQuestHandler},
	{"updatequest", owner, quests.UpdateQuestHandler},
	{"deletequest", owner, quests.DeleteQuestHandler},
	{"addquestpoints", owner, quests.AddQuestPointsHandler},

	{"colorme", everyone, server.ColorMeHandler},
	{"uncolorme", everyone, server.UncolorMeHandler},
	{"notifyme", everyone, server.NotifyMeHandler},
	{"unnotifyme", everyone, server.UnnotifyMeHandler},
	{"game", staff, server.GameHandler},
	{"databasestats", staff, server.DatabaseStatsHandler},

	{"version", everyone, system.VersionHandler},
}

// Register routes every command through the wrapper, guarding privileged
// ones by owner id or by the configured mod and admin roles.
func Register(h *handler.Mux, b *willybot.Bot, w *handlers.CommandWrapper) {
	owners := b.Cfg.Bot.OwnerIDs
	staffRoles := []snowflake.ID{b.Cfg.Roles.Mod, b.Cfg.Roles.Admin}

	for _, r := range routes {
		next := r.handler(b)
		switch r.access {
		case owner:
			next = handlers.RequireOwner(owners, "use /"+r.name, next)
		case staff:
			next = handlers.RequireRoles(staffRoles, owners, "use /"+r.name, next)
		}
		h.Command("/"+r.name, w.WrapWithLogging(r.name, next))
	}
}
