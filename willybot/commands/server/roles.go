package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/willyosu/willybot/willybot"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/services"
	"github.com/willyosu/willybot/willybot/utils"
)

const maxSuggestions = 3

var ColorMe = discord.SlashCommandCreate{
	Name:        "colorme",
	Description: "Pick a name colour",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{Name: "color", Description: "Colour name", Required: true},
	},
}

var UncolorMe = discord.SlashCommandCreate{
	Name:        "uncolorme",
	Description: "Remove your name colour",
}

var NotifyMe = discord.SlashCommandCreate{
	Name:        "notifyme",
	Description: "Subscribe to a notification role",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{Name: "role", Description: "Notification role name", Required: true},
	},
}

var UnnotifyMe = discord.SlashCommandCreate{
	Name:        "unnotifyme",
	Description: "Unsubscribe from a notification role",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{Name: "role", Description: "Notification role name", Required: true},
	},
}

// RoleEditor assigns and removes member roles.
type RoleEditor interface {
	AddMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	RemoveMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
}

// roleChange is what a role command does to a member.
type roleChange struct {
	Add    snowflake.ID
	Remove []snowflake.ID
}

func (c roleChange) apply(ctx context.Context, editor RoleEditor, guildID, userID snowflake.ID) error {
	var errs []error
	for _, id := range c.Remove {
		if err := editor.RemoveMemberRole(guildID, userID, id, rest.WithCtx(ctx)); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Add != 0 {
		if err := editor.AddMemberRole(guildID, userID, c.Add, rest.WithCtx(ctx)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// pick is the change for choosing role from menu. Exclusive menus drop the
// member's other roles from the same menu.
func pick(menu *services.RoleMenu, held []snowflake.ID, role services.NamedRole) roleChange {
	change := roleChange{Add: role.ID}
	if menu.Exclusive() {
		change.Remove = menu.Others(held, role.ID)
	}
	return change
}

// unknownRole is the reply for a name that is not on the menu.
func unknownRole(menu *services.RoleMenu, entity, input string) string {
	msg := fmt.Sprintf("There is no %s called %q.", entity, input)
	if suggestions := menu.Suggest(input, maxSuggestions); len(suggestions) > 0 {
		msg += " Did you mean " + strings.Join(suggestions, ", ") + "?"
	}
	return msg
}

type memberContext struct {
	guildID snowflake.ID
	userID  snowflake.ID
	held    []snowflake.ID
}

func fromEvent(e *handler.CommandEvent) (memberContext, bool) {
	guildID := e.GuildID()
	member := e.Member()
	if guildID == nil || member == nil {
		return memberContext{}, false
	}
	return memberContext{guildID: *guildID, userID: e.User().ID, held: member.RoleIDs}, true
}

func ColorMeHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		mc, ok := fromEvent(e)
		if !ok {
			return utils.EH.CreateErrorEmbed(e, "This command only works in a server.")
		}
		input := e.SlashCommandInteractionData().String("color")
		role, err := b.Colors.Resolve(input)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, unknownRole(b.Colors, "colour", input))
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()
		if err := pick(b.Colors, mc.held, role).apply(ctx, b.Client.Rest(), mc.guildID, mc.userID); err != nil {
			return utils.EH.HandleError(e, err, "colour")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("You are now %s.", role.Name))
	}
}

func UncolorMeHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		mc, ok := fromEvent(e)
		if !ok {
			return utils.EH.CreateErrorEmbed(e, "This command only works in a server.")
		}
		change := roleChange{Remove: b.Colors.Others(mc.held, 0)}
		if len(change.Remove) == 0 {
			return utils.EH.CreateInfoEmbed(e, "You don't have a colour.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()
		if err := change.apply(ctx, b.Client.Rest(), mc.guildID, mc.userID); err != nil {
			return utils.EH.HandleError(e, err, "colour")
		}
		return utils.EH.CreateSuccessEmbed(e, "Removed your colour.")
	}
}

func NotifyMeHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		mc, ok := fromEvent(e)
		if !ok {
			return utils.EH.CreateErrorEmbed(e, "This command only works in a server.")
		}
		input := e.SlashCommandInteractionData().String("role")
		role, err := b.Notifys.Resolve(input)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, unknownRole(b.Notifys, "notification role", input))
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()
		if err := pick(b.Notifys, mc.held, role).apply(ctx, b.Client.Rest(), mc.guildID, mc.userID); err != nil {
			return utils.EH.HandleError(e, err, "notification role")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("You will now be notified for %s.", role.Name))
	}
}

func UnnotifyMeHandler(b *willybot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		mc, ok := fromEvent(e)
		if !ok {
			return utils.EH.CreateErrorEmbed(e, "This command only works in a server.")
		}
		input := e.SlashCommandInteractionData().String("role")
		role, err := b.Notifys.Resolve(input)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, unknownRole(b.Notifys, "notification role", input))
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()
		if err := (roleChange{Remove: []snowflake.ID{role.ID}}).apply(ctx, b.Client.Rest(), mc.guildID, mc.userID); err != nil {
			return utils.EH.HandleError(e, err, "notification role")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("You will no longer be notified for %s.", role.Name))
	}
}
