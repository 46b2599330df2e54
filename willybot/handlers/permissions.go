package handlers

import (
	"slices"

	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/willyosu/willybot/willybot/utils"
)

// RequireOwner only lets bot owners through.
func RequireOwner(owners []snowflake.ID, action string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !slices.Contains(owners, e.User().ID) {
			return utils.EH.CreatePermissionError(e, action)
		}
		return h(e)
	}
}

// RequireRoles lets owners and members holding any of the allowed roles
// through. Zero ids in allowed are ignored.
func RequireRoles(allowed []snowflake.ID, owners []snowflake.ID, action string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if slices.Contains(owners, e.User().ID) {
			return h(e)
		}
		var held []snowflake.ID
		if member := e.Member(); member != nil {
			held = member.RoleIDs
		}
		if !hasAnyRole(held, allowed) {
			return utils.EH.CreatePermissionError(e, action)
		}
		return h(e)
	}
}

func hasAnyRole(held, allowed []snowflake.ID) bool {
	for _, id := range allowed {
		if id != 0 && slices.Contains(held, id) {
			return true
		}
	}
	return false
}
