package utils

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/database"
)

// ResponseHandler provides standardized replies for command handlers
type ResponseHandler struct{}

var EH = &ResponseHandler{}

type ErrorType int

const (
	// UserError - malformed input
	UserError ErrorType = iota
	// SystemError - storage or platform failures
	SystemError
	// NotFoundError - the referenced user, badge or quest does not exist
	NotFoundError
	// PermissionError - privileged command run by a regular member
	PermissionError
	// ConflictError - duplicate names or awards
	ConflictError
	// CooldownError - command used again too soon
	CooldownError
)

func getErrorPrefix(errorType ErrorType) string {
	switch errorType {
	case UserError:
		return "⚠️"
	case SystemError:
		return "🔧"
	case NotFoundError:
		return "🔍"
	case PermissionError:
		return "🚫"
	case ConflictError:
		return "♻️"
	case CooldownError:
		return "⏰"
	default:
		return "❌"
	}
}

func getErrorColor(errorType ErrorType) int {
	switch errorType {
	case UserError, ConflictError, CooldownError:
		return config.WarningColor
	case NotFoundError:
		return config.InfoColor
	default:
		return config.ErrorColor
	}
}

// ClassifyError maps a service error onto a reply category and the text to
// show. Storage details never reach the user.
func ClassifyError(err error, subject string) (ErrorType, string) {
	var (
		nf *database.NotFoundError
		ve *database.ValidationError
	)
	switch {
	case errors.As(err, &ve):
		return UserError, capitalize(ve.Error()) + "."
	case errors.As(err, &nf):
		if nf.Key == "attribute" {
			return UserError, fmt.Sprintf("%s has no attribute %q.", capitalize(nf.Entity), fmt.Sprint(nf.ID))
		}
		return NotFoundError, fmt.Sprintf("Could not find %s.", subject)
	case database.IsConstraint(err):
		return ConflictError, fmt.Sprintf("That %s already exists.", subject)
	default:
		return SystemError, fmt.Sprintf("Something went wrong with that %s, try again later.", subject)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// HandleError replies to the command with the classified error.
func (h *ResponseHandler) HandleError(event *handler.CommandEvent, err error, subject string) error {
	errorType, message := ClassifyError(err, subject)
	return h.CreateClassifiedError(event, errorType, message)
}

func (h *ResponseHandler) CreateClassifiedError(event *handler.CommandEvent, errorType ErrorType, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: getErrorPrefix(errorType) + " " + message,
			Color:       getErrorColor(errorType),
		}},
		Flags: ephemeralFor(errorType),
	})
}

func ephemeralFor(errorType ErrorType) discord.MessageFlags {
	if errorType == CooldownError || errorType == PermissionError {
		return discord.MessageFlagEphemeral
	}
	return 0
}

func (h *ResponseHandler) CreateErrorEmbed(event *handler.CommandEvent, message string) error {
	return h.CreateClassifiedError(event, UserError, message)
}

func (h *ResponseHandler) CreatePermissionError(event *handler.CommandEvent, action string) error {
	return h.CreateClassifiedError(event, PermissionError, fmt.Sprintf("You don't have permission to %s.", action))
}

func (h *ResponseHandler) CreateSuccessEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       config.SuccessColor,
		}},
	})
}

func (h *ResponseHandler) CreateInfoEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       config.InfoColor,
		}},
	})
}
