package utils

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/willyosu/willybot/willybot/database"
)

// UserArg reads a user reference option. Without one the caller is meant.
func UserArg(e *handler.CommandEvent, option string) database.Identifier {
	if raw, ok := e.SlashCommandInteractionData().OptString(option); ok && raw != "" {
		return ConvertMention(raw)
	}
	return database.ByID(int64(e.User().ID))
}

// PageArg reads the optional "page" option, defaulting to the first page.
func PageArg(e *handler.CommandEvent) int {
	if page, ok := e.SlashCommandInteractionData().OptInt("page"); ok {
		return page
	}
	return 1
}

// PageOption is the shared "page" option of listing commands.
var PageOption = discord.ApplicationCommandOptionInt{
	Name:        "page",
	Description: "Page to show",
	Required:    false,
}

// UserOption is an optional user reference: a mention, an id or a name.
func UserOption(description string, required bool) discord.ApplicationCommandOptionString {
	return discord.ApplicationCommandOptionString{
		Name:        "user",
		Description: description,
		Required:    required,
	}
}

// PagedEmbed renders one page of a listing with the page footer.
func PagedEmbed(title, body string, p Page, color int) discord.Embed {
	if body == "" {
		body = "Nothing to show."
	}
	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(body).
		SetColor(color).
		SetFooter(p.String(), "").
		Build()
}
