package commands

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/stretchr/testify/assert"
)

func TestEveryCommandIsRouted(t *testing.T) {
	declared := make(map[string]bool, len(Commands))
	for _, c := range Commands {
		slash, ok := c.(discord.SlashCommandCreate)
		if assert.True(t, ok) {
			assert.False(t, declared[slash.Name], "duplicate command %s", slash.Name)
			declared[slash.Name] = true
		}
	}

	routed := make(map[string]bool, len(routes))
	for _, r := range routes {
		assert.True(t, declared[r.name], "route %s has no command", r.name)
		routed[r.name] = true
	}
	for name := range declared {
		assert.True(t, routed[name], "command %s has no route", name)
	}
}

func TestPrivilegedCommands(t *testing.T) {
	want := map[string]access{
		"addxp":          owner,
		"changename":     owner,
		"createquest":    owner,
		"addquestpoints": owner,
		"deletebadge":    owner,
		"game":           staff,
		"databasestats":  staff,
		"profile":        everyone,
		"colorme":        everyone,
	}
	for _, r := range routes {
		if expected, ok := want[r.name]; ok {
			assert.Equal(t, expected, r.access, r.name)
		}
	}
}
