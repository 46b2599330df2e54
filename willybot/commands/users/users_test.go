package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/willyosu/willybot/willybot/database/models"
	"github.com/willyosu/willybot/willybot/leveling"
	"github.com/willyosu/willybot/willybot/services"
)

func TestRanking(t *testing.T) {
	rows := []models.RankedUser{
		{ID: 1, Name: "Willy", Value: 900},
		{ID: 2, Name: "lucy_", Value: 450},
	}
	assert.Equal(t, "**11.** Willy  900 XP\n**12.** lucy\\_  450 XP\n", Ranking(rows, 10, "XP"))
	assert.Empty(t, Ranking(nil, 0, "QP"))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░░░", progressBar(leveling.Progress{Level: 1, XP: 50, Start: 50, Next: 200}))
	assert.Equal(t, "██████░░░░░░", progressBar(leveling.Progress{Level: 1, XP: 125, Start: 50, Next: 200}))
}

func TestProfileEmbed(t *testing.T) {
	p := &services.Profile{
		User:       &models.User{ID: 1, Name: "Willy", Title: "Beetle King", XP: 250},
		Progress:   leveling.Progress{Level: 2, XP: 250, Start: 200, Next: 450},
		Rank:       3,
		Badges:     []string{"gold.png", "silver.png"},
		Color:      0x123456,
		JoinedAgo:  "2 years ago",
		ActiveAgo:  "5 minutes ago",
		Registered: true,
	}

	embed := profileEmbed(p)
	assert.Equal(t, "Willy", embed.Title)
	assert.Equal(t, "*Beetle King*", embed.Description)
	assert.Equal(t, 0x123456, embed.Color)
	assert.Equal(t, "2", embed.Fields[4].Value)
	assert.Equal(t, "Registered just now", embed.Footer.Text)
	assert.Equal(t, "2 (250 / 450 XP)", embed.Fields[0].Value)
	assert.Equal(t, "#3", embed.Fields[1].Value)
}
