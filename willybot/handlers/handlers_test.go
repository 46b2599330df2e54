package handlers

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestHasAnyRole(t *testing.T) {
	tests := []struct {
		name    string
		held    []snowflake.ID
		allowed []snowflake.ID
		want    bool
	}{
		{"mod", []snowflake.ID{5, 10}, []snowflake.ID{10, 20}, true},
		{"admin", []snowflake.ID{20}, []snowflake.ID{10, 20}, true},
		{"none", []snowflake.ID{5}, []snowflake.ID{10, 20}, false},
		{"no roles", nil, []snowflake.ID{10}, false},
		{"unset role", []snowflake.ID{0}, []snowflake.ID{0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasAnyRole(tt.held, tt.allowed))
		})
	}
}

func TestTracked(t *testing.T) {
	human := discord.User{ID: 1, Username: "willy"}
	robot := discord.User{ID: 2, Username: "beep", Bot: true}

	assert.True(t, tracked(0, 99, human))
	assert.True(t, tracked(99, 99, human))
	assert.False(t, tracked(99, 100, human))
	assert.False(t, tracked(0, 99, robot))
}

func TestActivityFromMessage(t *testing.T) {
	joined := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	m := discord.Message{
		Author:      discord.User{ID: 123456789012345678, Username: "willy", Discriminator: "0042"},
		Content:     "héllo",
		Attachments: []discord.Attachment{{Filename: "cat.png"}},
	}

	a := activityFromMessage(m, joined)
	assert.Equal(t, int64(123456789012345678), a.Author.ID)
	assert.Equal(t, "willy", a.Author.Username)
	assert.Equal(t, 42, a.Author.Discriminator)
	assert.Equal(t, joined, a.Author.JoinedAt)
	assert.Equal(t, 5, a.ContentLength)
	assert.True(t, a.HasAttachments)
}

type recorder struct {
	statuses []string
}

func (r *recorder) ObserveCommand(_, status string) {
	r.statuses = append(r.statuses, status)
}

func TestCommandWrapperObserve(t *testing.T) {
	r := &recorder{}
	w := NewCommandWrapper(nil, r)
	w.observe("profile", "success")
	w.observe("profile", "cooldown")
	assert.Equal(t, []string{"success", "cooldown"}, r.statuses)

	assert.NotPanics(t, func() { NewCommandWrapper(nil, nil).observe("profile", "success") })
}
