package services

import (
	"strconv"
	"time"

	"github.com/disgoorg/disgo/discord"
)

// MemberFromDiscord converts a platform user. Accounts on the new username
// system report a discriminator of "0".
func MemberFromDiscord(u discord.User, joinedAt time.Time) Member {
	discriminator, _ := strconv.Atoi(u.Discriminator)
	return Member{
		ID:            int64(u.ID),
		Username:      u.Username,
		Discriminator: discriminator,
		Bot:           u.Bot,
		JoinedAt:      joinedAt,
	}
}
