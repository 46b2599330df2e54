package services

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/database/models"
)

// Announcer publishes quest announcements. The id of the posted message
// becomes the quest id.
type Announcer interface {
	Post(ctx context.Context, embed discord.Embed) (snowflake.ID, error)
	Edit(ctx context.Context, messageID snowflake.ID, embed discord.Embed) error
	Remove(ctx context.Context, messageID snowflake.ID) error
}

// ChannelAnnouncer posts announcements into a single channel.
type ChannelAnnouncer struct {
	rest      rest.Channels
	channelID snowflake.ID
}

func NewChannelAnnouncer(channels rest.Channels, channelID snowflake.ID) *ChannelAnnouncer {
	return &ChannelAnnouncer{rest: channels, channelID: channelID}
}

func (a *ChannelAnnouncer) Post(ctx context.Context, embed discord.Embed) (snowflake.ID, error) {
	msg, err := a.rest.CreateMessage(a.channelID, discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		Build(), rest.WithCtx(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to post announcement: %w", err)
	}
	return msg.ID, nil
}

func (a *ChannelAnnouncer) Edit(ctx context.Context, messageID snowflake.ID, embed discord.Embed) error {
	_, err := a.rest.UpdateMessage(a.channelID, messageID, discord.NewMessageUpdateBuilder().
		SetEmbeds(embed).
		Build(), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit announcement %s: %w", messageID, err)
	}
	return nil
}

func (a *ChannelAnnouncer) Remove(ctx context.Context, messageID snowflake.ID) error {
	if err := a.rest.DeleteMessage(a.channelID, messageID, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to delete announcement %s: %w", messageID, err)
	}
	return nil
}

// QuestEmbed renders a quest the way it is announced and shown.
func QuestEmbed(name, description string, tier models.Tier, expires int64) discord.Embed {
	embed := discord.NewEmbedBuilder().
		SetTitle(name).
		SetColor(config.DefaultLevelColor).
		AddField("Difficulty", fmt.Sprintf("%s (%d QP)", tier, tier.Points()), true).
		AddField("Expires", fmt.Sprintf("<t:%d:R>", expires), true)
	if description != "" {
		embed.SetDescription(description)
	}
	return embed.Build()
}
