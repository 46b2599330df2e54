package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
	"github.com/willyosu/willybot/willybot/database/repositories"
	"github.com/willyosu/willybot/willybot/leveling"
	"github.com/willyosu/willybot/willybot/utils"
)

var errNoAnnouncer = errors.New("quest announcements are not configured")

// QuestStats is a user's completion record.
type QuestStats struct {
	User     *models.User
	Counts   *models.UserQuest
	Points   int64
	Rank     int64
	Finished int64
}

type QuestService struct {
	quests     repositories.QuestRepository
	userQuests repositories.UserQuestRepository
	users      repositories.UserRepository
	announcer  Announcer
	now        func() time.Time
}

func NewQuestService(quests repositories.QuestRepository, userQuests repositories.UserQuestRepository, users repositories.UserRepository, announcer Announcer) *QuestService {
	return &QuestService{
		quests:     quests,
		userQuests: userQuests,
		users:      users,
		announcer:  announcer,
		now:        time.Now,
	}
}

// WithClock replaces the service clock. Used by tests.
func (s *QuestService) WithClock(now func() time.Time) *QuestService {
	s.now = now
	return s
}

// Create reads "NAME::TIER::DESCRIPTION::EXPIRES", posts the announcement
// and stores the quest under the announcement's id. Nothing is posted or
// stored when the arguments are invalid.
func (s *QuestService) Create(ctx context.Context, arg string) (*models.Quest, error) {
	parts, err := utils.SplitCompound(arg, 4, 4)
	if err != nil {
		return nil, err
	}
	name, description := parts[0], parts[2]
	if name == "" {
		return nil, database.NewValidationError("name", "can not be empty")
	}
	tier, err := utils.ParseTier(parts[1], models.TierMythic)
	if err != nil {
		return nil, err
	}
	expires, err := utils.ParseExpiry(parts[3], s.now())
	if err != nil {
		return nil, err
	}

	if s.announcer == nil {
		return nil, errNoAnnouncer
	}
	messageID, err := s.announcer.Post(ctx, QuestEmbed(name, description, tier, expires))
	if err != nil {
		return nil, err
	}

	quest := &models.Quest{
		ID:          int64(messageID),
		Name:        name,
		Tier:        tier,
		Description: description,
		Expires:     expires,
	}
	if err := s.quests.Create(ctx, quest); err != nil {
		if rmErr := s.announcer.Remove(ctx, messageID); rmErr != nil {
			slog.Warn("Failed to withdraw announcement",
				slog.String("type", "db"),
				slog.Int64("quest_id", quest.ID),
				slog.Any("error", rmErr))
		}
		return nil, err
	}
	return s.quests.Get(ctx, quest.ID)
}

// Update reads "QUEST::ATTRIBUTE::VALUE" and re-renders the announcement.
// A failed re-render is logged; the stored change stands.
func (s *QuestService) Update(ctx context.Context, arg string) (*models.Quest, string, error) {
	parts, err := utils.SplitCompound(arg, 3, 3)
	if err != nil {
		return nil, "", err
	}
	attr := strings.ToLower(parts[1])

	quest, err := s.quests.Search(ctx, utils.ParseIdentifier(parts[0]))
	if err != nil {
		return nil, "", err
	}

	var value any = parts[2]
	switch attr {
	case "tier":
		tier, err := utils.ParseTier(parts[2], models.TierMythic)
		if err != nil {
			return nil, "", err
		}
		value = int(tier)
	case "expires":
		expires, err := utils.ParseExpiry(parts[2], s.now())
		if err != nil {
			return nil, "", err
		}
		value = expires
	}

	if err := s.quests.Update(ctx, quest.ID, attr, value); err != nil {
		return nil, "", err
	}
	updated, err := s.quests.Get(ctx, quest.ID)
	if err != nil {
		return nil, "", err
	}

	if s.announcer == nil {
		return updated, attr, nil
	}
	embed := QuestEmbed(updated.Name, updated.Description, updated.Tier, updated.Expires)
	if err := s.announcer.Edit(ctx, snowflake.ID(updated.ID), embed); err != nil {
		slog.Warn("Failed to update announcement",
			slog.String("type", "db"),
			slog.Int64("quest_id", updated.ID),
			slog.Any("error", err))
	}
	return updated, attr, nil
}

// Delete removes the quest, then its announcement.
func (s *QuestService) Delete(ctx context.Context, ref string) (*models.Quest, error) {
	quest, err := s.quests.Search(ctx, utils.ParseIdentifier(ref))
	if err != nil {
		return nil, err
	}
	if err := s.quests.Delete(ctx, quest.ID); err != nil {
		return nil, err
	}
	if s.announcer == nil {
		return quest, nil
	}
	if err := s.announcer.Remove(ctx, snowflake.ID(quest.ID)); err != nil {
		slog.Warn("Failed to delete announcement",
			slog.String("type", "db"),
			slog.Int64("quest_id", quest.ID),
			slog.Any("error", err))
	}
	return quest, nil
}

func (s *QuestService) Show(ctx context.Context, ref string) (*models.Quest, error) {
	return s.quests.Search(ctx, utils.ParseIdentifier(ref))
}

// ListActive is one page of the quest board.
func (s *QuestService) ListActive(ctx context.Context, page int) ([]models.Quest, utils.Page, error) {
	total, err := s.quests.CountActive(ctx)
	if err != nil {
		return nil, utils.Page{}, err
	}
	p := utils.Paginate(page, config.DefaultPageSize, int(total))
	quests, err := s.quests.GetActive(ctx, p.Offset, config.DefaultPageSize)
	if err != nil {
		return nil, p, err
	}
	return quests, p, nil
}

// Stats returns a user's completions and quest-point rank. A user without a
// completion record yields a NotFoundError for the user quest entity.
func (s *QuestService) Stats(ctx context.Context, ident database.Identifier) (*QuestStats, error) {
	user, err := s.users.Search(ctx, ident)
	if err != nil {
		return nil, err
	}
	counts, err := s.userQuests.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	points := leveling.QuestPoints(counts)
	rank, err := s.userQuests.QPRank(ctx, points)
	if err != nil {
		return nil, err
	}
	return &QuestStats{
		User:     user,
		Counts:   counts,
		Points:   points,
		Rank:     rank,
		Finished: counts.Total(),
	}, nil
}

// TopQP is one page of the quest-point leaderboard.
func (s *QuestService) TopQP(ctx context.Context, page int) ([]models.RankedUser, utils.Page, error) {
	total, err := s.userQuests.Count(ctx)
	if err != nil {
		return nil, utils.Page{}, err
	}
	p := utils.Paginate(page, config.DefaultPageSize, int(total))
	rows, err := s.userQuests.QPRanking(ctx, p.Offset, config.DefaultPageSize)
	if err != nil {
		return nil, p, err
	}
	return rows, p, nil
}

// AddQuestPoints records amount completions of a tier for a user, creating
// their record on first use, and returns the quest points added. The counter
// is incremented atomically.
func (s *QuestService) AddQuestPoints(ctx context.Context, ident database.Identifier, tierArg string, amount int64) (*models.User, int64, error) {
	tier, err := utils.ParseTier(tierArg, models.TierExtra)
	if err != nil {
		return nil, 0, err
	}
	user, err := s.users.Search(ctx, ident)
	if err != nil {
		return nil, 0, err
	}

	if _, err := s.userQuests.Get(ctx, user.ID); database.IsNotFound(err) {
		if err := s.userQuests.Create(ctx, user.ID); err != nil && !database.IsConstraint(err) {
			return nil, 0, err
		}
	} else if err != nil {
		return nil, 0, err
	}

	if err := s.userQuests.Increment(ctx, user.ID, tier, amount); err != nil {
		return nil, 0, err
	}
	return user, tier.Points() * amount, nil
}

func (s *QuestService) Count(ctx context.Context) (int64, error) {
	return s.quests.Count(ctx)
}
