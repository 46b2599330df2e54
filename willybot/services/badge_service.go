package services

import (
	"context"
	"strings"

	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
	"github.com/willyosu/willybot/willybot/database/repositories"
	"github.com/willyosu/willybot/willybot/utils"
)

// BadgeDetails is a badge with the names of everyone who owns it.
type BadgeDetails struct {
	Badge  *models.Badge
	Owners []string
}

// BadgeListing is one row of the badge catalogue.
type BadgeListing struct {
	Badge  *models.Badge
	Owners int64
}

type BadgeService struct {
	badges repositories.BadgeRepository
	awards repositories.UserBadgeRepository
	users  repositories.UserRepository
}

func NewBadgeService(badges repositories.BadgeRepository, awards repositories.UserBadgeRepository, users repositories.UserRepository) *BadgeService {
	return &BadgeService{badges: badges, awards: awards, users: users}
}

// Show resolves a badge loosely and lists its owners by name.
func (s *BadgeService) Show(ctx context.Context, ref string) (*BadgeDetails, error) {
	badge, err := s.badges.Search(ctx, utils.ParseIdentifier(ref))
	if err != nil {
		return nil, err
	}
	owners, err := s.awards.UserList(ctx, badge.ID)
	if err != nil {
		return nil, err
	}
	return &BadgeDetails{Badge: badge, Owners: owners}, nil
}

// Award gives a badge to a user. The user is resolved strictly, the badge
// loosely. Awarding a badge twice is a ConstraintError.
func (s *BadgeService) Award(ctx context.Context, userRef, badgeRef string) (*models.User, *models.Badge, error) {
	user, badge, err := s.resolvePair(ctx, userRef, badgeRef)
	if err != nil {
		return nil, nil, err
	}
	if err := s.awards.Create(ctx, user.ID, badge.ID); err != nil {
		return nil, nil, err
	}
	return user, badge, nil
}

// Revoke takes a badge away. Revoking a badge the user never had is a
// NotFoundError.
func (s *BadgeService) Revoke(ctx context.Context, userRef, badgeRef string) (*models.User, *models.Badge, error) {
	user, badge, err := s.resolvePair(ctx, userRef, badgeRef)
	if err != nil {
		return nil, nil, err
	}
	if err := s.awards.Delete(ctx, user.ID, badge.ID); err != nil {
		return nil, nil, err
	}
	return user, badge, nil
}

func (s *BadgeService) resolvePair(ctx context.Context, userRef, badgeRef string) (*models.User, *models.Badge, error) {
	user, err := s.users.Search(ctx, utils.ConvertMention(userRef))
	if err != nil {
		return nil, nil, err
	}
	badge, err := s.badges.Search(ctx, utils.ParseIdentifier(badgeRef))
	if err != nil {
		return nil, nil, err
	}
	return user, badge, nil
}

// Create reads "NAME::IMAGE[::DESCRIPTION]".
func (s *BadgeService) Create(ctx context.Context, arg string) (*models.Badge, error) {
	parts, err := utils.SplitCompound(arg, 2, 3)
	if err != nil {
		return nil, err
	}
	if parts[0] == "" {
		return nil, database.NewValidationError("name", "can not be empty")
	}
	description := ""
	if len(parts) == 3 {
		description = parts[2]
	}
	return s.badges.Create(ctx, parts[0], parts[1], description)
}

// Delete removes a badge and every award of it.
func (s *BadgeService) Delete(ctx context.Context, ref string) (*models.Badge, error) {
	badge, err := s.badges.Search(ctx, utils.ParseIdentifier(ref))
	if err != nil {
		return nil, err
	}
	if _, err := s.awards.DeleteBadge(ctx, badge.ID); err != nil {
		return nil, err
	}
	if err := s.badges.Delete(ctx, badge.ID); err != nil {
		return nil, err
	}
	return badge, nil
}

// Update reads "NAME::ATTRIBUTE::VALUE". The attribute is case-insensitive
// and must be one of the badge's mutable attributes.
func (s *BadgeService) Update(ctx context.Context, arg string) (*models.Badge, string, error) {
	parts, err := utils.SplitCompound(arg, 3, 3)
	if err != nil {
		return nil, "", err
	}
	attr := strings.ToLower(parts[1])

	badge, err := s.badges.Search(ctx, utils.ParseIdentifier(parts[0]))
	if err != nil {
		return nil, "", err
	}
	if err := s.badges.Update(ctx, badge.ID, attr, parts[2]); err != nil {
		return nil, "", err
	}
	updated, err := s.badges.Get(ctx, badge.ID)
	if err != nil {
		return nil, "", err
	}
	return updated, attr, nil
}

// List is one page of badges that have been awarded at least once, most
// owned first.
func (s *BadgeService) List(ctx context.Context, page int) ([]BadgeListing, utils.Page, error) {
	total, err := s.awards.CountBadges(ctx)
	if err != nil {
		return nil, utils.Page{}, err
	}
	p := utils.Paginate(page, config.DefaultPageSize, int(total))
	counts, err := s.awards.BadgeCounts(ctx, p.Offset, config.DefaultPageSize)
	if err != nil {
		return nil, p, err
	}

	listings := make([]BadgeListing, 0, len(counts))
	for _, c := range counts {
		badge, err := s.badges.Get(ctx, c.ID)
		if err != nil {
			return nil, p, err
		}
		listings = append(listings, BadgeListing{Badge: badge, Owners: c.Count})
	}
	return listings, p, nil
}

// Top is one page of users ordered by how many badges they own.
func (s *BadgeService) Top(ctx context.Context, page int) ([]models.BadgeCount, utils.Page, error) {
	total, err := s.awards.CountUsers(ctx)
	if err != nil {
		return nil, utils.Page{}, err
	}
	p := utils.Paginate(page, config.DefaultPageSize, int(total))
	counts, err := s.awards.UserCounts(ctx, p.Offset, config.DefaultPageSize)
	if err != nil {
		return nil, p, err
	}
	return counts, p, nil
}

func (s *BadgeService) Count(ctx context.Context) (int64, error) {
	return s.badges.Count(ctx)
}
