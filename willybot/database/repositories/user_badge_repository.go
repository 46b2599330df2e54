package repositories

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
)

var UserBadgesTable = database.Table{
	Name:       "user_badges",
	Entity:     "user badge",
	Key:        "user_id",
	Attributes: []string{"user_id", "badge_id"},
}

type UserBadgeRepository interface {
	Create(ctx context.Context, userID, badgeID int64) error
	Get(ctx context.Context, userID, badgeID int64) (*models.UserBadge, error)
	Delete(ctx context.Context, userID, badgeID int64) error
	DeleteBadge(ctx context.Context, badgeID int64) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountBadges(ctx context.Context) (int64, error)
	ImageList(ctx context.Context, userID int64) ([]string, error)
	UserList(ctx context.Context, badgeID int64) ([]string, error)
	BadgeCounts(ctx context.Context, offset, size int) ([]models.BadgeCount, error)
	UserCounts(ctx context.Context, offset, size int) ([]models.BadgeCount, error)
}

type userBadgeRepository struct {
	gw *database.Gateway
}

func NewUserBadgeRepository(gw *database.Gateway) UserBadgeRepository {
	return &userBadgeRepository{gw: gw}
}

// Create fails with a ConstraintError when the pair already exists.
func (r *userBadgeRepository) Create(ctx context.Context, userID, badgeID int64) error {
	return r.gw.Create(ctx, UserBadgesTable,
		[]string{"user_id", "badge_id"},
		[]any{userID, badgeID})
}

func (r *userBadgeRepository) Get(ctx context.Context, userID, badgeID int64) (*models.UserBadge, error) {
	ub := new(models.UserBadge)
	err := r.gw.GetSpecific(ctx, UserBadgesTable, ub,
		[]string{"user_id", "badge_id"},
		[]any{userID, badgeID})
	if err != nil {
		return nil, err
	}
	return ub, nil
}

func (r *userBadgeRepository) Delete(ctx context.Context, userID, badgeID int64) error {
	n, err := r.gw.DeleteSpecific(ctx, UserBadgesTable,
		[]string{"user_id", "badge_id"},
		[]any{userID, badgeID})
	if err != nil {
		return err
	}
	if n == 0 {
		return &database.NotFoundError{Entity: UserBadgesTable.Entity, Key: "pair", ID: [2]int64{userID, badgeID}}
	}
	return nil
}

// DeleteBadge drops every award of a badge.
func (r *userBadgeRepository) DeleteBadge(ctx context.Context, badgeID int64) (int64, error) {
	return r.gw.DeleteSpecific(ctx, UserBadgesTable, []string{"badge_id"}, []any{badgeID})
}

func (r *userBadgeRepository) Count(ctx context.Context) (int64, error) {
	return r.gw.Count(ctx, UserBadgesTable, "", false)
}

// CountUsers is the number of users holding at least one badge.
func (r *userBadgeRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.gw.Count(ctx, UserBadgesTable, "user_id", true)
}

// CountBadges is the number of badges awarded at least once.
func (r *userBadgeRepository) CountBadges(ctx context.Context) (int64, error) {
	return r.gw.Count(ctx, UserBadgesTable, "badge_id", true)
}

func (r *userBadgeRepository) ImageList(ctx context.Context, userID int64) ([]string, error) {
	var images []string
	err := r.gw.Query(ctx, "get_image_list", UserBadgesTable, &images,
		`SELECT b.image FROM ? AS ub
		JOIN ? AS b ON b.id = ub.badge_id
		WHERE ub.user_id = ?
		ORDER BY b.id ASC`,
		bun.Ident(UserBadgesTable.Name), bun.Ident(BadgesTable.Name), userID)
	return images, err
}

func (r *userBadgeRepository) UserList(ctx context.Context, badgeID int64) ([]string, error) {
	var names []string
	err := r.gw.Query(ctx, "user_list", UserBadgesTable, &names,
		`SELECT u.name FROM ? AS ub
		JOIN ? AS u ON u.id = ub.user_id
		WHERE ub.badge_id = ?
		ORDER BY u.name ASC`,
		bun.Ident(UserBadgesTable.Name), bun.Ident(UsersTable.Name), badgeID)
	return names, err
}

// BadgeCounts lists awarded badges by number of holders, most held first.
func (r *userBadgeRepository) BadgeCounts(ctx context.Context, offset, size int) ([]models.BadgeCount, error) {
	var rows []models.BadgeCount
	err := r.gw.Query(ctx, "badge_counts", UserBadgesTable, &rows,
		`SELECT b.id AS id, b.name AS name, COUNT(ub.user_id) AS count FROM ? AS ub
		JOIN ? AS b ON b.id = ub.badge_id
		GROUP BY b.id, b.name
		ORDER BY count DESC, b.id ASC
		LIMIT ? OFFSET ?`,
		bun.Ident(UserBadgesTable.Name), bun.Ident(BadgesTable.Name), size, offset)
	return rows, err
}

// UserCounts lists users by number of badges held, most first.
func (r *userBadgeRepository) UserCounts(ctx context.Context, offset, size int) ([]models.BadgeCount, error) {
	var rows []models.BadgeCount
	err := r.gw.Query(ctx, "user_counts", UserBadgesTable, &rows,
		`SELECT u.id AS id, u.name AS name, COUNT(ub.badge_id) AS count FROM ? AS ub
		JOIN ? AS u ON u.id = ub.user_id
		GROUP BY u.id, u.name
		ORDER BY count DESC, u.id ASC
		LIMIT ? OFFSET ?`,
		bun.Ident(UserBadgesTable.Name), bun.Ident(UsersTable.Name), size, offset)
	return rows, err
}
