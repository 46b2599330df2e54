package repositories

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
)

var UsersTable = database.Table{
	Name:       "users",
	Entity:     "user",
	Key:        "id",
	NameColumn: "name",
	Attributes: []string{"name", "title", "joined", "active", "xp"},
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id int64) (*models.User, error)
	Search(ctx context.Context, ident database.Identifier) (*models.User, error)
	Update(ctx context.Context, id int64, attr string, value any) error
	AddXP(ctx context.Context, id int64, amount int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	XPRank(ctx context.Context, xp int64) (int64, error)
	XPRanking(ctx context.Context, offset, size int) ([]models.RankedUser, error)
	DistinctTitles(ctx context.Context) ([]string, error)
	PurgeInactive(ctx context.Context, activeBefore int64) (int64, error)
}

type userRepository struct {
	gw *database.Gateway
}

func NewUserRepository(gw *database.Gateway) UserRepository {
	return &userRepository{gw: gw}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	attrs := []string{"id", "name", "joined", "active", "xp"}
	values := []any{user.ID, user.Name, user.Joined, user.Active, user.XP}
	if user.Title != "" {
		attrs = append(attrs, "title")
		values = append(values, user.Title)
	}
	return r.gw.Create(ctx, UsersTable, attrs, values)
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)
	if err := r.gw.Get(ctx, UsersTable, user, id, ""); err != nil {
		return nil, err
	}
	return user, nil
}

// Search only accepts exact names so a partial name can never resolve to
// somebody else.
func (r *userRepository) Search(ctx context.Context, ident database.Identifier) (*models.User, error) {
	user := new(models.User)
	if err := r.gw.Search(ctx, UsersTable, user, ident, true); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, attr string, value any) error {
	return r.gw.Update(ctx, UsersTable, attr, id, value)
}

func (r *userRepository) AddXP(ctx context.Context, id int64, amount int64) error {
	return r.gw.Increment(ctx, UsersTable, "xp", id, amount)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.gw.Delete(ctx, UsersTable, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return &database.NotFoundError{Entity: UsersTable.Entity, ID: id}
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return r.gw.Count(ctx, UsersTable, "", false)
}

// XPRank is the number of users with at least xp, so tied users share a rank.
func (r *userRepository) XPRank(ctx context.Context, xp int64) (int64, error) {
	var rank int64
	err := r.gw.Query(ctx, "xp_rank", UsersTable, &rank,
		"SELECT COUNT(id) FROM ? WHERE xp >= ?", bun.Ident(UsersTable.Name), xp)
	return rank, err
}

func (r *userRepository) XPRanking(ctx context.Context, offset, size int) ([]models.RankedUser, error) {
	var rows []models.RankedUser
	err := r.gw.Query(ctx, "xp_ranking", UsersTable, &rows,
		"SELECT id, name, xp AS value FROM ? ORDER BY xp DESC, id ASC LIMIT ? OFFSET ?",
		bun.Ident(UsersTable.Name), size, offset)
	return rows, err
}

func (r *userRepository) DistinctTitles(ctx context.Context) ([]string, error) {
	var titles []string
	err := r.gw.Query(ctx, "distinct_title_list", UsersTable, &titles,
		"SELECT DISTINCT title FROM ? WHERE title IS NOT NULL AND title <> '' ORDER BY title",
		bun.Ident(UsersTable.Name))
	return titles, err
}

// PurgeInactive removes users who never earned xp and have not been seen
// since activeBefore.
func (r *userRepository) PurgeInactive(ctx context.Context, activeBefore int64) (int64, error) {
	return r.gw.Exec(ctx, "purge_inactive", UsersTable,
		"DELETE FROM ? WHERE xp <= 0 AND active <= ?", bun.Ident(UsersTable.Name), activeBefore)
}
