package repositories

import (
	"context"
	"log/slog"

	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
)

var BadgesTable = database.Table{
	Name:       "badges",
	Entity:     "badge",
	Key:        "id",
	NameColumn: "name",
	Attributes: []string{"name", "image", "description"},
}

type BadgeRepository interface {
	Create(ctx context.Context, name, image, description string) (*models.Badge, error)
	Get(ctx context.Context, id int64) (*models.Badge, error)
	Search(ctx context.Context, ident database.Identifier) (*models.Badge, error)
	Update(ctx context.Context, id int64, attr string, value any) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type badgeRepository struct {
	gw *database.Gateway
}

func NewBadgeRepository(gw *database.Gateway) BadgeRepository {
	return &badgeRepository{gw: gw}
}

// Create inserts the badge and reads it back by name to learn its id.
func (r *badgeRepository) Create(ctx context.Context, name, image, description string) (*models.Badge, error) {
	attrs := []string{"name", "image"}
	values := []any{name, image}
	if description != "" {
		attrs = append(attrs, "description")
		values = append(values, description)
	}
	if err := r.gw.Create(ctx, BadgesTable, attrs, values); err != nil {
		return nil, err
	}

	badge := new(models.Badge)
	if err := r.gw.GetSpecific(ctx, BadgesTable, badge, []string{"name"}, []any{name}); err != nil {
		return nil, err
	}
	slog.Debug("Badge created",
		slog.String("type", "db"),
		slog.Int64("badge_id", badge.ID),
		slog.String("name", badge.Name))
	return badge, nil
}

func (r *badgeRepository) Get(ctx context.Context, id int64) (*models.Badge, error) {
	badge := new(models.Badge)
	if err := r.gw.Get(ctx, BadgesTable, badge, id, ""); err != nil {
		return nil, err
	}
	return badge, nil
}

// Search matches any badge whose name contains the token.
func (r *badgeRepository) Search(ctx context.Context, ident database.Identifier) (*models.Badge, error) {
	badge := new(models.Badge)
	if err := r.gw.Search(ctx, BadgesTable, badge, ident, false); err != nil {
		return nil, err
	}
	return badge, nil
}

func (r *badgeRepository) Update(ctx context.Context, id int64, attr string, value any) error {
	return r.gw.Update(ctx, BadgesTable, attr, id, value)
}

func (r *badgeRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.gw.Delete(ctx, BadgesTable, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return &database.NotFoundError{Entity: BadgesTable.Entity, ID: id}
	}
	return nil
}

func (r *badgeRepository) Count(ctx context.Context) (int64, error) {
	return r.gw.Count(ctx, BadgesTable, "", false)
}
