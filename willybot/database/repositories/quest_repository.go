package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
)

var QuestsTable = database.Table{
	Name:       "quests",
	Entity:     "quest",
	Key:        "id",
	NameColumn: "name",
	Attributes: []string{"name", "tier", "description", "expires"},
}

type QuestRepository interface {
	Create(ctx context.Context, quest *models.Quest) error
	Get(ctx context.Context, id int64) (*models.Quest, error)
	Search(ctx context.Context, ident database.Identifier) (*models.Quest, error)
	Update(ctx context.Context, id int64, attr string, value any) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	GetActive(ctx context.Context, offset, size int) ([]models.Quest, error)
	GetExpiring(ctx context.Context, grace time.Duration) ([]models.Quest, error)
}

type questRepository struct {
	gw  *database.Gateway
	now func() time.Time
}

// NewQuestRepository builds the repository. now defaults to time.Now.
func NewQuestRepository(gw *database.Gateway, now func() time.Time) QuestRepository {
	if now == nil {
		now = time.Now
	}
	return &questRepository{gw: gw, now: now}
}

func (r *questRepository) Create(ctx context.Context, quest *models.Quest) error {
	attrs := []string{"id", "name", "tier", "expires"}
	values := []any{quest.ID, quest.Name, int(quest.Tier), quest.Expires}
	if quest.Description != "" {
		attrs = append(attrs, "description")
		values = append(values, quest.Description)
	}
	return r.gw.Create(ctx, QuestsTable, attrs, values)
}

func (r *questRepository) Get(ctx context.Context, id int64) (*models.Quest, error) {
	quest := new(models.Quest)
	if err := r.gw.Get(ctx, QuestsTable, quest, id, ""); err != nil {
		return nil, err
	}
	return quest, nil
}

func (r *questRepository) Search(ctx context.Context, ident database.Identifier) (*models.Quest, error) {
	quest := new(models.Quest)
	if err := r.gw.Search(ctx, QuestsTable, quest, ident, false); err != nil {
		return nil, err
	}
	return quest, nil
}

func (r *questRepository) Update(ctx context.Context, id int64, attr string, value any) error {
	return r.gw.Update(ctx, QuestsTable, attr, id, value)
}

func (r *questRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.gw.Delete(ctx, QuestsTable, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return &database.NotFoundError{Entity: QuestsTable.Entity, ID: id}
	}
	return nil
}

func (r *questRepository) Count(ctx context.Context) (int64, error) {
	return r.gw.Count(ctx, QuestsTable, "", false)
}

// CountActive and GetActive select quests with expires <= now, which are the
// quests whose deadline has already passed.
// TODO: switch both filters to expires > now once the quest board is meant to
// show open quests only.
func (r *questRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.gw.Query(ctx, "count_active", QuestsTable, &n,
		"SELECT COUNT(id) FROM ? WHERE expires <= ?",
		bun.Ident(QuestsTable.Name), r.now().Unix())
	return n, err
}

func (r *questRepository) GetActive(ctx context.Context, offset, size int) ([]models.Quest, error) {
	var quests []models.Quest
	err := r.gw.Query(ctx, "get_active", QuestsTable, &quests,
		"SELECT id, name, tier, description, expires FROM ? WHERE expires <= ? ORDER BY expires ASC, id ASC LIMIT ? OFFSET ?",
		bun.Ident(QuestsTable.Name), r.now().Unix(), size, offset)
	return quests, err
}

// GetExpiring returns quests whose deadline passed more than grace ago.
func (r *questRepository) GetExpiring(ctx context.Context, grace time.Duration) ([]models.Quest, error) {
	var quests []models.Quest
	err := r.gw.Query(ctx, "get_expiring", QuestsTable, &quests,
		"SELECT id, name, tier, description, expires FROM ? WHERE expires <= ? ORDER BY expires ASC, id ASC",
		bun.Ident(QuestsTable.Name), r.now().Add(-grace).Unix())
	return quests, err
}
