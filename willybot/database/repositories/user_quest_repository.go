package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
)

var UserQuestsTable = database.Table{
	Name:       "user_quests",
	Entity:     "user quests",
	Key:        "user_id",
	Attributes: []string{"easy", "normal", "hard", "insane", "extra"},
}

// qpExpr is the weighted quest-point sum, built from the fixed tier columns.
var qpExpr = func() string {
	parts := make([]string, 0, len(models.CountedTiers()))
	for _, t := range models.CountedTiers() {
		col, _ := t.Column()
		parts = append(parts, fmt.Sprintf("%s * %d", col, t.Points()))
	}
	return "(" + strings.Join(parts, " + ") + ")"
}()

type UserQuestRepository interface {
	Create(ctx context.Context, userID int64) error
	Get(ctx context.Context, userID int64) (*models.UserQuest, error)
	Increment(ctx context.Context, userID int64, tier models.Tier, amount int64) error
	SetCount(ctx context.Context, userID int64, tier models.Tier, value int64) error
	Count(ctx context.Context) (int64, error)
	QPRank(ctx context.Context, qp int64) (int64, error)
	QPRanking(ctx context.Context, offset, size int) ([]models.RankedUser, error)
}

type userQuestRepository struct {
	gw *database.Gateway
}

func NewUserQuestRepository(gw *database.Gateway) UserQuestRepository {
	return &userQuestRepository{gw: gw}
}

// Create adds an all-zero counter row for the user.
func (r *userQuestRepository) Create(ctx context.Context, userID int64) error {
	attrs := []string{"user_id"}
	values := []any{userID}
	for _, col := range UserQuestsTable.Attributes {
		attrs = append(attrs, col)
		values = append(values, 0)
	}
	return r.gw.Create(ctx, UserQuestsTable, attrs, values)
}

func (r *userQuestRepository) Get(ctx context.Context, userID int64) (*models.UserQuest, error) {
	uq := new(models.UserQuest)
	if err := r.gw.Get(ctx, UserQuestsTable, uq, userID, ""); err != nil {
		return nil, err
	}
	return uq, nil
}

func tierColumn(tier models.Tier) (string, error) {
	col, ok := tier.Column()
	if !ok {
		return "", database.NewValidationError("tier", "%s quests have no completion counter", tier.Name())
	}
	return col, nil
}

// Increment adds amount to the tier counter in one statement.
func (r *userQuestRepository) Increment(ctx context.Context, userID int64, tier models.Tier, amount int64) error {
	col, err := tierColumn(tier)
	if err != nil {
		return err
	}
	return r.gw.Increment(ctx, UserQuestsTable, col, userID, amount)
}

// SetCount overwrites a tier counter. Callers that read, add and then call
// SetCount race with each other; Increment does not.
func (r *userQuestRepository) SetCount(ctx context.Context, userID int64, tier models.Tier, value int64) error {
	col, err := tierColumn(tier)
	if err != nil {
		return err
	}
	return r.gw.Update(ctx, UserQuestsTable, col, userID, value)
}

func (r *userQuestRepository) Count(ctx context.Context) (int64, error) {
	return r.gw.Count(ctx, UserQuestsTable, "", false)
}

// QPRank is the number of users with at least qp quest points.
func (r *userQuestRepository) QPRank(ctx context.Context, qp int64) (int64, error) {
	var rank int64
	err := r.gw.Query(ctx, "qp_rank", UserQuestsTable, &rank,
		"SELECT COUNT(user_id) FROM ? WHERE "+qpExpr+" >= ?",
		bun.Ident(UserQuestsTable.Name), qp)
	return rank, err
}

func (r *userQuestRepository) QPRanking(ctx context.Context, offset, size int) ([]models.RankedUser, error) {
	var rows []models.RankedUser
	err := r.gw.Query(ctx, "qp_ranking", UserQuestsTable, &rows,
		`SELECT uq.user_id AS id, COALESCE(u.name, '') AS name, `+qpExpr+` AS value FROM ? AS uq
		LEFT JOIN ? AS u ON u.id = uq.user_id
		ORDER BY value DESC, uq.user_id ASC
		LIMIT ? OFFSET ?`,
		bun.Ident(UserQuestsTable.Name), bun.Ident(UsersTable.Name), size, offset)
	return rows, err
}
