package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
)

var refNow = time.Unix(1_700_000_000, 0)

func fixedClock() time.Time { return refNow }

func seedQuests(t *testing.T, repo QuestRepository, quests ...models.Quest) {
	t.Helper()
	for i := range quests {
		require.NoError(t, repo.Create(context.Background(), &quests[i]))
	}
}

func questIDs(quests []models.Quest) []int64 {
	ids := make([]int64, len(quests))
	for i, q := range quests {
		ids[i] = q.ID
	}
	return ids
}

func TestQuestRepository_GetExpiring(t *testing.T) {
	ctx := context.Background()
	repo := NewQuestRepository(newTestGateway(t), fixedClock)
	seedQuests(t, repo,
		models.Quest{ID: 10, Name: "stale", Tier: models.TierHard, Expires: refNow.Add(-25 * time.Hour).Unix()},
		models.Quest{ID: 11, Name: "recent", Tier: models.TierHard, Expires: refNow.Add(-23 * time.Hour).Unix()},
		models.Quest{ID: 12, Name: "open", Tier: models.TierHard, Expires: refNow.Add(time.Hour).Unix()},
	)

	expiring, err := repo.GetExpiring(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, questIDs(expiring))
}

// The active listing uses expires <= now. This pins the current filter so
// any change to it is deliberate.
func TestQuestRepository_GetActiveReturnsPastDeadlines(t *testing.T) {
	ctx := context.Background()
	repo := NewQuestRepository(newTestGateway(t), fixedClock)
	seedQuests(t, repo,
		models.Quest{ID: 20, Name: "later", Tier: models.TierEasy, Expires: refNow.Add(48 * time.Hour).Unix()},
		models.Quest{ID: 21, Name: "ended", Tier: models.TierEasy, Expires: refNow.Add(-2 * time.Hour).Unix()},
		models.Quest{ID: 22, Name: "now", Tier: models.TierEasy, Expires: refNow.Unix()},
		models.Quest{ID: 23, Name: "long ago", Tier: models.TierEasy, Expires: refNow.Add(-72 * time.Hour).Unix()},
	)

	active, err := repo.GetActive(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{23, 21, 22}, questIDs(active))

	n, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestQuestRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewQuestRepository(newTestGateway(t), fixedClock)
	seedQuests(t, repo,
		models.Quest{ID: 915359964158099457, Name: "Map a Marathon", Tier: models.TierInsane, Expires: 1},
		models.Quest{ID: 915359964158099458, Name: "Map a Sprint", Tier: models.TierEasy, Expires: 1},
	)

	q, err := repo.Search(ctx, database.ByName("map a"))
	require.NoError(t, err)
	assert.EqualValues(t, 915359964158099457, q.ID)
	assert.Equal(t, models.TierInsane, q.Tier)

	q, err = repo.Search(ctx, database.ByID(915359964158099458))
	require.NoError(t, err)
	assert.Equal(t, "Map a Sprint", q.Name)

	_, err = repo.Search(ctx, database.ByName("collab"))
	assert.True(t, database.IsNotFound(err))

	err = repo.Create(ctx, &models.Quest{ID: 1, Name: "Map a Sprint", Tier: models.TierEasy, Expires: 1})
	assert.True(t, database.IsConstraint(err))
}

func TestUserQuestRepository(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	seedUsers(t, NewUserRepository(gw),
		models.User{ID: 1, Name: "alpha"},
		models.User{ID: 2, Name: "bravo"},
		models.User{ID: 3, Name: "charlie"},
	)
	repo := NewUserQuestRepository(gw)
	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, repo.Create(ctx, id))
	}

	// alpha 10 qp, bravo 4+6, charlie 4
	require.NoError(t, repo.Increment(ctx, 1, models.TierExtra, 2))
	require.NoError(t, repo.Increment(ctx, 2, models.TierEasy, 4))
	require.NoError(t, repo.Increment(ctx, 2, models.TierNormal, 3))
	require.NoError(t, repo.Increment(ctx, 3, models.TierInsane, 1))

	err := repo.Increment(ctx, 1, models.TierMythic, 1)
	assert.True(t, database.IsValidation(err), "mythic has no counter, got %v", err)

	uq, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, uq.Easy)
	assert.EqualValues(t, 3, uq.Normal)

	rank, err := repo.QPRank(ctx, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rank)

	ranking, err := repo.QPRanking(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, ranking, 3)
	assert.Equal(t, []string{"alpha", "bravo", "charlie"},
		[]string{ranking[0].Name, ranking[1].Name, ranking[2].Name})
	assert.EqualValues(t, 10, ranking[0].Value)
}

// Two writers that read a counter and write back read+1 lose one of the
// updates. Increment applies both.
func TestUserQuestRepository_ReadModifyWriteLosesUpdate(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	seedUsers(t, NewUserRepository(gw), models.User{ID: 1, Name: "alpha"})
	repo := NewUserQuestRepository(gw)
	require.NoError(t, repo.Create(ctx, 1))

	first, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	second, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, repo.SetCount(ctx, 1, models.TierHard, first.Hard+1))
	require.NoError(t, repo.SetCount(ctx, 1, models.TierHard, second.Hard+1))

	uq, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, uq.Hard)

	require.NoError(t, repo.Increment(ctx, 1, models.TierHard, 1))
	require.NoError(t, repo.Increment(ctx, 1, models.TierHard, 1))
	uq, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, uq.Hard)
}
