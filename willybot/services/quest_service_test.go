package services

import (
	"context"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
)

func newQuestFixture(t *testing.T) (*QuestService, *fakeAnnouncer, testRepos) {
	t.Helper()
	repos := newTestRepos(t, fixedClock(base))
	announcer := newFakeAnnouncer()
	svc := NewQuestService(repos.quests, repos.userQuests, repos.users, announcer).WithClock(fixedClock(base))
	return svc, announcer, repos
}

func TestQuestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, announcer, repos := newQuestFixture(t)

	quest, err := svc.Create(ctx, "Catch a beetle::3::Find one in the garden::2D")
	require.NoError(t, err)
	assert.Equal(t, base.Add(48*time.Hour).Unix(), quest.Expires)
	assert.Equal(t, models.TierHard, quest.Tier)

	embed, ok := announcer.posted[snowflake.ID(quest.ID)]
	require.True(t, ok, "announcement id must be the quest id")
	assert.Equal(t, "Catch a beetle", embed.Title)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "🟠 Hard (3 QP)", embed.Fields[0].Value)

	invalid := []string{
		"Too hard::7::Nope::2D",
		"Past::2::Nope::0H",
		"Garbled::2::Nope::soon",
		"Short::2::2D",
	}
	for _, arg := range invalid {
		_, err := svc.Create(ctx, arg)
		assert.True(t, database.IsValidation(err), "%q: unexpected error %v", arg, err)
	}
	assert.Len(t, announcer.posted, 1)
	count, err := repos.quests.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestQuestService_CreateWithdrawsOnConflict(t *testing.T) {
	ctx := context.Background()
	svc, announcer, _ := newQuestFixture(t)

	_, err := svc.Create(ctx, "Beetle::1::First::1W")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Beetle::2::Second::1W")
	assert.True(t, database.IsConstraint(err), "unexpected error %v", err)
	assert.Len(t, announcer.posted, 1)
	assert.Len(t, announcer.removed, 1)
}

func TestQuestService_CreateAnnouncementFailure(t *testing.T) {
	ctx := context.Background()
	svc, announcer, repos := newQuestFixture(t)
	announcer.failOn = "post"

	_, err := svc.Create(ctx, "Beetle::1::First::1W")
	require.Error(t, err)
	count, err := repos.quests.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestQuestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, announcer, _ := newQuestFixture(t)
	quest, err := svc.Create(ctx, "Beetle::1::First::1W")
	require.NoError(t, err)

	updated, attr, err := svc.Update(ctx, "beetle::TIER::5")
	require.NoError(t, err)
	assert.Equal(t, "tier", attr)
	assert.Equal(t, models.TierExtra, updated.Tier)
	assert.Equal(t, "🟣 Extra (5 QP)", announcer.posted[snowflake.ID(quest.ID)].Fields[0].Value)

	updated, _, err = svc.Update(ctx, "beetle::expires::3H")
	require.NoError(t, err)
	assert.Equal(t, base.Add(3*time.Hour).Unix(), updated.Expires)

	_, _, err = svc.Update(ctx, "beetle::tier::9")
	assert.True(t, database.IsValidation(err))
	_, _, err = svc.Update(ctx, "beetle::id::1")
	assert.True(t, database.IsNotFound(err))

	// a lost announcement does not undo the stored change
	announcer.failOn = "edit"
	updated, _, err = svc.Update(ctx, "beetle::description::Changed")
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.Description)

	announcer.failOn = "remove"
	deleted, err := svc.Delete(ctx, "beetle")
	require.NoError(t, err)
	assert.Equal(t, quest.ID, deleted.ID)
	assert.Equal(t, []snowflake.ID{snowflake.ID(quest.ID)}, announcer.removed)

	_, err = svc.Show(ctx, "beetle")
	assert.True(t, database.IsNotFound(err))
}

func TestQuestService_ListActive(t *testing.T) {
	ctx := context.Background()
	svc, _, repos := newQuestFixture(t)
	require.NoError(t, repos.quests.Create(ctx, &models.Quest{ID: 1, Name: "Expired", Tier: models.TierEasy, Expires: base.Unix() - 60}))
	require.NoError(t, repos.quests.Create(ctx, &models.Quest{ID: 2, Name: "Running", Tier: models.TierEasy, Expires: base.Unix() + 60}))

	quests, page, err := svc.ListActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, quests, 1)
	assert.Equal(t, "Expired", quests[0].Name)
}

func TestQuestService_Points(t *testing.T) {
	ctx := context.Background()
	svc, _, repos := newQuestFixture(t)
	require.NoError(t, repos.users.Create(ctx, &models.User{ID: 1, Name: "Willy"}))
	require.NoError(t, repos.users.Create(ctx, &models.User{ID: 2, Name: "Lucy"}))

	_, err := svc.Stats(ctx, database.ByName("willy"))
	assert.True(t, database.IsNotFound(err), "no record yet, got %v", err)

	user, added, err := svc.AddQuestPoints(ctx, database.ByName("willy"), "3", 2)
	require.NoError(t, err)
	assert.Equal(t, "Willy", user.Name)
	assert.Equal(t, int64(6), added)

	_, added, err = svc.AddQuestPoints(ctx, database.ByID(1), "1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), added)

	_, _, err = svc.AddQuestPoints(ctx, database.ByName("lucy"), "5", 1)
	require.NoError(t, err)

	_, _, err = svc.AddQuestPoints(ctx, database.ByName("lucy"), "6", 1)
	assert.True(t, database.IsValidation(err))

	stats, err := svc.Stats(ctx, database.ByName("willy"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.Points)
	assert.Equal(t, int64(1), stats.Rank)
	assert.Equal(t, int64(3), stats.Finished)
	assert.Equal(t, int64(2), stats.Counts.Hard)

	rows, page, err := svc.TopQP(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Willy", rows[0].Name)
	assert.Equal(t, int64(5), rows[1].Value)
}
