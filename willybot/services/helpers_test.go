package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/require"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/repositories"
)

type testRepos struct {
	users      repositories.UserRepository
	badges     repositories.BadgeRepository
	awards     repositories.UserBadgeRepository
	quests     repositories.QuestRepository
	userQuests repositories.UserQuestRepository
}

func newTestRepos(t *testing.T, now func() time.Time) testRepos {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(ctx, database.DBConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "willybot.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.InitializeSchema(ctx))

	gw := database.NewGateway(db.BunDB())
	return testRepos{
		users:      repositories.NewUserRepository(gw),
		badges:     repositories.NewBadgeRepository(gw),
		awards:     repositories.NewUserBadgeRepository(gw),
		quests:     repositories.NewQuestRepository(gw, now),
		userQuests: repositories.NewUserQuestRepository(gw),
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// fakeAnnouncer records announcements in memory.
type fakeAnnouncer struct {
	mu      sync.Mutex
	next    snowflake.ID
	posted  map[snowflake.ID]discord.Embed
	removed []snowflake.ID
	failOn  string
}

func newFakeAnnouncer() *fakeAnnouncer {
	return &fakeAnnouncer{next: 915000000000000000, posted: map[snowflake.ID]discord.Embed{}}
}

func (f *fakeAnnouncer) Post(_ context.Context, embed discord.Embed) (snowflake.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "post" {
		return 0, errors.New("channel unavailable")
	}
	f.next++
	f.posted[f.next] = embed
	return f.next, nil
}

func (f *fakeAnnouncer) Edit(_ context.Context, id snowflake.ID, embed discord.Embed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "edit" {
		return errors.New("unknown message")
	}
	f.posted[id] = embed
	return nil
}

func (f *fakeAnnouncer) Remove(_ context.Context, id snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	if f.failOn == "remove" {
		return errors.New("unknown message")
	}
	delete(f.posted, id)
	return nil
}
