package services

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willyosu/willybot/willybot/database/models"
)

type fixedSize int64

func (f fixedSize) Size(context.Context) (int64, error) { return int64(f), nil }

func TestStatsService_Collect(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t, nil)
	require.NoError(t, repos.users.Create(ctx, &models.User{ID: 1, Name: "Willy"}))
	require.NoError(t, repos.users.Create(ctx, &models.User{ID: 2, Name: "Lucy"}))
	_, err := repos.badges.Create(ctx, "Gold", "gold.png", "")
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "data/willybot.db", make([]byte, 4096), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "data/willybot.db-wal", make([]byte, 1024), 0o644))

	t.Run("file size", func(t *testing.T) {
		svc := NewStatsService(repos.users, repos.badges, repos.quests, fixedSize(1), fsys, "data/willybot.db")
		stats, err := svc.Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, DatabaseStats{Users: 2, Badges: 1, Quests: 0, Bytes: 5120}, *stats)
	})

	t.Run("server reported size", func(t *testing.T) {
		svc := NewStatsService(repos.users, repos.badges, repos.quests, fixedSize(8192), nil, "")
		stats, err := svc.Collect(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(8192), stats.Bytes)
	})
}
