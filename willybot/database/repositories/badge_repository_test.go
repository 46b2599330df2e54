package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
)

func TestBadgeRepository_CreateAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgeRepository(newTestGateway(t))

	badge, err := repo.Create(ctx, "Contest Winner", "contest.png", "Won a mapping contest")
	require.NoError(t, err)
	assert.NotZero(t, badge.ID)

	_, err = repo.Create(ctx, "Contest Winner", "other.png", "")
	assert.True(t, database.IsConstraint(err), "want ConstraintError, got %v", err)

	found, err := repo.Search(ctx, database.ByName("TEST win"))
	require.NoError(t, err)
	assert.Equal(t, badge.ID, found.ID)

	_, err = repo.Search(ctx, database.ByName("nothing like it"))
	assert.True(t, database.IsNotFound(err))
}

func TestBadgeRepository_AmbiguousSearchPicksLowestID(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgeRepository(newTestGateway(t))

	first, err := repo.Create(ctx, "Mapper I", "m1.png", "")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Mapper II", "m2.png", "")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		found, err := repo.Search(ctx, database.ByName("mapper"))
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
	}
}

func TestBadgeRepository_SearchEscapesWildcards(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgeRepository(newTestGateway(t))
	_, err := repo.Create(ctx, "Top 10", "top.png", "")
	require.NoError(t, err)

	_, err = repo.Search(ctx, database.ByName("%"))
	assert.True(t, database.IsNotFound(err))
}

func TestBadgeRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgeRepository(newTestGateway(t))
	badge, err := repo.Create(ctx, "Helper", "helper.png", "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		attr    string
		check   func(error) bool
		wantErr bool
	}{
		{name: "image", attr: "image"},
		{name: "description", attr: "description"},
		{name: "id is not writable", attr: "id", check: database.IsNotFound, wantErr: true},
		{name: "unknown column", attr: "owner", check: database.IsNotFound, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Update(ctx, badge.ID, tt.attr, "new value")
			if tt.wantErr {
				assert.True(t, tt.check(err), "unexpected error %v", err)
				return
			}
			require.NoError(t, err)
		})
	}

	got, err := repo.Get(ctx, badge.ID)
	require.NoError(t, err)
	assert.Equal(t, "Helper", got.Name)
	assert.Equal(t, "new value", got.Image)
	assert.Equal(t, "new value", got.Description)
}

func TestUserBadgeRepository(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	users := NewUserRepository(gw)
	badges := NewBadgeRepository(gw)
	awards := NewUserBadgeRepository(gw)

	seedUsers(t, users,
		models.User{ID: 1, Name: "alpha"},
		models.User{ID: 2, Name: "bravo"},
	)
	gold, err := badges.Create(ctx, "Gold", "gold.png", "")
	require.NoError(t, err)
	silver, err := badges.Create(ctx, "Silver", "silver.png", "")
	require.NoError(t, err)

	require.NoError(t, awards.Create(ctx, 1, gold.ID))
	require.NoError(t, awards.Create(ctx, 1, silver.ID))
	require.NoError(t, awards.Create(ctx, 2, gold.ID))

	err = awards.Create(ctx, 1, gold.ID)
	assert.True(t, database.IsConstraint(err), "second award must fail, got %v", err)

	_, err = awards.Get(ctx, 2, gold.ID)
	require.NoError(t, err)
	_, err = awards.Get(ctx, 2, silver.ID)
	assert.True(t, database.IsNotFound(err))

	images, err := awards.ImageList(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"gold.png", "silver.png"}, images)

	names, err := awards.UserList(ctx, gold.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "bravo"}, names)

	nUsers, err := awards.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, nUsers)
	nBadges, err := awards.CountBadges(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, nBadges)

	byBadge, err := awards.BadgeCounts(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, byBadge, 2)
	assert.Equal(t, "Gold", byBadge[0].Name)
	assert.EqualValues(t, 2, byBadge[0].Count)

	byUser, err := awards.UserCounts(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, "alpha", byUser[0].Name)
	assert.EqualValues(t, 2, byUser[0].Count)

	require.NoError(t, awards.Delete(ctx, 1, silver.ID))
	assert.True(t, database.IsNotFound(awards.Delete(ctx, 1, silver.ID)))

	n, err := awards.DeleteBadge(ctx, gold.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
