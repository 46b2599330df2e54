package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
)

func seedUsers(t *testing.T, repo UserRepository, users ...models.User) {
	t.Helper()
	for i := range users {
		require.NoError(t, repo.Create(context.Background(), &users[i]))
	}
}

func TestUserRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestGateway(t))
	seedUsers(t, repo,
		models.User{ID: 105047038915256320, Name: "Willy", Joined: 1, Active: 1},
		models.User{ID: 200000000000000001, Name: "Willow", Joined: 1, Active: 1},
	)

	tests := []struct {
		name    string
		ident   database.Identifier
		wantID  int64
		wantErr bool
	}{
		{name: "exact name any case", ident: database.ByName("wILLy"), wantID: 105047038915256320},
		{name: "numeric id", ident: database.ByID(200000000000000001), wantID: 200000000000000001},
		{name: "partial name rejected", ident: database.ByName("Wil"), wantErr: true},
		{name: "unknown id", ident: database.ByID(1), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := repo.Search(ctx, tt.ident)
			if tt.wantErr {
				assert.True(t, database.IsNotFound(err), "want NotFound, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, user.ID)
		})
	}
}

func TestUserRepository_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestGateway(t))
	seedUsers(t, repo, models.User{ID: 1, Name: "Willy"})

	err := repo.Create(ctx, &models.User{ID: 2, Name: "Willy"})
	assert.True(t, database.IsConstraint(err), "want ConstraintError, got %v", err)
}

func TestUserRepository_UpdateWhitelist(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestGateway(t))
	seedUsers(t, repo, models.User{ID: 1, Name: "Willy"})

	require.NoError(t, repo.Update(ctx, 1, "title", "Mapper"))
	user, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Mapper", user.Title)

	err = repo.Update(ctx, 1, "xp; DROP TABLE users", 5)
	assert.True(t, database.IsNotFound(err))

	err = repo.Update(ctx, 99, "title", "Ghost")
	assert.True(t, database.IsNotFound(err))
}

func TestUserRepository_XPRank(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestGateway(t))
	seedUsers(t, repo,
		models.User{ID: 1, Name: "alpha", XP: 900},
		models.User{ID: 2, Name: "bravo", XP: 900},
		models.User{ID: 3, Name: "charlie", XP: 500},
		models.User{ID: 4, Name: "delta", XP: 10},
	)

	rank, err := repo.XPRank(ctx, 900)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rank)

	rank, err = repo.XPRank(ctx, 500)
	require.NoError(t, err)
	assert.EqualValues(t, 3, rank)

	rows, err := repo.XPRanking(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "bravo", rows[0].Name)
	assert.Equal(t, "charlie", rows[1].Name)
	assert.EqualValues(t, 500, rows[1].Value)
}

func TestUserRepository_SingleLeaderRanksFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestGateway(t))
	seedUsers(t, repo,
		models.User{ID: 1, Name: "alpha", XP: 1000},
		models.User{ID: 2, Name: "bravo", XP: 10},
	)

	rank, err := repo.XPRank(ctx, 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rank)
}

func TestUserRepository_AddXP(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestGateway(t))
	seedUsers(t, repo, models.User{ID: 1, Name: "Willy", XP: 10})

	require.NoError(t, repo.AddXP(ctx, 1, 5))
	require.NoError(t, repo.AddXP(ctx, 1, 7))
	user, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 22, user.XP)

	assert.True(t, database.IsNotFound(repo.AddXP(ctx, 42, 1)))
}

func TestUserRepository_DistinctTitles(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestGateway(t))
	seedUsers(t, repo,
		models.User{ID: 1, Name: "alpha", Title: "Mapper"},
		models.User{ID: 2, Name: "bravo", Title: "Mapper"},
		models.User{ID: 3, Name: "charlie", Title: "Artist"},
		models.User{ID: 4, Name: "delta"},
	)

	titles, err := repo.DistinctTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Artist", "Mapper"}, titles)
}

func TestUserRepository_PurgeInactive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestGateway(t))
	seedUsers(t, repo,
		models.User{ID: 1, Name: "lurker", Active: 100, XP: 0},
		models.User{ID: 2, Name: "veteran", Active: 100, XP: 50},
		models.User{ID: 3, Name: "newcomer", Active: 5000, XP: 0},
	)

	n, err := repo.PurgeInactive(ctx, 1000)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	_, err = repo.Get(ctx, 1)
	assert.True(t, database.IsNotFound(err))
}
