package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willyosu/willybot/willybot/database/models"
)

var testBadges = Table{
	Name:       "badges",
	Entity:     "badge",
	NameColumn: "name",
	Attributes: []string{"name", "image", "description"},
}

var testAwards = Table{
	Name:       "user_badges",
	Entity:     "user badge",
	Key:        "user_id",
	Attributes: []string{"user_id", "badge_id"},
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := New(ctx, DBConfig{Path: filepath.Join(t.TempDir(), "gateway.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.InitializeSchema(ctx))
	return db
}

func TestGateway_CreateGetSearch(t *testing.T) {
	ctx := context.Background()
	gw := NewGateway(openTestDB(t).BunDB())

	require.NoError(t, gw.Create(ctx, testBadges, []string{"name", "image"}, []any{"Early Bird", "bird.png"}))
	err := gw.Create(ctx, testBadges, []string{"name", "image"}, []any{"Early Bird", "other.png"})
	assert.True(t, IsConstraint(err), "got %v", err)

	var byName models.Badge
	require.NoError(t, gw.GetSpecific(ctx, testBadges, &byName, []string{"name"}, []any{"Early Bird"}))

	var byID models.Badge
	require.NoError(t, gw.Get(ctx, testBadges, &byID, byName.ID, ""))
	assert.Equal(t, "bird.png", byID.Image)

	var strict models.Badge
	require.NoError(t, gw.Search(ctx, testBadges, &strict, ByName("early BIRD"), true))
	assert.Equal(t, byName.ID, strict.ID)

	var miss models.Badge
	err = gw.Search(ctx, testBadges, &miss, ByName("early"), true)
	assert.True(t, IsNotFound(err))
	require.NoError(t, gw.Search(ctx, testBadges, &miss, ByName("early"), false))

	err = gw.Get(ctx, testBadges, &miss, int64(999), "")
	assert.True(t, IsNotFound(err))
}

func TestGateway_ValidatesBeforeStorage(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	gw := NewGateway(db.BunDB())
	// Any statement would fail on a closed database, so a NotFound result
	// shows the attribute was rejected first.
	require.NoError(t, db.Close())

	tests := []struct {
		name string
		call func() error
	}{
		{name: "update unknown column", call: func() error {
			return gw.Update(ctx, testBadges, "name = 'x' --", int64(1), "v")
		}},
		{name: "increment unknown column", call: func() error {
			return gw.Increment(ctx, testBadges, "owner", int64(1), 1)
		}},
		{name: "create unknown column", call: func() error {
			return gw.Create(ctx, testBadges, []string{"name", "secret"}, []any{"a", "b"})
		}},
		{name: "get by unknown key", call: func() error {
			var b models.Badge
			return gw.Get(ctx, testBadges, &b, "x", "password")
		}},
		{name: "count unknown key", call: func() error {
			_, err := gw.Count(ctx, testBadges, "owner", true)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.True(t, IsNotFound(err), "want NotFound, got %v", err)
		})
	}

	err := gw.Create(ctx, testBadges, []string{"name"}, []any{"a", "b"})
	assert.True(t, IsValidation(err))
}

func TestGateway_UpdateIncrementDeleteCount(t *testing.T) {
	ctx := context.Background()
	gw := NewGateway(openTestDB(t).BunDB())

	for _, name := range []string{"one", "two", "three"} {
		require.NoError(t, gw.Create(ctx, testBadges, []string{"name", "image"}, []any{name, name + ".png"}))
	}
	for _, pair := range [][2]int64{{1, 1}, {1, 2}, {2, 1}} {
		require.NoError(t, gw.Create(ctx, testAwards, []string{"user_id", "badge_id"}, []any{pair[0], pair[1]}))
	}

	require.NoError(t, gw.Update(ctx, testBadges, "image", int64(2), "new.png"))
	assert.True(t, IsNotFound(gw.Update(ctx, testBadges, "image", int64(77), "new.png")))

	total, err := gw.Count(ctx, testAwards, "", false)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	users, err := gw.Count(ctx, testAwards, "user_id", true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, users)

	n, err := gw.DeleteSpecific(ctx, testAwards, []string{"user_id", "badge_id"}, []any{int64(1), int64(2)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = gw.Delete(ctx, testBadges, int64(404))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDB_JournalMode(t *testing.T) {
	db := openTestDB(t)
	var mode string
	require.NoError(t, db.BunDB().NewRaw("PRAGMA journal_mode").Scan(context.Background(), &mode))
	assert.Equal(t, "wal", mode)

	_, err := os.Stat(db.Path() + "-wal")
	assert.NoError(t, err)
}

func TestDB_Size(t *testing.T) {
	db := openTestDB(t)
	size, err := db.Size(context.Background())
	require.NoError(t, err)
	assert.Positive(t, size)
}

func TestInitializeSchema_LinksAreNotEnforced(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	// Enforce any declared foreign keys, the way postgres always does.
	_, err := db.BunDB().ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	gw := NewGateway(db.BunDB())

	for _, table := range []string{"user_badges", "user_quests"} {
		var fks int
		require.NoError(t, db.BunDB().NewRaw("SELECT COUNT(*) FROM pragma_foreign_key_list(?)", table).Scan(ctx, &fks))
		assert.Zero(t, fks, table)
	}

	_, err = db.BunDB().NewInsert().Model(&models.User{ID: 7, Name: "willy"}).Exec(ctx)
	require.NoError(t, err)
	require.NoError(t, gw.Create(ctx, testBadges, []string{"name", "image"}, []any{"gold", "gold.png"}))
	require.NoError(t, gw.Create(ctx, testAwards, []string{"user_id", "badge_id"}, []any{int64(7), int64(1)}))
	_, err = db.BunDB().NewInsert().Model(&models.UserQuest{UserID: 7, Easy: 1}).Exec(ctx)
	require.NoError(t, err)

	n, err := gw.Delete(ctx, testBadges, int64(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	res, err := db.BunDB().ExecContext(ctx, "DELETE FROM users WHERE xp <= 0")
	require.NoError(t, err)
	deleted, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}

func TestGateway_RunsUnderCallerContext(t *testing.T) {
	gw := NewGateway(openTestDB(t).BunDB())

	var hasDeadline bool
	err := gw.run(context.Background(), "count", testBadges, nil, func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})
	require.NoError(t, err)
	assert.False(t, hasDeadline)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gw.Count(ctx, testBadges, "", false)
	assert.ErrorIs(t, err, context.Canceled)
}
