package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willyosu/willybot/willybot/database"
)

func newTestGateway(t *testing.T) *database.Gateway {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(ctx, database.DBConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "willybot.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.InitializeSchema(ctx))
	return database.NewGateway(db.BunDB())
}
