package server

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willyosu/willybot/willybot/services"
)

type fakeEditor struct {
	added   []snowflake.ID
	removed []snowflake.ID
	fail    snowflake.ID
}

func (f *fakeEditor) AddMemberRole(_, _, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	if roleID == f.fail {
		return errors.New("missing permissions")
	}
	f.added = append(f.added, roleID)
	return nil
}

func (f *fakeEditor) RemoveMemberRole(_, _, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	if roleID == f.fail {
		return errors.New("missing permissions")
	}
	f.removed = append(f.removed, roleID)
	return nil
}

func TestPick(t *testing.T) {
	colors := services.NewRoleMenu("color", map[string]snowflake.ID{"Red": 1, "Blue": 2, "Green": 3}, true)
	notifys := services.NewRoleMenu("notify role", map[string]snowflake.ID{"events": 10, "quests": 11}, false)
	held := []snowflake.ID{1, 3, 10, 99}

	blue, err := colors.Resolve("BLUE")
	require.NoError(t, err)
	assert.Equal(t, roleChange{Add: 2, Remove: []snowflake.ID{1, 3}}, pick(colors, held, blue))

	quests, err := notifys.Resolve("quests")
	require.NoError(t, err)
	assert.Equal(t, roleChange{Add: 11}, pick(notifys, held, quests))
}

func TestRoleChangeApply(t *testing.T) {
	ctx := context.Background()

	editor := &fakeEditor{}
	require.NoError(t, roleChange{Add: 2, Remove: []snowflake.ID{1, 3}}.apply(ctx, editor, 100, 200))
	assert.Equal(t, []snowflake.ID{2}, editor.added)
	assert.Equal(t, []snowflake.ID{1, 3}, editor.removed)

	editor = &fakeEditor{fail: 1}
	err := roleChange{Add: 2, Remove: []snowflake.ID{1, 3}}.apply(ctx, editor, 100, 200)
	assert.Error(t, err)
	assert.Equal(t, []snowflake.ID{2}, editor.added)
	assert.Equal(t, []snowflake.ID{3}, editor.removed)
}

func TestUnknownRole(t *testing.T) {
	colors := services.NewRoleMenu("color", map[string]snowflake.ID{"purple": 1, "pink": 2, "teal": 3}, true)
	assert.Equal(t, `There is no colour called "prple". Did you mean purple?`, unknownRole(colors, "colour", "prple"))
	assert.Equal(t, `There is no colour called "zzz".`, unknownRole(colors, "colour", "zzz"))
}

func TestFormatStats(t *testing.T) {
	got := FormatStats(&services.DatabaseStats{Users: 12, Badges: 3, Quests: 4, Bytes: 5120})
	assert.Equal(t, "Users: 12  Badges: 3   Quests: 4\nSize: 5.0 kB", got)
}
