package moderator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistLifecycle(t *testing.T) {
	f := newFixture(t)

	rec, err := f.mod.Blacklist.Add(f.ctx, testGuild, "20", "raid", testMod)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.BlockNumber)

	_, err = f.mod.Blacklist.Add(f.ctx, testGuild, "20", "again", testMod)
	require.ErrorIs(t, err, ErrUserAlreadyBlocked)

	_, err = f.mod.Blacklist.Add(f.ctx, testGuild, "21", "raid", testMod)
	require.NoError(t, err)

	got, err := f.mod.Blacklist.Get(f.ctx, testGuild, "21")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.BlockNumber)

	_, err = f.mod.Blacklist.Remove(f.ctx, testGuild, "20")
	require.NoError(t, err)

	all, err := f.mod.Blacklist.GetAll(f.ctx, testGuild)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "21", all[0].UserID)
	assert.Equal(t, 1, all[0].BlockNumber)

	_, err = f.mod.Blacklist.Remove(f.ctx, testGuild, "20")
	require.ErrorIs(t, err, ErrUserNotBlocked)

	assert.Equal(t, 2, f.events.count(EventAddBlock))
	assert.Equal(t, 1, f.events.count(EventRemoveBlock))

	cleared, err := f.mod.Blacklist.ClearAll(f.ctx)
	require.NoError(t, err)
	assert.True(t, cleared)
}

func TestBlacklistedMemberIsPunishedOnJoin(t *testing.T) {
	tests := []struct {
		name       string
		punishment PunishmentKind
		event      Event
	}{
		{"ban", PunishBan, EventBan},
		{"kick", PunishKick, EventKick},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(o *Options) { o.Blacklist.Punishment = tt.punishment })
			_, err := f.mod.Blacklist.Add(f.ctx, testGuild, "30", "raid", testMod)
			require.NoError(t, err)

			punished, err := f.mod.Blacklist.OnMemberJoin(f.ctx, f.host.join("30"))
			require.NoError(t, err)
			assert.True(t, punished)

			ev := f.events.last(tt.event).(PunishmentEvent)
			assert.Equal(t, BlacklistReason, ev.Reason)
			assert.Equal(t, testMod, ev.AuthorID)

			punished, err = f.mod.Blacklist.OnMemberJoin(f.ctx, f.host.join("31"))
			require.NoError(t, err)
			assert.False(t, punished)
		})
	}
}

func TestBlacklistValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.mod.Blacklist.Add(f.ctx, "", "20", "raid", testMod)
	require.ErrorIs(t, err, ErrParameterMissing)
	_, err = f.mod.Blacklist.Add(f.ctx, testGuild, "20", "", testMod)
	require.ErrorIs(t, err, ErrParameterMissing)

	disabled := newFixture(t, func(o *Options) { o.BlacklistManager = false })
	_, err = disabled.mod.Blacklist.Add(disabled.ctx, testGuild, "20", "raid", testMod)
	require.ErrorIs(t, err, ErrManagerDisabled)
}
