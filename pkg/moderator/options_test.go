package moderator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := ParseOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)

	assert.Equal(t, "mutes", opts.Mute.TableName)
	assert.Equal(t, 10*time.Second, opts.Mute.CheckInterval)
	assert.Equal(t, "warns", opts.Warn.TableName)
	assert.Equal(t, 3, opts.Warn.MaxWarns)
	assert.Equal(t, PunishBan, opts.Warn.Punishment)
	assert.Equal(t, 24*time.Hour, opts.Warn.MuteDuration)
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions(map[string]any{
		"blacklistManager": false,
		"muteConfig": map[string]any{
			"tableName":      "silencios",
			"checkCountdown": "30s",
			"muteOnJoin":     false,
		},
		"warnConfig": map[string]any{
			"maxWarns":   int64(5),
			"punishment": "tempmute",
			"muteTime":   int64(60000),
		},
		"blacklistConfig": map[string]any{
			"punishment": "kick",
		},
	})
	require.NoError(t, err)

	assert.True(t, opts.MuteManager)
	assert.False(t, opts.BlacklistManager)
	assert.Equal(t, "silencios", opts.Mute.TableName)
	assert.Equal(t, 30*time.Second, opts.Mute.CheckInterval)
	assert.False(t, opts.Mute.MuteOnJoin)
	assert.Equal(t, 5, opts.Warn.MaxWarns)
	assert.Equal(t, PunishTempMute, opts.Warn.Punishment)
	assert.Equal(t, time.Minute, opts.Warn.MuteDuration)
	assert.Equal(t, PunishKick, opts.Blacklist.Punishment)
}

func TestParseOptionsFallsBackOnBadValues(t *testing.T) {
	opts, err := ParseOptions(map[string]any{
		"muteConfig": map[string]any{"checkCountdown": "whenever", "tableName": ""},
		"warnConfig": map[string]any{"maxWarns": int64(1), "punishment": "exile"},
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultCheckInterval, opts.Mute.CheckInterval)
	assert.Equal(t, DefaultMuteTable, opts.Mute.TableName)
	assert.Equal(t, MinMaxWarns, opts.Warn.MaxWarns)
	assert.Equal(t, PunishBan, opts.Warn.Punishment)
}

func TestParseOptionsTypeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		raw    map[string]any
		option string
	}{
		{"toggle", map[string]any{"muteManager": "yes"}, "muteManager"},
		{"section", map[string]any{"warnConfig": "warns"}, "warnConfig"},
		{"interval", map[string]any{"muteConfig": map[string]any{"checkCountdown": true}}, "muteConfig.checkCountdown"},
		{"max warns", map[string]any{"warnConfig": map[string]any{"maxWarns": "three"}}, "warnConfig.maxWarns"},
		{"table name", map[string]any{"warnConfig": map[string]any{"tableName": 7}}, "warnConfig.tableName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions(tt.raw)
			require.ErrorIs(t, err, ErrConfiguration)

			var modErr *Error
			require.ErrorAs(t, err, &modErr)
			assert.Equal(t, tt.option, modErr.Param)
		})
	}
}

func TestNewNormalizesOptions(t *testing.T) {
	mod, err := New(newFakeHost(), storeForTest(), nil, Options{Warn: WarnOptions{MaxWarns: 1}})
	require.NoError(t, err)

	opts := mod.Options()
	assert.Equal(t, MinMaxWarns, opts.Warn.MaxWarns)
	assert.Equal(t, DefaultMuteTable, opts.Mute.TableName)
	assert.NotNil(t, mod.Bus())
}

func TestNewRequiresHostAndStore(t *testing.T) {
	_, err := New(nil, storeForTest(), nil, DefaultOptions())
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = New(newFakeHost(), nil, nil, DefaultOptions())
	require.ErrorIs(t, err, ErrConfiguration)
}
