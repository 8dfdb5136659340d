package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadModeratorOptionsMissingFile(t *testing.T) {
	opts, err := LoadModeratorOptions(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, moderator.DefaultOptions(), opts)
}

func TestLoadModeratorOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moderator.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
warnManager = true

[muteConfig]
tableName = "mutes"
checkCountdown = "5s"

[warnConfig]
maxWarns = 4
punishment = "kick"
muteTime = "2h"
`), 0o644))

	opts, err := LoadModeratorOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, opts.Mute.CheckInterval)
	assert.Equal(t, 4, opts.Warn.MaxWarns)
	assert.Equal(t, moderator.PunishKick, opts.Warn.Punishment)
	assert.Equal(t, 2*time.Hour, opts.Warn.MuteDuration)
}

func TestParseModeratorOptionsTypeMismatch(t *testing.T) {
	_, err := ParseModeratorOptions(`
[muteConfig]
checkCountdown = true
`)
	require.ErrorIs(t, err, moderator.ErrConfiguration)

	_, err = ParseModeratorOptions(`maxWarns = = 3`)
	require.Error(t, err)
}
