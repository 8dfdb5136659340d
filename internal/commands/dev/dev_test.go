package dev

import (
	"context"
	"testing"

	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator/moderatortest"
	"github.com/PancyStudios/PancyModeratorGo/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModerator(t *testing.T) (*moderator.Moderator, *moderatortest.Host) {
	t.Helper()
	host := moderatortest.NewHost()
	mod, err := moderator.New(host, store.NewMemory(), nil, moderator.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(mod.Stop)
	return mod, host
}

func TestClearTableGuild(t *testing.T) {
	mod, _ := newModerator(t)
	ctx := context.Background()

	_, err := mod.Blacklist.Add(ctx, moderatortest.GuildID, "2", "raid", "3")
	require.NoError(t, err)
	_, err = mod.Blacklist.Add(ctx, "200", "2", "raid", "3")
	require.NoError(t, err)

	cleared, err := ClearTable(ctx, mod, TableBlacklist, moderatortest.GuildID)
	require.NoError(t, err)
	assert.True(t, cleared)

	blocks, err := mod.Blacklist.GetAll(ctx, moderatortest.GuildID)
	require.NoError(t, err)
	assert.Empty(t, blocks)

	blocks, err = mod.Blacklist.GetAll(ctx, "200")
	require.NoError(t, err)
	assert.Len(t, blocks, 1)
}

func TestClearTableAll(t *testing.T) {
	mod, host := newModerator(t)
	ctx := context.Background()

	_, err := mod.Mutes.Add(ctx, host.Join("2"), "50", moderatortest.MuteRole, "spam")
	require.NoError(t, err)

	cleared, err := ClearTable(ctx, mod, TableMutes, "")
	require.NoError(t, err)
	assert.True(t, cleared)

	mutes, err := mod.Mutes.Guild(ctx, moderatortest.GuildID)
	require.NoError(t, err)
	assert.Empty(t, mutes)
}

func TestClearTableUnknown(t *testing.T) {
	mod, _ := newModerator(t)
	_, err := ClearTable(context.Background(), mod, "tickets", "")
	assert.Error(t, err)
}

func TestOptionsEmbed(t *testing.T) {
	embed := optionsEmbed(moderator.DefaultOptions())
	require.Len(t, embed.Fields, 3)
	assert.Contains(t, embed.Fields[1].Value, "Máximo: 3")
	assert.Contains(t, embed.Fields[2].Value, "`ban`")
}
