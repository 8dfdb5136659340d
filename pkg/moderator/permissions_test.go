package moderator

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanActOn(t *testing.T) {
	tests := []struct {
		actor, target int
		want          bool
	}{
		{10, 5, true},
		{10, 10, false},
		{5, 10, false},
		{1, 0, true},
		{0, 0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanActOn(tt.actor, tt.target), "actor=%d target=%d", tt.actor, tt.target)
	}
}

func TestMemberRankAndPermissions(t *testing.T) {
	roles := map[string]*discordgo.Role{
		"g": {ID: "g", Position: 0, Permissions: discordgo.PermissionSendMessages},
		"a": {ID: "a", Position: 3, Permissions: discordgo.PermissionKickMembers},
		"b": {ID: "b", Position: 7, Permissions: discordgo.PermissionManageRoles},
	}
	m := &discordgo.Member{Roles: []string{"a", "b", "gone"}}

	assert.Equal(t, 7, MemberRank(m, roles))
	assert.Equal(t, 0, MemberRank(&discordgo.Member{}, roles))
	assert.Equal(t, 0, MemberRank(nil, roles))

	perms := MemberPermissions(m, "g", roles)
	assert.True(t, HasCapabilities(perms, discordgo.PermissionKickMembers|discordgo.PermissionManageRoles))
	assert.True(t, HasCapabilities(perms, discordgo.PermissionSendMessages))
	assert.False(t, HasCapabilities(perms, discordgo.PermissionBanMembers))
}

func TestAdministratorGrantsEverything(t *testing.T) {
	assert.True(t, HasCapabilities(discordgo.PermissionAdministrator, discordgo.PermissionBanMembers))
}

func TestGuardActor(t *testing.T) {
	host := newFakeHost()
	g := NewGuard(host)

	bot, err := g.Bot(context.Background(), testGuild)
	require.NoError(t, err)
	assert.Equal(t, botRank, bot.Rank)
	assert.True(t, bot.Has(discordgo.PermissionManageRoles))
	assert.True(t, bot.Outranks(host.member(testMod)))
	assert.False(t, bot.OutranksRole(bot.Role(highRole)))
	assert.False(t, bot.OutranksRole(nil))

	_, err = g.Actor(context.Background(), testGuild, "nobody")
	require.ErrorIs(t, err, ErrMissingAccess)

	_, err = g.Actor(context.Background(), "", testUser)
	require.ErrorIs(t, err, ErrParameterMissing)
}
