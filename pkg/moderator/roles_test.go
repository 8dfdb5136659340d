package moderator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolesGet(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		query string
		want  string
	}{
		{muteRole, muteRole},
		{"<@&" + modRole + ">", modRole},
		{"muted", muteRole},
		{"  Owners ", highRole},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r, err := f.mod.Roles.Get(f.ctx, testGuild, tt.query)
			require.NoError(t, err)
			require.NotNil(t, r)
			assert.Equal(t, tt.want, r.ID)
		})
	}

	r, err := f.mod.Roles.Get(f.ctx, testGuild, "nope")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestRolesGetAllSortedByRank(t *testing.T) {
	f := newFixture(t)

	roles, err := f.mod.Roles.GetAll(f.ctx, testGuild)
	require.NoError(t, err)
	require.Len(t, roles, 5)
	assert.Equal(t, highRole, roles[0].ID)
	assert.Equal(t, testGuild, roles[4].ID)
}

func TestRolesAddRemove(t *testing.T) {
	f := newFixture(t)
	user := f.host.member(testUser)

	require.NoError(t, f.mod.Roles.Add(f.ctx, user, modRole))
	assert.True(t, f.host.hasRole(testUser, modRole))

	require.NoError(t, f.mod.Roles.Remove(f.ctx, user, modRole))
	assert.False(t, f.host.hasRole(testUser, modRole))

	err := f.mod.Roles.Add(f.ctx, user, highRole)
	require.ErrorIs(t, err, ErrMissingAccess)

	err = f.mod.Roles.Add(f.ctx, user, "999")
	require.ErrorIs(t, err, ErrRoleNotFound)
}
