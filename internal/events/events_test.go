package events

import (
	"context"
	"testing"

	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator/moderatortest"
	"github.com/PancyStudios/PancyModeratorGo/pkg/store"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModerator(t *testing.T, host *moderatortest.Host) *moderator.Moderator {
	t.Helper()
	mod, err := moderator.New(host, store.NewMemory(), nil, moderator.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(mod.Stop)
	return mod
}

func TestMemberJoinRestoresMute(t *testing.T) {
	host := moderatortest.NewHost()
	mod := newModerator(t, host)
	ctx := context.Background()

	member := host.Join("2")
	_, err := mod.Mutes.Add(ctx, member, "50", moderatortest.MuteRole, "spam")
	require.NoError(t, err)

	host.Leave("2")
	rejoined := host.Join("2")
	require.False(t, host.HasRole("2", moderatortest.MuteRole))

	onGuildMemberAdd(mod, rejoined)
	assert.True(t, host.HasRole("2", moderatortest.MuteRole))
}

func TestMemberJoinEnforcesBlacklist(t *testing.T) {
	host := moderatortest.NewHost()
	mod := newModerator(t, host)

	_, err := mod.Blacklist.Add(context.Background(), moderatortest.GuildID, "2", "raid", "3")
	require.NoError(t, err)

	onGuildMemberAdd(mod, host.Join("2"))
	assert.Equal(t, []string{"2"}, host.Banned)
}

func TestMemberJoinWithoutModerator(t *testing.T) {
	assert.NotPanics(t, func() {
		onGuildMemberAdd(nil, &discordgo.Member{User: &discordgo.User{ID: "2"}})
	})
}

func TestModerationLog(t *testing.T) {
	ms := int64(600000)
	mute := moderator.MuteRecord{UserID: "2", ChannelID: "50", Duration: &ms, Reason: "spam"}

	channel, embed := moderationLog(moderator.EventAddMute, mute)
	require.NotNil(t, embed)
	assert.Equal(t, "50", channel)
	assert.Contains(t, embed.Description, "spam")

	channel, embed = moderationLog(moderator.EventMuteEnded, mute)
	require.NotNil(t, embed)
	assert.Equal(t, "50", channel)
	assert.NotContains(t, embed.Description, "spam")

	channel, embed = moderationLog(moderator.EventAddWarn, moderator.WarnRecord{UserID: "2", ChannelID: "51", SequenceNumber: 2, Reason: "flood", IssuedBy: "3"})
	require.NotNil(t, embed)
	assert.Equal(t, "51", channel)
	assert.Contains(t, embed.Description, "#2")

	channel, embed = moderationLog(moderator.EventBan, moderator.PunishmentEvent{UserID: "2", GuildID: "100", Reason: "raid"})
	require.NotNil(t, embed)
	assert.Empty(t, channel)

	channel, embed = moderationLog(moderator.EventReady, nil)
	assert.Nil(t, embed)
	assert.Empty(t, channel)
}

func TestMentions(t *testing.T) {
	msg := &discordgo.Message{Mentions: []*discordgo.User{{ID: "9"}, {ID: "1"}}}
	assert.True(t, mentions(msg, "1"))
	assert.False(t, mentions(msg, "2"))
}
