package mod

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"parameter", &moderator.Error{Kind: moderator.KindParameterMissing, Param: "razon"}, "`razon`"},
		{"already muted", &moderator.Error{Kind: moderator.KindUserAlreadyMuted, UserID: "2"}, "<@2> ya está silenciado"},
		{"duration", &moderator.Error{Kind: moderator.KindInvalidDuration, Param: "abc"}, "`abc`"},
		{"access", moderator.ErrMissingAccess, "igual o superior"},
		{"wrapped", fmt.Errorf("ctx: %w", &moderator.Error{Kind: moderator.KindUserNotBlocked, UserID: "9"}), "<@9> no está en la blacklist"},
		{"mute role", errMuteRoleMissing, DefaultMuteRoleName},
		{"unknown", fmt.Errorf("rest: 500"), "error inesperado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, ErrorMessage(tt.err), tt.want)
		})
	}
}

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "10 minutos", formatMillis((10 * time.Minute).Milliseconds()))
	assert.Equal(t, "1 día, 2 horas", formatMillis((26 * time.Hour).Milliseconds()))
	assert.Equal(t, "1 segundo", formatMillis(1500))
	assert.Equal(t, "500 ms", formatMillis(500))
}

func TestWarnEmbedMentionsPunishmentAtThreshold(t *testing.T) {
	opts := moderator.DefaultOptions().Warn
	opts.Punishment = moderator.PunishKick

	w := moderator.WarnRecord{UserID: "2", IssuedBy: "3", Reason: "spam", SequenceNumber: 2}
	embed := warnEmbed(w, opts)
	assert.NotContains(t, embed.Description, "expulsión")
	assert.Equal(t, colorWarning, embed.Color)

	w.SequenceNumber = 3
	embed = warnEmbed(w, opts)
	assert.Contains(t, embed.Description, "expulsión")
	assert.Equal(t, colorError, embed.Color)
}

func TestPunishmentLabel(t *testing.T) {
	assert.Equal(t, "silencio temporal", PunishmentLabel(moderator.PunishTempMute))
	assert.Equal(t, "baneo", PunishmentLabel(moderator.PunishBan))
}

func TestWarnListEmbed(t *testing.T) {
	user := &discordgo.User{ID: "2", Username: "target"}
	now := time.Unix(1700000000, 0)

	empty := warnListEmbed(user, &moderator.WarnList{Data: []moderator.WarnRecord{}}, true, now)
	assert.Contains(t, empty.Description, "No se han encontrado advertencias")

	list := &moderator.WarnList{Warns: 2, Data: []moderator.WarnRecord{
		{SequenceNumber: 1, Reason: "spam", IssuedBy: "3", IssuedAt: now.UnixMilli()},
		{SequenceNumber: 2, Reason: "flood", IssuedBy: "3", IssuedAt: now.UnixMilli()},
	}}
	staff := warnListEmbed(user, list, true, now)
	assert.Contains(t, staff.Description, "<@3>")
	assert.Contains(t, staff.Description, "**#2** flood")

	public := warnListEmbed(user, list, false, now)
	assert.NotContains(t, public.Description, "<@3>")
	assert.Contains(t, public.Description, "Oculto")
}

func TestBlockChoices(t *testing.T) {
	blocks := make([]moderator.BlockRecord, 0, 30)
	for i := 0; i < 30; i++ {
		blocks = append(blocks, moderator.BlockRecord{UserID: fmt.Sprintf("1%02d", i), Reason: strings.Repeat("x", 120)})
	}

	all := blockChoices(blocks, "")
	require.Len(t, all, 25)
	assert.LessOrEqual(t, len(all[0].Name), 100)

	filtered := blockChoices(blocks, "12")
	require.Len(t, filtered, 10)
	assert.Equal(t, "120", filtered[0].Value)
}

func TestBlacklistEmbed(t *testing.T) {
	assert.Contains(t, blacklistEmbed(nil).Description, "No hay usuarios")

	embed := blacklistEmbed([]moderator.BlockRecord{{UserID: "2", BlockNumber: 1, Reason: "raid"}})
	assert.Contains(t, embed.Description, "**#1** <@2>")
	assert.Contains(t, embed.Description, "**Usuarios bloqueados:** 1")
}

func TestSnowflake(t *testing.T) {
	assert.True(t, snowflake.MatchString("123456789012345678"))
	assert.False(t, snowflake.MatchString("abc"))
	assert.False(t, snowflake.MatchString("123"))
}
