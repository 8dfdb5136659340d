package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

// RegisterModerationEvents subscribes to the moderator bus and posts a log
// embed to the channel where mutes and warnings were issued.
func RegisterModerationEvents(client *discord.ExtendedClient) {
	if client.Moderator == nil {
		logger.Warn("Moderación no disponible, eventos de moderación omitidos", "Events")
		return
	}
	bus := client.Moderator.Bus()
	for _, ev := range moderator.AllEvents {
		ev := ev
		bus.On(ev, func(payload any) {
			channelID, embed := moderationLog(ev, payload)
			if embed == nil {
				return
			}
			logger.Info(embed.Title+": "+embed.Description, "ModLog")
			if channelID == "" {
				return
			}
			go func() {
				defer errors.RecoverMiddleware()()
				if _, err := client.Session.ChannelMessageSendEmbed(channelID, embed); err != nil {
					logger.Warn(fmt.Sprintf("No se pudo enviar el registro de moderación a %s: %v", channelID, err), "ModLog")
				}
			}()
		})
	}
}

// moderationLog builds the log embed for an event and the channel to post it in.
// Events without a channel are only logged.
func moderationLog(ev moderator.Event, payload any) (string, *discordgo.MessageEmbed) {
	embed := &discordgo.MessageEmbed{Timestamp: time.Now().Format(time.RFC3339)}

	switch p := payload.(type) {
	case moderator.MuteRecord:
		switch ev {
		case moderator.EventAddMute:
			embed.Title = "🔇 Silencio aplicado"
			embed.Color = 0xFFA500
		case moderator.EventRemoveMute:
			embed.Title = "🔊 Silencio retirado"
			embed.Color = 0x00FF00
		case moderator.EventMuteEnded:
			embed.Title = "⏱️ Silencio terminado"
			embed.Color = 0x00FF00
		default:
			return "", nil
		}
		embed.Description = fmt.Sprintf("<@%s>", p.UserID)
		if p.Reason != "" && ev == moderator.EventAddMute {
			embed.Description += "\n> **Razón:** " + p.Reason
		}
		return p.ChannelID, embed

	case moderator.WarnRecord:
		embed.Title = "⚠️ Nueva advertencia"
		embed.Color = 0xFFA500
		embed.Description = fmt.Sprintf("<@%s> recibió la advertencia #%d\n> **Razón:** %s\n> **Moderador:** <@%s>",
			p.UserID, p.SequenceNumber, p.Reason, p.IssuedBy)
		return p.ChannelID, embed

	case moderator.WarnRemoval:
		embed.Title = "🗑️ Advertencia eliminada"
		embed.Color = 0x00FF00
		embed.Description = fmt.Sprintf("<@%s> ahora tiene %d advertencias", p.UserID, p.Warns)
		channelID := ""
		if len(p.Data) > 0 {
			channelID = p.Data[len(p.Data)-1].ChannelID
		}
		return channelID, embed

	case moderator.PunishmentEvent:
		switch ev {
		case moderator.EventKick:
			embed.Title = "👢 Usuario expulsado"
		case moderator.EventBan:
			embed.Title = "🔨 Usuario baneado"
		case moderator.EventUnban:
			embed.Title = "🕊️ Baneo retirado"
		default:
			return "", nil
		}
		embed.Color = 0xFF0000
		embed.Description = fmt.Sprintf("<@%s> en %s", p.UserID, p.GuildID)
		if p.Reason != "" {
			embed.Description += "\n> **Razón:** " + p.Reason
		}
		return "", embed

	case moderator.BlockRecord:
		if ev == moderator.EventAddBlock {
			embed.Title = "⛔ Usuario bloqueado"
		} else {
			embed.Title = "✅ Usuario desbloqueado"
		}
		embed.Color = 0xFF0000
		embed.Description = fmt.Sprintf("<@%s> en %s\n> **Razón:** %s", p.UserID, p.GuildID, p.Reason)
		return "", embed
	}

	if ev == moderator.EventReady {
		logger.Success("🛡 Moderador listo", "ModLog")
	}
	return "", nil
}
