// Package events provides event handlers for message events
package events

import (
	"fmt"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient) {
	client.EventHandler.RegisterEvent("MessageCreate", onMessageCreate)
}

// onMessageCreate answers a direct mention of the bot with a short help
func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || s.State == nil || s.State.User == nil {
		return
	}
	if !mentions(m.Message, s.State.User.ID) {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "👋 ¡Hola!",
		Description: "Usa comandos **slash (/)** para interactuar conmigo.\nEscribe `/utils help` para ver todos los comandos disponibles.",
		Color:       0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "🔧 Moderación",
				Value:  "`/mod` - Comandos de moderación",
				Inline: true,
			},
			{
				Name:   "❓ Ayuda",
				Value:  "`/utils help` - Ver todos los comandos",
				Inline: true,
			},
		},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "Message")
	}
}

func mentions(m *discordgo.Message, userID string) bool {
	for _, u := range m.Mentions {
		if u.ID == userID {
			return true
		}
	}
	return false
}
