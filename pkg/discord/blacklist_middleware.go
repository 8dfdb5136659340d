package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// errBlacklisted stops command execution for blocked users
var errBlacklisted = fmt.Errorf("user is blacklisted in this guild")

// BlacklistMiddleware verifica si el usuario está en la blacklist del servidor
func (c *ExtendedClient) BlacklistMiddleware(ctx *CommandContext) error {
	guildID := ctx.Interaction.GuildID
	if c.Moderator == nil || guildID == "" || !c.Moderator.Options().BlacklistManager {
		return nil
	}
	userID := ctx.User().ID

	lookupCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	entry, err := c.Moderator.Blacklist.Get(lookupCtx, guildID, userID)
	if err != nil {
		logger.Warn("No se pudo consultar la blacklist: "+err.Error(), "BlacklistMiddleware")
		return nil
	}
	if entry == nil {
		return nil
	}

	ctx.ReplyEphemeralEmbed(BlacklistEmbed(entry.Reason))
	logger.Warn(fmt.Sprintf("Usuario blacklisted intentó usar comando: %s en %s", userID, guildID), "BlacklistMiddleware")
	return errBlacklisted
}

// BlacklistEmbed builds the notice shown to a blocked user
func BlacklistEmbed(reason string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🚫 Acceso Denegado",
		Description: "Estás en la blacklist de este servidor y no puedes usar este bot aquí.",
		Color:       0xFF0000,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if reason != "" {
		embed.Fields = []*discordgo.MessageEmbedField{
			{
				Name:  "Razón",
				Value: reason,
			},
		}
	}
	return embed
}
