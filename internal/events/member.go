// Package events provides event handlers for member events
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

const joinTimeout = 15 * time.Second

// RegisterMemberEvents registers all member-related event handlers
func RegisterMemberEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildMemberAdd(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		onGuildMemberAdd(client.Moderator, m.Member)
	})
	client.EventHandler.OnGuildMemberRemove(onGuildMemberRemove)
}

// onGuildMemberAdd enforces the blacklist first, then re-applies an active mute
func onGuildMemberAdd(mod *moderator.Moderator, member *discordgo.Member) {
	defer errors.RecoverMiddleware()()

	if mod == nil || member == nil || member.User == nil || member.User.Bot {
		return
	}
	logger.Debug(fmt.Sprintf("👋 Nuevo miembro: %s en servidor %s", member.User.Username, member.GuildID), "Member")

	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	defer cancel()

	punished, err := mod.Blacklist.OnMemberJoin(ctx, member)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo aplicar la blacklist a %s en %s: %v", member.User.ID, member.GuildID, err), "Member")
	}
	if punished {
		return
	}

	if err := mod.Mutes.OnMemberJoin(ctx, member); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo restaurar el silencio de %s en %s: %v", member.User.ID, member.GuildID, err), "Member")
	}
}

// onGuildMemberRemove is called when a member leaves the server
func onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil {
		return
	}
	logger.Debug(fmt.Sprintf("👋 %s salió del servidor %s", m.User.Username, m.GuildID), "Member")
}
