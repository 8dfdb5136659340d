// Package events provides a registry for organizing bot events.
// Events are organized by category (guild, member, message, moderation, etc.)
package events

import (
	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client.
// The client's Moderator must be set before calling it.
func RegisterAll(client *discord.ExtendedClient) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (bot startup, starts the mute sweep)
	RegisterReadyEvent(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Member events (blacklist and mute on join)
	RegisterMemberEvents(client)

	// Message events (mention help)
	RegisterMessageEvents(client)

	// Shard events (disconnect/resume)
	RegisterShardEvents(client)

	// Moderator bus events (log embeds)
	RegisterModerationEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
