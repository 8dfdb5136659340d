// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, mod, dev).
package commands

import (
	"github.com/PancyStudios/PancyModeratorGo/internal/commands/dev"
	"github.com/PancyStudios/PancyModeratorGo/internal/commands/mod"
	"github.com/PancyStudios/PancyModeratorGo/internal/commands/utils"
	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	// /utils ping, status, stats, help
	utils.RegisterUtilsCommands(client)

	// /mod mute, tempmute, unmute, warn, warns, removewarn, kick, ban, unban, blacklist
	mod.RegisterModCommands(client)

	// /dev clear, sweep, options (dev guild only)
	dev.Register(client)
}
