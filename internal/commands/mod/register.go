package mod

import (
	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
)

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient) {
	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		createMuteCommand(),
		createTempMuteCommand(),
		createUnmuteCommand(),
		createWarnCommand(),
		createWarningsCommand(),
		createRemoveWarnCommand(),
		createKickCommand(),
		createBanCommand(),
		createUnbanCommand(),
	)

	// /mod blacklist add|remove|list
	blacklistGroup := client.CommandHandler.BuildSubcommandGroup(
		"mod",
		"blacklist",
		"Gestiona la blacklist del servidor",
		createBlacklistCommands()...,
	)
	modGroup.Options = append(modGroup.Options, blacklistGroup)

	client.CommandHandler.AddGlobalCommand(modGroup)
}
