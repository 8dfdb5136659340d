// Package dev provides maintenance commands for the moderation store.
// They are registered only in the development guild.
package dev

import (
	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
)

// Register registers all dev commands as /dev subcommands (only in dev guild)
func Register(client *discord.ExtendedClient) {
	devGroup := client.CommandHandler.BuildCommandGroup(
		"dev",
		"Comandos de desarrollo",
		CreateClearCommand(),
		CreateSweepCommand(),
		CreateOptionsCommand(),
	)

	client.CommandHandler.AddDevCommand(devGroup)
}
