// Package main provides a utility to sync Discord slash commands.
// The commands built by internal/commands are the source of truth: sync
// overwrites what Discord holds, removing stale commands in one call.
//
// Usage:
//
//	go run ./cmd/sync-commands [-list | -clean] [-guild <id>] [-dev]
//
// Options:
//
//	-list           List the registered commands
//	-clean          Remove the commands without registering new ones
//	-guild <id>     Target a guild instead of the global scope
//	-dev            Sync the /dev group into the dev guild (devGuildId)
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/PancyStudios/PancyModeratorGo/internal/commands"
	"github.com/PancyStudios/PancyModeratorGo/pkg/config"
	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const prefix = "SyncCommands"

func main() {
	listCmd := flag.Bool("list", false, "List all registered commands")
	cleanCmd := flag.Bool("clean", false, "Remove all commands without registering new ones")
	guildID := flag.String("guild", "", "Target a specific guild (leave empty for global)")
	devCmd := flag.Bool("dev", false, "Sync dev commands into the dev guild")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando utilidad de sincronización de comandos...", prefix)

	client, err := discord.NewClient(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), prefix)
		os.Exit(1)
	}

	if err := client.Session.Open(); err != nil {
		logger.Critical(fmt.Sprintf("Error connecting to Discord: %v", err), prefix)
		os.Exit(1)
	}
	defer client.Session.Close()

	// Build the command set; no moderator is needed for that
	commands.RegisterAll(client)

	target := *guildID
	if *devCmd && target == "" {
		target = cfg.DevGuildID
	}

	switch {
	case *listCmd:
		err = listCommands(client.CommandHandler, target)
	case *cleanCmd:
		err = cleanCommands(client.CommandHandler, target)
	case *devCmd:
		if target == "" {
			err = fmt.Errorf("devGuildId is not set")
			break
		}
		err = client.CommandHandler.SyncDevCommands(target)
	case target != "":
		err = fmt.Errorf("only dev commands are registered per guild, use -dev")
	default:
		err = client.CommandHandler.SyncCommands()
	}

	if err != nil {
		logger.Error(fmt.Sprintf("Error: %v", err), prefix)
		os.Exit(1)
	}
	logger.Success("Operación completada exitosamente", prefix)
}

// listCommands logs the commands registered on Discord
func listCommands(ch *discord.CommandHandler, guildID string) error {
	scope := "globales"
	list := ch.ListGlobalCommands
	if guildID != "" {
		scope = "del servidor " + guildID
		list = func() ([]*discordgo.ApplicationCommand, error) { return ch.ListGuildCommands(guildID) }
	}

	cmds, err := list()
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("📋 Comandos %s: %d", scope, len(cmds)), prefix)
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), prefix)
	}
	return nil
}

// cleanCommands removes every command of the scope
func cleanCommands(ch *discord.CommandHandler, guildID string) error {
	logger.Info("🧹 Eliminando comandos...", prefix)
	if guildID != "" {
		return ch.UnregisterGuildCommands(guildID)
	}
	return ch.UnregisterCommands()
}
