package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/config"
	"github.com/PancyStudios/PancyModeratorGo/pkg/database"
	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
)

// createStatusCommand creates the /utils status subcommand
func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		"utils",
		statusHandler,
	)
}

// statusHandler handles the /utils status command
func statusHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		storeStatus := string(config.Get().StoreBackend)
		if db := database.Get(); db != nil && config.Get().StoreBackend == config.StoreMongo {
			storeStatus, _ = db.GetStatus()
		}

		mutes := "-"
		if mod := ctx.Mod(); mod != nil && mod.Options().MuteManager && ctx.Interaction.GuildID != "" {
			rctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			records, err := mod.Mutes.Guild(rctx, ctx.Interaction.GuildID)
			cancel()
			if err == nil {
				mutes = fmt.Sprintf("%d", len(records))
			}
		}

		ctx.Reply(fmt.Sprintf(
			"📊 **Estado del Bot**\n"+
				"• Bot: 🟢 Online\n"+
				"• Almacenamiento: %s\n"+
				"• Módulos: %s\n"+
				"• Silencios activos en este servidor: %s\n"+
				"• Servidores: %d",
			storeStatus,
			managersLine(ctx.Mod()),
			mutes,
			ctx.Client.GuildCount(),
		))
	}()
	return nil
}

// managersLine lists the managers with their on/off state
func managersLine(mod *moderator.Moderator) string {
	if mod == nil {
		return "🔴 moderación no disponible"
	}
	opts := mod.Options()
	mark := func(on bool) string {
		if on {
			return "🟢"
		}
		return "🔴"
	}
	return fmt.Sprintf("%s mutes %s warns %s blacklist", mark(opts.MuteManager), mark(opts.WarnManager), mark(opts.BlacklistManager))
}
