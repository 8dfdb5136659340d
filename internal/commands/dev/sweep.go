package dev

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CreateSweepCommand creates the /dev sweep command
func CreateSweepCommand() *discord.Command {
	return discord.NewCommand(
		"sweep",
		"Revisa ahora los silencios temporales expirados",
		"dev",
		sweepHandler,
	).WithUserPermissions(discordgo.PermissionAdministrator).AsDev().RequiresModerator()
}

func sweepHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		if err := ctx.Defer(); err != nil {
			logger.Error(fmt.Sprintf("Error difiriendo respuesta: %v", err), "DevSweep")
			return
		}

		rctx, cancel := context.WithTimeout(context.Background(), devTimeout)
		defer cancel()

		ended, err := ctx.Mod().Mutes.Sweep(rctx)
		msg := fmt.Sprintf("✅ Revisión completada: %d silencio(s) finalizado(s).", ended)
		if err != nil {
			logger.Error(fmt.Sprintf("Error revisando silencios: %v", err), "DevSweep")
			msg = fmt.Sprintf("❌ Error revisando silencios: %v", err)
		}

		if err := ctx.EditReply(msg); err != nil {
			logger.Error(fmt.Sprintf("Error editando respuesta: %v", err), "DevSweep")
		}
	}()
	return nil
}
