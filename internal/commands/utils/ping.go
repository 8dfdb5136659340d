package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
)

// createPingCommand creates the /utils ping subcommand
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Comprueba la latencia del bot y del almacenamiento",
		"utils",
		pingHandler,
	)
}

// pingHandler handles the /utils ping command
func pingHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		gateway := ctx.Client.Session.HeartbeatLatency()
		storeLatency, err := storePing(ctx.Mod(), ctx.Interaction.GuildID)
		ctx.Reply(pingMessage(gateway, storeLatency, err))
	}()
	return nil
}

// storePing times one read of the guild's mutes
func storePing(mod *moderator.Moderator, guildID string) (time.Duration, error) {
	if mod == nil || guildID == "" || !mod.Options().MuteManager {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	_, err := mod.Mutes.Guild(ctx, guildID)
	return time.Since(start), err
}

func pingMessage(gateway, store time.Duration, err error) string {
	msg := fmt.Sprintf("🏓 Pong! Latencia: %dms", gateway.Milliseconds())
	switch {
	case err != nil:
		msg += " | 💾 Almacenamiento: sin respuesta"
	case store > 0:
		msg += fmt.Sprintf(" | 💾 Almacenamiento: %dms", store.Milliseconds())
	}
	return msg
}
