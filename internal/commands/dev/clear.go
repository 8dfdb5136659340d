package dev

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

// Tables that /dev clear can wipe
const (
	TableMutes     = "mutes"
	TableWarns     = "warns"
	TableBlacklist = "blacklist"
)

const devTimeout = 30 * time.Second

// CreateClearCommand creates the /dev clear command
func CreateClearCommand() *discord.Command {
	return discord.NewCommand(
		"clear",
		"Borra los registros de una tabla de moderación",
		"dev",
		clearHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "tabla",
			Description: "Tabla a borrar",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Silencios", Value: TableMutes},
				{Name: "Advertencias", Value: TableWarns},
				{Name: "Blacklist", Value: TableBlacklist},
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "servidor",
			Description: "ID del servidor (vacío para borrar todos)",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionAdministrator).AsDev().RequiresModerator()
}

func clearHandler(ctx *discord.CommandContext) error {
	table := ctx.GetStringOption("tabla")
	guildID := ctx.GetStringOption("servidor")

	go func() {
		defer errors.RecoverMiddleware()()

		if err := ctx.Defer(); err != nil {
			logger.Error(fmt.Sprintf("Error difiriendo respuesta: %v", err), "DevClear")
			return
		}

		rctx, cancel := context.WithTimeout(context.Background(), devTimeout)
		defer cancel()

		scope := "todos los servidores"
		if guildID != "" {
			scope = "el servidor `" + guildID + "`"
		}

		cleared, err := ClearTable(rctx, ctx.Mod(), table, guildID)
		var msg string
		switch {
		case err != nil:
			logger.Error(fmt.Sprintf("Error borrando %s: %v", table, err), "DevClear")
			msg = fmt.Sprintf("❌ Error al borrar `%s`: %v", table, err)
		case !cleared:
			msg = fmt.Sprintf("ℹ️ No había registros de `%s` en %s.", table, scope)
		default:
			logger.Warn(fmt.Sprintf("Tabla %s borrada en %s por %s", table, scope, ctx.User().ID), "DevClear")
			msg = fmt.Sprintf("✅ Registros de `%s` borrados en %s.", table, scope)
		}

		if err := ctx.EditReply(msg); err != nil {
			logger.Error(fmt.Sprintf("Error editando respuesta: %v", err), "DevClear")
		}
	}()
	return nil
}

// ClearTable wipes one moderation table for guildID, or for every guild when
// guildID is empty. It reports whether anything was deleted.
func ClearTable(ctx context.Context, mod *moderator.Moderator, table, guildID string) (bool, error) {
	switch table {
	case TableMutes:
		if guildID == "" {
			return mod.Mutes.ClearAll(ctx)
		}
		return mod.Mutes.ClearGuild(ctx, guildID)
	case TableWarns:
		if guildID == "" {
			return mod.Warns.ClearAll(ctx)
		}
		return mod.Warns.ClearGuild(ctx, guildID)
	case TableBlacklist:
		if guildID == "" {
			return mod.Blacklist.ClearAll(ctx)
		}
		return mod.Blacklist.ClearGuild(ctx, guildID)
	default:
		return false, fmt.Errorf("unknown table %q", table)
	}
}
