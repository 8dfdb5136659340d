package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

// createRemoveWarnCommand creates the /mod removewarn subcommand
func createRemoveWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Elimina la advertencia más reciente de un usuario",
		"mod",
		removeWarnHandler,
	).WithOptions(
		userOption("usuario", "Usuario del cual eliminar la advertencia", true),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		RequiresModerator()
}

// removeWarnHandler handles the /mod removewarn command
func removeWarnHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-RemoveWarn", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		target, err := targetMember(ctx)
		if err != nil {
			return nil, err
		}
		res, err := mod.Warns.Remove(rctx, target)
		if err != nil {
			return nil, err
		}
		if !res.Status {
			return nil, &moderator.Error{Kind: moderator.KindNoWarnData, UserID: target.User.ID}
		}

		notifyWarnRemoved(ctx, target.User.ID, res.Warns)

		return &discordgo.MessageEmbed{
			Title:       "✅ Advertencia eliminada con éxito",
			Description: fmt.Sprintf("Se eliminó la última advertencia de <@%s>.\n\n> **Advertencias restantes:** %d", res.UserID, res.Warns),
			Color:       colorSuccess,
			Timestamp:   time.Now().Format(time.RFC3339),
		}, nil
	})
}

// notifyWarnRemoved sends a DM to the member, best effort
func notifyWarnRemoved(ctx *discord.CommandContext, userID string, remaining int) {
	guildName := ctx.Interaction.GuildID
	if g := ctx.Guild(); g != nil {
		guildName = g.Name
	}
	embed := &discordgo.MessageEmbed{
		Title: "ℹ - Advertencia eliminada",
		Color: colorSuccess,
		Description: fmt.Sprintf(
			"⚒ - **Servidor:** %s (%s)\n🗑️ - **Advertencias restantes:** %d\n\n🕒 - **Fecha:** <t:%d:F>",
			guildName, ctx.Interaction.GuildID, remaining, time.Now().Unix(),
		),
		Footer: footer(ctx),
	}
	channel, err := ctx.Session.UserChannelCreate(userID)
	if err != nil {
		return
	}
	_, _ = ctx.Session.ChannelMessageSendEmbed(channel.ID, embed)
}
