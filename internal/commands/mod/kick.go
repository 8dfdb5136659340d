package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

// createKickCommand creates the /mod kick subcommand
func createKickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulsa a un usuario del servidor",
		"mod",
		kickHandler,
	).WithOptions(
		userOption("usuario", "Usuario a expulsar", true),
		reasonOption(false),
	).WithUserPermissions(discordgo.PermissionKickMembers).
		WithBotPermissions(discordgo.PermissionKickMembers).
		RequiresModerator()
}

// kickHandler handles the /mod kick command
func kickHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-Kick", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		target, err := targetMember(ctx)
		if err != nil {
			return nil, err
		}
		if err := checkInvoker(rctx, ctx, mod, target); err != nil {
			return nil, err
		}
		reason := reasonOrDefault(ctx)
		if err := mod.Punishments.Kick(rctx, target, reason, ctx.User().ID); err != nil {
			return nil, err
		}
		return punishmentEmbed("👢 Usuario expulsado", target.User.ID, reason, ctx.User().ID), nil
	})
}

func punishmentEmbed(title, userID, reason, moderatorID string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("<@%s> (`%s`)\n\n> **Razón:** %s\n> **Moderador:** <@%s>", userID, userID, reason, moderatorID),
		Color:       colorError,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}
