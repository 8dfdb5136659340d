package mod

import (
	"context"
	"regexp"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

var snowflake = regexp.MustCompile(`^\d{15,21}$`)

// createBanCommand creates the /mod ban subcommand
func createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea a un usuario del servidor",
		"mod",
		banHandler,
	).WithOptions(
		userOption("usuario", "Usuario a banear", true),
		reasonOption(false),
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		RequiresModerator()
}

// createUnbanCommand creates the /mod unban subcommand
func createUnbanCommand() *discord.Command {
	return discord.NewCommand(
		"unban",
		"Retira el baneo de un usuario",
		"mod",
		unbanHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID del usuario baneado",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		RequiresModerator()
}

// banHandler handles the /mod ban command. Users outside the guild are banned by id.
func banHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-Ban", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		user := ctx.GetUserOption("usuario")
		if user == nil {
			return nil, &moderator.Error{Kind: moderator.KindParameterMissing, Param: "usuario"}
		}
		if target := ctx.GetMemberOption("usuario"); target != nil {
			if err := checkInvoker(rctx, ctx, mod, target); err != nil {
				return nil, err
			}
		}
		reason := reasonOrDefault(ctx)
		if err := mod.Punishments.BanID(rctx, ctx.Interaction.GuildID, user.ID, reason, ctx.User().ID); err != nil {
			return nil, err
		}
		return punishmentEmbed("🔨 Usuario baneado", user.ID, reason, ctx.User().ID), nil
	})
}

// unbanHandler handles the /mod unban command
func unbanHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-Unban", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		userID := ctx.GetStringOption("id")
		if !snowflake.MatchString(userID) {
			return nil, &moderator.Error{Kind: moderator.KindParameterMissing, Param: "id"}
		}
		if err := mod.Punishments.Unban(rctx, ctx.Interaction.GuildID, userID, ctx.User().ID); err != nil {
			return nil, err
		}
		embed := punishmentEmbed("🕊️ Baneo retirado", userID, "-", ctx.User().ID)
		embed.Color = colorSuccess
		return embed, nil
	})
}
