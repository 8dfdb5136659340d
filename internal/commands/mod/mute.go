package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

// createMuteCommand creates the /mod mute subcommand
func createMuteCommand() *discord.Command {
	return discord.NewCommand(
		"mute",
		"Silencia a un usuario de forma indefinida",
		"mod",
		muteHandler,
	).WithOptions(
		userOption("usuario", "Usuario a silenciar", true),
		reasonOption(false),
		muteRoleOption(),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionManageRoles).
		RequiresModerator()
}

// createTempMuteCommand creates the /mod tempmute subcommand
func createTempMuteCommand() *discord.Command {
	return discord.NewCommand(
		"tempmute",
		"Silencia a un usuario temporalmente",
		"mod",
		tempMuteHandler,
	).WithOptions(
		userOption("usuario", "Usuario a silenciar", true),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "tiempo",
			Description: "Duración del silencio (ej. 10m, 2h, 1d)",
			Required:    true,
		},
		reasonOption(false),
		muteRoleOption(),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionManageRoles).
		RequiresModerator()
}

// createUnmuteCommand creates the /mod unmute subcommand
func createUnmuteCommand() *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Quita el silencio a un usuario",
		"mod",
		unmuteHandler,
	).WithOptions(
		userOption("usuario", "Usuario a quitar el silencio", true),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionManageRoles).
		RequiresModerator()
}

func muteHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-Mute", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		return issueMute(rctx, ctx, mod, "")
	})
}

func tempMuteHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-TempMute", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		spec := ctx.GetStringOption("tiempo")
		if spec == "" {
			return nil, &moderator.Error{Kind: moderator.KindParameterMissing, Param: "tiempo"}
		}
		return issueMute(rctx, ctx, mod, spec)
	})
}

// issueMute mutes the target indefinitely, or for durationSpec when it is set
func issueMute(rctx context.Context, ctx *discord.CommandContext, mod *moderator.Moderator, durationSpec string) (*discordgo.MessageEmbed, error) {
	target, err := targetMember(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkInvoker(rctx, ctx, mod, target); err != nil {
		return nil, err
	}
	roleID, err := muteRole(rctx, ctx, mod)
	if err != nil {
		return nil, err
	}

	reason := reasonOrDefault(ctx)
	var record *moderator.MuteRecord
	if durationSpec == "" {
		record, err = mod.Mutes.Add(rctx, target, ctx.Interaction.ChannelID, roleID, reason)
	} else {
		record, err = mod.Mutes.Temp(rctx, target, ctx.Interaction.ChannelID, roleID, durationSpec, reason)
	}
	if err != nil {
		return nil, err
	}
	return muteEmbed(record, ctx.User().ID), nil
}

func unmuteHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-Unmute", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		target, err := targetMember(ctx)
		if err != nil {
			return nil, err
		}
		if err := checkInvoker(rctx, ctx, mod, target); err != nil {
			return nil, err
		}
		record, err := mod.Mutes.Remove(rctx, target)
		if err != nil {
			return nil, err
		}
		return &discordgo.MessageEmbed{
			Title:       "🔊 Silencio retirado",
			Description: fmt.Sprintf("Se retiró el silencio de <@%s>.\n\n> **Moderador:** <@%s>", record.UserID, ctx.User().ID),
			Color:       colorSuccess,
			Timestamp:   time.Now().Format(time.RFC3339),
		}, nil
	})
}

// muteEmbed describes a freshly issued mute
func muteEmbed(record *moderator.MuteRecord, moderatorID string) *discordgo.MessageEmbed {
	length := "Indefinido"
	if record.Duration != nil {
		expires, _ := record.ExpiresAt()
		length = fmt.Sprintf("%s (termina <t:%d:R>)", formatMillis(*record.Duration), expires.Unix())
	}
	return &discordgo.MessageEmbed{
		Title: "🔇 Usuario silenciado",
		Description: fmt.Sprintf(
			"<@%s> ha sido silenciado.\n\n> **Razón:** %s\n> **Duración:** %s\n> **Rol:** <@&%s>\n> **Moderador:** <@%s>",
			record.UserID, record.Reason, length, record.MuteRoleID, moderatorID,
		),
		Color:     colorWarning,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
