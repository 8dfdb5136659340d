package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		warnHandler,
	).WithOptions(
		userOption("usuario", "Usuario a advertir", true),
		reasonOption(true),
		muteRoleOption(),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		RequiresModerator()
}

// warnHandler handles the /mod warn command
func warnHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-Warn", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		target, err := targetMember(ctx)
		if err != nil {
			return nil, err
		}
		reason := ctx.GetStringOption("razon")
		if reason == "" {
			return nil, &moderator.Error{Kind: moderator.KindParameterMissing, Param: "razon"}
		}
		if err := checkInvoker(rctx, ctx, mod, target); err != nil {
			return nil, err
		}
		roleID, err := muteRole(rctx, ctx, mod)
		if err != nil {
			return nil, err
		}

		res, err := mod.Warns.Add(rctx, target, ctx.Interaction.ChannelID, reason, ctx.User().ID, roleID)
		if err != nil {
			return nil, err
		}
		return warnEmbed(res.Data, mod.Options().Warn), nil
	})
}

// warnEmbed describes a new warning and whether it triggered the punishment
func warnEmbed(w moderator.WarnRecord, opts moderator.WarnOptions) *discordgo.MessageEmbed {
	description := fmt.Sprintf(
		"<@%s> ha sido advertido.\n\n> **Razón:** %s\n> **Advertencia:** #%d de %d\n> **Moderador:** <@%s>",
		w.UserID, w.Reason, w.SequenceNumber, opts.MaxWarns, w.IssuedBy,
	)
	color := colorWarning
	if w.SequenceNumber >= opts.MaxWarns {
		description += fmt.Sprintf("\n\n⚠️ Se alcanzó el máximo de advertencias. Sanción aplicada: **%s**.", PunishmentLabel(opts.Punishment))
		color = colorError
	}
	return &discordgo.MessageEmbed{
		Title:       "⚠️ Advertencia registrada",
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// PunishmentLabel names a punishment kind in Spanish
func PunishmentLabel(kind moderator.PunishmentKind) string {
	switch kind {
	case moderator.PunishTempMute:
		return "silencio temporal"
	case moderator.PunishMute:
		return "silencio"
	case moderator.PunishKick:
		return "expulsión"
	case moderator.PunishBan:
		return "baneo"
	default:
		return string(kind)
	}
}
