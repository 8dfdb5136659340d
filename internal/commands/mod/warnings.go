package mod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

// createWarningsCommand creates the /mod warns subcommand
func createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Lista de advertencias de un usuario",
		"mod",
		warningsHandler,
	).WithOptions(
		userOption("usuario", "[STAFF] Usuario a buscar (opcional)", false),
	).RequiresModerator()
}

func warningsHandler(ctx *discord.CommandContext) error {
	return runDeferred(ctx, "CMD-Warnings", func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error) {
		target := ctx.Member()
		isModerator := target != nil && target.Permissions&(discordgo.PermissionModerateMembers|discordgo.PermissionAdministrator) != 0

		if ctx.GetOption("usuario") != nil {
			other, err := targetMember(ctx)
			if err != nil {
				return nil, err
			}
			if !isModerator && (ctx.User() == nil || other.User.ID != ctx.User().ID) {
				return &discordgo.MessageEmbed{
					Title:       "❌ Sin permisos",
					Description: "No tienes permisos para ver la lista de advertencias de otro usuario.",
					Color:       colorError,
				}, nil
			}
			target = other
		}
		if target == nil || target.User == nil {
			return nil, &moderator.Error{Kind: moderator.KindParameterMissing, Param: "usuario"}
		}
		if target.GuildID == "" {
			target.GuildID = ctx.Interaction.GuildID
		}

		list, err := mod.Warns.GetAll(rctx, target)
		if err != nil {
			return nil, err
		}
		return warnListEmbed(target.User, list, isModerator, time.Now()), nil
	})
}

// warnListEmbed renders every warning of user. Moderators are only shown to staff.
func warnListEmbed(user *discordgo.User, list *moderator.WarnList, showModerator bool, now time.Time) *discordgo.MessageEmbed {
	title := fmt.Sprintf("🔖 - Lista de advertencias de %s", user.Username)
	if list.Warns == 0 {
		return &discordgo.MessageEmbed{
			Title:       title,
			Color:       colorSuccess,
			Description: fmt.Sprintf("No se han encontrado advertencias del usuario en este servidor\n\n> 💫 - **Cantidad de advertencias:** 0\n> 🕒 - **Fecha de consulta:** <t:%d>", now.Unix()),
		}
	}

	var b strings.Builder
	for _, w := range list.Data {
		mod := "Oculto"
		if showModerator {
			mod = fmt.Sprintf("<@%s>", w.IssuedBy)
		}
		fmt.Fprintf(&b, "> **#%d** %s\n> **Moderador:** %s\n> **Fecha:** <t:%d:f>\n\n", w.SequenceNumber, w.Reason, mod, w.IssuedAt/1000)
	}
	fmt.Fprintf(&b, "> 💫 - **Cantidad de advertencias:** %d\n> 🕒 - **Fecha de consulta:** <t:%d>", list.Warns, now.Unix())

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s (%s)", title, user.ID),
		Color:       colorWarning,
		Description: b.String(),
	}
}
