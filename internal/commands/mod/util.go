// Package mod provides moderation commands organized as subcommands under /mod.
// Each command is in its own file and delegates to the moderator managers.
package mod

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

// DefaultMuteRoleName is looked up when a command gets no explicit mute role
const DefaultMuteRoleName = "Muted"

const (
	colorSuccess = 0x00FF00
	colorWarning = 0xFFA500
	colorError   = 0xFF0000
	colorInfo    = 0x3498db
)

const requestTimeout = 15 * time.Second

var errMuteRoleMissing = stderrors.New("mute role not configured")

// actionFunc runs a moderation action and returns the embed to show
type actionFunc func(rctx context.Context, mod *moderator.Moderator) (*discordgo.MessageEmbed, error)

// runDeferred defers the interaction, runs fn in the background and edits the
// reply with its embed or with the translated error.
func runDeferred(ctx *discord.CommandContext, prefix string, fn actionFunc) error {
	go func() {
		defer errors.RecoverMiddleware()()

		if err := ctx.Defer(); err != nil {
			logger.Error(fmt.Sprintf("Error difiriendo respuesta: %v", err), prefix)
			return
		}

		rctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		embed, err := fn(rctx, ctx.Mod())
		if err != nil {
			var modErr *moderator.Error
			if !stderrors.As(err, &modErr) && !stderrors.Is(err, errMuteRoleMissing) {
				logger.Error(fmt.Sprintf("Error ejecutando comando: %v", err), prefix)
			}
			embed = errorEmbed(err)
		}
		if embed == nil {
			return
		}
		if embed.Footer == nil {
			embed.Footer = footer(ctx)
		}
		if err := ctx.EditReplyEmbed(embed); err != nil {
			logger.Error(fmt.Sprintf("Error editando respuesta: %v", err), prefix)
		}
	}()
	return nil
}

// ErrorMessage translates a moderation error into the message shown to staff
func ErrorMessage(err error) string {
	if stderrors.Is(err, errMuteRoleMissing) {
		return fmt.Sprintf("No se encontró el rol de silencio. Indica uno con la opción `rol` o crea un rol llamado `%s`.", DefaultMuteRoleName)
	}

	var modErr *moderator.Error
	if !stderrors.As(err, &modErr) {
		return "Ocurrió un error inesperado. Inténtalo de nuevo más tarde."
	}

	switch modErr.Kind {
	case moderator.KindParameterMissing:
		return fmt.Sprintf("Falta el parámetro `%s`.", modErr.Param)
	case moderator.KindMissingPermissions:
		return "No tengo los permisos necesarios para hacer eso."
	case moderator.KindMissingAccess:
		return "No puedo moderar a ese usuario: su rol es igual o superior."
	case moderator.KindUserAlreadyMuted:
		return fmt.Sprintf("<@%s> ya está silenciado.", modErr.UserID)
	case moderator.KindUserNotMuted:
		return fmt.Sprintf("<@%s> no está silenciado.", modErr.UserID)
	case moderator.KindInvalidDuration:
		return fmt.Sprintf("La duración `%s` no es válida. Usa formatos como `10m`, `2h` o `1d`.", modErr.Param)
	case moderator.KindNoWarnData:
		return fmt.Sprintf("<@%s> no tiene advertencias.", modErr.UserID)
	case moderator.KindWarnNotFound:
		return fmt.Sprintf("No existe la advertencia #%s de <@%s>.", modErr.ID, modErr.UserID)
	case moderator.KindManagerDisabled:
		return fmt.Sprintf("El módulo `%s` está desactivado.", modErr.Param)
	case moderator.KindConfigurationError:
		return fmt.Sprintf("Configuración inválida: `%s` debe ser %s.", modErr.Param, modErr.Expected)
	case moderator.KindRoleNotFound:
		return fmt.Sprintf("No existe el rol `%s` en este servidor.", modErr.ID)
	case moderator.KindUserAlreadyBlocked:
		return fmt.Sprintf("<@%s> ya está en la blacklist.", modErr.UserID)
	case moderator.KindUserNotBlocked:
		return fmt.Sprintf("<@%s> no está en la blacklist.", modErr.UserID)
	default:
		return "Ocurrió un error inesperado. Inténtalo de nuevo más tarde."
	}
}

func errorEmbed(err error) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ No se pudo completar la acción",
		Description: ErrorMessage(err),
		Color:       colorError,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func footer(ctx *discord.CommandContext) *discordgo.MessageEmbedFooter {
	f := &discordgo.MessageEmbedFooter{Text: "💫 - Developed by PancyStudios"}
	if ctx.Session != nil && ctx.Session.State != nil && ctx.Session.State.User != nil {
		f.IconURL = ctx.Session.State.User.AvatarURL("")
	}
	return f
}

// reasonOrDefault returns the "razon" option or the default reason
func reasonOrDefault(ctx *discord.CommandContext) string {
	if reason := ctx.GetStringOption("razon"); reason != "" {
		return reason
	}
	return "Sin razón especificada"
}

// targetMember resolves the "usuario" option to a member of the guild
func targetMember(ctx *discord.CommandContext) (*discordgo.Member, error) {
	member := ctx.GetMemberOption("usuario")
	if member == nil || member.User == nil {
		return nil, &moderator.Error{Kind: moderator.KindParameterMissing, Param: "usuario"}
	}
	if member.GuildID == "" {
		member.GuildID = ctx.Interaction.GuildID
	}
	return member, nil
}

// checkInvoker refuses actions on members ranked the same as or above the invoker
func checkInvoker(rctx context.Context, ctx *discord.CommandContext, mod *moderator.Moderator, target *discordgo.Member) error {
	invoker := ctx.User()
	if invoker == nil {
		return &moderator.Error{Kind: moderator.KindParameterMissing, Param: "author"}
	}
	if target.User != nil && target.User.ID == invoker.ID {
		return moderator.ErrMissingAccess
	}
	actor, err := mod.Guard().Actor(rctx, ctx.Interaction.GuildID, invoker.ID)
	if err != nil {
		return err
	}
	if !actor.Outranks(target) {
		return moderator.ErrMissingAccess
	}
	return nil
}

// muteRole resolves the "rol" option, falling back to DefaultMuteRoleName
func muteRole(rctx context.Context, ctx *discord.CommandContext, mod *moderator.Moderator) (string, error) {
	if role := ctx.GetOption("rol"); role != nil {
		if id, ok := role.Value.(string); ok && id != "" {
			return id, nil
		}
	}
	role, err := mod.Roles.Get(rctx, ctx.Interaction.GuildID, DefaultMuteRoleName)
	if err != nil {
		return "", err
	}
	if role == nil {
		return "", errMuteRoleMissing
	}
	return role.ID, nil
}

// formatMillis renders a millisecond duration in Spanish
func formatMillis(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	units := []struct {
		size time.Duration
		one  string
		many string
	}{
		{24 * time.Hour, "día", "días"},
		{time.Hour, "hora", "horas"},
		{time.Minute, "minuto", "minutos"},
		{time.Second, "segundo", "segundos"},
	}
	out := ""
	for _, u := range units {
		n := d / u.size
		if n == 0 {
			continue
		}
		d -= n * u.size
		if out != "" {
			out += ", "
		}
		if n == 1 {
			out += fmt.Sprintf("1 %s", u.one)
		} else {
			out += fmt.Sprintf("%d %s", n, u.many)
		}
	}
	if out == "" {
		return fmt.Sprintf("%d ms", ms)
	}
	return out
}

func userOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func reasonOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "razon",
		Description: "Razón de la sanción",
		Required:    required,
	}
}

func muteRoleOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "rol",
		Description: "Rol de silencio (por defecto " + DefaultMuteRoleName + ")",
		Required:    false,
	}
}
