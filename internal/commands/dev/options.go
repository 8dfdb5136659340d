package dev

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

// CreateOptionsCommand creates the /dev options command
func CreateOptionsCommand() *discord.Command {
	return discord.NewCommand(
		"options",
		"Muestra la configuración de moderación cargada",
		"dev",
		optionsHandler,
	).WithUserPermissions(discordgo.PermissionAdministrator).AsDev().RequiresModerator()
}

func optionsHandler(ctx *discord.CommandContext) error {
	return ctx.ReplyEphemeralEmbed(optionsEmbed(ctx.Mod().Options()))
}

func onOff(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}

func optionsEmbed(opts moderator.Options) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "⚙️ Configuración de moderación",
		Color: 0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Silencios",
				Value: fmt.Sprintf("%s tabla `%s`\nRevisión cada %s\nRestaurar al entrar: %s",
					onOff(opts.MuteManager), opts.Mute.TableName, opts.Mute.CheckInterval, onOff(opts.Mute.MuteOnJoin)),
			},
			{
				Name: "Advertencias",
				Value: fmt.Sprintf("%s tabla `%s`\nMáximo: %d\nCastigo: `%s` (%s)",
					onOff(opts.WarnManager), opts.Warn.TableName, opts.Warn.MaxWarns, opts.Warn.Punishment, opts.Warn.MuteDuration),
			},
			{
				Name: "Blacklist",
				Value: fmt.Sprintf("%s tabla `%s`\nCastigo: `%s`",
					onOff(opts.BlacklistManager), opts.Blacklist.TableName, opts.Blacklist.Punishment),
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
