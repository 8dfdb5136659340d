package utils

import (
	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
)

const helpText = "📖 **Ayuda de PancyModerator Go**\n\n" +
	"**Utilidad:**\n" +
	"• `/utils ping` - Comprueba la latencia\n" +
	"• `/utils status` - Estado del bot\n" +
	"• `/utils stats` - Estadísticas del bot\n\n" +
	"**Moderación:**\n" +
	"• `/mod mute <usuario> [razón] [rol]` - Silencia de forma indefinida\n" +
	"• `/mod tempmute <usuario> <tiempo> [razón] [rol]` - Silencia temporalmente (ej. `10m`, `2h`, `1d`)\n" +
	"• `/mod unmute <usuario>` - Quita el silencio\n" +
	"• `/mod warn <usuario> <razón> [rol]` - Advierte a un usuario\n" +
	"• `/mod warns [usuario]` - Lista las advertencias\n" +
	"• `/mod removewarn <usuario>` - Elimina la última advertencia\n" +
	"• `/mod kick <usuario> [razón]` - Expulsa a un usuario\n" +
	"• `/mod ban <usuario> [razón]` - Banea a un usuario\n" +
	"• `/mod unban <id>` - Retira un baneo\n" +
	"• `/mod blacklist add|remove|list` - Gestiona la blacklist del servidor"

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

// helpHandler handles the /utils help command
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		ctx.ReplyEphemeral(helpText)
	}()
	return nil
}
