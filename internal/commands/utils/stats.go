package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/config"
	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/bwmarrin/discordgo"
)

// botStats is a snapshot of the process and the gateway
type botStats struct {
	Version    string
	GoVersion  string
	AllocMB    float64
	Goroutines int
	Uptime     time.Duration
	Guilds     int
	Members    int
	Managers   string
	Backend    string
}

// createStatsCommand creates the /utils stats subcommand
func createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Muestra estadísticas del bot",
		"utils",
		statsHandler,
	)
}

// statsHandler handles the /utils stats command
func statsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		embed := statsEmbed(collectStats(ctx.Client, ctx.Mod()))
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    "💫 - Developed by PancyStudios",
			IconURL: ctx.Client.Session.State.User.AvatarURL(""),
		}
		ctx.ReplyEmbed(embed)
	}()
	return nil
}

func collectStats(client *discord.ExtendedClient, mod *moderator.Moderator) botStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	members := 0
	for _, guild := range client.Session.State.Guilds {
		members += guild.MemberCount
	}

	return botStats{
		Version:    config.Version,
		GoVersion:  strings.TrimPrefix(runtime.Version(), "go"),
		AllocMB:    float64(m.Alloc) / 1024 / 1024,
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(client.StartTime),
		Guilds:     client.GuildCount(),
		Members:    members,
		Managers:   managersLine(mod),
		Backend:    string(config.Get().StoreBackend),
	}
}

func statsEmbed(s botStats) *discordgo.MessageEmbed {
	field := func(name, value string, inline bool) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline}
	}

	return &discordgo.MessageEmbed{
		Title: "📊 Estadísticas del Bot",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			field("🤖 Versión", fmt.Sprintf("%s (Go %s, DiscordGo %s)", s.Version, s.GoVersion, discordgo.VERSION), false),
			field("🖥 Memoria", fmt.Sprintf("%.2f MB / %d goroutines", s.AllocMB, s.Goroutines), true),
			field("⏱ Uptime", formatDuration(s.Uptime), true),
			field("🏠 Servidores", fmt.Sprintf("%d (%d miembros)", s.Guilds, s.Members), true),
			field("🛡 Moderación", s.Managers, false),
			field("💾 Almacenamiento", s.Backend, true),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d días", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}

	return strings.Join(parts, ", ")
}
