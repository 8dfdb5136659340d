package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{90 * time.Second, "1 minutos, 30 segundos"},
		{26 * time.Hour, "1 días, 2 horas"},
		{0, ""},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestManagersLineWithoutModerator(t *testing.T) {
	if got := managersLine(nil); !strings.Contains(got, "no disponible") {
		t.Errorf("managersLine(nil) = %q", got)
	}
}

func TestHelpListsModerationCommands(t *testing.T) {
	for _, cmd := range []string{"/mod tempmute", "/mod unban", "/mod blacklist"} {
		if !strings.Contains(helpText, cmd) {
			t.Errorf("help text is missing %s", cmd)
		}
	}
}

func TestPingMessage(t *testing.T) {
	tests := []struct {
		name  string
		store time.Duration
		err   error
		want  string
	}{
		{"gateway only", 0, nil, "🏓 Pong! Latencia: 42ms"},
		{"with store", 3 * time.Millisecond, nil, "🏓 Pong! Latencia: 42ms | 💾 Almacenamiento: 3ms"},
		{"store down", 0, errors.New("timeout"), "🏓 Pong! Latencia: 42ms | 💾 Almacenamiento: sin respuesta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pingMessage(42*time.Millisecond, tt.store, tt.err); got != tt.want {
				t.Errorf("pingMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStorePingWithoutModerator(t *testing.T) {
	d, err := storePing(nil, "100")
	if d != 0 || err != nil {
		t.Errorf("storePing(nil) = %v, %v", d, err)
	}
}

func TestStatsEmbed(t *testing.T) {
	embed := statsEmbed(botStats{Version: "1.0", Guilds: 2, Members: 30, Managers: "ok", Backend: "sqlite"})
	if len(embed.Fields) != 6 {
		t.Fatalf("Fields = %d, want 6", len(embed.Fields))
	}
	if embed.Fields[3].Value != "2 (30 miembros)" {
		t.Errorf("guild field = %q", embed.Fields[3].Value)
	}
	if embed.Fields[5].Value != "sqlite" {
		t.Errorf("store field = %q", embed.Fields[5].Value)
	}
}
