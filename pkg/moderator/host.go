package moderator

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Host is what the managers need from the Discord client.
// Member returns nil, nil when the user is not in the guild.
type Host interface {
	BotID() string
	Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error)
	Roles(ctx context.Context, guildID string) ([]*discordgo.Role, error)
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string, purgeDays int) error
	Unban(ctx context.Context, guildID, userID string) error
}

// memberID returns the user id of a member, or "" when it is incomplete
func memberID(m *discordgo.Member) string {
	if m == nil || m.User == nil {
		return ""
	}
	return m.User.ID
}

func hasRole(m *discordgo.Member, roleID string) bool {
	if m == nil {
		return false
	}
	for _, r := range m.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}
