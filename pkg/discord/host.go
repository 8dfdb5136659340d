package discord

import (
	"context"
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// Host adapts a discordgo session to the moderator.Host interface.
// Reads hit the state cache first and fall back to REST.
type Host struct {
	session *discordgo.Session
}

// NewHost creates a Host over the given session
func NewHost(session *discordgo.Session) *Host {
	return &Host{session: session}
}

// Host returns a moderator host bound to the client session
func (c *ExtendedClient) Host() *Host {
	return NewHost(c.Session)
}

// BotID returns the user id of the logged in bot
func (h *Host) BotID() string {
	if h.session.State != nil && h.session.State.User != nil {
		return h.session.State.User.ID
	}
	return ""
}

// Member returns nil, nil when the user is not in the guild
func (h *Host) Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if h.session.State != nil {
		if m, err := h.session.State.Member(guildID, userID); err == nil {
			return m, nil
		}
	}
	m, err := h.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if m.GuildID == "" {
		m.GuildID = guildID
	}
	return m, nil
}

// Roles returns every role of the guild
func (h *Host) Roles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	if h.session.State != nil {
		if g, err := h.session.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
			return g.Roles, nil
		}
	}
	return h.session.GuildRoles(guildID, discordgo.WithContext(ctx))
}

func (h *Host) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return h.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (h *Host) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	return h.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (h *Host) Kick(ctx context.Context, guildID, userID, reason string) error {
	return h.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
}

func (h *Host) Ban(ctx context.Context, guildID, userID, reason string, purgeDays int) error {
	return h.session.GuildBanCreateWithReason(guildID, userID, reason, purgeDays, discordgo.WithContext(ctx))
}

func (h *Host) Unban(ctx context.Context, guildID, userID string) error {
	return h.session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx))
}

// isNotFound reports a 404 or an unknown member/user API error
func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser:
			return true
		}
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
