// Package moderatortest provides an in-memory guild for tests of packages
// built on top of the moderator.
package moderatortest

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Fixed ids of the fake guild
const (
	GuildID  = "100"
	BotID    = "1"
	BotRole  = "10"
	MuteRole = "12"
)

// Host is a single guild where the bot holds a role above MuteRole with
// ManageRoles, KickMembers and BanMembers.
type Host struct {
	mu      sync.Mutex
	roles   map[string]*discordgo.Role
	members map[string]*discordgo.Member

	Kicked []string
	Banned []string
}

// NewHost creates the guild with only the bot in it
func NewHost() *Host {
	h := &Host{
		roles: map[string]*discordgo.Role{
			GuildID:  {ID: GuildID, Name: "@everyone"},
			BotRole:  {ID: BotRole, Name: "Bot", Position: 10, Permissions: discordgo.PermissionManageRoles | discordgo.PermissionKickMembers | discordgo.PermissionBanMembers},
			MuteRole: {ID: MuteRole, Name: "Muted", Position: 5},
		},
		members: make(map[string]*discordgo.Member),
	}
	h.Join(BotID, BotRole)
	return h
}

// Join adds a member with roles and returns a copy of it
func (h *Host) Join(userID string, roles ...string) *discordgo.Member {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := &discordgo.Member{GuildID: GuildID, User: &discordgo.User{ID: userID, Username: "user" + userID}, Roles: roles}
	h.members[userID] = m
	return copyMember(m)
}

// Leave removes a member
func (h *Host) Leave(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.members, userID)
}

// HasRole reports whether userID currently holds roleID
func (h *Host) HasRole(userID, roleID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.members[userID]
	return ok && contains(m.Roles, roleID)
}

func (h *Host) BotID() string { return BotID }

func (h *Host) Member(_ context.Context, guildID, userID string) (*discordgo.Member, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if guildID != GuildID {
		return nil, nil
	}
	return copyMember(h.members[userID]), nil
}

func (h *Host) Roles(_ context.Context, _ string) ([]*discordgo.Role, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*discordgo.Role, 0, len(h.roles))
	for _, r := range h.roles {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (h *Host) AddRole(_ context.Context, _, userID, roleID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.members[userID]; ok && !contains(m.Roles, roleID) {
		m.Roles = append(m.Roles, roleID)
	}
	return nil
}

func (h *Host) RemoveRole(_ context.Context, _, userID, roleID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.members[userID]; ok {
		kept := make([]string, 0, len(m.Roles))
		for _, r := range m.Roles {
			if r != roleID {
				kept = append(kept, r)
			}
		}
		m.Roles = kept
	}
	return nil
}

func (h *Host) Kick(_ context.Context, _, userID, _ string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Kicked = append(h.Kicked, userID)
	delete(h.members, userID)
	return nil
}

func (h *Host) Ban(_ context.Context, _, userID, _ string, _ int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Banned = append(h.Banned, userID)
	delete(h.members, userID)
	return nil
}

func (h *Host) Unban(context.Context, string, string) error { return nil }

func copyMember(m *discordgo.Member) *discordgo.Member {
	if m == nil {
		return nil
	}
	c := *m
	c.Roles = append([]string(nil), m.Roles...)
	return &c
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
