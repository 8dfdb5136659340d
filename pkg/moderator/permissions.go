package moderator

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// MemberRank returns the highest role position held by m. Members with no
// roles rank 0, the same as @everyone.
func MemberRank(m *discordgo.Member, roles map[string]*discordgo.Role) int {
	rank := 0
	if m == nil {
		return rank
	}
	for _, id := range m.Roles {
		if r, ok := roles[id]; ok && r.Position > rank {
			rank = r.Position
		}
	}
	return rank
}

// MemberPermissions ORs the permission bits of @everyone and every role m holds
func MemberPermissions(m *discordgo.Member, guildID string, roles map[string]*discordgo.Role) int64 {
	var perms int64
	if everyone, ok := roles[guildID]; ok {
		perms |= everyone.Permissions
	}
	if m == nil {
		return perms
	}
	for _, id := range m.Roles {
		if r, ok := roles[id]; ok {
			perms |= r.Permissions
		}
	}
	return perms
}

// HasCapabilities reports whether perms grants every bit in required.
// Administrator grants everything.
func HasCapabilities(perms, required int64) bool {
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&required == required
}

// CanActOn reports whether an actor of actorRank may act on a target of
// targetRank. Ties are refused.
func CanActOn(actorRank, targetRank int) bool {
	return targetRank < actorRank
}

// Actor is a guild member resolved together with the guild's role table
type Actor struct {
	Member      *discordgo.Member
	GuildID     string
	Rank        int
	Permissions int64
	roles       map[string]*discordgo.Role
}

// Has reports whether the actor holds every permission in required
func (a *Actor) Has(required int64) bool {
	return HasCapabilities(a.Permissions, required)
}

// Role returns the guild role with id, or nil
func (a *Actor) Role(id string) *discordgo.Role {
	return a.roles[id]
}

// Outranks reports whether the actor may act on target
func (a *Actor) Outranks(target *discordgo.Member) bool {
	return CanActOn(a.Rank, MemberRank(target, a.roles))
}

// OutranksRole reports whether the actor may manage role
func (a *Actor) OutranksRole(role *discordgo.Role) bool {
	return role != nil && CanActOn(a.Rank, role.Position)
}

// Guard resolves actors through the Host
type Guard struct {
	host Host
}

// NewGuard creates a Guard over host
func NewGuard(host Host) *Guard {
	return &Guard{host: host}
}

// Roles fetches the role table of a guild keyed by role id
func (g *Guard) Roles(ctx context.Context, guildID string) (map[string]*discordgo.Role, error) {
	list, err := g.host.Roles(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("fetching roles of guild %s: %w", guildID, err)
	}
	roles := make(map[string]*discordgo.Role, len(list))
	for _, r := range list {
		roles[r.ID] = r
	}
	return roles, nil
}

// Actor resolves userID in guildID. A user that is not in the guild is MissingAccess.
func (g *Guard) Actor(ctx context.Context, guildID, userID string) (*Actor, error) {
	if guildID == "" {
		return nil, errParameterMissing("guildID")
	}
	if userID == "" {
		return nil, errParameterMissing("userID")
	}

	roles, err := g.Roles(ctx, guildID)
	if err != nil {
		return nil, err
	}
	member, err := g.host.Member(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching member %s: %w", userID, err)
	}
	if member == nil {
		return nil, ErrMissingAccess
	}

	return &Actor{
		Member:      member,
		GuildID:     guildID,
		Rank:        MemberRank(member, roles),
		Permissions: MemberPermissions(member, guildID, roles),
		roles:       roles,
	}, nil
}

// Bot resolves the bot's own member in guildID
func (g *Guard) Bot(ctx context.Context, guildID string) (*Actor, error) {
	return g.Actor(ctx, guildID, g.host.BotID())
}

// Require resolves the bot and checks it holds required
func (g *Guard) Require(ctx context.Context, guildID string, required int64) (*Actor, error) {
	bot, err := g.Bot(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !bot.Has(required) {
		return nil, ErrMissingPermissions
	}
	return bot, nil
}
