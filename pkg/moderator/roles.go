package moderator

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var roleMention = regexp.MustCompile(`^<@&(\d+)>$`)

// RolesManager adds and removes roles on behalf of the bot
type RolesManager struct {
	m *Moderator
}

func (rm *RolesManager) prepare(ctx context.Context, member *discordgo.Member, roleID string) (*Actor, error) {
	if memberID(member) == "" || member.GuildID == "" {
		return nil, errParameterMissing("member")
	}
	if roleID == "" {
		return nil, errParameterMissing("role")
	}
	bot, err := rm.m.guard.Require(ctx, member.GuildID, discordgo.PermissionManageRoles)
	if err != nil {
		return nil, err
	}
	role := bot.Role(roleID)
	if role == nil {
		return nil, errRoleNotFound(roleID)
	}
	if !bot.OutranksRole(role) || !bot.Outranks(member) {
		return nil, ErrMissingAccess
	}
	return bot, nil
}

// Add gives roleID to member
func (rm *RolesManager) Add(ctx context.Context, member *discordgo.Member, roleID string) error {
	if _, err := rm.prepare(ctx, member, roleID); err != nil {
		return err
	}
	if err := rm.m.host.AddRole(ctx, member.GuildID, member.User.ID, roleID); err != nil {
		return fmt.Errorf("adding role %s: %w", roleID, err)
	}
	return nil
}

// Remove takes roleID away from member
func (rm *RolesManager) Remove(ctx context.Context, member *discordgo.Member, roleID string) error {
	if _, err := rm.prepare(ctx, member, roleID); err != nil {
		return err
	}
	if err := rm.m.host.RemoveRole(ctx, member.GuildID, member.User.ID, roleID); err != nil {
		return fmt.Errorf("removing role %s: %w", roleID, err)
	}
	return nil
}

// Get finds a role by id, mention ("<@&id>") or case-insensitive name.
// It returns nil when nothing matches.
func (rm *RolesManager) Get(ctx context.Context, guildID, query string) (*discordgo.Role, error) {
	if guildID == "" {
		return nil, errParameterMissing("guild")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errParameterMissing("role")
	}

	roles, err := rm.m.guard.Roles(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if m := roleMention.FindStringSubmatch(query); m != nil {
		query = m[1]
	}
	if r, ok := roles[query]; ok {
		return r, nil
	}
	for _, r := range roles {
		if strings.EqualFold(r.Name, query) {
			return r, nil
		}
	}
	return nil, nil
}

// GetAll returns the roles of a guild, highest first
func (rm *RolesManager) GetAll(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	if guildID == "" {
		return nil, errParameterMissing("guild")
	}
	list, err := rm.m.host.Roles(ctx, guildID)
	if err != nil {
		return nil, err
	}
	out := make([]*discordgo.Role, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position > out[j].Position
	})
	return out, nil
}
