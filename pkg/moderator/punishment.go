package moderator

import (
	"context"
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const (
	// PunishReason is the audit reason used when the warn limit is reached
	PunishReason = "Exceeded the maximum number of warnings"
	// BanPurgeDays is how many days of messages a ban deletes
	BanPurgeDays = 7
)

// PunishmentManager holds the kick, ban and unban primitives and the warn
// escalation dispatch
type PunishmentManager struct {
	m *Moderator
}

// target resolves the bot and checks it may use required against member
func (pm *PunishmentManager) target(ctx context.Context, member *discordgo.Member, required int64) (*Actor, error) {
	if memberID(member) == "" || member.GuildID == "" {
		return nil, errParameterMissing("member")
	}
	bot, err := pm.m.guard.Require(ctx, member.GuildID, required)
	if err != nil {
		return nil, err
	}
	if !bot.Outranks(member) {
		return nil, ErrMissingAccess
	}
	return bot, nil
}

// Kick removes member from the guild
func (pm *PunishmentManager) Kick(ctx context.Context, member *discordgo.Member, reason, authorID string) error {
	if _, err := pm.target(ctx, member, discordgo.PermissionKickMembers); err != nil {
		return err
	}
	if err := pm.m.host.Kick(ctx, member.GuildID, member.User.ID, reason); err != nil {
		return fmt.Errorf("kicking %s: %w", member.User.ID, err)
	}

	pm.m.bus.Emit(EventKick, PunishmentEvent{
		GuildID:  member.GuildID,
		UserID:   member.User.ID,
		Reason:   reason,
		AuthorID: authorID,
	})
	return nil
}

// Ban bans member and deletes the last BanPurgeDays days of their messages
func (pm *PunishmentManager) Ban(ctx context.Context, member *discordgo.Member, reason, authorID string) error {
	if _, err := pm.target(ctx, member, discordgo.PermissionBanMembers); err != nil {
		return err
	}
	return pm.ban(ctx, member.GuildID, member.User.ID, reason, authorID)
}

// BanID bans a user who may not be in the guild. Rank is only checked when they are.
func (pm *PunishmentManager) BanID(ctx context.Context, guildID, userID, reason, authorID string) error {
	if guildID == "" {
		return errParameterMissing("guild")
	}
	if userID == "" {
		return errParameterMissing("user")
	}
	bot, err := pm.m.guard.Require(ctx, guildID, discordgo.PermissionBanMembers)
	if err != nil {
		return err
	}
	member, err := pm.m.host.Member(ctx, guildID, userID)
	if err != nil {
		return fmt.Errorf("fetching member %s: %w", userID, err)
	}
	if member != nil && !bot.Outranks(member) {
		return ErrMissingAccess
	}
	return pm.ban(ctx, guildID, userID, reason, authorID)
}

func (pm *PunishmentManager) ban(ctx context.Context, guildID, userID, reason, authorID string) error {
	if err := pm.m.host.Ban(ctx, guildID, userID, reason, BanPurgeDays); err != nil {
		return fmt.Errorf("banning %s: %w", userID, err)
	}

	pm.m.bus.Emit(EventBan, PunishmentEvent{
		GuildID:  guildID,
		UserID:   userID,
		Reason:   reason,
		AuthorID: authorID,
	})
	return nil
}

// Unban lifts the ban of userID in guildID
func (pm *PunishmentManager) Unban(ctx context.Context, guildID, userID, authorID string) error {
	if guildID == "" {
		return errParameterMissing("guild")
	}
	if userID == "" {
		return errParameterMissing("user")
	}
	if _, err := pm.m.guard.Require(ctx, guildID, discordgo.PermissionBanMembers); err != nil {
		return err
	}
	if err := pm.m.host.Unban(ctx, guildID, userID); err != nil {
		return fmt.Errorf("unbanning %s: %w", userID, err)
	}

	pm.m.bus.Emit(EventUnban, PunishmentEvent{
		GuildID:  guildID,
		UserID:   userID,
		AuthorID: authorID,
	})
	return nil
}

// Punish applies the configured warn punishment to member and clears their
// warnings once it succeeds. The bot, and the actor when it is still in the
// guild, must outrank member.
func (pm *PunishmentManager) Punish(ctx context.Context, member *discordgo.Member, channelID, muteRoleID, actorID string) (*PunishResult, error) {
	if memberID(member) == "" || member.GuildID == "" {
		return nil, errParameterMissing("member")
	}

	bot, err := pm.m.guard.Bot(ctx, member.GuildID)
	if err != nil {
		return nil, err
	}
	if !bot.Outranks(member) {
		return nil, ErrMissingAccess
	}
	if actorID != "" && actorID != bot.Member.User.ID {
		actor, err := pm.m.guard.Actor(ctx, member.GuildID, actorID)
		switch {
		case errors.Is(err, ErrMissingAccess):
			// the moderator left the guild, the bot's rank is enough
		case err != nil:
			return nil, err
		case !actor.Outranks(member):
			return nil, ErrMissingAccess
		}
	}

	kind := pm.m.opts.Warn.Punishment
	switch kind {
	case PunishTempMute:
		_, err = pm.m.Mutes.TempFor(ctx, member, channelID, muteRoleID, pm.m.opts.Warn.MuteDuration, PunishReason)
	case PunishMute:
		_, err = pm.m.Mutes.Add(ctx, member, channelID, muteRoleID, PunishReason)
	case PunishKick:
		err = pm.Kick(ctx, member, PunishReason, actorID)
	default:
		kind = PunishBan
		err = pm.Ban(ctx, member, PunishReason, actorID)
	}
	// a member who is already muted is already serving the punishment
	if err != nil && !errors.Is(err, ErrUserAlreadyMuted) {
		return nil, err
	}

	if _, err := pm.m.Warns.Clear(ctx, member); err != nil {
		logger.Error(fmt.Sprintf("No se pudieron limpiar los warns de %s: %v", member.User.ID, err), "Punishments")
	}

	logger.Info(fmt.Sprintf("%s aplicado a %s en %s", kind, member.User.ID, member.GuildID), "Punishments")
	return &PunishResult{
		Status: true,
		Data: PunishmentData{
			PunishType: kind,
			UserID:     member.User.ID,
			Reason:     PunishReason,
		},
	}, nil
}
