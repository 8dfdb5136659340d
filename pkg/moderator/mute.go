package moderator

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/PancyStudios/PancyModeratorGo/pkg/store"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// MuteManager issues and lifts mutes. Every record lives in one sequence under
// the mute table name; a record present in the table is an active mute.
type MuteManager struct {
	m     *Moderator
	table *store.Table[MuteRecord]
}

func newMuteManager(m *Moderator) *MuteManager {
	return &MuteManager{
		m:     m,
		table: store.NewTable[MuteRecord](m.store, m.locks),
	}
}

func (mm *MuteManager) key() string {
	return mm.m.opts.Mute.TableName
}

// Add mutes member indefinitely by giving them muteRoleID
func (mm *MuteManager) Add(ctx context.Context, member *discordgo.Member, channelID, muteRoleID, reason string) (*MuteRecord, error) {
	return mm.issue(ctx, member, channelID, muteRoleID, reason, nil)
}

// Temp mutes member for durationSpec ("10m", "1h", "2 days", ...)
func (mm *MuteManager) Temp(ctx context.Context, member *discordgo.Member, channelID, muteRoleID, durationSpec, reason string) (*MuteRecord, error) {
	if err := mm.validate(member, channelID, muteRoleID); err != nil {
		return nil, err
	}
	if durationSpec == "" {
		return nil, errParameterMissing("time")
	}
	d, err := parsePositiveDuration(durationSpec)
	if err != nil {
		return nil, err
	}
	return mm.TempFor(ctx, member, channelID, muteRoleID, d, reason)
}

// TempFor mutes member for d
func (mm *MuteManager) TempFor(ctx context.Context, member *discordgo.Member, channelID, muteRoleID string, d time.Duration, reason string) (*MuteRecord, error) {
	ms := d.Milliseconds()
	if ms <= 0 {
		return nil, &Error{Kind: KindInvalidDuration, Param: d.String()}
	}
	return mm.issue(ctx, member, channelID, muteRoleID, reason, &ms)
}

func (mm *MuteManager) validate(member *discordgo.Member, channelID, muteRoleID string) error {
	if !mm.m.opts.MuteManager {
		return errManagerDisabled("MuteManager")
	}
	if memberID(member) == "" || member.GuildID == "" {
		return errParameterMissing("member")
	}
	if channelID == "" {
		return errParameterMissing("channel")
	}
	if muteRoleID == "" {
		return errParameterMissing("muteRole")
	}
	return nil
}

func (mm *MuteManager) issue(ctx context.Context, member *discordgo.Member, channelID, muteRoleID, reason string, duration *int64) (*MuteRecord, error) {
	if err := mm.validate(member, channelID, muteRoleID); err != nil {
		return nil, err
	}

	bot, err := mm.m.guard.Require(ctx, member.GuildID, discordgo.PermissionManageRoles)
	if err != nil {
		return nil, err
	}
	role := bot.Role(muteRoleID)
	if role == nil {
		return nil, errRoleNotFound(muteRoleID)
	}
	if !bot.OutranksRole(role) {
		return nil, ErrMissingAccess
	}

	record := MuteRecord{
		ID:         uuid.NewString(),
		GuildID:    member.GuildID,
		UserID:     member.User.ID,
		ChannelID:  channelID,
		MuteRoleID: muteRoleID,
		IssuedAt:   mm.m.now().UnixMilli(),
		Duration:   duration,
		Reason:     reason,
	}

	_, err = mm.table.Mutate(ctx, mm.key(), func(records []MuteRecord, _ bool) ([]MuteRecord, error) {
		if findMute(records, record.GuildID, record.UserID) >= 0 {
			return nil, errUser(KindUserAlreadyMuted, record.UserID)
		}
		return append(records, record), nil
	})
	if err != nil {
		return nil, err
	}

	if err := mm.m.host.AddRole(ctx, record.GuildID, record.UserID, muteRoleID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo asignar el rol de silencio a %s en %s: %v", record.UserID, record.GuildID, err), "Mutes")
	}

	mm.m.bus.Emit(EventAddMute, record)
	return &record, nil
}

// Get returns the active mute of member
func (mm *MuteManager) Get(ctx context.Context, member *discordgo.Member) (*MuteLookup, error) {
	if !mm.m.opts.MuteManager {
		return nil, errManagerDisabled("MuteManager")
	}
	if memberID(member) == "" || member.GuildID == "" {
		return nil, errParameterMissing("member")
	}
	return mm.lookup(ctx, member.GuildID, member.User.ID)
}

func (mm *MuteManager) lookup(ctx context.Context, guildID, userID string) (*MuteLookup, error) {
	records, _, err := mm.table.Load(ctx, mm.key())
	if err != nil {
		return nil, err
	}

	res := &MuteLookup{}
	for i := range records {
		if records[i].GuildID != guildID {
			continue
		}
		res.SearchGuild = true
		if records[i].UserID == userID {
			rec := records[i]
			res.SearchUser = true
			res.Status = true
			res.Data = &rec
			break
		}
	}
	return res, nil
}

// GetAll returns every mute of member across all guilds
func (mm *MuteManager) GetAll(ctx context.Context, member *discordgo.Member) ([]MuteRecord, error) {
	if !mm.m.opts.MuteManager {
		return nil, errManagerDisabled("MuteManager")
	}
	userID := memberID(member)
	if userID == "" {
		return nil, errParameterMissing("member")
	}

	records, _, err := mm.table.Load(ctx, mm.key())
	if err != nil {
		return nil, err
	}
	out := make([]MuteRecord, 0)
	for _, r := range records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Guild returns every active mute of a guild
func (mm *MuteManager) Guild(ctx context.Context, guildID string) ([]MuteRecord, error) {
	if !mm.m.opts.MuteManager {
		return nil, errManagerDisabled("MuteManager")
	}
	records, _, err := mm.table.Load(ctx, mm.key())
	if err != nil {
		return nil, err
	}
	out := make([]MuteRecord, 0)
	for _, r := range records {
		if r.GuildID == guildID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Remove unmutes member. Unlike Add, a failure to remove the role is returned
// and the record is kept.
func (mm *MuteManager) Remove(ctx context.Context, member *discordgo.Member) (*MuteRecord, error) {
	if !mm.m.opts.MuteManager {
		return nil, errManagerDisabled("MuteManager")
	}
	if memberID(member) == "" || member.GuildID == "" {
		return nil, errParameterMissing("member")
	}

	bot, err := mm.m.guard.Require(ctx, member.GuildID, discordgo.PermissionManageRoles)
	if err != nil {
		return nil, err
	}

	found, err := mm.lookup(ctx, member.GuildID, member.User.ID)
	if err != nil {
		return nil, err
	}
	if !found.Status {
		return nil, errUser(KindUserNotMuted, member.User.ID)
	}
	record := *found.Data

	if role := bot.Role(record.MuteRoleID); role != nil {
		if !bot.OutranksRole(role) {
			return nil, ErrMissingAccess
		}
		if err := mm.m.host.RemoveRole(ctx, record.GuildID, record.UserID, record.MuteRoleID); err != nil {
			return nil, fmt.Errorf("removing mute role: %w", err)
		}
	}

	removed, err := mm.deleteRecord(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	// the sweep ended it meanwhile and already published muteEnded
	if !removed {
		return nil, errUser(KindUserNotMuted, record.UserID)
	}

	mm.m.bus.Emit(EventRemoveMute, record)
	return &record, nil
}

// deleteRecord drops the record with id and reports whether it was still there
func (mm *MuteManager) deleteRecord(ctx context.Context, id string) (bool, error) {
	removed := false
	_, err := mm.table.Mutate(ctx, mm.key(), func(records []MuteRecord, found bool) ([]MuteRecord, error) {
		out := make([]MuteRecord, 0, len(records))
		for _, r := range records {
			if r.ID == id {
				removed = true
				continue
			}
			out = append(out, r)
		}
		if !found {
			return nil, nil
		}
		return out, nil
	})
	return removed, err
}

// ClearGuild drops every mute record of a guild without touching roles
func (mm *MuteManager) ClearGuild(ctx context.Context, guildID string) (bool, error) {
	if !mm.m.opts.MuteManager {
		return false, errManagerDisabled("MuteManager")
	}
	if guildID == "" {
		return false, errParameterMissing("guild")
	}

	cleared := false
	_, err := mm.table.Mutate(ctx, mm.key(), func(records []MuteRecord, found bool) ([]MuteRecord, error) {
		out := make([]MuteRecord, 0, len(records))
		for _, r := range records {
			if r.GuildID == guildID {
				cleared = true
				continue
			}
			out = append(out, r)
		}
		if !found {
			return nil, nil
		}
		return out, nil
	})
	return cleared, err
}

// ClearAll drops the whole mute table
func (mm *MuteManager) ClearAll(ctx context.Context) (bool, error) {
	if !mm.m.opts.MuteManager {
		return false, errManagerDisabled("MuteManager")
	}
	records, found, err := mm.table.Load(ctx, mm.key())
	if err != nil || !found {
		return false, err
	}
	if _, err := mm.table.Delete(ctx, mm.key()); err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

// Sweep ends every temporary mute whose duration has elapsed and returns how
// many ended. Mutes that cannot be lifted yet are left for the next sweep.
func (mm *MuteManager) Sweep(ctx context.Context) (int, error) {
	records, _, err := mm.table.Load(ctx, mm.key())
	if err != nil {
		return 0, err
	}

	now := mm.m.now()
	ended := 0
	for _, r := range records {
		if !r.Expired(now) {
			continue
		}
		if mm.expire(ctx, r) {
			ended++
		}
	}
	return ended, nil
}

func (mm *MuteManager) expire(ctx context.Context, r MuteRecord) bool {
	member, err := mm.m.host.Member(ctx, r.GuildID, r.UserID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo obtener al miembro %s de %s: %v", r.UserID, r.GuildID, err), "MuteSweep")
		return false
	}

	if member != nil && hasRole(member, r.MuteRoleID) {
		bot, err := mm.m.guard.Bot(ctx, r.GuildID)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudo resolver el bot en %s: %v", r.GuildID, err), "MuteSweep")
			return false
		}
		if role := bot.Role(r.MuteRoleID); role != nil {
			if !bot.OutranksRole(role) || !bot.Has(discordgo.PermissionManageRoles) {
				logger.Warn(fmt.Sprintf("Sin acceso para quitar el rol %s en %s, se reintentará", r.MuteRoleID, r.GuildID), "MuteSweep")
				return false
			}
			if err := mm.m.host.RemoveRole(ctx, r.GuildID, r.UserID, r.MuteRoleID); err != nil {
				logger.Warn(fmt.Sprintf("No se pudo quitar el rol de silencio a %s: %v", r.UserID, err), "MuteSweep")
				return false
			}
		}
	}

	removed, err := mm.deleteRecord(ctx, r.ID)
	if err != nil {
		logger.Error(fmt.Sprintf("No se pudo borrar el silencio %s: %v", r.ID, err), "MuteSweep")
		return false
	}
	if !removed {
		return false
	}

	mm.m.bus.Emit(EventMuteEnded, r)
	logger.Debug(fmt.Sprintf("Silencio de %s en %s terminado", r.UserID, r.GuildID), "MuteSweep")
	return true
}

// OnMemberJoin gives the mute role back to a member who rejoins while muted
func (mm *MuteManager) OnMemberJoin(ctx context.Context, member *discordgo.Member) error {
	if !mm.m.opts.MuteManager || !mm.m.opts.Mute.MuteOnJoin {
		return nil
	}
	if memberID(member) == "" || member.GuildID == "" {
		return errParameterMissing("member")
	}

	found, err := mm.lookup(ctx, member.GuildID, member.User.ID)
	if err != nil || !found.Status {
		return err
	}
	if hasRole(member, found.Data.MuteRoleID) {
		return nil
	}

	bot, err := mm.m.guard.Require(ctx, member.GuildID, discordgo.PermissionManageRoles)
	if err != nil {
		return err
	}
	if role := bot.Role(found.Data.MuteRoleID); role == nil {
		return errRoleNotFound(found.Data.MuteRoleID)
	} else if !bot.OutranksRole(role) {
		return ErrMissingAccess
	}
	return mm.m.host.AddRole(ctx, member.GuildID, member.User.ID, found.Data.MuteRoleID)
}

func findMute(records []MuteRecord, guildID, userID string) int {
	for i, r := range records {
		if r.GuildID == guildID && r.UserID == userID {
			return i
		}
	}
	return -1
}
