package moderator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/PancyStudios/PancyModeratorGo/pkg/store"
	"github.com/bwmarrin/discordgo"
)

// WarnManager records warnings under "<warnTable>.<guildID>.<userID>" and
// escalates to the configured punishment once a member reaches MaxWarns.
type WarnManager struct {
	m     *Moderator
	table *store.Table[WarnRecord]
}

func newWarnManager(m *Moderator) *WarnManager {
	return &WarnManager{
		m:     m,
		table: store.NewTable[WarnRecord](m.store, m.locks),
	}
}

func (wm *WarnManager) key(guildID, userID string) string {
	return store.Path(wm.m.opts.Warn.TableName, guildID, userID)
}

func (wm *WarnManager) check(member *discordgo.Member) error {
	if !wm.m.opts.WarnManager {
		return errManagerDisabled("WarnManager")
	}
	if memberID(member) == "" || member.GuildID == "" {
		return errParameterMissing("member")
	}
	return nil
}

// Add records a warning. When the member reaches MaxWarns the punishment runs
// in the background; Add returns as soon as the warning is stored.
func (wm *WarnManager) Add(ctx context.Context, member *discordgo.Member, channelID, reason, issuedBy, muteRoleID string) (*WarnResult, error) {
	if err := wm.check(member); err != nil {
		return nil, err
	}
	switch {
	case channelID == "":
		return nil, errParameterMissing("channel")
	case reason == "":
		return nil, errParameterMissing("reason")
	case issuedBy == "":
		return nil, errParameterMissing("author")
	case muteRoleID == "":
		return nil, errParameterMissing("muteRole")
	}

	var record WarnRecord
	items, err := wm.table.Mutate(ctx, wm.key(member.GuildID, member.User.ID), func(warns []WarnRecord, _ bool) ([]WarnRecord, error) {
		record = WarnRecord{
			GuildID:        member.GuildID,
			UserID:         member.User.ID,
			ChannelID:      channelID,
			IssuedBy:       issuedBy,
			SequenceNumber: len(warns) + 1,
			IssuedAt:       wm.m.now().UnixMilli(),
			Reason:         reason,
		}
		return append(warns, record), nil
	})
	if err != nil {
		return nil, err
	}

	wm.m.bus.Emit(EventAddWarn, record)

	if len(items) >= wm.m.opts.Warn.MaxWarns {
		target := *member
		started := wm.m.goPending(func() {
			ctx := context.WithoutCancel(ctx)
			if _, err := wm.m.Punishments.Punish(ctx, &target, channelID, muteRoleID, issuedBy); err != nil {
				logger.Warn(fmt.Sprintf("No se pudo castigar a %s en %s: %v", target.User.ID, target.GuildID, err), "Warns")
			}
		})
		if !started {
			logger.Warn(fmt.Sprintf("Moderador detenido, no se castiga a %s en %s", target.User.ID, target.GuildID), "Warns")
		}
	}

	return &WarnResult{Status: true, Data: record}, nil
}

// Get returns warning number seq of member
func (wm *WarnManager) Get(ctx context.Context, member *discordgo.Member, seq int) (*WarnRecord, error) {
	if err := wm.check(member); err != nil {
		return nil, err
	}
	if seq <= 0 {
		return nil, errParameterMissing("warnID")
	}

	warns, found, err := wm.table.Load(ctx, wm.key(member.GuildID, member.User.ID))
	if err != nil {
		return nil, err
	}
	if !found || len(warns) == 0 {
		return nil, errUser(KindNoWarnData, member.User.ID)
	}
	for _, w := range warns {
		if w.SequenceNumber == seq {
			return &w, nil
		}
	}
	return nil, &Error{Kind: KindWarnNotFound, ID: strconv.Itoa(seq), UserID: member.User.ID}
}

// GetAll returns every warning of member. No warnings is not an error.
func (wm *WarnManager) GetAll(ctx context.Context, member *discordgo.Member) (*WarnList, error) {
	if err := wm.check(member); err != nil {
		return nil, err
	}

	warns, _, err := wm.table.Load(ctx, wm.key(member.GuildID, member.User.ID))
	if err != nil {
		return nil, err
	}
	if warns == nil {
		warns = []WarnRecord{}
	}
	return &WarnList{Warns: len(warns), Data: warns}, nil
}

// Remove drops the most recent warning of member. A member left with a single
// warning loses the whole set.
func (wm *WarnManager) Remove(ctx context.Context, member *discordgo.Member) (*WarnRemoval, error) {
	if err := wm.check(member); err != nil {
		return nil, err
	}

	removed := false
	items, err := wm.table.Mutate(ctx, wm.key(member.GuildID, member.User.ID), func(warns []WarnRecord, found bool) ([]WarnRecord, error) {
		if !found || len(warns) == 0 {
			return nil, nil
		}
		removed = true
		if len(warns) < 2 {
			return nil, nil
		}
		return warns[:len(warns)-1], nil
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []WarnRecord{}
	}

	res := &WarnRemoval{
		Status:  removed,
		GuildID: member.GuildID,
		UserID:  member.User.ID,
		Warns:   len(items),
		Data:    items,
	}
	if removed {
		wm.m.bus.Emit(EventRemoveWarn, *res)
	}
	return res, nil
}

// Clear drops every warning of member
func (wm *WarnManager) Clear(ctx context.Context, member *discordgo.Member) (bool, error) {
	if err := wm.check(member); err != nil {
		return false, err
	}
	return wm.table.Delete(ctx, wm.key(member.GuildID, member.User.ID))
}

// ClearGuild drops every warning of a guild
func (wm *WarnManager) ClearGuild(ctx context.Context, guildID string) (bool, error) {
	if !wm.m.opts.WarnManager {
		return false, errManagerDisabled("WarnManager")
	}
	if guildID == "" {
		return false, errParameterMissing("guild")
	}
	return wm.table.Delete(ctx, store.Path(wm.m.opts.Warn.TableName, guildID))
}

// ClearAll drops the whole warn table
func (wm *WarnManager) ClearAll(ctx context.Context) (bool, error) {
	if !wm.m.opts.WarnManager {
		return false, errManagerDisabled("WarnManager")
	}
	return wm.table.Delete(ctx, wm.m.opts.Warn.TableName)
}

// Guild returns the warnings of every warned member of a guild keyed by user id
func (wm *WarnManager) Guild(ctx context.Context, guildID string) (map[string][]WarnRecord, error) {
	if !wm.m.opts.WarnManager {
		return nil, errManagerDisabled("WarnManager")
	}
	prefix := store.Path(wm.m.opts.Warn.TableName, guildID)
	keys, err := wm.table.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]WarnRecord, len(keys))
	for _, k := range keys {
		if k == prefix {
			continue
		}
		warns, _, err := wm.table.Load(ctx, k)
		if err != nil {
			return nil, err
		}
		if len(warns) > 0 {
			out[warns[0].UserID] = warns
		}
	}
	return out, nil
}
