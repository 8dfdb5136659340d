package moderator

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/PancyStudios/PancyModeratorGo/pkg/store"
	"github.com/bwmarrin/discordgo"
)

// BlacklistReason is the audit reason used when a blacklisted user joins
const BlacklistReason = "Discovered on the Blacklist by Moderator!"

// BlacklistManager keeps per guild block lists under "<blacklistTable>.<guildID>"
type BlacklistManager struct {
	m     *Moderator
	table *store.Table[BlockRecord]
}

func newBlacklistManager(m *Moderator) *BlacklistManager {
	return &BlacklistManager{
		m:     m,
		table: store.NewTable[BlockRecord](m.store, m.locks),
	}
}

func (bm *BlacklistManager) key(guildID string) string {
	return store.Path(bm.m.opts.Blacklist.TableName, guildID)
}

func (bm *BlacklistManager) check(guildID, userID string) error {
	if !bm.m.opts.BlacklistManager {
		return errManagerDisabled("BlacklistManager")
	}
	if guildID == "" {
		return errParameterMissing("guild")
	}
	if userID == "" {
		return errParameterMissing("user")
	}
	return nil
}

// Add blacklists userID in guildID
func (bm *BlacklistManager) Add(ctx context.Context, guildID, userID, reason, blockedBy string) (*BlockRecord, error) {
	if err := bm.check(guildID, userID); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, errParameterMissing("reason")
	}
	if blockedBy == "" {
		return nil, errParameterMissing("author")
	}

	var record BlockRecord
	_, err := bm.table.Mutate(ctx, bm.key(guildID), func(blocks []BlockRecord, _ bool) ([]BlockRecord, error) {
		if findBlock(blocks, userID) >= 0 {
			return nil, errUser(KindUserAlreadyBlocked, userID)
		}
		record = BlockRecord{
			GuildID:     guildID,
			UserID:      userID,
			BlockNumber: len(blocks) + 1,
			Reason:      reason,
			BlockedBy:   blockedBy,
			IssuedAt:    bm.m.now().UnixMilli(),
		}
		return append(blocks, record), nil
	})
	if err != nil {
		return nil, err
	}

	bm.m.bus.Emit(EventAddBlock, record)
	return &record, nil
}

// Get returns the block of userID, or nil when they are not blacklisted
func (bm *BlacklistManager) Get(ctx context.Context, guildID, userID string) (*BlockRecord, error) {
	if err := bm.check(guildID, userID); err != nil {
		return nil, err
	}
	blocks, _, err := bm.table.Load(ctx, bm.key(guildID))
	if err != nil {
		return nil, err
	}
	if i := findBlock(blocks, userID); i >= 0 {
		return &blocks[i], nil
	}
	return nil, nil
}

// GetAll returns the block list of a guild
func (bm *BlacklistManager) GetAll(ctx context.Context, guildID string) ([]BlockRecord, error) {
	if !bm.m.opts.BlacklistManager {
		return nil, errManagerDisabled("BlacklistManager")
	}
	if guildID == "" {
		return nil, errParameterMissing("guild")
	}
	blocks, _, err := bm.table.Load(ctx, bm.key(guildID))
	if err != nil {
		return nil, err
	}
	if blocks == nil {
		blocks = []BlockRecord{}
	}
	return blocks, nil
}

// Remove takes userID off the block list and renumbers the remaining blocks
func (bm *BlacklistManager) Remove(ctx context.Context, guildID, userID string) (*BlockRecord, error) {
	if err := bm.check(guildID, userID); err != nil {
		return nil, err
	}

	var removed BlockRecord
	_, err := bm.table.Mutate(ctx, bm.key(guildID), func(blocks []BlockRecord, _ bool) ([]BlockRecord, error) {
		i := findBlock(blocks, userID)
		if i < 0 {
			return nil, errUser(KindUserNotBlocked, userID)
		}
		removed = blocks[i]
		out := append(blocks[:i:i], blocks[i+1:]...)
		if len(out) == 0 {
			return nil, nil
		}
		for n := range out {
			out[n].BlockNumber = n + 1
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	bm.m.bus.Emit(EventRemoveBlock, removed)
	return &removed, nil
}

// ClearGuild drops the block list of a guild
func (bm *BlacklistManager) ClearGuild(ctx context.Context, guildID string) (bool, error) {
	if !bm.m.opts.BlacklistManager {
		return false, errManagerDisabled("BlacklistManager")
	}
	if guildID == "" {
		return false, errParameterMissing("guild")
	}
	return bm.table.Delete(ctx, bm.key(guildID))
}

// ClearAll drops every block list
func (bm *BlacklistManager) ClearAll(ctx context.Context) (bool, error) {
	if !bm.m.opts.BlacklistManager {
		return false, errManagerDisabled("BlacklistManager")
	}
	return bm.table.Delete(ctx, bm.m.opts.Blacklist.TableName)
}

// OnMemberJoin kicks or bans a joining member who is blacklisted.
// It reports whether the member was punished.
func (bm *BlacklistManager) OnMemberJoin(ctx context.Context, member *discordgo.Member) (bool, error) {
	if !bm.m.opts.BlacklistManager {
		return false, nil
	}
	if memberID(member) == "" || member.GuildID == "" {
		return false, errParameterMissing("member")
	}

	block, err := bm.Get(ctx, member.GuildID, member.User.ID)
	if err != nil || block == nil {
		return false, err
	}

	if bm.m.opts.Blacklist.Punishment == PunishKick {
		err = bm.m.Punishments.Kick(ctx, member, BlacklistReason, block.BlockedBy)
	} else {
		err = bm.m.Punishments.Ban(ctx, member, BlacklistReason, block.BlockedBy)
	}
	if err != nil {
		return false, err
	}

	logger.Info(fmt.Sprintf("Usuario en lista negra %s expulsado de %s", member.User.ID, member.GuildID), "Blacklist")
	return true, nil
}

func findBlock(blocks []BlockRecord, userID string) int {
	for i, b := range blocks {
		if b.UserID == userID {
			return i
		}
	}
	return -1
}
