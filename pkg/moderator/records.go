package moderator

import "time"

// MuteRecord is one mute issued to a member. Duration is nil for indefinite mutes.
type MuteRecord struct {
	ID         string `json:"id"`
	GuildID    string `json:"guildId"`
	UserID     string `json:"userId"`
	ChannelID  string `json:"channelId"`
	MuteRoleID string `json:"muteRoleId"`
	IssuedAt   int64  `json:"issuedAt"`
	Duration   *int64 `json:"duration"`
	Reason     string `json:"reason,omitempty"`
}

// ExpiresAt returns when a temporary mute ends
func (r MuteRecord) ExpiresAt() (time.Time, bool) {
	if r.Duration == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(r.IssuedAt + *r.Duration), true
}

// Expired reports whether a temporary mute has run its full duration at now
func (r MuteRecord) Expired(now time.Time) bool {
	return r.Duration != nil && now.UnixMilli()-r.IssuedAt >= *r.Duration
}

// MuteLookup is the result of MuteManager.Get. SearchGuild and SearchUser tell
// whether the guild had any mute at all and whether the user was found in it.
type MuteLookup struct {
	Status      bool        `json:"status"`
	SearchGuild bool        `json:"searchGuild"`
	SearchUser  bool        `json:"searchUser"`
	Data        *MuteRecord `json:"data"`
}

// WarnRecord is one warning. SequenceNumber is 1-based and contiguous per member.
type WarnRecord struct {
	GuildID        string `json:"guildId"`
	UserID         string `json:"userId"`
	ChannelID      string `json:"channelId"`
	IssuedBy       string `json:"issuedBy"`
	SequenceNumber int    `json:"sequenceNumber"`
	IssuedAt       int64  `json:"issuedAt"`
	Reason         string `json:"reason"`
}

// WarnResult is returned by WarnManager.Add
type WarnResult struct {
	Status bool       `json:"status"`
	Data   WarnRecord `json:"data"`
}

// WarnList is every warning of a member
type WarnList struct {
	Warns int          `json:"warns"`
	Data  []WarnRecord `json:"data"`
}

// WarnRemoval is returned by WarnManager.Remove and published as removeWarn
type WarnRemoval struct {
	Status  bool         `json:"status"`
	GuildID string       `json:"guildId"`
	UserID  string       `json:"userId"`
	Warns   int          `json:"warns"`
	Data    []WarnRecord `json:"data"`
}

// BlockRecord is one blacklisted user of a guild
type BlockRecord struct {
	GuildID     string `json:"guildId"`
	UserID      string `json:"userId"`
	BlockNumber int    `json:"blockNumber"`
	Reason      string `json:"reason"`
	BlockedBy   string `json:"blockedBy"`
	IssuedAt    int64  `json:"issuedAt"`
}

// PunishmentEvent is published on kick, ban and unban
type PunishmentEvent struct {
	GuildID  string `json:"guildId"`
	UserID   string `json:"userId"`
	Reason   string `json:"reason"`
	AuthorID string `json:"authorId"`
}

// PunishResult is returned by PunishmentManager.Punish
type PunishResult struct {
	Status bool           `json:"status"`
	Data   PunishmentData `json:"data"`
}

// PunishmentData describes the punishment that was applied
type PunishmentData struct {
	PunishType PunishmentKind `json:"punishType"`
	UserID     string         `json:"userId"`
	Reason     string         `json:"reason"`
}
