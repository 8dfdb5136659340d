package moderator

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
)

// PunishmentKind is the action taken when a member reaches the warn limit
type PunishmentKind string

const (
	PunishTempMute PunishmentKind = "tempmute"
	PunishMute     PunishmentKind = "mute"
	PunishKick     PunishmentKind = "kick"
	PunishBan      PunishmentKind = "ban"
)

// Valid reports whether k is a known punishment kind
func (k PunishmentKind) Valid() bool {
	switch k {
	case PunishTempMute, PunishMute, PunishKick, PunishBan:
		return true
	}
	return false
}

const (
	DefaultMuteTable      = "mutes"
	DefaultWarnTable      = "warns"
	DefaultBlacklistTable = "blacklist"
	DefaultCheckInterval  = 10 * time.Second
	DefaultMuteDuration   = 24 * time.Hour
	MinMaxWarns           = 3
)

// MuteOptions configures the MuteManager
type MuteOptions struct {
	TableName     string
	CheckInterval time.Duration
	MuteOnJoin    bool
}

// WarnOptions configures the WarnManager and the punishment it escalates to
type WarnOptions struct {
	TableName    string
	MaxWarns     int
	Punishment   PunishmentKind
	MuteDuration time.Duration
}

// BlacklistOptions configures the BlacklistManager. Punishment is kick or ban.
type BlacklistOptions struct {
	TableName  string
	Punishment PunishmentKind
}

// Options toggles the managers and carries their settings
type Options struct {
	MuteManager      bool
	WarnManager      bool
	BlacklistManager bool

	Mute      MuteOptions
	Warn      WarnOptions
	Blacklist BlacklistOptions
}

// DefaultOptions enables every manager with the default settings
func DefaultOptions() Options {
	return Options{
		MuteManager:      true,
		WarnManager:      true,
		BlacklistManager: true,
		Mute: MuteOptions{
			TableName:     DefaultMuteTable,
			CheckInterval: DefaultCheckInterval,
			MuteOnJoin:    true,
		},
		Warn: WarnOptions{
			TableName:    DefaultWarnTable,
			MaxWarns:     MinMaxWarns,
			Punishment:   PunishBan,
			MuteDuration: DefaultMuteDuration,
		},
		Blacklist: BlacklistOptions{
			TableName:  DefaultBlacklistTable,
			Punishment: PunishBan,
		},
	}
}

// normalize replaces missing or out of range values with their defaults
func (o Options) normalize() Options {
	d := DefaultOptions()
	if o.Mute.TableName == "" {
		o.Mute.TableName = d.Mute.TableName
	}
	if o.Mute.CheckInterval <= 0 {
		o.Mute.CheckInterval = d.Mute.CheckInterval
	}
	if o.Warn.TableName == "" {
		o.Warn.TableName = d.Warn.TableName
	}
	if o.Warn.MaxWarns < MinMaxWarns {
		o.Warn.MaxWarns = MinMaxWarns
	}
	if !o.Warn.Punishment.Valid() {
		o.Warn.Punishment = d.Warn.Punishment
	}
	if o.Warn.MuteDuration <= 0 {
		o.Warn.MuteDuration = d.Warn.MuteDuration
	}
	if o.Blacklist.TableName == "" {
		o.Blacklist.TableName = d.Blacklist.TableName
	}
	if o.Blacklist.Punishment != PunishKick && o.Blacklist.Punishment != PunishBan {
		o.Blacklist.Punishment = d.Blacklist.Punishment
	}
	return o
}

// ParseOptions builds Options from a decoded configuration document such as a
// TOML file. Missing or unusable values fall back to their defaults; a value of
// the wrong type is a ConfigurationError.
//
//	muteManager = true
//	[muteConfig]
//	tableName = "mutes"
//	checkCountdown = "10s"
//	[warnConfig]
//	maxWarns = 3
//	punishment = "ban"
//	muteTime = "1d"
func ParseOptions(raw map[string]any) (Options, error) {
	opts := DefaultOptions()
	if raw == nil {
		return opts, nil
	}

	var err error
	if opts.MuteManager, err = boolOption(raw, "muteManager", "muteManager", opts.MuteManager); err != nil {
		return opts, err
	}
	if opts.WarnManager, err = boolOption(raw, "warnManager", "warnManager", opts.WarnManager); err != nil {
		return opts, err
	}
	if opts.BlacklistManager, err = boolOption(raw, "blacklistManager", "blacklistManager", opts.BlacklistManager); err != nil {
		return opts, err
	}

	mute, err := section(raw, "muteConfig")
	if err != nil {
		return opts, err
	}
	if opts.Mute.TableName, err = stringOption(mute, "muteConfig.tableName", "tableName", opts.Mute.TableName); err != nil {
		return opts, err
	}
	if opts.Mute.CheckInterval, err = durationOption(mute, "muteConfig.checkCountdown", "checkCountdown", opts.Mute.CheckInterval); err != nil {
		return opts, err
	}
	if opts.Mute.MuteOnJoin, err = boolOption(mute, "muteConfig.muteOnJoin", "muteOnJoin", opts.Mute.MuteOnJoin); err != nil {
		return opts, err
	}

	warn, err := section(raw, "warnConfig")
	if err != nil {
		return opts, err
	}
	if opts.Warn.TableName, err = stringOption(warn, "warnConfig.tableName", "tableName", opts.Warn.TableName); err != nil {
		return opts, err
	}
	if opts.Warn.MaxWarns, err = intOption(warn, "warnConfig.maxWarns", "maxWarns", opts.Warn.MaxWarns); err != nil {
		return opts, err
	}
	punishment, err := stringOption(warn, "warnConfig.punishment", "punishment", string(opts.Warn.Punishment))
	if err != nil {
		return opts, err
	}
	opts.Warn.Punishment = PunishmentKind(punishment)
	if opts.Warn.MuteDuration, err = durationOption(warn, "warnConfig.muteTime", "muteTime", opts.Warn.MuteDuration); err != nil {
		return opts, err
	}

	blacklist, err := section(raw, "blacklistConfig")
	if err != nil {
		return opts, err
	}
	if opts.Blacklist.TableName, err = stringOption(blacklist, "blacklistConfig.tableName", "tableName", opts.Blacklist.TableName); err != nil {
		return opts, err
	}
	punishment, err = stringOption(blacklist, "blacklistConfig.punishment", "punishment", string(opts.Blacklist.Punishment))
	if err != nil {
		return opts, err
	}
	opts.Blacklist.Punishment = PunishmentKind(punishment)

	if opts.Warn.MaxWarns < MinMaxWarns {
		logger.Warn(fmt.Sprintf("maxWarns=%d es menor que %d, se usará %d", opts.Warn.MaxWarns, MinMaxWarns, MinMaxWarns), "Moderator")
	}
	if !opts.Warn.Punishment.Valid() {
		logger.Warn(fmt.Sprintf("Castigo '%s' desconocido, se usará '%s'", opts.Warn.Punishment, PunishBan), "Moderator")
	}
	return opts.normalize(), nil
}

func section(raw map[string]any, name string) (map[string]any, error) {
	v, ok := raw[name]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errConfiguration(name, "a table")
	}
	return m, nil
}

func boolOption(raw map[string]any, name, key string, def bool) (bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return def, errConfiguration(name, "a boolean")
	}
	return b, nil
}

func stringOption(raw map[string]any, name, key, def string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return def, errConfiguration(name, "a string")
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

func intOption(raw map[string]any, name, key string, def int) (int, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return def, errConfiguration(name, "an integer")
		}
		return int(n), nil
	default:
		return def, errConfiguration(name, "an integer")
	}
}

// durationOption accepts a duration string or a number of milliseconds
func durationOption(raw map[string]any, name, key string, def time.Duration) (time.Duration, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return def, nil
	}
	switch d := v.(type) {
	case string:
		parsed, err := parsePositiveDuration(d)
		if err != nil {
			logger.Warn(fmt.Sprintf("'%s' no es una duración válida para %s, se usará %s", d, name, def), "Moderator")
			return def, nil
		}
		return parsed, nil
	case int64:
		return time.Duration(d) * time.Millisecond, nil
	case int:
		return time.Duration(d) * time.Millisecond, nil
	case float64:
		return time.Duration(d * float64(time.Millisecond)), nil
	default:
		return def, errConfiguration(name, "a duration string or milliseconds")
	}
}
