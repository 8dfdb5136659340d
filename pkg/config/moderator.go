package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
)

// LoadModeratorOptions reads the moderation options file at path.
// A missing file yields the defaults; a malformed one is an error.
func LoadModeratorOptions(path string) (moderator.Options, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return moderator.DefaultOptions(), nil
		}
		return moderator.Options{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return moderator.ParseOptions(raw)
}

// ParseModeratorOptions decodes moderation options from TOML text
func ParseModeratorOptions(data string) (moderator.Options, error) {
	var raw map[string]any
	if _, err := toml.Decode(data, &raw); err != nil {
		return moderator.Options{}, fmt.Errorf("config: decoding moderator options: %w", err)
	}
	return moderator.ParseOptions(raw)
}
