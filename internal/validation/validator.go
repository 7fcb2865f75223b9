package validation

import (
	"fmt"
	"strings"
)

// NormalizeChannelName lowers a channel name and strips surrounding
// whitespace and a leading '#'. Twitch channel names are login names and
// are always lower-case on the wire.
func NormalizeChannelName(channel string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(channel)), "#")
}

// ValidateChannelName validates a normalized Twitch channel name.
func ValidateChannelName(channel string) error {
	if channel == "" {
		return fmt.Errorf("channel name is required")
	}
	// Twitch login names are capped at 25 characters
	if len(channel) > 25 {
		return fmt.Errorf("channel name too long (max 25 characters)")
	}
	for _, r := range channel {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return fmt.Errorf("channel name contains invalid character %q", r)
		}
	}
	return nil
}

// ValidateNick validates the client's own nickname. The same lexical rules
// apply as for channel names.
func ValidateNick(nick string) error {
	if strings.TrimSpace(nick) == "" {
		return fmt.Errorf("nickname is required")
	}
	return ValidateChannelName(strings.ToLower(nick))
}
