// Package config loads environment variables and provides a typed Config.
// It applies sensible defaults so the binary can run locally with minimal
// setup; required chat credentials are checked by ValidateChatReady.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/idflores/twitch-irc/internal/security"
)

// DefaultServerAddr is the standard TLS chat endpoint.
const DefaultServerAddr = "irc.chat.twitch.tv:6697"

type Config struct {
	Nick       string
	OAuthToken string
	Channels   []string

	ServerAddr string
	TLS        bool

	Verbose     bool
	Notify      bool
	MetricsAddr string
}

// Load reads environment variables and applies defaults. When no token is
// set in the environment, the OS keychain is consulted; a missing token is
// not an error here (anonymous read-only sessions are valid), use
// ValidateChatReady when sending is required.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Nick = strings.ToLower(strings.TrimSpace(os.Getenv("TWITCH_NICK")))

	token := os.Getenv("TWITCH_OAUTH_TOKEN")
	if token == "" && cfg.Nick != "" {
		// No keychain backend (headless hosts) just means no stored token.
		if stored, err := security.NewKeychain().GetToken(cfg.Nick); err == nil {
			token = stored
		}
	}
	if token != "" && !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}
	cfg.OAuthToken = token

	if v := os.Getenv("TWITCH_CHANNELS"); v != "" {
		for _, ch := range strings.Split(v, ",") {
			if ch = strings.TrimSpace(ch); ch != "" {
				cfg.Channels = append(cfg.Channels, ch)
			}
		}
	}

	cfg.ServerAddr = os.Getenv("TWITCH_IRC_ADDR")
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = DefaultServerAddr
	}
	cfg.TLS = os.Getenv("TWITCH_IRC_PLAINTEXT") == ""

	cfg.Verbose = os.Getenv("CHAT_VERBOSE") != ""
	cfg.Notify = os.Getenv("CHAT_NOTIFY") != ""
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	return cfg, nil
}

// ValidateChatReady checks the fields required for an authenticated
// session that can send chat.
func (c *Config) ValidateChatReady() error {
	if c.Nick == "" || c.OAuthToken == "" {
		return fmt.Errorf("missing twitch env: require TWITCH_NICK and TWITCH_OAUTH_TOKEN (or a keychain token)")
	}
	return nil
}
