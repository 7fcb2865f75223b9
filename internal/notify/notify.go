// Package notify raises desktop notifications for chat mentions.
package notify

import (
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"

	"github.com/idflores/twitch-irc/internal/events"
	"github.com/idflores/twitch-irc/internal/logger"
)

// MentionNotifier is an event bus subscriber that notifies when a chat
// line mentions the configured nick.
type MentionNotifier struct {
	nick string
}

// New creates a notifier for the given nick.
func New(nick string) *MentionNotifier {
	return &MentionNotifier{nick: strings.ToLower(strings.TrimSpace(nick))}
}

// OnEvent implements events.Subscriber for chat message events.
func (n *MentionNotifier) OnEvent(event events.Event) {
	if n.nick == "" {
		return
	}
	text, _ := event.Data["text"].(string)
	if !strings.Contains(strings.ToLower(text), n.nick) {
		return
	}
	channel, _ := event.Data["channel"].(string)
	user, _ := event.Data["user"].(string)

	title := fmt.Sprintf("%s in #%s", user, channel)
	if err := beeep.Notify(title, text, ""); err != nil {
		logger.Log.Debug().Err(err).Msg("Desktop notification failed")
	}
}
