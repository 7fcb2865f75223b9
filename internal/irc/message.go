package irc

import (
	"fmt"
	"strings"
)

// Server identities seen on the wire. Twitch emits modern messages from
// tmi.twitch.tv and a narrow set of legacy moderation events from jtv.
const (
	HostTMI = "tmi.twitch.tv"
	HostJTV = "jtv"
)

// Message is a single parsed protocol line. Fields are populated once
// during parsing and never mutated afterward; Err is terminal and mutually
// exclusive with the semantic fields. Raw is always retained.
type Message struct {
	Raw       string
	Host      string
	Tag       string
	Meta      string
	MetaHost  string
	Channel   string
	Message   string
	Status    string
	User      string
	JTVAction string
	Err       error
}

// ChatMessage is the reduced chat-only view of a PRIVMSG line.
type ChatMessage struct {
	Channel string
	User    string
	Text    string
}

// IsChat reports whether the message carries channel chat text.
func (m Message) IsChat() bool { return m.Tag == "PRIVMSG" }

// Chat reduces the message to its chat-only view. The sender is the parsed
// prefix nickname when present, otherwise the legacy-style user field.
func (m Message) Chat() ChatMessage {
	user := m.MetaHost
	if user == "" {
		user = m.User
	}
	return ChatMessage{Channel: m.Channel, User: user, Text: m.Message}
}

// Parse classifies one delimiter-stripped line under one of the two server
// dialects and extracts its fields. It never fails to the caller: a line
// that matches neither dialect yields a Message with only Raw and Err set.
func Parse(line string) Message {
	msg := Message{Raw: line}
	switch {
	case strings.Contains(line, HostTMI):
		parseStandard(&msg, line)
	case strings.Contains(line, HostJTV):
		parseLegacy(&msg, line)
	default:
		msg.Err = fmt.Errorf("%w: %q", ErrUnknownDialect, line)
	}
	return msg
}

// parseStandard handles the modern dialect: colon-prefixed sender and
// message segments positioned around the tmi.twitch.tv anchor. Each step
// trims what it matched from the remainder; a step that finds nothing
// leaves its field empty and the remainder untouched.
func parseStandard(m *Message, line string) {
	m.Host = HostTMI

	// Keepalives carry nothing else worth extracting.
	if strings.Contains(line, "PING") {
		m.Tag = "PING"
		return
	}

	anchor := strings.Index(line, HostTMI)
	colon := strings.Index(line, ":")

	if colon > 0 {
		m.Meta = line[:colon]
	}
	if colon >= 0 && anchor > colon+1 {
		sender := line[colon+1 : anchor]
		if bang := strings.IndexByte(sender, '!'); bang >= 0 {
			sender = sender[:bang]
		}
		m.MetaHost = sender
	}

	rest := line[anchor+len(HostTMI):]
	if i := strings.Index(rest, ":"); i >= 0 {
		m.Message = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		channel := rest[i+1:]
		if j := strings.IndexByte(channel, ' '); j >= 0 {
			channel = channel[:j]
		}
		m.Channel = channel
		rest = rest[:i]
	}

	tokens := strings.Fields(rest)
	if len(tokens) > 0 && isStatusCode(tokens[0]) {
		m.Status = tokens[0]
		tokens = tokens[1:]
	}
	if len(tokens) > 0 && !isCommandToken(tokens[0]) {
		m.User = tokens[0]
		tokens = tokens[1:]
	}
	if len(tokens) > 0 {
		m.Tag = tokens[0]
	}
}

// parseLegacy handles the jtv dialect: fixed positional fields split on
// single spaces. A short line leaves the trailing fields empty; it is not
// an error.
func parseLegacy(m *Message, line string) {
	tokens := strings.Split(line, " ")
	if len(tokens) > 0 {
		m.Host = strings.TrimPrefix(tokens[0], ":")
	}
	if len(tokens) > 1 {
		m.Tag = tokens[1]
	}
	if len(tokens) > 2 {
		m.Channel = strings.TrimPrefix(tokens[2], "#")
	}
	if len(tokens) > 3 {
		m.JTVAction = tokens[3]
	}
	if len(tokens) > 4 {
		m.User = tokens[4]
	}
}

func isStatusCode(token string) bool {
	if len(token) != 3 {
		return false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return false
		}
	}
	return true
}

// Commands are always upper-case and at least three characters; anything
// else in command position is a sender nickname.
func isCommandToken(token string) bool {
	return len(token) >= 3 && token == strings.ToUpper(token)
}
