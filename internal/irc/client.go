package irc

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/idflores/twitch-irc/internal/constants"
	"github.com/idflores/twitch-irc/internal/events"
	"github.com/idflores/twitch-irc/internal/logger"
	"github.com/idflores/twitch-irc/internal/telemetry"
	"github.com/idflores/twitch-irc/internal/validation"
)

// maxLineLen is the serialization cap for outbound commands.
const maxLineLen = 512

// Transport is the connection collaborator. Write transmits raw bytes;
// Connected reports the connection state.
type Transport interface {
	Write(p []byte) error
	Connected() bool
}

// ChannelState is the lifecycle state of a single channel.
type ChannelState int

const (
	StateUnjoined ChannelState = iota
	StateJoining
	StateJoined
	StateAbandoned
)

func (s ChannelState) String() string {
	switch s {
	case StateJoining:
		return "joining"
	case StateJoined:
		return "joined"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unjoined"
	}
}

// Timing bundles the channel lifecycle cadences so tests can shrink them.
type Timing struct {
	JoinRetransmit time.Duration
	JoinPoll       time.Duration
	JoinTimeout    time.Duration
	ConnectRetry   time.Duration
}

// DefaultTiming returns the standard lifecycle cadences.
func DefaultTiming() Timing {
	return Timing{
		JoinRetransmit: constants.JoinRetransmitInterval,
		JoinPoll:       constants.JoinConfirmPollInterval,
		JoinTimeout:    constants.JoinTimeout,
		ConnectRetry:   constants.ConnectRetryDelay,
	}
}

// joinAttempt tracks one in-flight join. It is destroyed on confirmation,
// abandonment, or cancellation; closing cancel stops every timer the
// attempt owns.
type joinAttempt struct {
	channel   string
	startedAt time.Time
	cancel    chan struct{}
	once      sync.Once
}

func (a *joinAttempt) stop() {
	a.once.Do(func() { close(a.cancel) })
}

// Client manages a single Twitch IRC session: it frames and parses the
// inbound byte stream, keeps the bounded message history, drives the
// per-channel join/part lifecycle, and publishes events on the bus.
type Client struct {
	nick      string
	token     string
	transport Transport
	eventBus  *events.EventBus
	history   *HistoryBuffer
	framer    LineFramer

	mu        sync.Mutex
	connected bool
	joined    []string // join order; last entry is the default send target
	states    map[string]ChannelState
	attempts  map[string]*joinAttempt
	timing    Timing
	closed    bool
}

// NewClient creates a client. The token may be empty for anonymous
// read-only sessions.
func NewClient(nick, token string, transport Transport, eventBus *events.EventBus) *Client {
	telemetry.Init()
	return &Client{
		nick:      strings.ToLower(strings.TrimSpace(nick)),
		token:     token,
		transport: transport,
		eventBus:  eventBus,
		history:   NewHistoryBuffer(),
		states:    make(map[string]ChannelState),
		attempts:  make(map[string]*joinAttempt),
		timing:    DefaultTiming(),
	}
}

// SetTiming overrides the lifecycle cadences. Call before any join.
func (c *Client) SetTiming(t Timing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timing = t
}

// Bus returns the client's event bus for direct subscription.
func (c *Client) Bus() *events.EventBus { return c.eventBus }

// Subscribe registers a subscriber for the chat-only view: PRIVMSG lines
// reduced to channel, sender, and text.
func (c *Client) Subscribe(sub events.Subscriber) {
	c.eventBus.Subscribe(EventChatMessage, sub)
}

// SubscribeVerbose registers a subscriber for every parsed line.
func (c *Client) SubscribeVerbose(sub events.Subscriber) {
	c.eventBus.Subscribe(EventMessageReceived, sub)
}

// Connected reports whether the transport signalled an established
// connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// ChannelState returns the lifecycle state of a channel.
func (c *Client) ChannelState(channel string) ChannelState {
	channel = validation.NormalizeChannelName(channel)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[channel]
}

// JoinedChannels returns the joined channels in join order.
func (c *Client) JoinedChannels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.joined...)
}

// History returns every retained message in arrival order.
func (c *Client) History() []Message {
	return c.history.All()
}

// ChatHistory returns the retained PRIVMSG lines reduced to their
// chat-only view.
func (c *Client) ChatHistory() []ChatMessage {
	chat := c.history.Filter(Message.IsChat)
	out := make([]ChatMessage, 0, len(chat))
	for _, m := range chat {
		out = append(out, m.Chat())
	}
	return out
}

// HandleConnect is the transport's connected signal. It transmits the
// authentication lines and announces the session.
func (c *Client) HandleConnect() {
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	if c.token != "" {
		if err := c.writeCommand("PASS", c.token); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to send PASS")
		}
	}
	if err := c.writeCommand("NICK", c.nick); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to send NICK")
	}
	logger.Log.Info().Str("nick", c.nick).Msg("Connected to server")

	c.eventBus.Emit(events.Event{
		Type:      EventConnectionEstablished,
		Data:      map[string]interface{}{"nick": c.nick},
		Timestamp: time.Now(),
		Source:    events.EventSourceTransport,
	})
}

// HandleDisconnect is the transport's disconnected/error signal. Every
// outstanding join attempt is cancelled; channel membership is retained
// for inspection but the session is over.
func (c *Client) HandleDisconnect(err error) {
	c.mu.Lock()
	c.connected = false
	attempts := make([]*joinAttempt, 0, len(c.attempts))
	for _, att := range c.attempts {
		attempts = append(attempts, att)
		c.states[att.channel] = StateUnjoined
	}
	c.attempts = make(map[string]*joinAttempt)
	c.mu.Unlock()

	for _, att := range attempts {
		att.stop()
	}

	data := map[string]interface{}{"nick": c.nick}
	if err != nil {
		terr := &TransportError{Op: "read", Err: err}
		data["error"] = terr
		logger.Log.Error().Err(err).Msg("Connection lost")
		c.eventBus.Emit(events.Event{
			Type:      EventError,
			Data:      map[string]interface{}{"error": terr},
			Timestamp: time.Now(),
			Source:    events.EventSourceTransport,
		})
	} else {
		logger.Log.Info().Msg("Disconnected from server")
	}

	c.eventBus.Emit(events.Event{
		Type:      EventConnectionLost,
		Data:      data,
		Timestamp: time.Now(),
		Source:    events.EventSourceTransport,
	})
}

// HandleChunk is the transport's data-arrival callback. Chunk boundaries
// are arbitrary; every complete line the chunk yields is parsed, appended
// to history, and emitted before the callback returns, preserving arrival
// order.
func (c *Client) HandleChunk(chunk []byte) {
	for _, line := range c.framer.Feed(chunk) {
		c.handleLine(line)
	}
}

func (c *Client) handleLine(line string) {
	telemetry.IncLineFramed()
	msg := Parse(line)

	c.history.Append(msg)

	if msg.Err != nil {
		telemetry.IncParseError()
		logger.Log.Warn().Str("raw", msg.Raw).Msg("Unclassifiable line")
		return
	}

	if msg.Tag == "PING" {
		if err := c.writeTrailing("PONG", HostTMI); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to send PONG")
		}
	}

	c.eventBus.Emit(events.Event{
		Type:      EventMessageReceived,
		Data:      map[string]interface{}{"message": msg},
		Timestamp: time.Now(),
		Source:    events.EventSourceClient,
	})

	if msg.IsChat() {
		telemetry.IncChatEmitted()
		chat := msg.Chat()
		c.eventBus.Emit(events.Event{
			Type: EventChatMessage,
			Data: map[string]interface{}{
				"channel": chat.Channel,
				"user":    chat.User,
				"text":    chat.Text,
			},
			Timestamp: time.Now(),
			Source:    events.EventSourceClient,
		})
	}
}

// Join starts the join lifecycle for a channel. If the transport is not
// connected yet the whole call is deferred and retried after a fixed
// delay instead of failing. Confirmation is by observation: a JOIN-tagged
// history entry for the channel within the trailing confirmation window.
func (c *Client) Join(channel string) error {
	channel = validation.NormalizeChannelName(channel)
	if err := validation.ValidateChannelName(channel); err != nil {
		return &StateError{Op: "join", Channel: channel, Reason: err.Error()}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return &StateError{Op: "join", Channel: channel, Reason: "client closed"}
	}
	if c.states[channel] == StateJoined {
		c.mu.Unlock()
		return &StateError{Op: "join", Channel: channel, Reason: "already joined"}
	}
	if _, inFlight := c.attempts[channel]; inFlight {
		c.mu.Unlock()
		return &StateError{Op: "join", Channel: channel, Reason: "join already in progress"}
	}
	if !c.connected {
		retry := c.timing.ConnectRetry
		c.mu.Unlock()
		logger.Log.Debug().
			Str("channel", channel).
			Dur("retry_in", retry).
			Msg("Not connected yet, deferring join")
		time.AfterFunc(retry, func() {
			if err := c.Join(channel); err != nil {
				logger.Log.Debug().Err(err).Str("channel", channel).Msg("Deferred join not restarted")
			}
		})
		return nil
	}

	att := &joinAttempt{
		channel:   channel,
		startedAt: time.Now(),
		cancel:    make(chan struct{}),
	}
	c.attempts[channel] = att
	c.states[channel] = StateJoining
	c.mu.Unlock()

	logger.Log.Info().Str("channel", channel).Msg("Sending JOIN command for channel")
	if err := c.writeCommand("JOIN", "#"+channel); err != nil {
		c.mu.Lock()
		delete(c.attempts, channel)
		c.states[channel] = StateUnjoined
		c.mu.Unlock()
		return err
	}

	go c.superviseJoin(att)
	return nil
}

// superviseJoin owns the three timers of one join attempt: the JOIN
// retransmit, the confirmation poll, and the abandonment deadline. All
// three stop together when the attempt ends, however it ends.
func (c *Client) superviseJoin(att *joinAttempt) {
	c.mu.Lock()
	timing := c.timing
	c.mu.Unlock()

	retransmit := time.NewTicker(timing.JoinRetransmit)
	defer retransmit.Stop()
	poll := time.NewTicker(timing.JoinPoll)
	defer poll.Stop()
	deadline := time.NewTimer(timing.JoinTimeout)
	defer deadline.Stop()

	for {
		select {
		case <-att.cancel:
			return
		case <-retransmit.C:
			if err := c.writeCommand("JOIN", "#"+att.channel); err != nil {
				logger.Log.Debug().Err(err).Str("channel", att.channel).Msg("JOIN retransmit failed")
			}
		case <-poll.C:
			if c.joinConfirmed(att.channel) {
				c.completeJoin(att)
				return
			}
		case <-deadline.C:
			c.abandonJoin(att, timing.JoinTimeout)
			return
		}
	}
}

// joinConfirmed checks the trailing history window for a JOIN-tagged entry
// matching the channel.
func (c *Client) joinConfirmed(channel string) bool {
	for _, m := range c.history.TailWindow(constants.JoinConfirmWindow) {
		if m.Err == nil && m.Tag == "JOIN" && m.Channel == channel {
			return true
		}
	}
	return false
}

func (c *Client) completeJoin(att *joinAttempt) {
	att.stop()

	c.mu.Lock()
	if cur, ok := c.attempts[att.channel]; !ok || cur != att {
		// Attempt was cancelled while the poll fired.
		c.mu.Unlock()
		return
	}
	delete(c.attempts, att.channel)
	c.states[att.channel] = StateJoined
	c.joined = append(c.joined, att.channel)
	joined := len(c.joined)
	c.mu.Unlock()

	telemetry.IncJoinConfirmed()
	telemetry.SetJoinedChannels(joined)
	elapsed := time.Since(att.startedAt)
	logger.Log.Info().
		Str("channel", att.channel).
		Dur("elapsed", elapsed).
		Msg("Join confirmed")

	c.eventBus.Emit(events.Event{
		Type: EventChannelJoined,
		Data: map[string]interface{}{
			"channel": att.channel,
			"elapsed": elapsed,
		},
		Timestamp: time.Now(),
		Source:    events.EventSourceClient,
	})
}

func (c *Client) abandonJoin(att *joinAttempt, timeout time.Duration) {
	att.stop()

	c.mu.Lock()
	if cur, ok := c.attempts[att.channel]; !ok || cur != att {
		c.mu.Unlock()
		return
	}
	delete(c.attempts, att.channel)
	c.states[att.channel] = StateAbandoned
	c.mu.Unlock()

	telemetry.IncJoinAbandoned()
	err := &ProtocolTimeoutError{Channel: att.channel, Timeout: timeout}
	logger.Log.Warn().Str("channel", att.channel).Dur("timeout", timeout).Msg("Join abandoned, no confirmation observed")

	c.eventBus.Emit(events.Event{
		Type: EventChannelJoinAbandoned,
		Data: map[string]interface{}{
			"channel": att.channel,
			"error":   err,
		},
		Timestamp: time.Now(),
		Source:    events.EventSourceClient,
	})
}

// Leave parts a channel. An empty channel resolves to the most recently
// joined one. Leaving a channel that is not joined is a state error and
// transmits nothing.
func (c *Client) Leave(channel string) error {
	channel = validation.NormalizeChannelName(channel)

	c.mu.Lock()
	if channel == "" {
		if len(c.joined) == 0 {
			c.mu.Unlock()
			return &StateError{Op: "leave", Reason: "no joined channels"}
		}
		channel = c.joined[len(c.joined)-1]
	}
	if c.states[channel] != StateJoined {
		c.mu.Unlock()
		return &StateError{Op: "leave", Channel: channel, Reason: "not joined"}
	}
	c.mu.Unlock()

	if err := c.writeCommand("PART", "#"+channel); err != nil {
		return err
	}

	c.mu.Lock()
	c.states[channel] = StateUnjoined
	for i, joined := range c.joined {
		if joined == channel {
			c.joined = append(c.joined[:i], c.joined[i+1:]...)
			break
		}
	}
	joined := len(c.joined)
	c.mu.Unlock()

	telemetry.SetJoinedChannels(joined)
	logger.Log.Info().Str("channel", channel).Msg("Parted channel")

	c.eventBus.Emit(events.Event{
		Type:      EventChannelParted,
		Data:      map[string]interface{}{"channel": channel},
		Timestamp: time.Now(),
		Source:    events.EventSourceClient,
	})
	return nil
}

// Send transmits chat text. An explicit channel must be joined; an empty
// channel resolves to the most recently joined one. The server never
// echoes a sender's own lines back, so a synthetic self-authored message
// is appended to history on success.
func (c *Client) Send(text, channel string) error {
	channel = validation.NormalizeChannelName(channel)

	c.mu.Lock()
	if channel != "" {
		if c.states[channel] != StateJoined {
			c.mu.Unlock()
			return &StateError{Op: "send", Channel: channel, Reason: "not joined"}
		}
	} else {
		if len(c.joined) == 0 {
			c.mu.Unlock()
			return &StateError{Op: "send", Reason: "no joined channels"}
		}
		channel = c.joined[len(c.joined)-1]
	}
	c.mu.Unlock()

	if err := c.writeTrailing("PRIVMSG", "#"+channel, text); err != nil {
		return err
	}

	echo := Message{
		Raw:      fmt.Sprintf("PRIVMSG #%s :%s", channel, text),
		Host:     HostTMI,
		Tag:      "PRIVMSG",
		Channel:  channel,
		User:     c.nick,
		MetaHost: c.nick,
		Message:  text,
	}
	c.history.Append(echo)

	c.eventBus.Emit(events.Event{
		Type: EventMessageSent,
		Data: map[string]interface{}{
			"channel": channel,
			"user":    c.nick,
			"text":    text,
		},
		Timestamp: time.Now(),
		Source:    events.EventSourceClient,
	})
	return nil
}

// Close cancels every outstanding join attempt. It does not close the
// transport; that belongs to the transport's owner.
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	attempts := make([]*joinAttempt, 0, len(c.attempts))
	for _, att := range c.attempts {
		attempts = append(attempts, att)
		c.states[att.channel] = StateUnjoined
	}
	c.attempts = make(map[string]*joinAttempt)
	c.mu.Unlock()

	for _, att := range attempts {
		att.stop()
	}
}

// writeCommand serializes and transmits one wire command.
func (c *Client) writeCommand(command string, params ...string) error {
	return c.write(command, false, params...)
}

// writeTrailing forces a ':'-prefixed trailing parameter, matching the
// fixed textual formats for PRIVMSG and PONG.
func (c *Client) writeTrailing(command string, params ...string) error {
	return c.write(command, true, params...)
}

func (c *Client) write(command string, trailing bool, params ...string) error {
	msg := ircmsg.MakeMessage(nil, "", command, params...)
	if trailing {
		msg.ForceTrailing()
	}
	line, err := msg.LineBytesStrict(true, maxLineLen)
	if err != nil {
		return fmt.Errorf("build %s command: %w", command, err)
	}
	if err := c.transport.Write(line); err != nil {
		return &TransportError{Op: command, Err: err}
	}
	return nil
}
