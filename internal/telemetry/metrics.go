// Package telemetry provides Prometheus metrics for the chat client.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	LinesFramed      prometheus.Counter
	ParseErrors      prometheus.Counter
	ChatEmitted      prometheus.Counter
	JoinsConfirmed   prometheus.Counter
	JoinsAbandoned   prometheus.Counter
	HistoryEvictions prometheus.Counter

	JoinedChannels prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		LinesFramed = promauto.NewCounter(prometheus.CounterOpts{Name: "irc_lines_framed_total", Help: "Complete lines produced by the framer"})
		ParseErrors = promauto.NewCounter(prometheus.CounterOpts{Name: "irc_parse_errors_total", Help: "Lines that matched neither server dialect"})
		ChatEmitted = promauto.NewCounter(prometheus.CounterOpts{Name: "irc_chat_messages_total", Help: "PRIVMSG lines delivered to subscribers"})
		JoinsConfirmed = promauto.NewCounter(prometheus.CounterOpts{Name: "irc_joins_confirmed_total", Help: "Channel joins confirmed by observation"})
		JoinsAbandoned = promauto.NewCounter(prometheus.CounterOpts{Name: "irc_joins_abandoned_total", Help: "Channel joins abandoned on timeout"})
		HistoryEvictions = promauto.NewCounter(prometheus.CounterOpts{Name: "irc_history_evictions_total", Help: "Messages evicted from the bounded history"})
		JoinedChannels = promauto.NewGauge(prometheus.GaugeOpts{Name: "irc_joined_channels", Help: "Channels currently in the joined state"})
	})
}

// Increment helpers are nil-safe so core paths work without Init (tests).

func IncLineFramed()      { inc(LinesFramed) }
func IncParseError()      { inc(ParseErrors) }
func IncChatEmitted()     { inc(ChatEmitted) }
func IncJoinConfirmed()   { inc(JoinsConfirmed) }
func IncJoinAbandoned()   { inc(JoinsAbandoned) }
func IncHistoryEviction() { inc(HistoryEvictions) }

// SetJoinedChannels records the current joined-channel count.
func SetJoinedChannels(n int) {
	if JoinedChannels != nil {
		JoinedChannels.Set(float64(n))
	}
}

func inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}
