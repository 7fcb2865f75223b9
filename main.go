package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/idflores/twitch-irc/internal/config"
	"github.com/idflores/twitch-irc/internal/events"
	"github.com/idflores/twitch-irc/internal/irc"
	"github.com/idflores/twitch-irc/internal/logger"
	"github.com/idflores/twitch-irc/internal/notify"
	"github.com/idflores/twitch-irc/internal/telemetry"
	"github.com/idflores/twitch-irc/internal/transport"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.SetVerbose(cfg.Verbose)

	if cfg.OAuthToken == "" {
		// Anonymous read-only sessions are allowed but cannot send.
		logger.Log.Warn().Msg("No OAuth token configured; joining read-only")
	}

	telemetry.Init()
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Log.Info().Str("addr", cfg.MetricsAddr).Msg("Serving metrics")
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Log.Error().Err(err).Msg("Metrics listener stopped")
			}
		}()
	}

	eventBus := events.NewEventBus()
	conn := transport.New(cfg.ServerAddr, cfg.TLS)
	client := irc.NewClient(cfg.Nick, cfg.OAuthToken, conn, eventBus)

	if cfg.Verbose {
		client.SubscribeVerbose(events.SubscriberFunc(func(event events.Event) {
			if msg, ok := event.Data["message"].(irc.Message); ok {
				fmt.Println(msg.Raw)
			}
		}))
	} else {
		client.Subscribe(events.SubscriberFunc(func(event events.Event) {
			fmt.Printf("[#%v] %v: %v\n", event.Data["channel"], event.Data["user"], event.Data["text"])
		}))
	}
	if cfg.Notify {
		eventBus.Subscribe(irc.EventChatMessage, notify.New(cfg.Nick))
	}

	if err := conn.Connect(client); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect")
	}
	for _, channel := range cfg.Channels {
		if err := client.Join(channel); err != nil {
			logger.Log.Error().Err(err).Str("channel", channel).Msg("Join refused")
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Log.Info().Str("signal", sig.String()).Msg("Shutting down")

	client.Close()
	if err := conn.Close(); err != nil {
		logger.Log.Debug().Err(err).Msg("Close error")
	}
}
