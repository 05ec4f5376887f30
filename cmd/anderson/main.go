package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/anderson/internal/anomaly"
	"github.com/MikeSquared-Agency/anderson/internal/api"
	"github.com/MikeSquared-Agency/anderson/internal/bus"
	"github.com/MikeSquared-Agency/anderson/internal/config"
	"github.com/MikeSquared-Agency/anderson/internal/emotion"
	"github.com/MikeSquared-Agency/anderson/internal/processor"
	"github.com/MikeSquared-Agency/anderson/internal/publisher"
	"github.com/MikeSquared-Agency/anderson/internal/store"
)

const refitInterval = 60 * time.Second

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("anderson starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database (optional — without it classifications are not archived)
	var db *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set — running without archive")
	}

	// NATS
	busClient, err := bus.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer busClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Classifier, with optional rule overrides from file
	classifier := emotion.NewClassifier()
	if cfg.RulesFile != "" {
		classifier, err = emotion.NewClassifierFromFile(cfg.RulesFile)
		if err != nil {
			slog.Error("failed to load rules file", "path", cfg.RulesFile, "error", err)
			os.Exit(1)
		}
		slog.Info("rule overrides loaded", "path", cfg.RulesFile)
	}

	// Anomaly estimator, refit in the background as patterns accumulate
	memory := anomaly.NewMemory()
	estimator := anomaly.NewEstimator(memory, slog.Default())
	go estimator.Run(ctx, refitInterval)

	pub := publisher.New(busClient, cfg.EmotionSubject, slog.Default())

	// Processor — the main pipeline
	proc := processor.New(processor.Config{
		Shards:     cfg.Shards,
		BufferSize: cfg.BufferSize,
		Debounce:   cfg.Debounce,
		SessionTTL: cfg.SessionTTL,
	}, classifier, estimator, memory, pub, db, slog.Default())
	proc.Start(ctx)

	if err := busClient.Subscribe(cfg.TelemetrySubject, proc.HandleTelemetry); err != nil {
		slog.Error("failed to subscribe to telemetry", "subject", cfg.TelemetrySubject, "error", err)
		os.Exit(1)
	}
	slog.Info("subscribed", "subject", cfg.TelemetrySubject)

	// HTTP API
	srv := api.NewServer(cfg.Port, proc.Stats)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if err := busClient.Publish("swarm.agent.anderson.registered", map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
		"subjects":  []string{cfg.TelemetrySubject, cfg.EmotionSubject},
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("anderson ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	proc.Wait()
	slog.Info("anderson stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
