package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             int
	NatsURL          string
	NatsToken        string
	TelemetrySubject string
	EmotionSubject   string
	DatabaseURL      string
	LogLevel         string
	RulesFile        string
	Debounce         time.Duration
	BufferSize       int
	Shards           int
	SessionTTL       time.Duration
}

func Load() Config {
	return Config{
		Port:             envInt("ANDERSON_PORT", 8760),
		NatsURL:          envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:        envStr("NATS_TOKEN", ""),
		TelemetrySubject: envStr("TELEMETRY_SUBJECT", "swarm.telemetry.events"),
		EmotionSubject:   envStr("EMOTION_SUBJECT", "swarm.anderson.emotion.state"),
		DatabaseURL:      envStr("DATABASE_URL", ""),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		RulesFile:        envStr("ANDERSON_RULES_FILE", ""),
		Debounce:         time.Duration(envInt("ANDERSON_DEBOUNCE_SECONDS", 5)) * time.Second,
		BufferSize:       envInt("ANDERSON_BUFFER_SIZE", 50),
		Shards:           envInt("ANDERSON_SHARDS", 16),
		SessionTTL:       time.Duration(envInt("ANDERSON_SESSION_TTL_MINUTES", 30)) * time.Minute,
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
