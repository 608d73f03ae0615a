package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/neumoapp/platform/internal/shared/types"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	EventStore EventStoreConfig
	Auth       AuthConfig
	Scheduling SchedulingConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// EventStoreConfig holds configuration for EventStoreDB.
type EventStoreConfig struct {
	// Host is the EventStoreDB server hostname
	Host string
	// Port is the gRPC port (default 2113)
	Port int
	// Insecure disables TLS (for development)
	Insecure bool
	// Username for authentication (optional)
	Username string
	// Password for authentication (optional)
	Password string
}

type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
}

// SchedulingConfig holds the process-wide shift windows and slot
// duration. Loaded once at startup so the availability and booking
// paths can never disagree on them.
type SchedulingConfig struct {
	SlotDuration   time.Duration
	MorningStart   types.TimeOfDay
	MorningEnd     types.TimeOfDay
	AfternoonStart types.TimeOfDay
	AfternoonEnd   types.TimeOfDay
}

func Load() (*Config, error) {
	scheduling, err := loadScheduling()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "neumoapp"),
			Password: getEnv("DB_PASSWORD", "neumoapp"),
			Database: getEnv("DB_NAME", "neumoapp"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		EventStore: EventStoreConfig{
			Host:     getEnv("EVENTSTORE_HOST", "localhost"),
			Port:     getEnvInt("EVENTSTORE_PORT", 2113),
			Insecure: getEnvBool("EVENTSTORE_INSECURE", true),
			Username: getEnv("EVENTSTORE_USERNAME", ""),
			Password: getEnv("EVENTSTORE_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
			TokenDuration: time.Duration(getEnvInt("JWT_EXPIRATION_MINUTES", 30)) * time.Minute,
		},
		Scheduling: scheduling,
	}, nil
}

func loadScheduling() (SchedulingConfig, error) {
	cfg := SchedulingConfig{
		SlotDuration: time.Duration(getEnvInt("SLOT_DURATION_MINUTES", 20)) * time.Minute,
	}
	if cfg.SlotDuration <= 0 {
		return cfg, fmt.Errorf("slot duration must be positive")
	}

	windows := []struct {
		key      string
		fallback string
		dest     *types.TimeOfDay
	}{
		{"SHIFT_MORNING_START", "08:00", &cfg.MorningStart},
		{"SHIFT_MORNING_END", "13:00", &cfg.MorningEnd},
		{"SHIFT_AFTERNOON_START", "14:00", &cfg.AfternoonStart},
		{"SHIFT_AFTERNOON_END", "18:00", &cfg.AfternoonEnd},
	}
	for _, w := range windows {
		parsed, err := types.ParseTimeOfDay(getEnv(w.key, w.fallback))
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", w.key, err)
		}
		*w.dest = parsed
	}

	if !cfg.MorningStart.Before(cfg.MorningEnd) || !cfg.AfternoonStart.Before(cfg.AfternoonEnd) {
		return cfg, fmt.Errorf("shift windows must open before they close")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
