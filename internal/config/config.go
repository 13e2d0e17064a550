package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr string

	OTLPEndpoint string

	Logger LoggerConfig

	// Remote store (Postgres in production, sqlite in dev).
	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// Durable queue storage, a sqlite file the process owns exclusively.
	QueuePath string

	// DeviceUserID attributes background drains when the process runs as
	// a single-technician agent. Interactive requests carry their own
	// principal.
	DeviceUserID string

	// NodeID seeds the snowflake id generator. Each running instance
	// needs a distinct value or row ids can collide.
	NodeID int

	Sync SyncConfig
}

type LoggerConfig struct {
	Level string
}

type SyncConfig struct {
	// Interval between background drain attempts. Zero disables the loop.
	Interval time.Duration
	// ProbeTimeout bounds the connectivity probe before each drain.
	ProbeTimeout time.Duration
	// DrainOnStart replays the queue once at startup, before the first
	// interval elapses.
	DrainOnStart bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:      getenv("APP_SERVICE", "metas"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),
		Logger: LoggerConfig{
			Level: getenv("LOG_LEVEL", "info"),
		},
		DBType:       getenv("DATABASE_TYPE", "postgres"),
		DBHost:       getenv("DATABASE_HOST", "localhost"),
		DBPort:       getenv("DATABASE_PORT", "5432"),
		DBName:       getenv("DATABASE_NAME", "metas"),
		DBUser:       getenv("DATABASE_USER", "postgres"),
		DBPassword:   getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:    getenv("DATABASE_SSLMODE", "disable"),
		QueuePath:    getenv("QUEUE_PATH", "pending_logs.db"),
		DeviceUserID: getenv("DEVICE_USER_ID", ""),
		NodeID:       getenvInt("SNOWFLAKE_NODE_ID", 1),
		Sync: SyncConfig{
			Interval:     getenvDuration("SYNC_INTERVAL", time.Minute),
			ProbeTimeout: getenvDuration("SYNC_PROBE_TIMEOUT", 5*time.Second),
			DrainOnStart: getenvBool("SYNC_ON_START", true),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
