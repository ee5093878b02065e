package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "teamsort/pkg/platform/strings"
)

// Config is the full process configuration, read once at startup.
type Config struct {
	Server   Server
	Session  Session
	Snapshot Snapshot
	Audit    Audit
	Log      Log
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string
	OperatorJWTSecret string
	OperatorIssuer    string
	OperatorAudience  string
	ShutdownTimeout   time.Duration
}

// Session configures grouping and the reveal pause.
type Session struct {
	GroupCount       int
	RevealDelay      time.Duration
	Strategy         string
	Placement        string
	Seed             uint64
	HasSeed          bool
	QuestionBankPath string
}

// Snapshot selects where finalized results are written.
type Snapshot struct {
	Backend     string
	KeyPrefix   string
	Redis       RedisConfig
	PostgresDSN string
	SQLitePath  string
}

// RedisConfig holds connection settings for the Redis snapshot backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Audit configures the session audit trail. With no brokers events stay in
// memory.
type Audit struct {
	KafkaBrokers []string
	KafkaTopic   string
	BufferSize   int
}

type Log struct {
	Format string
	Level  string
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	defaultOperatorSecret = "dev-operator-secret-change-me"
)

// FromEnv builds the configuration from environment variables so main stays
// lean. Invalid values fall back to defaults; each fallback is reported in
// the returned warnings.
func FromEnv() (Config, []string) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	secret := os.Getenv("OPERATOR_JWT_SECRET")
	if secret == "" {
		// Development default; override in any shared deployment.
		secret = defaultOperatorSecret
		warn("OPERATOR_JWT_SECRET not set, using development secret")
	}

	cfg := Config{
		Server: Server{
			Addr:              envString("TEAMSORT_ADDR", ":8080"),
			OperatorJWTSecret: secret,
			OperatorIssuer:    envString("OPERATOR_JWT_ISSUER", "teamsort"),
			OperatorAudience:  envString("OPERATOR_JWT_AUDIENCE", "teamsort-operator"),
			ShutdownTimeout:   envDuration("SHUTDOWN_TIMEOUT", 10*time.Second, warn),
		},
		Session: Session{
			GroupCount:       envInt("GROUP_COUNT", 4, warn),
			RevealDelay:      envDuration("REVEAL_DELAY", 9*time.Second, warn),
			Strategy:         envString("PARTITION_STRATEGY", "random"),
			Placement:        envString("PARTITION_PLACEMENT", "recompute"),
			QuestionBankPath: os.Getenv("QUESTION_BANK_PATH"),
		},
		Snapshot: Snapshot{
			Backend:   strings.ToLower(envString("SNAPSHOT_BACKEND", BackendMemory)),
			KeyPrefix: os.Getenv("SNAPSHOT_KEY_PREFIX"),
			Redis: RedisConfig{
				URL:          os.Getenv("REDIS_URL"),
				PoolSize:     envInt("REDIS_POOL_SIZE", 10, warn),
				MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 1, warn),
				DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second, warn),
				ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second, warn),
				WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second, warn),
			},
			PostgresDSN: os.Getenv("DATABASE_URL"),
			SQLitePath:  envString("SQLITE_PATH", "teamsort.db"),
		},
		Audit: Audit{
			KafkaBrokers: envList("AUDIT_KAFKA_BROKERS"),
			KafkaTopic:   envString("AUDIT_KAFKA_TOPIC", "teamsort.session.audit"),
			BufferSize:   envInt("AUDIT_BUFFER_SIZE", 256, warn),
		},
		Log: Log{
			Format: strings.ToLower(envString("LOG_FORMAT", "json")),
			Level:  strings.ToLower(envString("LOG_LEVEL", "info")),
		},
	}

	if cfg.Session.GroupCount < 1 {
		warn("GROUP_COUNT must be at least 1, using 4")
		cfg.Session.GroupCount = 4
	}
	if cfg.Session.RevealDelay < 0 {
		warn("REVEAL_DELAY must not be negative, using 0")
		cfg.Session.RevealDelay = 0
	}
	if raw := os.Getenv("PARTITION_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			warn("PARTITION_SEED %q is not an unsigned integer, ignoring", raw)
		} else {
			cfg.Session.Seed = seed
			cfg.Session.HasSeed = true
		}
	}
	switch cfg.Snapshot.Backend {
	case BackendMemory, BackendRedis, BackendPostgres, BackendSQLite:
	default:
		warn("SNAPSHOT_BACKEND %q is not supported, using memory", cfg.Snapshot.Backend)
		cfg.Snapshot.Backend = BackendMemory
	}

	return cfg, warnings
}

// Validate checks that the selected backends have what they need.
func (c Config) Validate() error {
	switch c.Snapshot.Backend {
	case BackendRedis:
		if c.Snapshot.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis snapshot backend")
		}
	case BackendPostgres:
		if c.Snapshot.PostgresDSN == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres snapshot backend")
		}
	case BackendSQLite:
		if c.Snapshot.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite snapshot backend")
		}
	}
	return nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int, warn func(string, ...any)) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		warn("%s %q is not an integer, using %d", key, raw, fallback)
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration, warn func(string, ...any)) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		warn("%s %q is not a duration, using %s", key, raw, fallback)
		return fallback
	}
	return v
}

func envList(key string) []string {
	return platformstrings.SplitList(os.Getenv(key))
}
