package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	Version     string

	APIKey         string
	TrustedProxies []string

	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	DBMaxConns  int
	DBMaxIdle   time.Duration
	DBMaxLife   time.Duration

	// Event publisher resilience
	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string

	// Reward generation
	DropTablesPath string

	// Quest epochs. SeasonID keys season-scoped quest progress rows.
	SeasonID string

	// Passive income policy
	PassiveRatePerHour    int64
	PassiveMaxHours       int
	PassiveGraceHours     int
	PassivePenaltyPerHour int64
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		LogDir:      getEnv("LOG_DIR", "logs"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Version:     getEnv("APP_VERSION", "dev"),

		APIKey:         getEnv("API_KEY", ""),
		TrustedProxies: splitAndTrim(getEnv("TRUSTED_PROXIES", "")),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "pettycoon"),

		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", ""),
		DropTablesPath:      getEnv("DROP_TABLES_PATH", ConfigPathDropTables),
		SeasonID:            getEnv("SEASON_ID", DefaultSeasonID),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", DefaultDBMaxConns); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdle, err = getEnvDuration("DB_MAX_IDLE_TIME", DefaultDBMaxIdle); err != nil {
		return nil, err
	}
	if cfg.DBMaxLife, err = getEnvDuration("DB_MAX_LIFETIME", DefaultDBMaxLife); err != nil {
		return nil, err
	}
	if cfg.EventMaxRetries, err = getEnvInt("EVENT_MAX_RETRIES", 0); err != nil {
		return nil, err
	}
	if cfg.EventRetryDelay, err = getEnvDuration("EVENT_RETRY_DELAY", 0); err != nil {
		return nil, err
	}

	rate, err := getEnvInt("PASSIVE_RATE_PER_HOUR", DefaultPassiveRatePerHour)
	if err != nil {
		return nil, err
	}
	cfg.PassiveRatePerHour = int64(rate)

	if cfg.PassiveMaxHours, err = getEnvInt("PASSIVE_MAX_HOURS", DefaultPassiveMaxHours); err != nil {
		return nil, err
	}
	if cfg.PassiveGraceHours, err = getEnvInt("PASSIVE_GRACE_HOURS", DefaultPassiveGraceHours); err != nil {
		return nil, err
	}

	penalty, err := getEnvInt("PASSIVE_PENALTY_PER_HOUR", DefaultPassivePenaltyPerHour)
	if err != nil {
		return nil, err
	}
	cfg.PassivePenaltyPerHour = int64(penalty)

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

// getEnvDuration retrieves a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// splitAndTrim splits a comma separated list, dropping empty entries
func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
