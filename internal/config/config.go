// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"-"` // SERVER_TIMEOUT_SECONDS

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirestoreUsersCollection      string `mapstructure:"FIRESTORE_USERS_COLLECTION"`

	// Redis Configuration (session hints)
	RedisURL             string        `mapstructure:"REDIS_URL"`
	RedisPoolSize        int           `mapstructure:"REDIS_POOL_SIZE"`
	RedisDialTimeout     time.Duration `mapstructure:"-"` // REDIS_DIAL_TIMEOUT_MS
	SessionHintKeyPrefix string        `mapstructure:"SESSION_HINT_KEY_PREFIX"`
	SessionHintTTL       time.Duration `mapstructure:"-"` // SESSION_HINT_TTL_HOURS

	// Database Configuration (reconciliation ledger)
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBSQLitePath      string        `mapstructure:"DB_SQLITE_PATH"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"-"` // DB_CONN_MAX_LIFETIME_MINUTES

	// Elasticsearch Configuration (signup audit events)
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`

	// Signup workflow
	SignupDuplicatePolicy string        `mapstructure:"SIGNUP_DUPLICATE_POLICY"`
	SignupTimeout         time.Duration `mapstructure:"-"` // SIGNUP_TIMEOUT_SECONDS
	SignupFollowUpTimeout time.Duration `mapstructure:"-"` // SIGNUP_FOLLOWUP_TIMEOUT_SECONDS

	// Reconciliation
	ReconcileJobSchedule string `mapstructure:"RECONCILE_JOB_SCHEDULE"`
	ReconcileBatchSize   int    `mapstructure:"RECONCILE_BATCH_SIZE"`
	ReconcileMaxAttempts int    `mapstructure:"RECONCILE_MAX_ATTEMPTS"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Duration fields are configured as plain numbers in their own unit.
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.SignupTimeout = time.Duration(v.GetInt("SIGNUP_TIMEOUT_SECONDS")) * time.Second
	cfg.SignupFollowUpTimeout = time.Duration(v.GetInt("SIGNUP_FOLLOWUP_TIMEOUT_SECONDS")) * time.Second
	cfg.RedisDialTimeout = time.Duration(v.GetInt("REDIS_DIAL_TIMEOUT_MS")) * time.Millisecond
	cfg.SessionHintTTL = time.Duration(v.GetInt("SESSION_HINT_TTL_HOURS")) * time.Hour
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	// Firebase. An empty key path falls back to application default credentials
	// (or the emulators when FIREBASE_AUTH_EMULATOR_HOST / FIRESTORE_EMULATOR_HOST are set).
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")
	v.SetDefault("FIRESTORE_USERS_COLLECTION", "users")

	// Redis. Empty URL selects the in-process hint store.
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT_MS", 2000)
	v.SetDefault("SESSION_HINT_KEY_PREFIX", "session_hint:")
	v.SetDefault("SESSION_HINT_TTL_HOURS", 720)

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "gamehub_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_SQLITE_PATH", "gamehub_reconcile.db")
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("ELASTICSEARCH_URL", "")

	v.SetDefault("SIGNUP_DUPLICATE_POLICY", "fail_open")
	v.SetDefault("SIGNUP_TIMEOUT_SECONDS", 20)
	// Writes after the identity exists run detached from the request, each bounded by this.
	v.SetDefault("SIGNUP_FOLLOWUP_TIMEOUT_SECONDS", 10)

	v.SetDefault("RECONCILE_JOB_SCHEDULE", "@every 5m")
	v.SetDefault("RECONCILE_BATCH_SIZE", 50)
	v.SetDefault("RECONCILE_MAX_ATTEMPTS", 5)
}

func (c *Config) validate() error {
	if path := strings.TrimSpace(c.FirebaseServiceAccountKeyPath); path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", path)
		}
	}
	switch c.SignupDuplicatePolicy {
	case "fail_open", "fail_closed":
	default:
		return fmt.Errorf("SIGNUP_DUPLICATE_POLICY must be fail_open or fail_closed, got %q", c.SignupDuplicatePolicy)
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if strings.TrimSpace(c.FirestoreUsersCollection) == "" {
		return fmt.Errorf("FIRESTORE_USERS_COLLECTION must not be empty")
	}
	return nil
}
