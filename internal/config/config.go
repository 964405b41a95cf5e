package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"charity-workflow-backend/internal/storage"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Remote    RemoteConfig    `yaml:"remote"`
	Security  SecurityConfig  `yaml:"security"`
	Policy    PolicyConfig    `yaml:"policy"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig selects and configures the durable store backend
type StoreConfig struct {
	Backend  string         `yaml:"backend"` // "memory", "file", "postgres", "redis"
	Dir      string         `yaml:"dir"`     // For the file backend
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	Table    string `yaml:"table"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	Namespace string `yaml:"namespace"`
}

// RemoteConfig controls mirroring of writes to a remote instance
type RemoteConfig struct {
	Enabled      bool          `yaml:"enabled"`
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	Timeout      time.Duration `yaml:"timeout"`
	HealthTTL    time.Duration `yaml:"health_ttl"` // 0 caches the first health check for the process lifetime
	CompareReads bool          `yaml:"compare_reads"`
	MaxPending   int           `yaml:"max_pending"` // Mirror calls allowed to queue behind a slow remote
}

// SecurityConfig contains session token and password settings
type SecurityConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenExpiry    time.Duration `yaml:"token_expiry"`
	PasswordScheme string        `yaml:"password_scheme"` // "plaintext" (insecure) or "bcrypt"
	RequireAuth    bool          `yaml:"require_auth"`    // Reject anonymous calls to non-public routes
	PeerAPIKey     string        `yaml:"peer_api_key"`    // Accepted in X-API-Key from mirroring peers
}

// PolicyConfig holds caller-side policies the HTTP layer applies before
// invoking the lifecycle engine
type PolicyConfig struct {
	MaxActiveProjectsPerEmployee int  `yaml:"max_active_projects_per_employee"`
	OneActivePerUser             bool `yaml:"one_active_per_user"`
	RequireApprovedPhases        bool `yaml:"require_approved_phases"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SweepOrphanedNotifications string `yaml:"sweep_orphaned_notifications"`
	LogDataSnapshot            string `yaml:"log_data_snapshot"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes, applies environment
// overrides and validates the result
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			c.Server.Port = p
		}
	}

	// Store
	if val := os.Getenv("STORE_BACKEND"); val != "" {
		c.Store.Backend = val
	}
	if val := os.Getenv("STORE_DIR"); val != "" {
		c.Store.Dir = val
	}
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Store.Postgres.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			c.Store.Postgres.Port = p
		}
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Store.Postgres.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Store.Postgres.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Store.Postgres.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Store.Postgres.SSLMode = val
	}
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Store.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Store.Redis.Password = val
	}

	// Remote
	if val := os.Getenv("REMOTE_BASE_URL"); val != "" {
		c.Remote.BaseURL = val
		c.Remote.Enabled = true
	}
	if val := os.Getenv("REMOTE_API_KEY"); val != "" {
		c.Remote.APIKey = val
	}

	// Security
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.Security.JWTSecret = val
	}
	if val := os.Getenv("PASSWORD_SCHEME"); val != "" {
		c.Security.PasswordScheme = val
	}
	if val := os.Getenv("PEER_API_KEY"); val != "" {
		c.Security.PeerAPIKey = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Store.Backend {
	case "", storage.BackendMemory:
		c.Store.Backend = storage.BackendMemory
	case storage.BackendFile:
		if c.Store.Dir == "" {
			return fmt.Errorf("store dir is required for the file backend")
		}
	case storage.BackendPostgres:
		if c.Store.Postgres.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Store.Postgres.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Store.Postgres.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Store.Postgres.Port == 0 {
			c.Store.Postgres.Port = 5432
		}
		if c.Store.Postgres.SSLMode == "" {
			c.Store.Postgres.SSLMode = "disable"
		}
	case storage.BackendRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required")
		}
	default:
		return fmt.Errorf("unsupported store backend: %s", c.Store.Backend)
	}

	if c.Remote.Enabled && c.Remote.BaseURL == "" {
		return fmt.Errorf("remote base_url is required when remote is enabled")
	}
	if c.Remote.Timeout <= 0 {
		c.Remote.Timeout = 3 * time.Second
	}
	if c.Remote.MaxPending <= 0 {
		c.Remote.MaxPending = 256
	}

	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.Security.TokenExpiry <= 0 {
		c.Security.TokenExpiry = 12 * time.Hour
	}
	switch c.Security.PasswordScheme {
	case "":
		c.Security.PasswordScheme = "plaintext"
	case "plaintext", "bcrypt":
	default:
		return fmt.Errorf("unsupported password scheme: %s", c.Security.PasswordScheme)
	}

	if c.Policy.MaxActiveProjectsPerEmployee < 0 {
		return fmt.Errorf("invalid max active projects per employee: %d", c.Policy.MaxActiveProjectsPerEmployee)
	}

	if c.Scheduler.SweepOrphanedNotifications == "" {
		c.Scheduler.SweepOrphanedNotifications = "0 0 3 * * *" // 3 AM UTC
	}
	if c.Scheduler.LogDataSnapshot == "" {
		c.Scheduler.LogDataSnapshot = "0 0 * * * *" // hourly
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Store.Postgres.User,
		c.Store.Postgres.Password,
		c.Store.Postgres.Host,
		c.Store.Postgres.Port,
		c.Store.Postgres.Database,
		c.Store.Postgres.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// StorageConfig converts the store section into storage.Config
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Backend:     c.Store.Backend,
		Dir:         c.Store.Dir,
		PostgresDSN: c.GetDatabaseConnectionString(),
		Table:       c.Store.Postgres.Table,
		RedisAddr:   c.Store.Redis.Addr,
		RedisPass:   c.Store.Redis.Password,
		RedisDB:     c.Store.Redis.DB,
		Namespace:   c.Store.Redis.Namespace,
	}
}
