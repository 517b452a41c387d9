package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultAppEnv          = "dev"
	defaultPort            = 5000
	defaultDatabaseURL     = "files_manager.db"
	defaultDBPort          = 27017
	defaultDBDatabase      = "files_manager"
	defaultFolderPath      = "/tmp/files_manager"
	defaultSessionDBPath   = "/tmp/files_manager_sessions"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultShutdownTimeout = "10s"
	defaultBodyLimitMB     = 10
	defaultCORSOrigins     = "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173"
)

type Config struct {
	AppEnv          string        `mapstructure:"app_env" validate:"required"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	DatabaseURL     string        `mapstructure:"database_url"`
	DBHost          string        `mapstructure:"db_host"`
	DBPort          int           `mapstructure:"db_port" validate:"min=1,max=65535"`
	DBDatabase      string        `mapstructure:"db_database" validate:"required"`
	FolderPath      string        `mapstructure:"folder_path" validate:"required"`
	SessionDBPath   string        `mapstructure:"session_db_path" validate:"required"`
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log_format" validate:"oneof=json console"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	BodyLimitMB     int           `mapstructure:"body_limit_mb" validate:"min=1"`

	// Comma separated lists.
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	MetricsAllowedIPs  string `mapstructure:"metrics_allowed_ips"`
	// MetricsToken, when set, is required as a bearer token on /metrics.
	MetricsToken string `mapstructure:"metrics_token"`
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

func (c *Config) MetricsIPs() []string {
	return splitList(c.MetricsAllowedIPs)
}

func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_env", defaultAppEnv)
	v.SetDefault("port", defaultPort)
	v.SetDefault("database_url", "")
	v.SetDefault("db_host", "")
	v.SetDefault("db_port", defaultDBPort)
	v.SetDefault("db_database", defaultDBDatabase)
	v.SetDefault("folder_path", defaultFolderPath)
	v.SetDefault("session_db_path", defaultSessionDBPath)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_format", defaultLogFormat)
	v.SetDefault("shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("body_limit_mb", defaultBodyLimitMB)
	v.SetDefault("cors_allowed_origins", defaultCORSOrigins)
	v.SetDefault("metrics_allowed_ips", "")
	v.SetDefault("metrics_token", "")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
		// DB_HOST alone selects the MongoDB layout of the original deployment
		if host := strings.TrimSpace(cfg.DBHost); host != "" {
			cfg.DatabaseURL = fmt.Sprintf("mongodb://%s:%d/%s", host, cfg.DBPort, cfg.DBDatabase)
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if isProdLike(cfg.AppEnv) && strings.HasPrefix(cfg.FolderPath, "/tmp") {
		return fmt.Errorf("in prod/release FOLDER_PATH must not point into /tmp")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
