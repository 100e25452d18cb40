// Package config loads the process configuration from RPG_TABLETOP_*
// environment variables
package config

import (
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
)

// Prefix is prepended to every variable name
const Prefix = "RPG_TABLETOP_"

// Session backends
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the runtime configuration
type Config struct {
	// AdminID is the chat user id with game-master rights
	AdminID int64  `env:"ADMIN_ID,required"`
	DBPath  string `env:"DB_PATH"            envDefault:"dnd.db"`

	SessionBackend string `env:"SESSION_BACKEND" envDefault:"memory"`
	RedisAddr      string `env:"REDIS_ADDR"      envDefault:"localhost:6379"`

	StartGold int `env:"START_GOLD" envDefault:"30"`
	// Seed fills empty tables with the default stores and catalog on start
	Seed bool `env:"SEED" envDefault:"true"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads the configuration. A nil environ reads the process environment.
func Load(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{Prefix: Prefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// Validate checks the values env parsing cannot
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateID("admin_id", c.AdminID, vb)
	if c.DBPath == "" {
		vb.RequiredField("db_path")
	}
	errors.ValidateEnum("session_backend", c.SessionBackend,
		[]string{SessionBackendMemory, SessionBackendRedis}, vb)
	if c.SessionBackend == SessionBackendRedis {
		errors.ValidateRequired("redis_addr", c.RedisAddr, vb)
	}
	errors.ValidateNonNegative("start_gold", c.StartGold, vb)
	if _, err := parseLevel(c.LogLevel); err != nil {
		vb.InvalidField("log_level", "must be debug, info, warn or error")
	}
	errors.ValidateEnum("log_format", c.LogFormat, []string{LogFormatText, LogFormatJSON}, vb)
	return vb.Build()
}

// Level returns the configured slog level
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s))))
	return level, err
}
