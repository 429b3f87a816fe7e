// Package config loads the backend configuration from defaults, an optional
// config.yaml, a .env file and the process environment, in that order of
// increasing priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	VariantChess     = "chess"
	VariantTicTacToe = "tictactoe"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Game     GameConfig     `mapstructure:"game"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// PostgresConfig holds the game record database. An empty DSN disables persistence.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig holds the waiting-pool mirror and event fan-out. An empty
// address disables both.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	// Required rejects websocket upgrades that carry no token at all.
	Required bool `mapstructure:"required"`
}

type GameConfig struct {
	Variant        string `mapstructure:"variant"`
	SendBuffer     int    `mapstructure:"send_buffer"`
	RecorderBuffer int    `mapstructure:"recorder_buffer"`
	// HousekeepingSpec is a cron spec for the stats/reconcile job.
	HousekeepingSpec string `mapstructure:"housekeeping_spec"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("postgres.dsn", "")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.issuer", "endgame-service")
	v.SetDefault("auth.token_ttl", 72*time.Hour)
	v.SetDefault("auth.required", false)

	v.SetDefault("game.variant", VariantChess)
	v.SetDefault("game.send_buffer", 256)
	v.SetDefault("game.recorder_buffer", 1024)
	v.SetDefault("game.housekeeping_spec", "@every 1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads the configuration. A missing .env or config.yaml is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/endgame/")

	// server.port <-> SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Game.Variant {
	case VariantChess, VariantTicTacToe:
	default:
		return fmt.Errorf("unknown game variant %q", c.Game.Variant)
	}
	if c.Game.SendBuffer <= 0 {
		return fmt.Errorf("game.send_buffer must be positive, got %d", c.Game.SendBuffer)
	}
	if c.Game.RecorderBuffer <= 0 {
		return fmt.Errorf("game.recorder_buffer must be positive, got %d", c.Game.RecorderBuffer)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// PersistenceEnabled reports whether game records are written to Postgres.
func (c *Config) PersistenceEnabled() bool {
	return c.Postgres.DSN != ""
}

// String is safe to log: secrets are left out.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Server: %s, Variant: %s, Persistence: %t, Redis: %q, AuthRequired: %t",
		c.Addr(),
		c.Game.Variant,
		c.PersistenceEnabled(),
		c.Redis.Address,
		c.Auth.Required,
	)
}
