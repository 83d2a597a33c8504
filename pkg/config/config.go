// Package config provides configuration loading and validation utilities.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime configuration for owobot.
type Config struct {
	AppEnv string

	Bot       BotConfig       `mapstructure:"bot" validate:"required"`
	DB        DBConfig        `mapstructure:"db" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Reddit    RedditConfig    `mapstructure:"reddit"`
	Proxy     ProxyConfig     `mapstructure:"proxy"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Counter   CounterConfig   `mapstructure:"counter"`
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// BotConfig describes the Telegram side of the bot.
type BotConfig struct {
	Token           string        `mapstructure:"token" validate:"required"`
	Version         string        `mapstructure:"version"`
	PollTimeout     time.Duration `mapstructure:"poll_timeout"`
	FetchSlots      int64         `mapstructure:"fetch_slots" validate:"gte=1"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
	TranslationsDir string        `mapstructure:"translations_dir"`
}

// DBConfig describes the PostgreSQL connection.
type DBConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     string `mapstructure:"port" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig describes the optional Redis connection used for rate limiting.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis address was supplied.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// RedditConfig holds the optional Reddit API credentials. Either all three
// fields are set or the Reddit commands short-circuit with a hint.
type RedditConfig struct {
	AppID        string `mapstructure:"app_id"`
	Secret       string `mapstructure:"secret"`
	RefreshToken string `mapstructure:"refresh_token"`
}

// Configured reports whether the full credential set is present.
func (c RedditConfig) Configured() bool {
	return c.AppID != "" && c.Secret != "" && c.RefreshToken != ""
}

func (c RedditConfig) partial() bool {
	any := c.AppID != "" || c.Secret != "" || c.RefreshToken != ""
	return any && !c.Configured()
}

// ProxyConfig describes the optional outbound proxy for the Telegram client.
type ProxyConfig struct {
	Type    string `mapstructure:"type" validate:"omitempty,oneof=HTTP SOCKS5"`
	Address string `mapstructure:"address"`
	Port    string `mapstructure:"port"`
}

// Enabled reports whether a proxy type was supplied.
func (c ProxyConfig) Enabled() bool {
	return c.Type != ""
}

// LoggerConfig controls slog output.
type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// SentryConfig controls error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// CounterConfig locates the flat file backing the global request counter.
type CounterConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ServerConfig describes the health/metrics HTTP surface.
type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RateLimitConfig bounds how many commands a single user may issue.
type RateLimitConfig struct {
	PerUser int           `mapstructure:"per_user" validate:"gte=1"`
	Window  time.Duration `mapstructure:"window"`
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}
