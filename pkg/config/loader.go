package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ValidationError carries the full list of configuration problems so the
// caller can print them all at once instead of failing one field at a time.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration:\n  - " + strings.Join(e.Fields, "\n  - ")
}

// Load reads configuration from env files, the optional YAML file for the
// current APP_ENV, and environment variables, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local", ".env"); err != nil {
		// env files are optional
		_ = err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.version", "1.0.0")
	v.SetDefault("bot.poll_timeout", 10*time.Second)
	v.SetDefault("bot.fetch_slots", 16)
	v.SetDefault("bot.migrations_dir", "migrations")
	v.SetDefault("bot.translations_dir", "translations")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("reddit.app_id", "")
	v.SetDefault("reddit.secret", "")
	v.SetDefault("reddit.refresh_token", "")

	v.SetDefault("proxy.type", "")
	v.SetDefault("proxy.address", "")
	v.SetDefault("proxy.port", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.file", "logs/owobot.log")
	v.SetDefault("logger.max_size_mb", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 28)

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")

	v.SetDefault("counter.path", "essentials/total_requests.txt")

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("ratelimit.per_user", 20)
	v.SetDefault("ratelimit.window", time.Minute)
}

// Validate checks cfg and returns a ValidationError enumerating every
// missing or malformed field.
func Validate(cfg *Config) error {
	var fields []string

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, describeFieldError(fe))
		}
	}

	if cfg.Reddit.partial() {
		fields = append(fields,
			"reddit credentials are incomplete: app_id, secret and refresh_token must all be set (or none of them)")
	}

	if cfg.Proxy.Enabled() {
		if cfg.Proxy.Address == "" {
			fields = append(fields, "proxy.address: proxy type is set but no address was provided")
		}
		if cfg.Proxy.Port == "" {
			fields = append(fields, "proxy.port: proxy type is set but no port was provided")
		}
	}

	if len(fields) == 0 {
		return nil
	}

	return &ValidationError{Fields: fields}
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: required field is missing", field)
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s: failed %q validation", field, fe.Tag())
	}
}
