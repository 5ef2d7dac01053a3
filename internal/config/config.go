// Package config reads the bot's settings from the process environment.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	placeholderToken      = "YOUR_DISCORD_BOT_TOKEN"
	placeholderWebhookURL = "YOUR_N8N_WEBHOOK_URL"
)

var (
	ErrMissing     = errors.New("required configuration value is missing")
	ErrPlaceholder = errors.New("configuration value is still a placeholder")
)

type Config struct {
	DiscordToken string `envconfig:"DISCORD_TOKEN" validate:"required"`
	WebhookURL   string `envconfig:"N8N_WEBHOOK_URL" validate:"required,http_url"`

	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	GuildID       string `envconfig:"GUILD_ID"`
	CommandPrefix string `envconfig:"COMMAND_PREFIX" default:"!" validate:"required"`

	MaxAttachmentBytes int64         `envconfig:"MAX_ATTACHMENT_BYTES" default:"8388608" validate:"gt=0"`
	WebhookTimeout     time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"5m" validate:"gt=0"`

	// Status updates are only published when RabbitMQURL is set.
	RabbitMQURL      string `envconfig:"RABBITMQ_URL"`
	RabbitMQExchange string `envconfig:"RABBITMQ_EXCHANGE" default:"submission_updates" validate:"required"`

	// An empty MetricsAddr disables the metrics listener.
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":2112"`
}

var validate = validator.New()

// Load reads a .env file when one exists and then builds the configuration
// from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.DiscordToken == placeholderToken:
		return fmt.Errorf("%w: DISCORD_TOKEN", ErrPlaceholder)
	case c.WebhookURL == placeholderWebhookURL:
		return fmt.Errorf("%w: N8N_WEBHOOK_URL", ErrPlaceholder)
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("error validating config: %w", err)
	}
	fe := fieldErrs[0]
	key := envKey(fe.StructField())
	if fe.Tag() == "required" {
		return fmt.Errorf("%w: %s", ErrMissing, key)
	}
	return fmt.Errorf("invalid value for %s: failed %q check", key, fe.Tag())
}

// envKey maps a Config field name back to the variable it is read from.
func envKey(field string) string {
	f, ok := reflect.TypeOf(Config{}).FieldByName(field)
	if !ok {
		return field
	}
	if key := f.Tag.Get("envconfig"); key != "" {
		return key
	}
	return field
}
