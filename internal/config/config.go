package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const minDuration = time.Second

type Config struct {
	Port string

	ChatWebhookURL  string
	EmailWebhookURL string
	RelayTargetURL  string
	WebhookTimeout  time.Duration

	LeadsDB   string
	BrandFile string

	AllowedOrigins     []string
	SessionMaxAge      time.Duration
	RateLimitPerMinute int
	EmailSource        string

	LogLevel  string
	LogFormat string
}

// Remote reports whether replies come from the chat webhook instead of the
// local engine.
func (c *Config) Remote() bool { return c.ChatWebhookURL != "" }

func Load() (*Config, error) {
	// .env is optional; env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("chat_webhook_url", "")
	v.SetDefault("email_webhook_url", "")
	v.SetDefault("relay_target_url", "")
	v.SetDefault("webhook_timeout", 15*time.Second)
	v.SetDefault("leads_db", "")
	v.SetDefault("brand_file", "")
	v.SetDefault("allowed_origins", "*")
	v.SetDefault("session_max_age", time.Hour)
	v.SetDefault("rate_limit_per_minute", 10)
	v.SetDefault("email_source", "chatbot")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	cfg := &Config{
		Port:               v.GetString("port"),
		ChatWebhookURL:     strings.TrimSpace(v.GetString("chat_webhook_url")),
		EmailWebhookURL:    strings.TrimSpace(v.GetString("email_webhook_url")),
		RelayTargetURL:     strings.TrimSpace(v.GetString("relay_target_url")),
		WebhookTimeout:     v.GetDuration("webhook_timeout"),
		LeadsDB:            v.GetString("leads_db"),
		BrandFile:          v.GetString("brand_file"),
		AllowedOrigins:     splitList(v.GetString("allowed_origins")),
		SessionMaxAge:      v.GetDuration("session_max_age"),
		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		EmailSource:        v.GetString("email_source"),
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		LogFormat:          strings.ToLower(v.GetString("log_format")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that URLs are absolute http(s) addresses and durations are
// at least one second.
func (c *Config) Validate() error {
	for _, u := range []struct {
		name, val string
	}{
		{"CHAT_WEBHOOK_URL", c.ChatWebhookURL},
		{"EMAIL_WEBHOOK_URL", c.EmailWebhookURL},
		{"RELAY_TARGET_URL", c.RelayTargetURL},
	} {
		if u.val == "" {
			continue
		}
		parsed, err := url.Parse(u.val)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("env var %s is not a valid http(s) URL: %q", u.name, u.val)
		}
	}

	if c.Port == "" {
		return fmt.Errorf("env var PORT is empty")
	}
	// A bare number such as "15" parses as nanoseconds.
	if c.WebhookTimeout < minDuration {
		return fmt.Errorf("env var WEBHOOK_TIMEOUT must be at least %s (use a unit, e.g. 15s), got %s", minDuration, c.WebhookTimeout)
	}
	if c.SessionMaxAge < minDuration {
		return fmt.Errorf("env var SESSION_MAX_AGE must be at least %s (use a unit, e.g. 1h), got %s", minDuration, c.SessionMaxAge)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("env var RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
