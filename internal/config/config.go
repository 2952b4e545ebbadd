package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds service settings resolved from flags, environment and the config file.
type Config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
	LogLevel    string

	WebhookURL         string
	NotifyTemplate     string
	NotifyCooldown     time.Duration
	NotifyDedupeWindow time.Duration
	LotBaseURL         string

	SweepInterval    time.Duration
	SweepConcurrency int
}

// Keys as they appear in the config file. Environment variables use the upper-case form.
const (
	KeyDatabaseURL        = "database_url"
	KeyHTTPAddr           = "http_addr"
	KeyJWTSecret          = "auth_jwt_secret"
	KeyLogLevel           = "log_level"
	KeyWebhookURL         = "advisory_webhook_url"
	KeyNotifyTemplate     = "advisory_notify_template"
	KeyNotifyCooldown     = "advisory_notify_cooldown"
	KeyNotifyDedupeWindow = "advisory_notify_dedup_window"
	KeyLotBaseURL         = "advisory_lot_base_url"
	KeySweepInterval      = "advisory_sweep_interval"
	KeySweepConcurrency   = "advisory_sweep_concurrency"
)

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyNotifyCooldown, 6*time.Hour)
	v.SetDefault(KeyNotifyDedupeWindow, 24*time.Hour)
	v.SetDefault(KeySweepInterval, time.Hour)
	v.SetDefault(KeySweepConcurrency, 4)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyDatabaseURL, "DATABASE_URL", "PG_DSN")
	_ = v.BindEnv(KeyJWTSecret, "AUTH_JWT_SECRET", "SUPABASE_JWT_SECRET")
}

// Load resolves the service configuration from v.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("config: nil viper")
	}
	cfg := Config{
		DatabaseURL:        v.GetString(KeyDatabaseURL),
		HTTPAddr:           v.GetString(KeyHTTPAddr),
		JWTSecret:          v.GetString(KeyJWTSecret),
		LogLevel:           v.GetString(KeyLogLevel),
		WebhookURL:         v.GetString(KeyWebhookURL),
		NotifyTemplate:     v.GetString(KeyNotifyTemplate),
		NotifyCooldown:     v.GetDuration(KeyNotifyCooldown),
		NotifyDedupeWindow: v.GetDuration(KeyNotifyDedupeWindow),
		LotBaseURL:         strings.TrimRight(v.GetString(KeyLotBaseURL), "/"),
		SweepInterval:      v.GetDuration(KeySweepInterval),
		SweepConcurrency:   v.GetInt(KeySweepConcurrency),
	}
	if cfg.SweepConcurrency <= 0 {
		return Config{}, fmt.Errorf("config: %s must be positive", KeySweepConcurrency)
	}
	return cfg, nil
}

// Validate checks the settings required to serve HTTP.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL or PG_DSN is required")
	}
	if c.JWTSecret == "" {
		return errors.New("config: AUTH_JWT_SECRET is required")
	}
	if c.HTTPAddr == "" {
		return errors.New("config: HTTP_ADDR is required")
	}
	return nil
}
