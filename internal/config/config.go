// Package config loads certexpiry configuration from defaults, a YAML file
// and CERTEXPIRY_ environment variables, in increasing priority.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ivoronin/certexpiry/internal/condition"
	"github.com/ivoronin/certexpiry/internal/logger"
)

// EnvPrefix is the prefix for environment variables.
// CERTEXPIRY_SCHEDULE_DAILY__AT maps to schedule.daily_at.
const EnvPrefix = "CERTEXPIRY_"

// DefaultEntity is the entity name the state is published under.
const DefaultEntity = "sensor.ssl_expiration_days"

// Config is the complete certexpiry configuration.
type Config struct {
	Certificate CertificateConfig `koanf:"certificate"`
	Schedule    ScheduleConfig    `koanf:"schedule"`
	Server      ServerConfig      `koanf:"server"`
	Publish     PublishConfig     `koanf:"publish"`
	Alert       AlertConfig       `koanf:"alert"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// CertificateConfig identifies the monitored certificate file.
type CertificateConfig struct {
	Path string `koanf:"path"`
}

// ScheduleConfig defines when the certificate is refreshed.
type ScheduleConfig struct {
	// DailyAt is the local wall clock time of the daily refresh, "HH:MM".
	DailyAt string `koanf:"daily_at"`

	// Interval adds a fixed-period refresh; 0 disables it.
	Interval time.Duration `koanf:"interval"`

	// Watch refreshes whenever the certificate file changes.
	Watch bool `koanf:"watch"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Enabled bool `koanf:"enabled"`
	Port    int  `koanf:"port"`
}

// PublishConfig selects where refreshed state is published.
type PublishConfig struct {
	Entity  string      `koanf:"entity"`
	Metrics bool        `koanf:"metrics"`
	Store   StoreConfig `koanf:"store"`
}

// StoreConfig holds the SQLite state history configuration.
type StoreConfig struct {
	Enabled    bool   `koanf:"enabled"`
	SQLitePath string `koanf:"sqlite_path"`

	// Retention bounds the history age; 0 keeps everything.
	Retention time.Duration `koanf:"retention"`
}

// AlertConfig holds the alert condition expression.
type AlertConfig struct {
	Expression string `koanf:"expression"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Output string `koanf:"output"`
}

// getDefaults returns default configuration as a map
func getDefaults() map[string]interface{} {
	return map[string]interface{}{
		"certificate": map[string]interface{}{
			"path": "",
		},
		"schedule": map[string]interface{}{
			"daily_at": "00:01",
			"interval": "0s",
			"watch":    false,
		},
		"server": map[string]interface{}{
			"enabled": true,
			"port":    9469,
		},
		"publish": map[string]interface{}{
			"entity":  DefaultEntity,
			"metrics": true,
			"store": map[string]interface{}{
				"enabled":     false,
				"sqlite_path": "./data/certexpiry.db",
				"retention":   "0s",
			},
		},
		"alert": map[string]interface{}{
			"expression": "unknown,expired,days<14",
		},
		"logging": map[string]interface{}{
			"level":  "info",
			"format": "json",
			"output": "stderr",
		},
	}
}

// Load loads configuration from defaults, the YAML file at path (optional)
// and environment variables. The result is validated.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(getDefaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "koanf",
			WeaklyTypedInput: true,
			Result:           cfg,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// envKey maps CERTEXPIRY_PUBLISH_STORE_SQLITE__PATH to publish.store.sqlite_path.
// Double underscores preserve literal underscores in field names.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "__", "%UNDERSCORE%")
	s = strings.ReplaceAll(s, "_", ".")
	return strings.ReplaceAll(s, "%UNDERSCORE%", "_")
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if _, _, err := ParseDailyAt(c.Schedule.DailyAt); err != nil {
		return fmt.Errorf("schedule.daily_at: %w", err)
	}
	if c.Schedule.Interval < 0 {
		return fmt.Errorf("schedule.interval must not be negative")
	}
	if c.Server.Enabled && (c.Server.Port < 1 || c.Server.Port > 65535) {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Publish.Entity == "" {
		return fmt.Errorf("publish.entity is required")
	}
	if c.Publish.Store.Enabled && c.Publish.Store.SQLitePath == "" {
		return fmt.Errorf("publish.store.sqlite_path is required when the store is enabled")
	}
	if c.Publish.Store.Retention < 0 {
		return fmt.Errorf("publish.store.retention must not be negative")
	}
	if c.Alert.Expression != "" {
		if _, err := condition.Parse(c.Alert.Expression); err != nil {
			return fmt.Errorf("alert.expression: %w", err)
		}
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

// ParseDailyAt parses an "HH:MM" wall clock time.
func ParseDailyAt(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", value)
	}
	return t.Hour(), t.Minute(), nil
}

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Output: c.Logging.Output,
	}
}
