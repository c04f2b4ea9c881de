package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "certexpiry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Certificate.Path)
	assert.Equal(t, "00:01", cfg.Schedule.DailyAt)
	assert.Equal(t, time.Duration(0), cfg.Schedule.Interval)
	assert.False(t, cfg.Schedule.Watch)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 9469, cfg.Server.Port)
	assert.Equal(t, DefaultEntity, cfg.Publish.Entity)
	assert.True(t, cfg.Publish.Metrics)
	assert.False(t, cfg.Publish.Store.Enabled)
	assert.Equal(t, "unknown,expired,days<14", cfg.Alert.Expression)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
certificate:
  path: /etc/ssl/certs/site.pem
schedule:
  daily_at: "06:30"
  interval: 1h
  watch: true
server:
  port: 8080
publish:
  entity: sensor.site_cert
  store:
    enabled: true
    sqlite_path: /var/lib/certexpiry/state.db
    retention: 720h
alert:
  expression: "expired,days<=30"
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/ssl/certs/site.pem", cfg.Certificate.Path)
	assert.Equal(t, "06:30", cfg.Schedule.DailyAt)
	assert.Equal(t, time.Hour, cfg.Schedule.Interval)
	assert.True(t, cfg.Schedule.Watch)
	assert.True(t, cfg.Server.Enabled, "unset keys keep defaults")
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sensor.site_cert", cfg.Publish.Entity)
	assert.True(t, cfg.Publish.Store.Enabled)
	assert.Equal(t, "/var/lib/certexpiry/state.db", cfg.Publish.Store.SQLitePath)
	assert.Equal(t, 720*time.Hour, cfg.Publish.Store.Retention)
	assert.Equal(t, "expired,days<=30", cfg.Alert.Expression)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	lc := cfg.LoggerConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "text", lc.Format)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
certificate:
  path: /from/file.pem
server:
  port: 8080
`)
	t.Setenv("CERTEXPIRY_CERTIFICATE_PATH", "/from/env.pem")
	t.Setenv("CERTEXPIRY_SERVER_PORT", "9100")
	t.Setenv("CERTEXPIRY_SCHEDULE_DAILY__AT", "12:00")
	t.Setenv("CERTEXPIRY_PUBLISH_STORE_SQLITE__PATH", "/tmp/x.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env.pem", cfg.Certificate.Path)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "12:00", cfg.Schedule.DailyAt)
	assert.Equal(t, "/tmp/x.db", cfg.Publish.Store.SQLitePath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad daily time", "schedule:\n  daily_at: \"25:00\"\n", "schedule.daily_at"},
		{"negative interval", "schedule:\n  interval: -1m\n", "schedule.interval"},
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"port ignored when disabled", "server:\n  enabled: false\n  port: 0\n", ""},
		{"empty entity", "publish:\n  entity: \"\"\n", "publish.entity"},
		{"store without path", "publish:\n  store:\n    enabled: true\n    sqlite_path: \"\"\n", "sqlite_path"},
		{"negative retention", "publish:\n  store:\n    retention: -1h\n", "retention"},
		{"bad alert", "alert:\n  expression: \"soon\"\n", "alert.expression"},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad format", "logging:\n  format: xml\n", "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseDailyAt(t *testing.T) {
	h, m, err := ParseDailyAt("00:01")
	require.NoError(t, err)
	assert.Equal(t, 0, h)
	assert.Equal(t, 1, m)

	h, m, err = ParseDailyAt("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, h)
	assert.Equal(t, 59, m)

	_, _, err = ParseDailyAt("noon")
	assert.Error(t, err)
}
