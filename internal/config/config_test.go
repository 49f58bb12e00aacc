package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("minimal config gets defaults", func(t *testing.T) {
		path := writeConfig(t, `
[database]
user = "app"
dbname = "appointments"
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.HTTPPort)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 48, cfg.Booking.ModificationTokenTTLHours)
		assert.Equal(t, "/metrics", cfg.Metrics.Path)
		assert.False(t, cfg.Metrics.Enabled)
	})

	t.Run("explicit values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db.internal"
user = "app"
password = "secret"
dbname = "appointments"

[metrics]
enabled = true
service_name = "appointment-service"

[booking]
modification_token_ttl_hours = 24
min_booking_notice_minutes = 60
advance_booking_days = 90
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.HTTPPort)
		assert.Equal(t, 24, cfg.Booking.ModificationTokenTTLHours)
		assert.Equal(t, 60, cfg.Booking.MinBookingNoticeMinutes)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t,
			"host=db.internal port=5432 user=app password=secret dbname=appointments sslmode=disable",
			cfg.Database.DSN(),
		)
	})

	t.Run("missing dbname", func(t *testing.T) {
		path := writeConfig(t, `
[database]
user = "app"
`)

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("negative notice interval", func(t *testing.T) {
		path := writeConfig(t, `
[database]
user = "app"
dbname = "appointments"

[booking]
min_booking_notice_minutes = -5
`)

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}
