package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 150, cfg.Field.Count)
	assert.Equal(t, 30, cfg.Field.FPS)
	assert.Equal(t, 1500*time.Millisecond, cfg.Contact.Delay)
	assert.Equal(t, 365*24*time.Hour, cfg.Store.Retention)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("CKP_FIELD_COUNT", "80")
	t.Setenv("CKP_CONTACT_DELAY", "250ms")
	t.Setenv("CKP_LOGGER_FORMAT", "json")
	t.Setenv("CKP_SERVER_TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Admin.Token)
	assert.Equal(t, 80, cfg.Field.Count)
	assert.Equal(t, 250*time.Millisecond, cfg.Contact.Delay)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  mode: release
field:
  fps: 24
  max_streams: 4
store:
  enabled: false
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 24, cfg.Field.FPS)
	assert.Equal(t, int64(4), cfg.Field.MaxStreams)
	assert.False(t, cfg.Store.Enabled)
	assert.Equal(t, time.Second/24, cfg.Field.FrameInterval())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }, "server.port is required"},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"count above max", func(c *Config) { c.Field.Count = c.Field.MaxCount + 1 }, "field.count"},
		{"negative count", func(c *Config) { c.Field.Count = -1 }, "field.count"},
		{"fps zero", func(c *Config) { c.Field.FPS = 0 }, "field.fps"},
		{"no streams", func(c *Config) { c.Field.MaxStreams = 0 }, "field.max_streams"},
		{"negative delay", func(c *Config) { c.Contact.Delay = -time.Second }, "contact.delay"},
		{"store without path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"bad proxy", func(c *Config) { c.Server.TrustedProxies = []string{"10.0.0.0/8", "proxy.local"} }, "proxy.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
