package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, int64(50), cfg.Upload.MaxSizeMB)
	assert.Equal(t, 4, cfg.Convert.Workers)
	assert.Equal(t, 200, cfg.Convert.RenderDPI)
	assert.Equal(t, "soffice", cfg.Convert.SofficeBinary)
	assert.Equal(t, "https://api.telegram.org", cfg.Transport.APIBaseURL)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.True(t, cfg.Ops.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NoPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(50), cfg.Upload.MaxSizeMB)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
upload:
  max_size_mb: 20
convert:
  workers: 2
  render_timeout: 45s
ops:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(20), cfg.Upload.MaxSizeMB)
	assert.Equal(t, 2, cfg.Convert.Workers)
	assert.Equal(t, 45*time.Second, cfg.Convert.RenderTimeout)
	assert.False(t, cfg.Ops.Enabled)
	// Untouched values keep their defaults.
	assert.Equal(t, 200, cfg.Convert.RenderDPI)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("CONVERTBOT_MAX_SIZE_MB", "10")
	t.Setenv("CONVERTBOT_WORKERS", "8")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "test-token", cfg.Transport.Token)
	assert.Equal(t, int64(10), cfg.Upload.MaxSizeMB)
	assert.Equal(t, 8, cfg.Convert.Workers)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max size", func(c *Config) { c.Upload.MaxSizeMB = 0 }},
		{"zero workers", func(c *Config) { c.Convert.Workers = 0 }},
		{"quality too high", func(c *Config) { c.Convert.JPEGQuality = 101 }},
		{"dpi too low", func(c *Config) { c.Convert.RenderDPI = 10 }},
		{"zero render timeout", func(c *Config) { c.Convert.RenderTimeout = 0 }},
		{"zero init retries", func(c *Config) { c.Transport.InitRetries = 0 }},
		{"bad ops port", func(c *Config) { c.Ops.Port = 70000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMaxUploadBytes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Upload.MaxSizeMB = 2
	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadBytes())
}
