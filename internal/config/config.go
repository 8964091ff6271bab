// Package config provides unified configuration loading for the conversion bot.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the conversion bot.
type Config struct {
	Transport     TransportConfig     `yaml:"transport"`
	Upload        UploadConfig        `yaml:"upload"`
	Workspace     WorkspaceConfig     `yaml:"workspace"`
	Convert       ConvertConfig       `yaml:"convert"`
	Usage         UsageConfig         `yaml:"usage"`
	Ops           OpsConfig           `yaml:"ops"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// TransportConfig holds chat transport settings.
type TransportConfig struct {
	Token       string        `yaml:"token"`
	APIBaseURL  string        `yaml:"api_base_url"`
	PollTimeout time.Duration `yaml:"poll_timeout"`
	InitRetries int           `yaml:"init_retries"`
	InitBackoff time.Duration `yaml:"init_backoff"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// UploadConfig holds upload acceptance settings.
type UploadConfig struct {
	MaxSizeMB int64 `yaml:"max_size_mb"`
}

// WorkspaceConfig holds temporary storage settings.
type WorkspaceConfig struct {
	Root string `yaml:"root"`
}

// ConvertConfig holds conversion engine settings.
type ConvertConfig struct {
	Workers       int           `yaml:"workers"`
	RenderDPI     int           `yaml:"render_dpi"`
	JPEGQuality   int           `yaml:"jpeg_quality"`
	SofficeBinary string        `yaml:"soffice_binary"`
	RenderTimeout time.Duration `yaml:"render_timeout"`
}

// UsageConfig holds usage log storage settings.
type UsageConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// OpsConfig holds the admin HTTP server settings.
type OpsConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Transport: TransportConfig{
			APIBaseURL:  "https://api.telegram.org",
			PollTimeout: 30 * time.Second,
			InitRetries: 6,
			InitBackoff: 2 * time.Second,
			HTTPTimeout: 90 * time.Second,
		},
		Upload: UploadConfig{
			MaxSizeMB: 50,
		},
		Workspace: WorkspaceConfig{
			Root: os.TempDir(),
		},
		Convert: ConvertConfig{
			Workers:       4,
			RenderDPI:     200,
			JPEGQuality:   95,
			SofficeBinary: "soffice",
			RenderTimeout: 30 * time.Second,
		},
		Usage: UsageConfig{
			SQLitePath: "bot_usage.db",
		},
		Ops: OpsConfig{
			Enabled:          true,
			Host:             "0.0.0.0",
			Port:             8086,
			GracefulShutdown: 10 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "convertbot",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("upload.max_size_mb must be positive, got %d", c.Upload.MaxSizeMB)
	}
	if c.Convert.Workers <= 0 {
		return fmt.Errorf("convert.workers must be positive, got %d", c.Convert.Workers)
	}
	if c.Convert.JPEGQuality < 1 || c.Convert.JPEGQuality > 100 {
		return fmt.Errorf("convert.jpeg_quality must be between 1 and 100, got %d", c.Convert.JPEGQuality)
	}
	if c.Convert.RenderDPI < 36 || c.Convert.RenderDPI > 600 {
		return fmt.Errorf("convert.render_dpi must be between 36 and 600, got %d", c.Convert.RenderDPI)
	}
	if c.Convert.RenderTimeout <= 0 {
		return fmt.Errorf("convert.render_timeout must be positive")
	}
	if c.Transport.InitRetries < 1 {
		return fmt.Errorf("transport.init_retries must be at least 1, got %d", c.Transport.InitRetries)
	}
	if c.Ops.Enabled && (c.Ops.Port < 1 || c.Ops.Port > 65535) {
		return fmt.Errorf("ops.port must be a valid port, got %d", c.Ops.Port)
	}
	return nil
}

// applyEnvOverrides overrides config values from environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Transport.Token = v
	}
	if v := os.Getenv("CONVERTBOT_API_BASE_URL"); v != "" {
		cfg.Transport.APIBaseURL = v
	}
	if v := os.Getenv("CONVERTBOT_WORKSPACE_ROOT"); v != "" {
		cfg.Workspace.Root = v
	}
	if v := os.Getenv("CONVERTBOT_SQLITE_PATH"); v != "" {
		cfg.Usage.SQLitePath = v
	}
	if v := os.Getenv("CONVERTBOT_SOFFICE_BINARY"); v != "" {
		cfg.Convert.SofficeBinary = v
	}
	if v := os.Getenv("CONVERTBOT_MAX_SIZE_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Upload.MaxSizeMB = n
		}
	}
	if v := os.Getenv("CONVERTBOT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Convert.Workers = n
		}
	}
	if v := os.Getenv("CONVERTBOT_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("CONVERTBOT_LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("CONVERTBOT_OPS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ops.Port = n
		}
	}
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Upload.MaxSizeMB * 1024 * 1024
}
