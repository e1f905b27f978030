package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/truongquocminh/bloodbank/pkg/infrastructure/api"
)

// Source kinds
const (
	SourceCSV = "csv"
	SourceAPI = "api"
)

// Config is the runtime configuration of the bloodbank tool
type Config struct {
	Source struct {
		Kind    string `yaml:"kind"`     // "csv" or "api"
		DataDir string `yaml:"data_dir"` // csv only
	} `yaml:"source"`

	API struct {
		BaseURL        string    `yaml:"base_url"`
		Token          string    `yaml:"token"`
		TimeoutSeconds int       `yaml:"timeout_seconds"`
		RetryCount     int       `yaml:"retry_count"`
		PageSize       int       `yaml:"page_size"`
		MaxConcurrency int       `yaml:"max_concurrency"`
		Paths          api.Paths `yaml:"paths"`
	} `yaml:"api"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Report struct {
		Kind      string `yaml:"kind"`
		Format    string `yaml:"format"`
		OutputDir string `yaml:"output_dir"`
	} `yaml:"report"`
}

// Default returns the configuration used when no file or environment overrides exist
func Default() *Config {
	cfg := &Config{}
	cfg.Source.Kind = SourceCSV
	cfg.API.TimeoutSeconds = 30
	cfg.API.RetryCount = 3
	cfg.API.PageSize = 100
	cfg.API.MaxConcurrency = 4
	cfg.API.Paths = api.DefaultPaths()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "console"
	cfg.Report.Kind = "all"
	cfg.Report.Format = "text"
	return cfg
}

// Load reads the optional YAML file at path over the defaults, then applies
// BLOODBANK_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Source.Kind = getEnv("BLOODBANK_SOURCE", c.Source.Kind)
	c.Source.DataDir = getEnv("BLOODBANK_DATA_DIR", c.Source.DataDir)

	c.API.BaseURL = getEnv("BLOODBANK_API_URL", c.API.BaseURL)
	c.API.Token = getEnv("BLOODBANK_API_TOKEN", c.API.Token)
	c.API.TimeoutSeconds = getEnvInt("BLOODBANK_API_TIMEOUT", c.API.TimeoutSeconds)
	c.API.PageSize = getEnvInt("BLOODBANK_API_PAGE_SIZE", c.API.PageSize)

	c.Log.Level = getEnv("BLOODBANK_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("BLOODBANK_LOG_FORMAT", c.Log.Format)
}

// Validate checks that the selected source has what it needs
func (c *Config) Validate() error {
	switch strings.ToLower(c.Source.Kind) {
	case SourceCSV:
		if c.Source.DataDir == "" {
			return fmt.Errorf("csv source requires a data directory")
		}
	case SourceAPI:
		if c.API.BaseURL == "" {
			return fmt.Errorf("api source requires a base URL")
		}
		if c.API.PageSize <= 0 {
			return fmt.Errorf("api page size must be positive, got %d", c.API.PageSize)
		}
	default:
		return fmt.Errorf("unknown source %q (expected csv or api)", c.Source.Kind)
	}

	switch c.Report.Format {
	case "text", "json", "html", "xlsx":
	default:
		return fmt.Errorf("unknown format %q (expected text, json, html or xlsx)", c.Report.Format)
	}
	if (c.Report.Format == "html" || c.Report.Format == "xlsx") && c.Report.OutputDir == "" {
		return fmt.Errorf("%s format requires an output directory", c.Report.Format)
	}

	return nil
}

// ClientConfig converts the API section to a REST client configuration
func (c *Config) ClientConfig() api.ClientConfig {
	clientConfig := api.DefaultClientConfig(c.API.BaseURL)
	if c.API.TimeoutSeconds > 0 {
		clientConfig.Timeout = time.Duration(c.API.TimeoutSeconds) * time.Second
	}
	if c.API.RetryCount >= 0 {
		clientConfig.RetryCount = c.API.RetryCount
	}
	if c.API.PageSize > 0 {
		clientConfig.PageSize = c.API.PageSize
	}
	if c.API.MaxConcurrency > 0 {
		clientConfig.MaxConcurrency = c.API.MaxConcurrency
	}
	clientConfig.Paths = c.API.Paths
	return clientConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}
