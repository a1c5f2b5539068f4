package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the detection service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Database  DatabaseConfig  `yaml:"database"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Detection DetectionConfig `yaml:"detection"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GetHost returns the configured host, defaulting to all interfaces.
func (s ServerConfig) GetHost() string {
	if s.Host == "" {
		return "0.0.0.0"
	}
	return s.Host
}

// RedisConfig holds the shared-state store connection. When Addr is
// empty the service falls back to the in-process store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DatabaseConfig holds the optional detection-audit database.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// OpenAIConfig holds the optional language-model client used by the
// support chat surface. The detection core never touches it.
type OpenAIConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// DetectionConfig holds the orchestrator policy knobs.
type DetectionConfig struct {
	CacheTTLHours          int `yaml:"cache_ttl_hours"`
	AnalysisTimeoutSeconds int `yaml:"analysis_timeout_seconds"`
	RateLimitPerMinute     int `yaml:"rate_limit_per_minute"`
	ChatRateLimitPerMinute int `yaml:"chat_rate_limit_per_minute"`
	FastPathMaxHeaders     int `yaml:"fast_path_max_headers"`
	CacheSampleRows        int `yaml:"cache_sample_rows"`
	CacheSampleCells       int `yaml:"cache_sample_cells"`
}

// CacheTTL returns the cache TTL as a duration.
func (d DetectionConfig) CacheTTL() time.Duration {
	return time.Duration(d.CacheTTLHours) * time.Hour
}

// AnalysisTimeout returns the full-analysis timeout as a duration.
func (d DetectionConfig) AnalysisTimeout() time.Duration {
	return time.Duration(d.AnalysisTimeoutSeconds) * time.Second
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Detection: DetectionConfig{
			CacheTTLHours:          24,
			AnalysisTimeoutSeconds: 5,
			RateLimitPerMinute:     60,
			ChatRateLimitPerMinute: 20,
			FastPathMaxHeaders:     10,
			CacheSampleRows:        3,
			CacheSampleCells:       5,
		},
		Logging: LoggingConfig{Level: "INFO"},
	}
}

// Load reads configuration from a YAML file, starting from defaults.
// A missing file is not an error; env overrides still apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env
// vars, so secrets can live in .env locally and in real env vars in
// production.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
		cfg.OpenAI.Enabled = true
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg, nil
}
