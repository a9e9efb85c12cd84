package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/featurestore-backend/internal/platform/envutil"
)

// Config carries the process-level knobs that are not secrets. Values
// come from an optional YAML file named by FEATURESTORE_CONFIG, with
// environment variables taking precedence.
type Config struct {
	Port           string        `yaml:"port"`
	LogMode        string        `yaml:"log_mode"`
	Environment    string        `yaml:"environment"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	CacheTTL       time.Duration `yaml:"-"`

	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            "8000",
		LogMode:         "development",
		Environment:     "local",
		CacheTTLSeconds: 3600,
	}

	if path := envutil.String("FEATURESTORE_CONFIG", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	}

	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.Environment = envutil.String("ENVIRONMENT", cfg.Environment)
	cfg.CacheTTLSeconds = envutil.Int("CACHE_TTL_SECONDS", cfg.CacheTTLSeconds)
	if cfg.CacheTTLSeconds <= 0 {
		cfg.CacheTTLSeconds = 3600
	}
	cfg.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	return cfg, nil
}
