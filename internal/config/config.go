// Package config loads semplan settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the tool's settings. Precedence: defaults, then the YAML
// file, then SEMPLAN_* environment variables; CLI flags override last.
type Config struct {
	DB string `yaml:"db"`

	Plan struct {
		Semesters         int `yaml:"semesters"`
		OverloadThreshold int `yaml:"overload_threshold"`
	} `yaml:"plan"`

	Catalog struct {
		URL   string `yaml:"url"`
		Proxy string `yaml:"proxy"`
	} `yaml:"catalog"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Dir is the per-user data directory, ~/.semplan.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".semplan")
}

// DefaultPath is the config file read when no --config is given.
func DefaultPath() string {
	if env := os.Getenv("SEMPLAN_CONFIG"); env != "" {
		return env
	}
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the config file at path if it exists and applies env overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.DB = filepath.Join(Dir(), "plan.db")
	cfg.Plan.Semesters = 8
	cfg.Plan.OverloadThreshold = 24
	cfg.Catalog.URL = "https://daa.uit.edu.vn/danh-muc-mon-hoc-dai-hoc"
	cfg.Logging.Level = "warn"
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("SEMPLAN_DB"); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv("SEMPLAN_CATALOG_URL"); v != "" {
		cfg.Catalog.URL = v
	}
	if v, ok := os.LookupEnv("SEMPLAN_PROXY"); ok {
		cfg.Catalog.Proxy = v
	}
	if v := os.Getenv("SEMPLAN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if err := envInt("SEMPLAN_SEMESTERS", &cfg.Plan.Semesters); err != nil {
		return err
	}
	return envInt("SEMPLAN_OVERLOAD", &cfg.Plan.OverloadThreshold)
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func validate(cfg *Config) error {
	if cfg.DB == "" {
		return fmt.Errorf("db path is required")
	}
	if cfg.Plan.Semesters < 1 {
		return fmt.Errorf("plan.semesters must be at least 1, got %d", cfg.Plan.Semesters)
	}
	if cfg.Plan.OverloadThreshold < 0 {
		return fmt.Errorf("plan.overload_threshold must not be negative, got %d", cfg.Plan.OverloadThreshold)
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", cfg.Logging.Level)
	}
	return nil
}
