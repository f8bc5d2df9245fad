package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxResolverDepth is the largest max_depth a project may configure.
const MaxResolverDepth = 32

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Resolver ResolverConfig `yaml:"resolver"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	// Catalog is the path of the type catalog, relative to the config file.
	Catalog string `yaml:"catalog"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}

type ResolverConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if _, err := Backend(cfg.Database.DSN); err != nil {
		return err
	}
	if cfg.Resolver.MaxDepth < 0 || cfg.Resolver.MaxDepth > MaxResolverDepth {
		return fmt.Errorf("resolver max_depth must be between 0 and %d, got %d", MaxResolverDepth, cfg.Resolver.MaxDepth)
	}
	switch strings.ToLower(cfg.Log.Mode) {
	case "", "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("unknown log mode: %s", cfg.Log.Mode)
	}
	return nil
}

// Backend names the store a DSN selects: "sqlite" or "postgres".
func Backend(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return "", fmt.Errorf("database dsn is required")
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", nil
	}
	return "", fmt.Errorf("unsupported database dsn %q: want sqlite:// or postgres://", dsn)
}
