// Package config loads lbcoa.yaml and applies .env and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultFile = "lbcoa.yaml"

// Environment variables that override the file.
const (
	EnvDB       = "LBCOA_DB"
	EnvAddr     = "LBCOA_ADDR"
	EnvChartDir = "LBCOA_CHART_DIR"
	EnvLogLevel = "LOG_LEVEL"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Charts   ChartsConfig   `yaml:"charts"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ChartsConfig locates the directory the host scans for unverified charts.
type ChartsConfig struct {
	UnverifiedDir   string `yaml:"unverified_dir"`
	DefaultLanguage string `yaml:"default_language"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns a Config suitable for a local install.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "lbcoa.db"},
		Server:   ServerConfig{Addr: ":8888"},
		Charts: ChartsConfig{
			UnverifiedDir:   "charts/unverified",
			DefaultLanguage: "en",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error; the defaults
// and environment still apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvChartDir); v != "" {
		c.Charts.UnverifiedDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Save writes c as YAML.
func Save(path string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
