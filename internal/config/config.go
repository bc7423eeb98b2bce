package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`

	// Filesystem layout
	DocumentRoot string `yaml:"document_root"`
	OutputRoot   string `yaml:"output_root"`
	Extension    string `yaml:"extension"`

	// Folder pages
	ReadmeName    string `yaml:"readme_name"`
	ShowPageCount bool   `yaml:"show_page_count"`

	// Prefix for document links in generated static pages.
	StaticDocumentBase string `yaml:"static_document_base"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	LogLevel string `yaml:"log_level"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         "8080",
		DocumentRoot: "dateien",
		OutputRoot:   "output",
		Extension:    ".pdf",
		ReadmeName:   "README.md",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
		LogLevel:     "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE, and finally environment variables.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Host = envOr("HOST", cfg.Host)
	cfg.Port = envOr("PORT", cfg.Port)
	cfg.DocumentRoot = envOr("DOCUMENT_ROOT", cfg.DocumentRoot)
	cfg.OutputRoot = envOr("OUTPUT_ROOT", cfg.OutputRoot)
	cfg.Extension = envOr("DOCUMENT_EXTENSION", cfg.Extension)
	cfg.ReadmeName = envOr("README_NAME", cfg.ReadmeName)
	cfg.ShowPageCount = envBool("SHOW_PAGE_COUNT", cfg.ShowPageCount)
	cfg.StaticDocumentBase = envOr("STATIC_DOCUMENT_BASE", cfg.StaticDocumentBase)
	cfg.ReadTimeout = envDuration("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = envDuration("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.IdleTimeout = envDuration("IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)

	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 120 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 60 * time.Second
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would otherwise fail on the first request. The
// document root must exist, so a misconfigured server never starts.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		return fmt.Errorf("DOCUMENT_EXTENSION must start with a dot, got %q", c.Extension)
	}
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("PORT must be a port number, got %q", c.Port)
	}
	if c.OutputRoot == "" {
		return fmt.Errorf("OUTPUT_ROOT is required")
	}
	if strings.ContainsAny(c.ReadmeName, `/\`) {
		return fmt.Errorf("README_NAME must be a file name, got %q", c.ReadmeName)
	}
	info, err := os.Stat(c.DocumentRoot)
	if err != nil {
		return fmt.Errorf("DOCUMENT_ROOT %q: %w", c.DocumentRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("DOCUMENT_ROOT %q is not a directory", c.DocumentRoot)
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
