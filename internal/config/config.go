// Package config loads the YAML configuration of the retouch daemon and
// the edit scripts run by the retouch command.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/retouch/raster"
)

// ErrInvalid is returned for configurations that fail validation.
var ErrInvalid = errors.New("config: invalid")

// Config is the top-level daemon configuration.
type Config struct {
	Listen   string       `yaml:"listen"`
	DBPath   string       `yaml:"db_path"` // empty disables persistence
	LogLevel string       `yaml:"log_level"`
	Workers  int          `yaml:"workers"` // 0 means GOMAXPROCS
	Editor   EditorConfig `yaml:"editor"`
	Remote   RemoteConfig `yaml:"remote"`
	Server   ServerConfig `yaml:"server"`
}

// EditorConfig tunes sessions.
type EditorConfig struct {
	JPEGQuality   int `yaml:"jpeg_quality"`
	PreviewMaxDim int `yaml:"preview_max_dim"`
	// MaxPixels bounds uploads and upscales; at most raster.MaxPixels.
	MaxPixels int `yaml:"max_pixels"`
}

// DefaultMaxPixels is the editor pixel limit when none is configured.
const DefaultMaxPixels = 1 << 26

// RemoteConfig points at the background-removal service.
type RemoteConfig struct {
	Endpoint string        `yaml:"endpoint"` // empty disables RemoveBackground
	Timeout  time.Duration `yaml:"timeout"`
	APIKey   string        `yaml:"api_key"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Editor.JPEGQuality <= 0 {
		c.Editor.JPEGQuality = 90
	}
	if c.Editor.PreviewMaxDim == 0 {
		c.Editor.PreviewMaxDim = 1024
	}
	if c.Editor.MaxPixels <= 0 {
		c.Editor.MaxPixels = DefaultMaxPixels
	}
	if c.Remote.Timeout <= 0 {
		c.Remote.Timeout = 60 * time.Second
	}
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = 32 << 20
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 2 * time.Minute
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
}

// Validate checks ranges that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Editor.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg_quality %d out of 1..100", ErrInvalid, c.Editor.JPEGQuality)
	}
	if c.Editor.MaxPixels > raster.MaxPixels {
		return fmt.Errorf("%w: max_pixels %d above %d", ErrInvalid, c.Editor.MaxPixels, raster.MaxPixels)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Workers)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}
}
