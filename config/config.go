// Package config loads spectragraph settings from TOML or YAML files, an
// optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/TFMV/spectragraph/physics"
	"github.com/TFMV/spectragraph/render"
)

// ErrUnsupportedFormat is returned for config files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Environment variables that override file values.
const (
	EnvAddr  = "SPECTRAGRAPH_ADDR"
	EnvDebug = "SPECTRAGRAPH_DEBUG"
	EnvSeed  = "SPECTRAGRAPH_SEED"
)

// Config holds spectragraph configuration.
type Config struct {
	Debug   bool           `toml:"debug" yaml:"debug"`
	Layout  physics.Config `toml:"layout" yaml:"layout"`
	Render  RenderConfig   `toml:"render" yaml:"render"`
	Server  ServerConfig   `toml:"server" yaml:"server"`
	Session SessionConfig  `toml:"session" yaml:"session"`
}

// RenderConfig controls colours and geometry handed to renderers.
type RenderConfig struct {
	LowColor   string  `toml:"low_color" yaml:"low_color"`
	MidColor   string  `toml:"mid_color" yaml:"mid_color"`
	HighColor  string  `toml:"high_color" yaml:"high_color"`
	NoData     string  `toml:"no_data_color" yaml:"no_data_color"`
	Padding    float64 `toml:"padding" yaml:"padding"`
	NodeRadius float64 `toml:"node_radius" yaml:"node_radius"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr            string  `toml:"addr" yaml:"addr"`
	EventsPerSecond float64 `toml:"events_per_second" yaml:"events_per_second"`
	EventBurst      int     `toml:"event_burst" yaml:"event_burst"`
}

// SessionConfig controls the event loop.
type SessionConfig struct {
	TickMillis int  `toml:"tick_millis" yaml:"tick_millis"`
	Empty      bool `toml:"empty" yaml:"empty"` // start without the seed graph
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: physics.DefaultConfig(),
		Render: RenderConfig{
			LowColor:   "red",
			MidColor:   "white",
			HighColor:  "blue",
			NoData:     "#cccccc",
			Padding:    render.DefaultPadding,
			NodeRadius: 12,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			EventsPerSecond: 120,
			EventBurst:      30,
		},
		Session: SessionConfig{TickMillis: 16},
	}
}

// TickInterval returns the simulation tick period.
func (c *Config) TickInterval() time.Duration {
	if c.Session.TickMillis <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.Session.TickMillis) * time.Millisecond
}

// FrameOptions builds render options from the render section.
func (c *Config) FrameOptions() (render.FrameOptions, error) {
	scale, err := render.NewColorScale(c.Render.LowColor, c.Render.MidColor, c.Render.HighColor, c.Render.NoData)
	if err != nil {
		return render.FrameOptions{}, fmt.Errorf("render colours: %w", err)
	}
	return render.FrameOptions{Scale: scale, Padding: c.Render.Padding}, nil
}

// OutputOptions builds renderer options sized to the canvas.
func (c *Config) OutputOptions() *render.OutputOptions {
	opts := render.NewDefaultOptions()
	opts.Width = c.Layout.Width
	opts.Height = c.Layout.Height
	opts.NodeRadius = c.Render.NodeRadius
	return opts
}

// Load reads path (if non-empty) over the defaults, then applies .env and
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		default:
			return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
		}
	}

	// a missing .env is fine
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvDebug, v, err)
		}
		c.Debug = b
	}
	if v := os.Getenv(EnvSeed); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvSeed, v, err)
		}
		c.Layout.Seed = n
	}
	return nil
}

// Save writes the config as TOML or YAML depending on the extension.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(cfg)
		data = []byte(sb.String())
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
