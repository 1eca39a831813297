package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFont        = "monospace"
	DefaultFontSize    = 14
	DefaultDensity     = 150
	DefaultTheme       = "green"
	DefaultTick        = 33 * time.Millisecond
	DefaultRefillEvery = 6
	DefaultTrailAlpha  = 0.12
	DefaultWidth       = 1280
	DefaultHeight      = 720
)

// Config is the preferences file: the settings the engine reads plus the
// tuning knobs of the hosts.
type Config struct {
	Settings Settings `yaml:"settings"`
	Tuning   Tuning   `yaml:"tuning"`
}

// Settings is the flat record consumed by the engine at start and on every
// control change.
type Settings struct {
	Font       string `yaml:"font" json:"font"`
	FontSize   int    `yaml:"font_size" json:"font_size"`
	Density    int    `yaml:"density" json:"density"`
	ColorTheme string `yaml:"color_theme" json:"color_theme"`
	DataMode   bool   `yaml:"data_mode" json:"data_mode"`
	FaucetOn   bool   `yaml:"faucet_on" json:"faucet_on"`
}

type Tuning struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	RefillEvery  int           `yaml:"refill_every"`
	TrailAlpha   float64       `yaml:"trail_alpha"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	PixelRatio   float64       `yaml:"pixel_ratio"`
	Seed         int64         `yaml:"seed"`
	FontFile     string        `yaml:"font_file"`
}

func DefaultSettings() Settings {
	return Settings{
		Font:       DefaultFont,
		FontSize:   DefaultFontSize,
		Density:    DefaultDensity,
		ColorTheme: DefaultTheme,
		FaucetOn:   true,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Settings: DefaultSettings(),
		Tuning: Tuning{
			TickInterval: DefaultTick,
			RefillEvery:  DefaultRefillEvery,
			TrailAlpha:   DefaultTrailAlpha,
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			PixelRatio:   1,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Merge(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays the keys present in a YAML file onto cfg and validates the
// result. Keys absent from the file keep their current values.
func Merge(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the engine cannot run with. Unknown theme names
// are accepted; the renderer falls back to the default theme.
func (c *Config) Validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	t := c.Tuning
	if t.TickInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, t.TickInterval)
	}
	if t.RefillEvery <= 0 {
		return fmt.Errorf("%w: refill_every=%d", ErrInvalidTuning, t.RefillEvery)
	}
	if t.TrailAlpha < 0 || t.TrailAlpha > 1 {
		return fmt.Errorf("%w: trail_alpha=%g", ErrInvalidTuning, t.TrailAlpha)
	}
	if t.Width < 0 || t.Height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, t.Width, t.Height)
	}
	if t.PixelRatio <= 0 {
		return fmt.Errorf("%w: pixel_ratio=%g", ErrInvalidCanvas, t.PixelRatio)
	}
	return nil
}

func (s Settings) Validate() error {
	if s.Density < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDensity, s.Density)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFontSize, s.FontSize)
	}
	return nil
}
