// Package config loads ckmetrics settings: built-in defaults, then an optional YAML
// file, then CKMETRICS_* environment variables, then validation.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/pable/go-ck-metrics/internal/joiner"
	"github.com/pable/go-ck-metrics/internal/model"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "CKMETRICS"

// Config is the complete application configuration.
type Config struct {
	DBPath string `yaml:"db_path" envconfig:"DB_PATH"`
	// MissingOpponent is "fatal" or "skip".
	MissingOpponent string `yaml:"missing_opponent" envconfig:"MISSING_OPPONENT"`
	// Sheet selects the worksheet read from .xlsx inputs.
	Sheet   string        `yaml:"sheet" envconfig:"SHEET"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOG"`
	Chart   ChartConfig   `yaml:"chart" envconfig:"CHART"`
	Roster  []TeamEntry   `yaml:"roster" ignored:"true"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"` // text or json
}

// ChartConfig sizes the rendered scatter plots in pixels.
type ChartConfig struct {
	Width  int `yaml:"width" envconfig:"WIDTH"`
	Height int `yaml:"height" envconfig:"HEIGHT"`
}

// TeamEntry is one roster team and its display colour ("#RRGGBB").
type TeamEntry struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// liga1Colors holds each club's chart colour.
var liga1Colors = map[string]string{
	"AREMA FC":            "#2196F3",
	"Bali United FC":      "#D32F2F",
	"Borneo FC Samarinda": "#FF9800",
	"Dewa United FC":      "#FDD835",
	"Madura United FC":    "#F44336",
	"Malut United FC":     "#D32F2F",
	"PERSEBAYA Surabaya":  "#388E3C",
	"PERSIS Solo":         "#D32F2F",
	"PSS Sleman":          "#4CAF50",
	"PSIS Semarang":       "#2196F3",
	"PERSIJA Jakarta":     "#F44336",
	"PERSIB Bandung":      "#2196F3",
	"PERSITA Tangerang":   "#9C27B0",
	"PSBS Biak":           "#90CAF9",
	"PSM Makassar":        "#B71C1C",
	"PERSIK Kediri":       "#9C27B0",
	"PS Barito Putera":    "#FFEB3B",
	"Semen Padang FC":     "#F44336",
}

// Default returns the built-in configuration.
func Default() *Config {
	roster := make([]TeamEntry, 0, len(model.Liga1Teams))
	for _, name := range model.Liga1Teams {
		roster = append(roster, TeamEntry{Name: name, Color: liga1Colors[name]})
	}
	return &Config{
		MissingOpponent: joiner.Fatal.String(),
		Logging:         LoggingConfig{Level: "info", Format: "text"},
		Chart:           ChartConfig{Width: 1024, Height: 768},
		Roster:          roster,
	}
}

// Load builds the configuration. An empty path skips the YAML file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks every field that downstream stages rely on.
func (c *Config) Validate() error {
	if _, err := joiner.ParsePolicy(c.MissingOpponent); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", c.Logging.Format)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.Chart.Width, c.Chart.Height)
	}
	if len(c.Roster) == 0 {
		return fmt.Errorf("roster must list at least one team")
	}
	if _, err := c.TeamRoster(); err != nil {
		return err
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	return nil
}

// Policy returns the parsed missing-opponent policy.
func (c *Config) Policy() joiner.Policy {
	p, _ := joiner.ParsePolicy(c.MissingOpponent)
	return p
}

// TeamRoster builds the closed roster from the configured team entries.
func (c *Config) TeamRoster() (*model.Roster, error) {
	names := make([]string, len(c.Roster))
	for i, e := range c.Roster {
		names[i] = e.Name
	}
	r, err := model.NewRoster(names)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	return r, nil
}

// Palette maps each roster team to its display colour. Teams without a colour are omitted.
func (c *Config) Palette() (map[model.Team]color.RGBA, error) {
	p := make(map[model.Team]color.RGBA, len(c.Roster))
	for _, e := range c.Roster {
		if e.Color == "" {
			continue
		}
		col, err := ParseHexColor(e.Color)
		if err != nil {
			return nil, fmt.Errorf("roster team %q: %w", e.Name, err)
		}
		p[model.Team(e.Name)] = col
	}
	return p, nil
}

// ParseHexColor parses "#RRGGBB".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q (want #RRGGBB)", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
