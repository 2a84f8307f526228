package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/julienpequegnot/imagepick/internal/scorer"
	"github.com/julienpequegnot/imagepick/internal/selector"
)

type Config struct {
	Selection    SelectionConfig   `yaml:"selection"`
	Scoring      ScoringConfig     `yaml:"scoring"`
	Placeholders PlaceholderConfig `yaml:"placeholders"`
	Fetch        FetchConfig       `yaml:"fetch"`
	Daemon       DaemonConfig      `yaml:"daemon"`
	Log          LogConfig         `yaml:"log"`
}

type SelectionConfig struct {
	Threshold    float64 `yaml:"threshold"`
	UseCache     bool    `yaml:"use_cache"`
	DebugLogging bool    `yaml:"debug_logging"`
	// PersistCache mirrors cached selections into the database.
	PersistCache bool `yaml:"persist_cache"`
}

type ScoringConfig struct {
	URLWeight           float64 `yaml:"url_weight"`
	DescriptionWeight   float64 `yaml:"description_weight"`
	KeywordWeight       float64 `yaml:"keyword_weight"`
	ResolutionBonus     float64 `yaml:"resolution_bonus"`
	ResolutionMinPixels int     `yaml:"resolution_min_pixels"`
}

type PlaceholderConfig struct {
	Default    string            `yaml:"default"`
	Categories map[string]string `yaml:"categories"`
}

type FetchConfig struct {
	Concurrency    int    `yaml:"concurrency"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
}

type DaemonConfig struct {
	IntervalHours int `yaml:"interval_hours"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	weights := scorer.DefaultWeights()
	opts := selector.DefaultOptions()
	placeholders := selector.DefaultPlaceholders()

	return &Config{
		Selection: SelectionConfig{
			Threshold:    opts.Threshold,
			UseCache:     opts.UseCache,
			DebugLogging: opts.DebugLogging,
			PersistCache: true,
		},
		Scoring: ScoringConfig{
			URLWeight:           weights.URL,
			DescriptionWeight:   weights.Description,
			KeywordWeight:       weights.Keywords,
			ResolutionBonus:     weights.Resolution,
			ResolutionMinPixels: weights.MinPixels,
		},
		Placeholders: PlaceholderConfig{
			Default:    placeholders.Default,
			Categories: placeholders.Categories,
		},
		Fetch: FetchConfig{
			Concurrency:    5,
			TimeoutSeconds: 30,
			UserAgent:      "imagepick/1.0",
		},
		Daemon: DaemonConfig{
			IntervalHours: 6,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Weights converts the scoring section for the scorer.
func (c *Config) Weights() scorer.Weights {
	return scorer.Weights{
		URL:         c.Scoring.URLWeight,
		Description: c.Scoring.DescriptionWeight,
		Keywords:    c.Scoring.KeywordWeight,
		Resolution:  c.Scoring.ResolutionBonus,
		MinPixels:   c.Scoring.ResolutionMinPixels,
	}
}

func (c *Config) SelectorOptions() selector.Options {
	return selector.Options{
		Threshold:    c.Selection.Threshold,
		UseCache:     c.Selection.UseCache,
		DebugLogging: c.Selection.DebugLogging,
	}
}

func (c *Config) SelectorPlaceholders() selector.Placeholders {
	return selector.Placeholders{
		Default:    c.Placeholders.Default,
		Categories: c.Placeholders.Categories,
	}
}

func Dir() string {
	if dir := os.Getenv("IMAGEPICK_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".imagepick")
}

func DBPath() string {
	return filepath.Join(Dir(), "imagepick.db")
}

// Path is the location of config.yaml.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Exists reports whether a config file is present.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

func Load() (*Config, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(Path(), data, 0644)
}
