package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendPreferences = "preferences"
	BackendFile        = "file"

	DefaultStorageKey = "drawing-canvas-files"
	DefaultAPIBase    = "https://hackwar-be.onrender.com"
)

type Config struct {
	Theme     string `yaml:"theme"`
	ExportDir string `yaml:"export_dir"`

	Storage struct {
		Backend string `yaml:"backend"`
		Dir     string `yaml:"dir"`
		Key     string `yaml:"key"`
	} `yaml:"storage"`

	Canvas struct {
		StrokeColor string  `yaml:"stroke_color"`
		StrokeWidth float64 `yaml:"stroke_width"`
		EraseRadius float64 `yaml:"erase_radius"`
		Width       int     `yaml:"width"`
		Height      int     `yaml:"height"`
	} `yaml:"canvas"`

	Save struct {
		Debounce time.Duration `yaml:"debounce"`
	} `yaml:"save"`

	Analysis struct {
		GuidanceURL  string        `yaml:"guidance_url"`
		RecommendURL string        `yaml:"recommend_url"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"analysis"`

	Share struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"share"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Theme == "" {
		cfg.Theme = "system"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "./exports"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendPreferences
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "./sketchboard-data"
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = DefaultStorageKey
	}
	if cfg.Canvas.StrokeColor == "" {
		cfg.Canvas.StrokeColor = "#000000"
	}
	if cfg.Canvas.StrokeWidth <= 0 {
		cfg.Canvas.StrokeWidth = 3
	}
	if cfg.Canvas.EraseRadius <= 0 {
		cfg.Canvas.EraseRadius = 10
	}
	if cfg.Canvas.Width <= 0 {
		cfg.Canvas.Width = 1024
	}
	if cfg.Canvas.Height <= 0 {
		cfg.Canvas.Height = 768
	}
	if cfg.Save.Debounce <= 0 {
		cfg.Save.Debounce = 10 * time.Second
	}
	if cfg.Analysis.GuidanceURL == "" {
		cfg.Analysis.GuidanceURL = DefaultAPIBase + "/analyze"
	}
	if cfg.Analysis.RecommendURL == "" {
		cfg.Analysis.RecommendURL = DefaultAPIBase + "/recommendations"
	}
	if cfg.Analysis.Timeout <= 0 {
		cfg.Analysis.Timeout = 60 * time.Second
	}
	if cfg.Share.Port == 0 {
		cfg.Share.Port = 8888
	}
}
