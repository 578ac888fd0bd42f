// Package config loads the tool configuration: an optional config.yaml
// merged over documented defaults, validated once at startup. Command
// flags override whatever is loaded here.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/marceldev/mediadex/internal/cache"
)

// Config is the typed tool configuration.
type Config struct {
	// IndexPath is the JSONL index file written by scan and read by
	// preview and export.
	IndexPath string `mapstructure:"index_path"`
	// CachePath is the scan cache backing store.
	CachePath string `mapstructure:"cache_path"`
	// CacheBackend selects the cache store: "file" or "sqlite".
	CacheBackend string `mapstructure:"cache_backend"`

	// PreviewDir receives content-addressed preview artifacts.
	PreviewDir string `mapstructure:"preview_dir"`
	// MaxSide caps the larger photo preview dimension in pixels.
	MaxSide int `mapstructure:"max_side"`
	// Quality is the webp encode quality (1-100).
	Quality int `mapstructure:"quality"`

	// VideoPreviews enables mp4 preview derivation. Disabled by default;
	// videos are still scanned, indexed and counted either way.
	VideoPreviews bool `mapstructure:"video_previews"`
	// VideoCRF is the x264 quality factor for video previews.
	VideoCRF int `mapstructure:"video_crf"`
	// FPSCap bounds the video preview frame rate.
	FPSCap int `mapstructure:"fps_cap"`

	// Workers sizes the scan and preview pools (0 = auto from CPU count).
	Workers int `mapstructure:"workers"`
}

var defaults = Config{
	IndexPath:     "mediadex_index.jsonl",
	CachePath:     "mediadex_cache.json",
	CacheBackend:  cache.BackendFile,
	PreviewDir:    "previews",
	MaxSide:       1440,
	Quality:       80,
	VideoPreviews: false,
	VideoCRF:      30,
	FPSCap:        24,
	Workers:       0,
}

// Load reads configuration from config.yaml in the working directory or
// $HOME/.mediadex, falling back to defaults when no file exists.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.mediadex")

	viper.SetDefault("index_path", defaults.IndexPath)
	viper.SetDefault("cache_path", defaults.CachePath)
	viper.SetDefault("cache_backend", defaults.CacheBackend)
	viper.SetDefault("preview_dir", defaults.PreviewDir)
	viper.SetDefault("max_side", defaults.MaxSide)
	viper.SetDefault("quality", defaults.Quality)
	viper.SetDefault("video_previews", defaults.VideoPreviews)
	viper.SetDefault("video_crf", defaults.VideoCRF)
	viper.SetDefault("fps_cap", defaults.FPSCap)
	viper.SetDefault("workers", defaults.Workers)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects out-of-range settings before any work starts.
func (c *Config) Validate() error {
	if c.CacheBackend != cache.BackendFile && c.CacheBackend != cache.BackendSQLite {
		return fmt.Errorf("cache_backend must be %q or %q, got %q",
			cache.BackendFile, cache.BackendSQLite, c.CacheBackend)
	}
	if c.MaxSide <= 0 {
		return fmt.Errorf("max_side must be positive, got %d", c.MaxSide)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be in 1..100, got %d", c.Quality)
	}
	if c.VideoCRF < 0 || c.VideoCRF > 51 {
		return fmt.Errorf("video_crf must be in 0..51, got %d", c.VideoCRF)
	}
	if c.FPSCap <= 0 {
		return fmt.Errorf("fps_cap must be positive, got %d", c.FPSCap)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
