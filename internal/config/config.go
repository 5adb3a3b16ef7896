package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Library LibraryConfig `mapstructure:"library"`
	Review  ReviewConfig  `mapstructure:"review"`
	Tools   ToolsConfig   `mapstructure:"tools"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LibraryConfig holds media library configuration
type LibraryConfig struct {
	Roots    []string `mapstructure:"roots"`     // Directories scanned for albums
	CacheDir string   `mapstructure:"cache_dir"` // Listing cache + temp copies
}

// ReviewConfig holds review flow configuration
type ReviewConfig struct {
	PhotoPageSize  int     `mapstructure:"photo_page_size"`  // First-page cap for photo review
	VideoPageSize  int     `mapstructure:"video_page_size"`  // Page size for video review (load-more paging)
	SwipeThreshold float64 `mapstructure:"swipe_threshold"`  // Release displacement that resolves a swipe
}

// ToolsConfig holds external tool paths
type ToolsConfig struct {
	FFmpeg  string `mapstructure:"ffmpeg"`  // Frame extraction for video previews
	FFprobe string `mapstructure:"ffprobe"` // Duration probing
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	PreviewWidth int    `mapstructure:"preview_width"` // Max preview width in cells, 0 = fit
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Library: LibraryConfig{
			Roots:    []string{filepath.Join(home, "Pictures")},
			CacheDir: defaultCachePath(),
		},
		Review: ReviewConfig{
			PhotoPageSize:  2000,
			VideoPageSize:  20,
			SwipeThreshold: 120,
		},
		Tools: ToolsConfig{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		UI: UIConfig{
			Theme:        "default",
			PreviewWidth: 0,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "phototriage", "phototriage.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "phototriage", "phototriage.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "phototriage")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "phototriage")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "phototriage", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "phototriage", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("PHOTOTRIAGE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("library.roots", cfg.Library.Roots)
	viper.Set("library.cache_dir", cfg.Library.CacheDir)

	viper.Set("review.photo_page_size", cfg.Review.PhotoPageSize)
	viper.Set("review.video_page_size", cfg.Review.VideoPageSize)
	viper.Set("review.swipe_threshold", cfg.Review.SwipeThreshold)

	viper.Set("tools.ffmpeg", cfg.Tools.FFmpeg)
	viper.Set("tools.ffprobe", cfg.Tools.FFprobe)

	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.preview_width", cfg.UI.PreviewWidth)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearCache removes all cached data
func ClearCache(cfg *Config) error {
	if cfg.Library.CacheDir == "" {
		return nil
	}
	if err := os.RemoveAll(cfg.Library.CacheDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
