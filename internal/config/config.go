package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/2525Azarashi/manatobi/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	// DataDir is the device-local root for everything the tool stores:
	// the archive database and the captured images.
	DataDir       string
	DatabasePath  string
	Languages     string
	TesseractPath string
	MaxWorkers    int
	Log           logger.Config
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("DATA_DIR", defaultDataDir())
	viper.SetDefault("DATABASE_PATH", "")
	viper.SetDefault("OCR_LANGUAGES", "jpn+eng")
	viper.SetDefault("TESSERACT_PATH", "tesseract")
	viper.SetDefault("MAX_WORKERS", 2)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stderr")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Debug("no .env config file", "error", err)
		}
	}

	cfg := &Config{
		DataDir:       viper.GetString("DATA_DIR"),
		DatabasePath:  viper.GetString("DATABASE_PATH"),
		Languages:     viper.GetString("OCR_LANGUAGES"),
		TesseractPath: viper.GetString("TESSERACT_PATH"),
		MaxWorkers:    viper.GetInt("MAX_WORKERS"),
		Log: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.DataDir, "manatobi.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the rest of the application
// cannot work with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR must be set")
	}
	if c.Languages == "" {
		return fmt.Errorf("OCR_LANGUAGES must be set")
	}
	if c.TesseractPath == "" {
		return fmt.Errorf("TESSERACT_PATH must be set")
	}
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("MAX_WORKERS must be positive, got: %d", c.MaxWorkers)
	}
	return nil
}

// ImagesDir is where captured images owned by review items live.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.DataDir, "images")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".manatobi"
	}
	return filepath.Join(home, ".manatobi")
}
