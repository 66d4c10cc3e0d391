package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/2525Azarashi/manatobi/internal/app"
	"github.com/2525Azarashi/manatobi/internal/config"
	"github.com/2525Azarashi/manatobi/internal/core"
	"github.com/2525Azarashi/manatobi/internal/logger"
)

// Color definitions
var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

var rootCmd = &cobra.Command{
	Use:   "manatobi",
	Short: "manatobi archives photographed test pages with extracted text and review notes.",
	Long: `manatobi is a device-local study-review archive.

Photograph a test or notebook page, ingest it, and the tool extracts the text
with the local tesseract OCR engine. Attach a subject tag and remediation
notes, then browse the archive later. Nothing ever leaves the device.`,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("MANATOBI")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// newApp loads the configuration and assembles the application.
func newApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(cfg.Log, nil)
	return app.New(ctx, cfg, log)
}

// firstLines returns at most n non-empty lines of s, joined by " / ".
func firstLines(s string, n int) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	return strings.Join(lines, " / ")
}

// statusLabel renders an item status with the CLI's color scheme.
func statusLabel(item *core.ReviewItem) string {
	switch item.Status {
	case core.StatusCompleted:
		return successColor.Sprint("completed")
	case core.StatusError:
		return errorColor.Sprint("error")
	default:
		return warnColor.Sprintf("processing %d%%", item.Progress)
	}
}
