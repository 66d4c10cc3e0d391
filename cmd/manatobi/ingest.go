package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2525Azarashi/manatobi/internal/core"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [image...]",
	Short: "Archive one or more photographed pages and extract their text",
	Long: `Archive one or more photographed pages and extract their text.

Each image becomes its own review item with an independent extraction run;
one unreadable page never blocks the others.

Examples:
  manatobi ingest test-page.jpg
  manatobi ingest monday/*.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	application, err := newApp(ctx)
	if err != nil {
		return err
	}

	items, err := application.SubmitImages(ctx, args)
	for _, item := range items {
		dimColor.Printf("queued %s (%s)\n", item.SourceFileName, item.ID)
	}
	if err != nil {
		application.Stop()
		return err
	}

	// Stop drains the queue, so every extraction run has reached its
	// terminal state afterwards.
	application.Stop()

	var failures int
	for _, queued := range items {
		item, ok := application.Item(queued.ID)
		if !ok {
			continue
		}
		switch item.Status {
		case core.StatusCompleted:
			successColor.Printf("✓ %s\n", item.SourceFileName)
			dimColor.Printf("  %s\n", firstLines(item.Transcription, 3))
		case core.StatusError:
			failures++
			errorColor.Printf("✗ %s: %s\n", item.SourceFileName, item.ErrorMessage)
		default:
			failures++
			warnColor.Printf("? %s did not finish\n", item.SourceFileName)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d pages failed", failures, len(items))
	}
	return nil
}
