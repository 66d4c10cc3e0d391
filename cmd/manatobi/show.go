package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2525Azarashi/manatobi/internal/core"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one review item including its full transcription",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Stop()

	item, ok := application.Item(args[0])
	if !ok {
		return fmt.Errorf("no review item with id %q", args[0])
	}

	fmt.Printf("%s  %s\n", item.ID, statusLabel(item))
	dimColor.Printf("created  %s\n", item.CreatedAt.Format("2006-01-02 15:04:05"))
	dimColor.Printf("file     %s\n", item.SourceFileName)
	dimColor.Printf("image    %s\n", item.ImageRef)
	if item.Subject != "" {
		fmt.Printf("subject  %s\n", item.Subject)
	}
	if item.Notes != "" {
		fmt.Printf("notes    %s\n", item.Notes)
	}

	switch item.Status {
	case core.StatusError:
		errorColor.Printf("\n%s\n", item.ErrorMessage)
	case core.StatusCompleted:
		fmt.Printf("\n%s\n", item.Transcription)
	}
	return nil
}
