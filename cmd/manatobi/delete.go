package main

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id...]",
	Short: "Delete review items and their stored images",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Stop()

	for _, id := range args {
		if err := application.DeleteItem(cmd.Context(), id); err != nil {
			return err
		}
		successColor.Printf("deleted %s\n", id)
	}
	return nil
}
