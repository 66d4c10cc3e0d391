package main

import (
	"github.com/spf13/cobra"
)

var (
	editSubject string
	editNotes   string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Replace a review item's subject and notes",
	Long: `Replace a review item's subject and notes.

Both fields are replaced together: leaving a flag off clears that field.
Editing is allowed in any lifecycle state.

Examples:
  manatobi edit 01J3... --subject Math --notes "forgot the sign"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	editCmd.Flags().StringVarP(&editSubject, "subject", "s", "", "Subject tag for the page")
	editCmd.Flags().StringVarP(&editNotes, "notes", "n", "", "Free-form remediation notes")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Stop()

	if err := application.EditItem(cmd.Context(), args[0], editSubject, editNotes); err != nil {
		return err
	}
	successColor.Printf("updated %s\n", args[0])
	return nil
}
