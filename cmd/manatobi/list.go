package main

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived review items, newest first",
	RunE:  runList,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Stop()

	items := application.Items()
	if len(items) == 0 {
		dimColor.Println("the archive is empty, ingest a page first")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header([]string{"ID", "CREATED", "FILE", "SUBJECT", "STATUS"})

	for _, item := range items {
		_ = table.Append([]string{
			item.ID,
			item.CreatedAt.Format("2006-01-02 15:04"),
			item.SourceFileName,
			item.Subject,
			statusLabel(item),
		})
	}

	return table.Render()
}
