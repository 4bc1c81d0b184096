package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export all notes as Markdown files with frontmatter",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Error initializing taproot", err)
		}
		defer app.Close()

		count, err := app.Notes.ExportAll(context.Background(), args[0])
		if err != nil {
			fatal("Error exporting notes", err)
		}
		fmt.Printf("Exported %d notes to %s\n", count, args[0])
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
