package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a note and its direct children",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Error initializing taproot", err)
		}
		defer app.Close()

		ctx := context.Background()
		note, err := app.Notes.GetByID(ctx, args[0])
		if err != nil {
			fatal("Error loading note", err)
		}

		fmt.Printf("id:      %s\n", note.ID)
		if note.Title != "" {
			fmt.Printf("title:   %s\n", note.Title)
		}
		fmt.Printf("created: %s\n", note.CreatedAt.Format(time.RFC3339))
		if len(note.Tags) > 0 {
			fmt.Printf("tags:    %s\n", strings.Join(note.Tags, ", "))
		}
		if note.IsSubNote() {
			fmt.Printf("parent:  %s\n", note.Parent())
		}
		fmt.Printf("\n%s\n", note.Content)

		children, err := app.Notes.GetChildren(ctx, note.ID)
		if err != nil {
			fatal("Error loading children", err)
		}
		if len(children) > 0 {
			fmt.Printf("\nsub-notes (%d):\n", len(children))
			for _, c := range children {
				printNoteLine(c, 1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
