package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/taproot/pkg/core"
	"github.com/aretw0/taproot/pkg/notes"
)

var (
	addParent string
	addTitle  string
	addTags   []string
)

var addCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a note, optionally below a parent note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Error initializing taproot", err)
		}
		defer app.Close()

		ctx := context.Background()

		if addParent != "" {
			child, outcome, err := app.Notes.CreateChild(ctx, addParent, notes.Draft{
				Title:   addTitle,
				Content: args[0],
				Tags:    addTags,
			})
			if err != nil {
				if rej, ok := core.IsRejection(err); ok {
					fmt.Fprintf(os.Stderr, "Refused (%s): %s\n", rej.Reason, rej.Detail)
					os.Exit(1)
				}
				fatal("Error creating sub-note", err)
			}
			printWarnings(outcome.Warnings)
			fmt.Printf("Sub-note created: %s\n", child.ID)
			return
		}

		note, outcome, err := app.Notes.Add(ctx, core.Note{
			Title:   addTitle,
			Content: args[0],
			Tags:    addTags,
		})
		if err != nil {
			fatal("Error adding note", err)
		}
		printWarnings(outcome.Warnings)
		fmt.Printf("Note created: %s\n", note.ID)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addParent, "parent", "", "Create as a sub-note of this note id")
	addCmd.Flags().StringVar(&addTitle, "title", "", "Note title")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "Tags (repeatable)")
}
