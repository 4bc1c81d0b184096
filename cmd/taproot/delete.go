package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCascade bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long: `Delete removes a note and its reminders. With --cascade, every
descendant sub-note (and their reminders) is removed as well; without it,
children of the deleted note are left in place with a dangling parent.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		app, err := openApp()
		if err != nil {
			fatal("Error initializing taproot", err)
		}
		defer app.Close()

		ctx := context.Background()
		if deleteCascade {
			outcome, err := app.Notes.RemoveWithDescendants(ctx, id)
			if err != nil {
				fatal("Error deleting note", err)
			}
			printWarnings(outcome.Warnings)
			fmt.Printf("Note and descendants deleted: %s\n", id)
			return
		}

		outcome, err := app.Notes.Remove(ctx, id)
		if err != nil {
			fatal("Error deleting note", err)
		}
		printWarnings(outcome.Warnings)
		fmt.Printf("Note deleted: %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteCascade, "cascade", false, "Also delete all descendant sub-notes")
}
