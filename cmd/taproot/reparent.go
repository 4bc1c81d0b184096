package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/taproot/pkg/core"
)

var reparentCmd = &cobra.Command{
	Use:   "reparent [id] [new-parent-id]",
	Short: "Move a note below a new parent",
	Long: `Reparent moves a note (and implicitly its subtree) below another
note. Pass "-" as the new parent to detach the note to the root level.
Moves that would make a note an ancestor of itself are refused.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, newParent := args[0], args[1]
		if newParent == "-" {
			newParent = ""
		}

		app, err := openApp()
		if err != nil {
			fatal("Error initializing taproot", err)
		}
		defer app.Close()

		outcome, err := app.Notes.Reparent(context.Background(), id, newParent)
		if err != nil {
			if rej, ok := core.IsRejection(err); ok {
				fmt.Fprintf(os.Stderr, "Refused (%s): %s\n", rej.Reason, rej.Detail)
				os.Exit(1)
			}
			fatal("Error reparenting note", err)
		}
		printWarnings(outcome.Warnings)
		if newParent == "" {
			fmt.Printf("Note detached to root: %s\n", id)
		} else {
			fmt.Printf("Note %s moved below %s\n", id, newParent)
		}
	},
}

func init() {
	rootCmd.AddCommand(reparentCmd)
}
