package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/taproot/pkg/core"
)

var (
	listJSON  bool
	filterTag string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes as a tree",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Error initializing taproot", err)
		}
		defer app.Close()

		ctx := context.Background()
		all, outcome, err := app.Notes.Load(ctx)
		if err != nil {
			fatal("Error listing notes", err)
		}
		printWarnings(outcome.Warnings)

		// Filter
		var filtered []core.Note
		for _, note := range all {
			if filterTag != "" && !hasTag(note, filterTag) {
				continue
			}
			filtered = append(filtered, note)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(filtered); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		if filterTag != "" {
			// A tag filter flattens the tree: parents may be filtered out.
			for _, note := range filtered {
				printNoteLine(note, 0)
			}
			return
		}

		byParent := make(map[string][]core.Note)
		for _, note := range filtered {
			byParent[note.Parent()] = append(byParent[note.Parent()], note)
		}
		var printTree func(parent string, indent int)
		printTree = func(parent string, indent int) {
			for _, note := range byParent[parent] {
				printNoteLine(note, indent)
				printTree(note.ID, indent+1)
			}
		}
		printTree("", 0)
	},
}

func hasTag(note core.Note, tag string) bool {
	for _, t := range note.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func printNoteLine(note core.Note, indent int) {
	title := note.Title
	if title == "" {
		title = firstLine(note.Content)
	}
	fmt.Printf("%s%s  %s\n", strings.Repeat("  ", indent), note.ID, title)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter notes by tag")
}
