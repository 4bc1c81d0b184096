package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var auditJSON bool

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check the note hierarchy for cycles, orphans and deep nesting",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Error initializing taproot", err)
		}
		defer app.Close()

		report, err := app.Notes.Audit(context.Background())
		if err != nil {
			fatal("Error auditing hierarchy", err)
		}

		if auditJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fatal("Error encoding JSON", err)
			}
			if !report.Healthy {
				os.Exit(1)
			}
			return
		}

		fmt.Printf("notes: %d (%d roots, %d sub-notes), max depth %d\n",
			report.Stats.TotalNotes, report.Stats.RootNotes, report.Stats.SubNotes, report.Stats.MaxDepth)
		for _, issue := range report.Issues {
			fmt.Printf("ISSUE [%s] %s\n", issue.Kind, issue.Detail)
		}
		for _, w := range report.Warnings {
			fmt.Printf("warn: %s\n", w)
		}
		if report.Healthy {
			fmt.Println("hierarchy is healthy")
		} else {
			fmt.Printf("hierarchy has %d issue(s)\n", len(report.Issues))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "Output in JSON format")
}
