package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	remindAt     string
	remindRepeat string
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage per-note reminders",
}

var remindAddCmd = &cobra.Command{
	Use:   "add [note-id] [message]",
	Short: "Attach a reminder to a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		triggerAt, err := time.Parse(time.RFC3339, remindAt)
		if err != nil {
			fatal("Invalid --at timestamp (want RFC3339)", err)
		}

		app, err := openApp()
		if err != nil {
			fatal("Error initializing taproot", err)
		}
		defer app.Close()

		ctx := context.Background()
		// The reminder must reference an existing note.
		if _, err := app.Notes.GetByID(ctx, args[0]); err != nil {
			fatal("Error resolving note", err)
		}

		r, err := app.Reminders.Add(ctx, args[0], args[1], triggerAt, remindRepeat)
		if err != nil {
			fatal("Error adding reminder", err)
		}
		fmt.Printf("Reminder created: %s (fires %s)\n", r.ID, r.TriggerAt.Format(time.RFC3339))
	},
}

var remindListCmd = &cobra.Command{
	Use:   "list [note-id]",
	Short: "List reminders for a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Error initializing taproot", err)
		}
		defer app.Close()

		rs, err := app.Reminders.ListForNote(context.Background(), args[0])
		if err != nil {
			fatal("Error listing reminders", err)
		}
		for _, r := range rs {
			state := "active"
			if !r.Active {
				state = "inactive"
			}
			fmt.Printf("%s  %s  %s  %s\n", r.ID, r.TriggerAt.Format(time.RFC3339), state, r.Message)
		}
	},
}

var remindDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List reminders that should have fired by now",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Error initializing taproot", err)
		}
		defer app.Close()

		rs, err := app.Reminders.DueBefore(context.Background(), time.Now())
		if err != nil {
			fatal("Error listing due reminders", err)
		}
		for _, r := range rs {
			fmt.Printf("%s  note=%s  %s  %s\n", r.ID, r.NoteID, r.TriggerAt.Format(time.RFC3339), r.Message)
		}
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
	remindCmd.AddCommand(remindAddCmd, remindListCmd, remindDueCmd)
	remindAddCmd.Flags().StringVar(&remindAt, "at", "", "Trigger time, RFC3339 (required)")
	remindAddCmd.Flags().StringVar(&remindRepeat, "repeat", "", "Repeat interval: daily, weekly or monthly")
	remindAddCmd.MarkFlagRequired("at")
}
