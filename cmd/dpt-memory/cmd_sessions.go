package main

import (
	"fmt"

	"github.com/spf13/cobra"

	memserver "github.com/droidpartment/dpt-memory/internal/server"
	"github.com/droidpartment/dpt-memory/internal/session"
)

var sessionsLimit int

// sessionsCmd lists recent sessions from the per-project ledger.
var sessionsCmd = &cobra.Command{
	Use:   "sessions [path]",
	Short: "List recent sessions for a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := argPath(args)
		if err != nil {
			return err
		}
		deps := memserver.NewDeps()
		defer deps.Log.Sync()

		rec := deps.Registry.Resolve(abs)
		store, err := session.Open(rec.StoragePath)
		if err != nil {
			return fmt.Errorf("opening session ledger: %w", err)
		}
		defer store.Close()

		sessions, err := store.Recent(sessionsLimit)
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded.")
			return nil
		}
		for _, s := range sessions {
			status := "open"
			if s.EndedAt != nil {
				status = "ended " + *s.EndedAt
			}
			fmt.Printf("%s  started %s  (%s)\n", s.ID, s.StartedAt, status)
			if s.Summary != nil && *s.Summary != "" {
				fmt.Printf("    %s\n", *s.Summary)
			}
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "l", 10, "maximum sessions to show")

	rootCmd.AddCommand(sessionsCmd)
}
