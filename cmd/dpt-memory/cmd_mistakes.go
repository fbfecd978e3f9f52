package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/droidpartment/dpt-memory/internal/ledger"
	memserver "github.com/droidpartment/dpt-memory/internal/server"
)

var (
	mistakeAgent      string
	mistakeContext    string
	mistakePrevention string
	mistakeSeverity   string

	mistakesLimit  int
	mistakesTask   string
	mistakesGlobal bool
)

// mistakeCmd records one mistake in the project ledger.
var mistakeCmd = &cobra.Command{
	Use:   "mistake <description>",
	Short: "Record a mistake in the project ledger",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := argPath(nil)
		if err != nil {
			return err
		}
		deps := memserver.NewDeps()
		defer deps.Log.Sync()

		entry, err := deps.Mistakes.Record(abs, ledger.Entry{
			Agent:       mistakeAgent,
			Description: strings.Join(args, " "),
			Context:     mistakeContext,
			Prevention:  mistakePrevention,
			Severity:    mistakeSeverity,
		})
		if err != nil {
			return fmt.Errorf("recording mistake: %w", err)
		}
		fmt.Printf("Recorded %s (severity: %s)\n", entry.ID, entry.Severity)
		return nil
	},
}

// mistakesCmd lists past mistakes.
var mistakesCmd = &cobra.Command{
	Use:   "mistakes [path]",
	Short: "List past mistakes, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := memserver.NewDeps()
		defer deps.Log.Sync()

		var entries []ledger.Entry
		if mistakesGlobal {
			entries = deps.Mistakes.RecentGlobal(mistakesLimit)
		} else {
			abs, err := argPath(args)
			if err != nil {
				return err
			}
			if mistakesTask != "" {
				entries = deps.Mistakes.Relevant(abs, mistakesTask, mistakesLimit)
			} else {
				entries = deps.Mistakes.Recent(abs, mistakesLimit)
			}
		}

		if len(entries) == 0 {
			fmt.Println("No mistakes recorded.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("[%s] %s  %s (%s)\n", strings.ToUpper(e.Severity), e.Timestamp, e.Description, e.Agent)
			if e.Prevention != "" {
				fmt.Printf("    prevention: %s\n", e.Prevention)
			}
		}
		return nil
	},
}

func init() {
	mistakeCmd.Flags().StringVar(&mistakeAgent, "agent", "", "agent that made the mistake")
	mistakeCmd.Flags().StringVar(&mistakeContext, "context", "", "what was being attempted")
	mistakeCmd.Flags().StringVar(&mistakePrevention, "prevention", "", "how to avoid it next time")
	mistakeCmd.Flags().StringVar(&mistakeSeverity, "severity", "", "low, medium or high")

	mistakesCmd.Flags().IntVarP(&mistakesLimit, "limit", "l", 10, "maximum entries to show")
	mistakesCmd.Flags().StringVarP(&mistakesTask, "task", "t", "", "rank by relevance to this task")
	mistakesCmd.Flags().BoolVarP(&mistakesGlobal, "global", "g", false, "read the global high-severity ledger")

	rootCmd.AddCommand(mistakeCmd, mistakesCmd)
}
