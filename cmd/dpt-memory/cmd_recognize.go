package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	memserver "github.com/droidpartment/dpt-memory/internal/server"
)

var feedbackHelpful bool

// recognizeCmd scores a task against the agent catalogue.
var recognizeCmd = &cobra.Command{
	Use:   "recognize <task description>",
	Short: "Suggest which specialized agents fit a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := memserver.NewDeps()
		defer deps.Log.Sync()

		text := strings.Join(args, " ")
		matches := deps.Engine.RecognizeAll(text)
		deps.Engine.RecordEvent(text, matches, nil)

		if len(matches) == 0 {
			fmt.Println("No agent scored above threshold for this task.")
			return nil
		}
		for i, m := range matches {
			fmt.Printf("%d. %-10s %.3f\n", i+1, m.Agent, m.Score)
		}
		return nil
	},
}

// feedbackCmd adjusts an agent's learned weight.
var feedbackCmd = &cobra.Command{
	Use:   "feedback <agent>",
	Short: "Report whether a suggested agent was helpful",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := memserver.NewDeps()
		defer deps.Log.Sync()

		weight, err := deps.Engine.ApplyFeedback(args[0], feedbackHelpful)
		if err != nil {
			return err
		}
		fmt.Printf("Updated weight for %s: %.2f\n", args[0], weight)
		return nil
	},
}

func init() {
	feedbackCmd.Flags().BoolVar(&feedbackHelpful, "helpful", true, "whether the agent was a good fit")

	rootCmd.AddCommand(recognizeCmd, feedbackCmd)
}
