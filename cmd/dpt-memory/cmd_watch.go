package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	memserver "github.com/droidpartment/dpt-memory/internal/server"
	"github.com/droidpartment/dpt-memory/internal/watch"
)

// watchCmd keeps the index current by watching the filesystem.
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a project and keep its index current",
	Long: `Watch the project tree for file changes and apply them to the stored
index as they happen, the same way memory_file_changed does. Runs until
interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := argPath(args)
		if err != nil {
			return err
		}
		deps := memserver.NewDeps()
		defer deps.Log.Sync()

		if deps.Projects.Load(abs) == nil {
			return fmt.Errorf("project %s is not indexed; run 'dpt-memory init' first", abs)
		}

		w, err := watch.New(deps.Projects, abs, deps.Log)
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		fmt.Printf("Watching %s\n", abs)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
