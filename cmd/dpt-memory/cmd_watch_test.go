package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/droidpartment/dpt-memory/internal/config"
	memserver "github.com/droidpartment/dpt-memory/internal/server"
)

// A cancelled watch is a normal stop, not a failure: the command must
// exit zero instead of surfacing context.Canceled.
func TestWatchCmd_CleanStopOnCancel(t *testing.T) {
	t.Setenv(config.EnvMemoryRoot, t.TempDir())

	projectDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(projectDir, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deps := memserver.NewDeps()
	if _, err := deps.Projects.Index(projectDir, false); err != nil {
		t.Fatal(err)
	}
	_ = deps.Log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	if err := watchCmd.RunE(cmd, []string{projectDir}); err != nil {
		t.Errorf("watch after cancel = %v, want nil", err)
	}
}
