// dpt-memory: persistent project memory for coding agents.
//
// An MCP server plus CLI that gives agent sessions a durable memory:
// a reusable project index, a mistake ledger, agent recognition with
// feedback learning, and a per-project session ledger.
//
// Usage:
//
//	dpt-memory serve            # Start MCP server (stdio transport)
//	dpt-memory init [path]      # Index a project
//	dpt-memory summary [path]   # Show the indexed summary
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	memserver "github.com/droidpartment/dpt-memory/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "dpt-memory",
	Short: "Persistent project memory for coding agents",
	Long: `dpt-memory keeps what an agent learns about a project between sessions.

It indexes the project tree once and answers file questions from memory,
records mistakes so they are not repeated, suggests which specialized
agent fits a task, and keeps a ledger of sessions and agent calls.

Run 'dpt-memory serve' to expose everything as MCP tools over stdio.`,
	SilenceUsage: true,
	Version:      memserver.Version,
}

// serveCmd starts the MCP server on stdio.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cleanup, err := memserver.New()
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}
		defer cleanup()
		return server.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// argPath resolves the optional positional project path, defaulting to
// the current working directory, into a cleaned absolute path.
func argPath(args []string) (string, error) {
	p := ""
	if len(args) > 0 {
		p = args[0]
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		p = cwd
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", p, err)
	}
	return filepath.Clean(abs), nil
}
