// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it loads configuration, builds the
// concrete stores and engines, and injects them into the tools that
// depend on them. No business logic lives here, only wiring.
package server

import (
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/droidpartment/dpt-memory/internal/config"
	"github.com/droidpartment/dpt-memory/internal/ledger"
	"github.com/droidpartment/dpt-memory/internal/logging"
	"github.com/droidpartment/dpt-memory/internal/project"
	"github.com/droidpartment/dpt-memory/internal/recognize"
	"github.com/droidpartment/dpt-memory/internal/registry"
	"github.com/droidpartment/dpt-memory/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Deps bundles the concrete subsystems so commands outside the MCP
// server (CLI subcommands, the watcher) can reuse the same wiring.
type Deps struct {
	Config   config.Config
	Log      *zap.Logger
	Registry *registry.Registry
	Projects *project.Store
	Mistakes *ledger.Ledger
	Engine   *recognize.Engine
}

// NewDeps loads configuration and builds every subsystem on top of
// the shared memory root. It never fails: the memory root is created
// on demand and every store tolerates a missing or corrupt file.
func NewDeps() Deps {
	cfg := config.Load()
	_ = os.MkdirAll(cfg.MemoryRoot, 0o755)

	log := logging.New(cfg.LogsDir(), os.Getenv("DPT_MEMORY_DEBUG") != "")
	reg := registry.Open(cfg.MemoryRoot)

	extra := make([]recognize.Profile, 0, len(cfg.ExtraProfiles))
	for _, p := range cfg.ExtraProfiles {
		extra = append(extra, recognize.Profile{
			Agent:     p.Agent,
			Keywords:  p.Keywords,
			Weight:    p.Weight,
			Threshold: p.Threshold,
		})
	}

	return Deps{
		Config:   cfg,
		Log:      log,
		Registry: reg,
		Projects: project.New(reg, project.Options{
			MemoryRoot:            cfg.MemoryRoot,
			StaleAfter:            cfg.StaleAfter,
			ModificationRetention: cfg.ModificationRetention,
			Logger:                log,
		}),
		Mistakes: ledger.New(cfg.MemoryRoot, reg, cfg.MistakeRetention),
		Engine:   recognize.New(cfg.MemoryRoot, extra, cfg.LearningRate, cfg.HistoryRetention),
	}
}

// New creates and configures the MCP server with all memory tools
// registered. The returned cleanup flushes the logger and must be
// called on shutdown.
func New() (*server.MCPServer, func(), error) {
	deps := NewDeps()

	s := server.NewMCPServer(
		"dpt-memory",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerTools(s, deps)

	cleanup := func() { _ = deps.Log.Sync() }
	return s, cleanup, nil
}

// registerTools registers all memory MCP tools with the server.
func registerTools(s *server.MCPServer, deps Deps) {
	// --- Project index ---

	initTool := tools.NewInitProjectTool(deps.Projects)
	s.AddTool(initTool.Definition(), initTool.Handle)

	summaryTool := tools.NewProjectSummaryTool(deps.Projects)
	s.AddTool(summaryTool.Definition(), summaryTool.Handle)

	structureTool := tools.NewProjectStructureTool(deps.Projects)
	s.AddTool(structureTool.Definition(), structureTool.Handle)

	findTool := tools.NewFindFilesTool(deps.Projects)
	s.AddTool(findTool.Definition(), findTool.Handle)

	changedTool := tools.NewFileChangedTool(deps.Projects)
	s.AddTool(changedTool.Definition(), changedTool.Handle)

	// --- Mistake ledger ---

	recordMistake := tools.NewRecordMistakeTool(deps.Mistakes)
	s.AddTool(recordMistake.Definition(), recordMistake.Handle)

	recentMistakes := tools.NewRecentMistakesTool(deps.Mistakes)
	s.AddTool(recentMistakes.Definition(), recentMistakes.Handle)

	// --- Agent recognition ---

	recognizeTool := tools.NewRecognizeAgentsTool(deps.Engine)
	s.AddTool(recognizeTool.Definition(), recognizeTool.Handle)

	feedbackTool := tools.NewAgentFeedbackTool(deps.Engine)
	s.AddTool(feedbackTool.Definition(), feedbackTool.Handle)

	// --- Session ledger ---

	sessionTool := tools.NewSessionTool(deps.Registry)
	s.AddTool(sessionTool.Definition(), sessionTool.Handle)
}

func serverInstructions() string {
	return `You have access to dpt-memory, a persistent project memory server.

## WHEN TO USE dpt-memory

At the START of every session:
- Call memory_init_project for the project you are working in.
- Call memory_recent_mistakes before non-trivial tasks to avoid repeating past errors.

DURING the session:
- Call memory_file_changed after every file you create, modify, or delete.
- Call memory_find_files instead of listing directories: the index answers
  file questions without touching disk.
- Call memory_recognize_agents when deciding which specialized agent should
  handle a task, and memory_agent_feedback afterwards so suggestions improve.

WHEN something goes wrong:
- Call memory_record_mistake with what happened and how to prevent it.
  Use severity=high for mistakes other projects should know about.

The memory lives on disk and survives across sessions. Keeping it current
is what makes the next session faster.`
}
