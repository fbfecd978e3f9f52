package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/droidpartment/dpt-memory/internal/ledger"
	"github.com/droidpartment/dpt-memory/internal/project"
	"github.com/droidpartment/dpt-memory/internal/recognize"
	"github.com/droidpartment/dpt-memory/internal/registry"
)

// testEnv bundles the stores the tools under test depend on.
type testEnv struct {
	projects   *project.Store
	mistakes   *ledger.Ledger
	engine     *recognize.Engine
	projectDir string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	memoryRoot := t.TempDir()
	reg := registry.Open(memoryRoot)

	projectDir := filepath.Join(t.TempDir(), "demo")
	for _, f := range []string{"go.mod", "main.go", "internal/server.go"} {
		full := filepath.Join(projectDir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return testEnv{
		projects:   project.New(reg, project.Options{MemoryRoot: memoryRoot}),
		mistakes:   ledger.New(memoryRoot, reg, 0),
		engine:     recognize.New(memoryRoot, nil, 0, 0),
		projectDir: projectDir,
	}
}

// toolReq builds a CallToolRequest with the given arguments.
func toolReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatalf("tool result has no text content: %#v", res.Content)
	return ""
}

func TestInitProjectTool(t *testing.T) {
	env := newTestEnv(t)
	tool := NewInitProjectTool(env.projects)

	if tool.Definition().Name != "memory_init_project" {
		t.Errorf("name = %q", tool.Definition().Name)
	}

	res, err := tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"path": env.projectDir,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(t, res)
	for _, want := range []string{"demo", "**Type:** go", "**Files indexed:** 3"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}

func TestFindFilesTool(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.projects.Initialize(env.projectDir); err != nil {
		t.Fatal(err)
	}
	tool := NewFindFilesTool(env.projects)

	res, err := tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"path":      env.projectDir,
		"extension": "go",
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "main.go") || !strings.Contains(text, "internal/server.go") {
		t.Errorf("extension query missed files:\n%s", text)
	}

	res, err = tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"path": env.projectDir,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("missing mode argument should be a tool error")
	}
}

func TestFindFilesTool_UnindexedProject(t *testing.T) {
	env := newTestEnv(t)
	tool := NewFindFilesTool(env.projects)

	res, err := tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"path":    env.projectDir,
		"pattern": "*.go",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("querying an unindexed project should be a tool error")
	}
}

func TestFileChangedTool(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.projects.Initialize(env.projectDir); err != nil {
		t.Fatal(err)
	}
	tool := NewFileChangedTool(env.projects)

	res, err := tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"path":      env.projectDir,
		"file_path": filepath.Join(env.projectDir, "internal", "new.go"),
		"action":    "created",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if got := env.projects.Load(env.projectDir).Stats.TotalFiles; got != 4 {
		t.Errorf("files after create = %d, want 4", got)
	}

	res, err = tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"file_path": "x.go",
		"action":    "renamed",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("invalid action should be a tool error")
	}
}

func TestMistakeTools(t *testing.T) {
	env := newTestEnv(t)
	record := NewRecordMistakeTool(env.mistakes)
	recent := NewRecentMistakesTool(env.mistakes)

	res, err := record.Handle(context.Background(), toolReq(map[string]interface{}{
		"path":        env.projectDir,
		"description": "deleted the wrong migration",
		"prevention":  "list migrations before deleting",
		"severity":    "high",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, res); !strings.Contains(text, "global ledger") {
		t.Errorf("high severity should mention the global mirror:\n%s", text)
	}

	res, err = recent.Handle(context.Background(), toolReq(map[string]interface{}{
		"path": env.projectDir,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, res); !strings.Contains(text, "deleted the wrong migration") {
		t.Errorf("recent mistakes missing entry:\n%s", text)
	}

	res, err = recent.Handle(context.Background(), toolReq(map[string]interface{}{
		"global": true,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, res); !strings.Contains(text, "deleted the wrong migration") {
		t.Errorf("global ledger missing mirrored entry:\n%s", text)
	}
}

func TestRecognizeTools(t *testing.T) {
	env := newTestEnv(t)
	recognizeTool := NewRecognizeAgentsTool(env.engine)
	feedbackTool := NewAgentFeedbackTool(env.engine)

	res, err := recognizeTool.Handle(context.Background(), toolReq(map[string]interface{}{
		"text": "write a regression test for the database migration",
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "dpt-") {
		t.Errorf("no agents suggested:\n%s", text)
	}

	res, err = recognizeTool.Handle(context.Background(), toolReq(map[string]interface{}{}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("missing text should be a tool error")
	}

	res, err = feedbackTool.Handle(context.Background(), toolReq(map[string]interface{}{
		"agent":   "dpt-qa",
		"helpful": true,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, res); !strings.Contains(text, "dpt-qa") {
		t.Errorf("feedback result = %s", text)
	}

	res, err = feedbackTool.Handle(context.Background(), toolReq(map[string]interface{}{
		"agent": "dpt-nope",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("unknown agent should be a tool error")
	}
}

func TestSessionTool(t *testing.T) {
	memoryRoot := t.TempDir()
	reg := registry.Open(memoryRoot)
	tool := NewSessionTool(reg)
	projectDir := t.TempDir()

	res, err := tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"action": "start",
		"path":   projectDir,
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Session started: ") {
		t.Fatalf("start result = %s", text)
	}
	id := strings.TrimPrefix(text, "Session started: ")

	res, err = tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"action":     "agent_event",
		"path":       projectDir,
		"session_id": id,
		"agent":      "dpt-dev",
		"event":      "dispatched",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("agent_event errored: %s", resultText(t, res))
	}

	res, err = tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"action":     "end",
		"path":       projectDir,
		"session_id": id,
		"summary":    "done",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("end errored: %s", resultText(t, res))
	}

	res, err = tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"action": "recent",
		"path":   projectDir,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, res); !strings.Contains(text, id) {
		t.Errorf("recent sessions missing %s:\n%s", id, text)
	}
}
