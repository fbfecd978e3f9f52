// Package tools implements the MCP tool handlers for project memory.
//
// Each tool is a small struct that receives its dependencies via a
// constructor and exposes a Definition for registration plus a Handle
// method compatible with mcp-go's CallToolRequest signature. One file
// per tool.
package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request.
// JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// resolvePath turns a tool's path parameter into a cleaned absolute
// path. An empty parameter means the current working directory.
func resolvePath(p string) (string, error) {
	if p == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("tools: getting working directory: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("tools: resolving path %q: %w", p, err)
	}
	return filepath.Clean(abs), nil
}
