// Package logging builds the process logger.
//
// dpt-memory runs as an MCP server over stdio, so nothing may be
// written to stdout; logs go to a file under the memory root. When the
// log directory cannot be created the operation still proceeds with a
// no-op logger; logging never fails an advisory operation.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFile is the log filename under the memory root's logs directory.
const LogFile = "dpt-memory.log"

// New creates a file-backed zap logger in logsDir. debug lowers the
// level threshold to Debug. On any setup failure it returns zap.NewNop.
func New(logsDir string, debug bool) *zap.Logger {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(logsDir, LogFile)}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
