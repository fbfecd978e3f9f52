// Package config holds the runtime configuration for dpt-memory.
//
// Defaults live in code. An optional config.yaml in the memory root
// overrides them, and the DPT_MEMORY_ROOT environment variable
// overrides the root itself. Configuration loading never fails: a
// missing or unreadable config.yaml yields the defaults, because the
// memory subsystem is advisory and must come up in any environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the optional override file inside the memory root.
const ConfigFile = "config.yaml"

// EnvMemoryRoot overrides the memory root directory when set.
const EnvMemoryRoot = "DPT_MEMORY_ROOT"

// Profile describes one extra agent-recognition profile loaded from
// config.yaml. It is appended after the built-in catalogue, so the
// built-in ordering (and therefore tie-breaking) is preserved.
type Profile struct {
	Agent     string   `yaml:"agent"`
	Keywords  []string `yaml:"keywords"`
	Weight    float64  `yaml:"weight"`
	Threshold float64  `yaml:"threshold"`
}

// Config is the full runtime configuration.
type Config struct {
	// MemoryRoot is the directory holding all persisted memory:
	// the registry, global ledgers, recognition history, and the
	// per-project subdirectories.
	MemoryRoot string

	// StaleAfter is how old a project index may be before a
	// non-forced re-index triggers a full rescan.
	StaleAfter time.Duration

	// MistakeRetention caps the number of entries kept per mistake
	// ledger; oldest entries are dropped first.
	MistakeRetention int

	// HistoryRetention caps the number of recognition events kept.
	HistoryRetention int

	// ModificationRetention caps the tracked file-modification history.
	ModificationRetention int

	// LearningRate is the per-feedback adjustment applied to an
	// agent's learned recognition weight.
	LearningRate float64

	// ExtraProfiles are user-defined recognition profiles appended
	// to the built-in catalogue.
	ExtraProfiles []Profile
}

// fileConfig is the on-disk shape of config.yaml. Durations are Go
// duration strings such as "48h" or "30m".
type fileConfig struct {
	MemoryRoot            string    `yaml:"memory_root"`
	StaleAfter            string    `yaml:"stale_after"`
	MistakeRetention      int       `yaml:"mistake_retention"`
	HistoryRetention      int       `yaml:"history_retention"`
	ModificationRetention int       `yaml:"modification_retention"`
	LearningRate          float64   `yaml:"learning_rate"`
	ExtraProfiles         []Profile `yaml:"profiles,omitempty"`
}

// Default returns the built-in configuration. The memory root follows
// the host convention: ~/.factory/memory.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		MemoryRoot:            filepath.Join(home, ".factory", "memory"),
		StaleAfter:            7 * 24 * time.Hour,
		MistakeRetention:      200,
		HistoryRetention:      100,
		ModificationRetention: 100,
		LearningRate:          0.05,
	}
}

// Load resolves the effective configuration: defaults, then
// config.yaml from the memory root, then the DPT_MEMORY_ROOT
// environment variable. Errors reading or parsing the file are
// swallowed and the defaults stand.
func Load() Config {
	cfg := Default()

	root := cfg.MemoryRoot
	if env := os.Getenv(EnvMemoryRoot); env != "" {
		root = env
	}

	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err == nil {
		var overrides fileConfig
		if yaml.Unmarshal(data, &overrides) == nil {
			cfg.apply(overrides)
		}
	}

	// The environment variable wins over config.yaml for the root,
	// so a host can redirect memory wholesale.
	if env := os.Getenv(EnvMemoryRoot); env != "" {
		cfg.MemoryRoot = env
	}

	return cfg
}

// apply merges non-zero override values into the config. An
// unparseable duration is ignored rather than failing the load.
func (c *Config) apply(o fileConfig) {
	if o.MemoryRoot != "" {
		c.MemoryRoot = o.MemoryRoot
	}
	if o.StaleAfter != "" {
		if d, err := time.ParseDuration(o.StaleAfter); err == nil && d > 0 {
			c.StaleAfter = d
		}
	}
	if o.MistakeRetention > 0 {
		c.MistakeRetention = o.MistakeRetention
	}
	if o.HistoryRetention > 0 {
		c.HistoryRetention = o.HistoryRetention
	}
	if o.ModificationRetention > 0 {
		c.ModificationRetention = o.ModificationRetention
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if len(o.ExtraProfiles) > 0 {
		c.ExtraProfiles = append(c.ExtraProfiles, o.ExtraProfiles...)
	}
}

// ProjectsDir returns the directory holding per-project storage
// folders.
func (c Config) ProjectsDir() string {
	return filepath.Join(c.MemoryRoot, "projects")
}

// LogsDir returns the directory for log files.
func (c Config) LogsDir() string {
	return filepath.Join(c.MemoryRoot, "logs")
}
