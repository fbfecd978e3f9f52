package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MemoryRoot == "" {
		t.Fatal("default memory root is empty")
	}
	if filepath.Base(filepath.Dir(cfg.MemoryRoot)) != ".factory" {
		t.Errorf("memory root = %q, want it under .factory", cfg.MemoryRoot)
	}
	if cfg.StaleAfter != 7*24*time.Hour {
		t.Errorf("stale after = %v, want 168h", cfg.StaleAfter)
	}
	if cfg.MistakeRetention != 200 || cfg.HistoryRetention != 100 || cfg.ModificationRetention != 100 {
		t.Errorf("retention defaults = %d/%d/%d, want 200/100/100",
			cfg.MistakeRetention, cfg.HistoryRetention, cfg.ModificationRetention)
	}
	if cfg.LearningRate != 0.05 {
		t.Errorf("learning rate = %v, want 0.05", cfg.LearningRate)
	}
}

func TestLoad_EnvOverridesRoot(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvMemoryRoot, root)

	cfg := Load()
	if cfg.MemoryRoot != root {
		t.Errorf("memory root = %q, want %q", cfg.MemoryRoot, root)
	}
}

func TestLoad_YAMLOverrides(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvMemoryRoot, root)

	yml := `
stale_after: 48h
mistake_retention: 50
learning_rate: 0.1
profiles:
  - agent: dpt-ml
    keywords: [model, training]
    weight: 0.8
    threshold: 0.3
`
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if cfg.StaleAfter != 48*time.Hour {
		t.Errorf("stale after = %v, want 48h", cfg.StaleAfter)
	}
	if cfg.MistakeRetention != 50 {
		t.Errorf("mistake retention = %d, want 50", cfg.MistakeRetention)
	}
	if cfg.LearningRate != 0.1 {
		t.Errorf("learning rate = %v, want 0.1", cfg.LearningRate)
	}
	// Untouched values keep their defaults.
	if cfg.HistoryRetention != 100 {
		t.Errorf("history retention = %d, want default 100", cfg.HistoryRetention)
	}
	if len(cfg.ExtraProfiles) != 1 || cfg.ExtraProfiles[0].Agent != "dpt-ml" {
		t.Errorf("extra profiles = %+v", cfg.ExtraProfiles)
	}
}

func TestLoad_EnvWinsOverYAMLRoot(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvMemoryRoot, root)

	yml := "memory_root: /somewhere/else\n"
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if cfg.MemoryRoot != root {
		t.Errorf("memory root = %q, want env value %q", cfg.MemoryRoot, root)
	}
}

func TestLoad_CorruptYAMLFallsBack(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvMemoryRoot, root)

	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(":\nnot yaml ["), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if cfg.MistakeRetention != 200 {
		t.Errorf("corrupt config should keep defaults, got retention %d", cfg.MistakeRetention)
	}
}

func TestDirs(t *testing.T) {
	cfg := Config{MemoryRoot: "/mem"}
	if got := cfg.ProjectsDir(); got != filepath.Join("/mem", "projects") {
		t.Errorf("projects dir = %q", got)
	}
	if got := cfg.LogsDir(); got != filepath.Join("/mem", "logs") {
		t.Errorf("logs dir = %q", got)
	}
}
