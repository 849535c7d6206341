package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultLimit != DefaultConfig().DefaultLimit {
		t.Fatalf("DefaultLimit = %d, want %d", cfg.DefaultLimit, DefaultConfig().DefaultLimit)
	}
	if cfg.DBPath != "" {
		t.Fatalf("DBPath = %q, want empty", cfg.DBPath)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	content := `{"db_path": "/custom/state.vscdb", "default_limit": 25}`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBPath != "/custom/state.vscdb" {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, "/custom/state.vscdb")
	}
	if cfg.DefaultLimit != 25 {
		t.Fatalf("DefaultLimit = %d, want 25", cfg.DefaultLimit)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"export_dir": "/tmp/exports"}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ExportDir != "/tmp/exports" {
		t.Fatalf("ExportDir = %q, want %q", cfg.ExportDir, "/tmp/exports")
	}
	if cfg.DefaultLimit != DefaultConfig().DefaultLimit {
		t.Fatalf("DefaultLimit = %d, want default %d", cfg.DefaultLimit, DefaultConfig().DefaultLimit)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"disabled_tools": ["usage_stats", "key_search"]}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "usage_stats" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "usage_stats")
	}
	if cfg.DisabledTools[1] != "key_search" {
		t.Errorf("DisabledTools[1] = %q, want %q", cfg.DisabledTools[1], "key_search")
	}
}

func TestLoad_DisabledToolsEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 0 {
		t.Fatalf("DisabledTools = %v, want nil or empty", cfg.DisabledTools)
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{DBPath: "/base/state.vscdb", DefaultLimit: 100}
	overlay := &Config{DefaultLimit: 10} // DBPath empty in overlay

	result := Merge(base, overlay)

	if result.DefaultLimit != 10 {
		t.Errorf("DefaultLimit = %d, want 10 (overlay)", result.DefaultLimit)
	}
	if result.DBPath != "/base/state.vscdb" {
		t.Errorf("DBPath = %q, want base value", result.DBPath)
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTools: []string{"usage_stats", "key_search"}}
	overlay := &Config{DisabledTools: []string{"key_search", "value_get"}}

	result := Merge(base, overlay)

	if len(result.DisabledTools) != 3 {
		t.Errorf("DisabledTools length = %d, want 3 (merged, deduped)", len(result.DisabledTools))
	}

	has := make(map[string]bool)
	for _, s := range result.DisabledTools {
		has[s] = true
	}
	for _, want := range []string{"usage_stats", "key_search", "value_get"} {
		if !has[want] {
			t.Errorf("DisabledTools missing %q", want)
		}
	}
}

func TestMerge_TrimsWhitespace(t *testing.T) {
	base := &Config{DisabledTools: []string{" usage_stats "}}
	overlay := &Config{DisabledTools: []string{"usage_stats", ""}}

	result := Merge(base, overlay)

	if len(result.DisabledTools) != 1 || result.DisabledTools[0] != "usage_stats" {
		t.Errorf("DisabledTools = %v, want [usage_stats]", result.DisabledTools)
	}
}
