package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Terrain != "ridge" {
		t.Errorf("expected terrain ridge, got %s", cfg.Terrain)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Threshold <= 0 {
		t.Error("threshold should be positive")
	}
	if cfg.Cells <= 0 {
		t.Error("cells should be positive")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Cells = 123
	cfg.Workers = 7
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Cells != 123 || loaded.Workers != 7 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("ridge", "small")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Cells != 100 {
		t.Errorf("expected 100 cells, got %d", cfg.Cells)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("ridge", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "small") != nil {
		t.Error("expected nil for nonexistent terrain")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets("ridge")) == 0 {
		t.Error("expected presets for ridge")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent terrain")
	}
}

func TestWorkerCountFromEnv(t *testing.T) {
	tests := []struct {
		val  string
		want int
	}{
		{"4", 4},
		{"1", 1},
		{"16", 16},
		{"0", 0},
		{"", 1},
		{"4x", 1},
		{"x4", 1},
		{"-3", 1},
		{"+3", 1},
		{"3.5", 1},
		{" 4", 1},
		{"4 ", 1},
		{"four", 1},
		{"99999999999999999999", 1},
		{strings.Repeat("9", 100), 1},
	}

	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			t.Setenv(WorkersEnv, tt.val)
			if got := WorkerCount(); got != tt.want {
				t.Errorf("value %q: expected %d workers, got %d", tt.val, tt.want, got)
			}
		})
	}
}

func TestWorkerCountUnset(t *testing.T) {
	t.Setenv(WorkersEnv, "")
	if got := WorkerCount(); got != DefaultWorkers {
		t.Errorf("expected default %d when unset, got %d", DefaultWorkers, got)
	}
}
