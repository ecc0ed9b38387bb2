package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePresets(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trail_presets.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadShippedPresets(t *testing.T) {
	table, err := LoadTrailPresets("../../data/yaml/trail_presets.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Count() == 0 {
		t.Fatal("shipped preset table is empty")
	}

	p, ok := table.Get("standard")
	if !ok {
		t.Fatal("shipped table missing the standard preset")
	}
	if err := p.Settings().Validate(); err != nil {
		t.Errorf("standard preset invalid: %v", err)
	}
}

func TestLoadRejectsDuplicateNames(t *testing.T) {
	path := writePresets(t, `
presets:
  - {name: a, capacity: 8, emit_threshold: 0.02, max_age: 20, spawn_alpha: 0.4, fade_min: 1, fade_max: 4, sensitivity: 2}
  - {name: a, capacity: 8, emit_threshold: 0.02, max_age: 20, spawn_alpha: 0.4, fade_min: 1, fade_max: 4, sensitivity: 2}
`)
	_, err := LoadTrailPresets(path)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected a duplicate-name error, got %v", err)
	}
}

func TestLoadRejectsUnnamedPreset(t *testing.T) {
	path := writePresets(t, `
presets:
  - {capacity: 8, emit_threshold: 0.02, max_age: 20, spawn_alpha: 0.4, fade_min: 1, fade_max: 4, sensitivity: 2}
`)
	if _, err := LoadTrailPresets(path); err == nil {
		t.Error("expected an error for a preset without a name")
	}
}

func TestLoadRejectsInvalidTuning(t *testing.T) {
	path := writePresets(t, `
presets:
  - {name: broken, capacity: 1, emit_threshold: 0.02, max_age: 20, spawn_alpha: 0.4, fade_min: 1, fade_max: 4, sensitivity: 2}
`)
	_, err := LoadTrailPresets(path)
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected the preset name in the error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadTrailPresets(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writePresets(t, "presets: [whoops")
	if _, err := LoadTrailPresets(path); err == nil {
		t.Error("expected a parse error")
	}
}
