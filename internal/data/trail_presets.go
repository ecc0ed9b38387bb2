// Package data loads tuning tables shipped as YAML. Art-facing numbers live
// in data files, not code, so they can be retuned without a rebuild.
package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arcblade/engine/internal/trail"
)

// TrailPreset is one named trail tuning, loaded from trail_presets.yaml.
type TrailPreset struct {
	Name          string  `yaml:"name"`
	Capacity      int     `yaml:"capacity"`
	EmitThreshold float64 `yaml:"emit_threshold"`
	MaxAge        float64 `yaml:"max_age"`
	SpawnAlpha    float64 `yaml:"spawn_alpha"`
	FadeMin       float64 `yaml:"fade_min"`
	FadeMax       float64 `yaml:"fade_max"`
	Sensitivity   float64 `yaml:"sensitivity"`
}

// Settings converts the preset into the animator's config.
func (p TrailPreset) Settings() trail.Config {
	return trail.Config{
		Capacity:      p.Capacity,
		EmitThreshold: p.EmitThreshold,
		MaxAge:        p.MaxAge,
		SpawnAlpha:    p.SpawnAlpha,
		FadeMin:       p.FadeMin,
		FadeMax:       p.FadeMax,
		Sensitivity:   p.Sensitivity,
	}
}

// TrailPresetTable provides named trail preset lookups.
type TrailPresetTable struct {
	presets map[string]TrailPreset
}

type trailPresetFile struct {
	Presets []TrailPreset `yaml:"presets"`
}

// LoadTrailPresets reads the preset table. Every preset must carry a unique
// name and validate as an animator config.
func LoadTrailPresets(path string) (*TrailPresetTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trail presets %s: %w", path, err)
	}

	var file trailPresetFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse trail presets %s: %w", path, err)
	}

	t := &TrailPresetTable{presets: make(map[string]TrailPreset, len(file.Presets))}
	for _, p := range file.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("trail presets %s: preset without name", path)
		}
		if _, dup := t.presets[p.Name]; dup {
			return nil, fmt.Errorf("trail presets %s: duplicate preset %q", path, p.Name)
		}
		if err := p.Settings().Validate(); err != nil {
			return nil, fmt.Errorf("trail preset %q: %w", p.Name, err)
		}
		t.presets[p.Name] = p
	}
	return t, nil
}

func (t *TrailPresetTable) Get(name string) (TrailPreset, bool) {
	p, ok := t.presets[name]
	return p, ok
}

func (t *TrailPresetTable) Count() int { return len(t.presets) }
