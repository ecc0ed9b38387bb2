package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/arcblade/engine/internal/trail"
)

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Trail   TrailConfig   `toml:"trail"`
	Blade   BladeConfig   `toml:"blade"`
	Logging LoggingConfig `toml:"logging"`
}

type EngineConfig struct {
	TickRate Duration `toml:"tick_rate"`
}

// Duration decodes TOML duration strings such as "11ms".
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type TrailConfig struct {
	Preset        string  `toml:"preset"` // named preset from the data table, "" = use the fields below
	PresetPath    string  `toml:"preset_path"`
	Capacity      int     `toml:"capacity"`
	EmitThreshold float64 `toml:"emit_threshold"`
	MaxAge        float64 `toml:"max_age"` // in 60 Hz frames at fade rate 1
	SpawnAlpha    float64 `toml:"spawn_alpha"`
	FadeMin       float64 `toml:"fade_min"`
	FadeMax       float64 `toml:"fade_max"`
	Sensitivity   float64 `toml:"sensitivity"`
}

// TrailSettings converts the section into the animator's config.
func (t TrailConfig) TrailSettings() trail.Config {
	return trail.Config{
		Capacity:      t.Capacity,
		EmitThreshold: t.EmitThreshold,
		MaxAge:        t.MaxAge,
		SpawnAlpha:    t.SpawnAlpha,
		FadeMin:       t.FadeMin,
		FadeMax:       t.FadeMax,
		Sensitivity:   t.Sensitivity,
	}
}

type BladeConfig struct {
	Radius     float64    `toml:"radius"`
	BaseAnchor [3]float64 `toml:"base_anchor"` // controller-local, meters
	TipAnchor  [3]float64 `toml:"tip_anchor"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			TickRate: Duration(time.Second / 90), // headset-native refresh
		},
		Trail: TrailConfig{
			PresetPath:    "data/yaml/trail_presets.yaml",
			Capacity:      48,
			EmitThreshold: 0.015,
			MaxAge:        21, // about a third of a second at fade rate 1
			SpawnAlpha:    0.4,
			FadeMin:       1.0,
			FadeMax:       4.0,
			Sensitivity:   2.0,
		},
		Blade: BladeConfig{
			Radius:     0.02,
			BaseAnchor: [3]float64{0, 0, -0.1},
			TipAnchor:  [3]float64{0, 0, -1.1},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
