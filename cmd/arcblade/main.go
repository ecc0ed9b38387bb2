package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arcblade/engine/internal/component"
	"github.com/arcblade/engine/internal/config"
	"github.com/arcblade/engine/internal/core/event"
	"github.com/arcblade/engine/internal/data"
	"github.com/arcblade/engine/internal/game"
	"github.com/arcblade/engine/internal/input"
	"github.com/arcblade/engine/internal/render"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            ArcBlade  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     motion-blade gameplay core demo       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Demo driver ────────────────────────────────────────────────────

func run() error {
	cfgPath := flag.String("config", "config/arcblade.toml", "config file path")
	profileMode := flag.String("profile", "", "enable profiling: cpu or mem")
	duration := flag.Duration("duration", 0, "stop after this long (0 = run until interrupt)")
	flag.Parse()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	// 1. Load config; a missing file means defaults, anything else is fatal.
	if p := os.Getenv("ARCBLADE_CONFIG"); p != "" {
		*cfgPath = p
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Defaults()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Resolve trail tuning, optionally from a named preset
	printSection("data")
	if cfg.Trail.Preset != "" {
		presets, err := data.LoadTrailPresets(cfg.Trail.PresetPath)
		if err != nil {
			return fmt.Errorf("trail presets: %w", err)
		}
		printStat("trail presets", presets.Count())

		p, ok := presets.Get(cfg.Trail.Preset)
		if !ok {
			return fmt.Errorf("trail preset %q not found in %s", cfg.Trail.Preset, cfg.Trail.PresetPath)
		}
		s := p.Settings()
		cfg.Trail.Capacity = s.Capacity
		cfg.Trail.EmitThreshold = s.EmitThreshold
		cfg.Trail.MaxAge = s.MaxAge
		cfg.Trail.SpawnAlpha = s.SpawnAlpha
		cfg.Trail.FadeMin = s.FadeMin
		cfg.Trail.FadeMax = s.FadeMax
		cfg.Trail.Sensitivity = s.Sensitivity
		printOK(fmt.Sprintf("using trail preset %q", cfg.Trail.Preset))
	}

	// 4. Build collaborators: a scripted device source and a logging renderer
	anchors := render.Anchors{
		Base: mgl64.Vec3(cfg.Blade.BaseAnchor),
		Tip:  mgl64.Vec3(cfg.Blade.TipAnchor),
	}
	renderer := render.NewLogRenderer(log, anchors)
	source := input.NewScriptedSource()

	// 5. Assemble the core
	core, err := game.New(cfg, renderer, source, log)
	if err != nil {
		return fmt.Errorf("core: %w", err)
	}

	contacts := 0
	core.OnCollision(func(ev event.Collision) {
		contacts++
		log.Info("clash",
			zap.Float64("distance", ev.Distance),
			zap.Float64("x", ev.Point.X()),
			zap.Float64("y", ev.Point.Y()),
			zap.Float64("z", ev.Point.Z()))
	})

	// 6. Connect two scripted controllers swinging across each other
	left := uuid.New()
	right := uuid.New()
	source.Track(left, swing(-0.15, 0))
	source.Track(right, swing(0.15, math.Pi))
	core.Connect(left, component.HandLeft)
	core.Connect(right, component.HandRight)

	printSection("session")
	printStat("devices", 2)
	printStat("entities", core.EntityCount())
	printReady(fmt.Sprintf("ticking at %v", cfg.Engine.TickRate.Std()))
	fmt.Println()

	// 7. Fixed tick loop until interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.TickRate.Std())
	defer ticker.Stop()

	var timeout <-chan time.Time
	if *duration > 0 {
		timeout = time.After(*duration)
	}

	last := time.Now()
	stats := time.NewTicker(5 * time.Second)
	defer stats.Stop()

loop:
	for {
		select {
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			source.Advance(dt.Seconds())
			core.Tick(dt)
		case <-stats.C:
			log.Info("session stats",
				zap.Int("entities", core.EntityCount()),
				zap.Int("live_handles", renderer.Live()),
				zap.Int("trail_updates", renderer.Updates()),
				zap.Int("contacts", contacts))
			if err := core.Audit(); err != nil {
				log.Error("resource audit failed", zap.Error(err))
			}
		case <-sigCh:
			break loop
		case <-timeout:
			break loop
		}
	}

	// 8. Teardown: entities out first, then lifecycle bindings
	fmt.Println()
	printSection("shutdown")
	if err := core.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := renderer.CheckBalance(0); err != nil {
		return err
	}
	printOK("all resources released")
	printStat("total contacts", contacts)
	return nil
}

// swing scripts a controller at the given lateral offset, sweeping the blade
// through crossing vertical arcs. phase offsets the two hands against each
// other so the blades meet near the midline.
func swing(offsetX, phase float64) input.SwingFunc {
	return func(t float64) input.Pose {
		angle := math.Sin(t*2.4+phase) * 0.9
		return input.Pose{
			Pos: mgl64.Vec3{offsetX, 1.2, 0},
			Rot: mgl64.QuatRotate(angle, mgl64.Vec3{1, 0, 0}),
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
