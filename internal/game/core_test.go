package game

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arcblade/engine/internal/component"
	"github.com/arcblade/engine/internal/config"
	"github.com/arcblade/engine/internal/core/ecs"
	"github.com/arcblade/engine/internal/core/event"
	"github.com/arcblade/engine/internal/input"
	"github.com/arcblade/engine/internal/render"
)

const tick = time.Second / 90

type harness struct {
	core     *Core
	renderer *render.LogRenderer
	source   *input.ScriptedSource
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Defaults()
	renderer := render.NewLogRenderer(zap.NewNop(), render.Anchors{
		Base: mgl64.Vec3(cfg.Blade.BaseAnchor),
		Tip:  mgl64.Vec3(cfg.Blade.TipAnchor),
	})
	source := input.NewScriptedSource()
	core, err := New(cfg, renderer, source, zap.NewNop())
	if err != nil {
		t.Fatalf("core: %v", err)
	}
	return &harness{core: core, renderer: renderer, source: source}
}

// fixedPose holds a controller still at x, one meter up, blade hanging along
// -Z from the default anchors.
func fixedPose(x float64) input.SwingFunc {
	return func(float64) input.Pose {
		return input.Pose{Pos: mgl64.Vec3{x, 1, 0}, Rot: mgl64.QuatIdent()}
	}
}

func (h *harness) connectTracked(x float64) uuid.UUID {
	handle := uuid.New()
	h.source.Track(handle, fixedPose(x))
	h.core.Connect(handle, component.HandRight)
	return handle
}

func (h *harness) soleEntity(t *testing.T) ecs.EntityID {
	t.Helper()
	all := h.core.Store().All()
	if len(all) != 1 {
		t.Fatalf("expected exactly one entity, got %d", len(all))
	}
	return all[0]
}

func TestConnectBuildsResourcesImmediately(t *testing.T) {
	h := newHarness(t)

	h.connectTracked(0)

	// Visual and trail surface exist before the first tick: creation rides
	// the query enter event, not the frame loop.
	if h.core.EntityCount() != 1 {
		t.Fatalf("entity count %d", h.core.EntityCount())
	}
	if h.renderer.Live() != 2 {
		t.Errorf("%d live render handles, want visual+surface", h.renderer.Live())
	}

	id := h.soleEntity(t)
	if _, ok := ecs.Get[component.Visual](h.core.Store(), id); !ok {
		t.Error("visual component missing")
	}
	if _, ok := ecs.Get[component.TrailSurface](h.core.Store(), id); !ok {
		t.Error("trail surface component missing")
	}
	buffers, ok := ecs.Get[component.TrailBuffers](h.core.Store(), id)
	if !ok || buffers.Buf == nil {
		t.Fatal("trail buffers missing")
	}
	if buffers.Buf.Active() {
		t.Error("trail started before the grip was bound")
	}
}

func TestGripBindsWhenTrackingArrives(t *testing.T) {
	h := newHarness(t)

	// Connected but never tracked: the entity stays armed across ticks.
	handle := uuid.New()
	h.core.Connect(handle, component.HandLeft)
	h.core.Tick(tick)
	h.core.Tick(tick)

	id := h.soleEntity(t)
	if h.core.Store().Signature(id).Has(ecs.KindGripBound) {
		t.Fatal("grip bound without a tracked pose")
	}
	if h.renderer.Updates() != 0 {
		t.Error("trail surface updated before the trail started")
	}

	// Tracking arrives: the next tick binds the grip and starts the trail.
	h.source.Track(handle, fixedPose(0))
	h.core.Tick(tick)

	if !h.core.Store().Signature(id).Has(ecs.KindGripBound) {
		t.Fatal("grip not bound after tracking arrived")
	}
	buffers, _ := ecs.Get[component.TrailBuffers](h.core.Store(), id)
	if !buffers.Buf.Active() {
		t.Error("trail not started at bind time")
	}
	if h.renderer.Updates() == 0 {
		t.Error("trail surface never pushed to the renderer")
	}
}

func TestDisconnectDisposesExactlyOnce(t *testing.T) {
	h := newHarness(t)

	handle := h.connectTracked(0)
	h.core.Tick(tick)

	h.core.Disconnect(handle)

	if h.core.EntityCount() != 0 {
		t.Errorf("entity count %d after disconnect", h.core.EntityCount())
	}
	if h.renderer.Live() != 0 {
		t.Errorf("%d render handles leaked", h.renderer.Live())
	}
	if h.renderer.Disposed() != 2 {
		t.Errorf("%d handles disposed, want 2", h.renderer.Disposed())
	}
	if err := h.core.Audit(); err != nil {
		t.Errorf("audit: %v", err)
	}

	// A second disconnect for the same handle is a no-op, not a second
	// teardown.
	h.core.Disconnect(handle)
	if h.renderer.Disposed() != 2 {
		t.Error("duplicate disconnect re-ran disposal")
	}

	// The core keeps tracking ticks after the device went away.
	h.core.Tick(tick)
	if err := h.renderer.CheckBalance(0); err != nil {
		t.Error(err)
	}
}

func TestSessionSurvivesReconnect(t *testing.T) {
	h := newHarness(t)

	first := h.connectTracked(0)
	h.core.Tick(tick)
	h.core.Disconnect(first)

	second := h.connectTracked(0.3)
	h.core.Tick(tick)

	if h.core.EntityCount() != 1 {
		t.Fatalf("entity count %d", h.core.EntityCount())
	}
	if h.renderer.Live() != 2 {
		t.Errorf("%d live render handles", h.renderer.Live())
	}

	h.core.Disconnect(second)
	if h.renderer.Disposed() != 4 {
		t.Errorf("%d handles disposed across both sessions, want 4", h.renderer.Disposed())
	}
}

func TestCollisionFiresWithinThreshold(t *testing.T) {
	h := newHarness(t)

	var events []event.Collision
	h.core.OnCollision(func(ev event.Collision) { events = append(events, ev) })

	// Two parallel blades 0.01m apart, well inside the 2*radius = 0.04m
	// contact threshold.
	h.connectTracked(0)
	h.connectTracked(0.01)
	h.core.Tick(tick)

	if len(events) != 1 {
		t.Fatalf("got %d collision events, want 1", len(events))
	}
	ev := events[0]
	if ev.A == ev.B {
		t.Error("collision pairs an entity with itself")
	}
	if math.Abs(ev.Distance-0.01) > 1e-9 {
		t.Errorf("distance %v, want 0.01", ev.Distance)
	}
	// Contact point sits midway between the blades.
	if math.Abs(ev.Point.X()-0.005) > 1e-9 || math.Abs(ev.Point.Y()-1) > 1e-9 {
		t.Errorf("contact point %v", ev.Point)
	}

	// Overlap persists, so the next tick reports contact again.
	h.core.Tick(tick)
	if len(events) != 2 {
		t.Errorf("got %d events after second tick, want 2", len(events))
	}
}

func TestNoCollisionBeyondThreshold(t *testing.T) {
	h := newHarness(t)

	fired := 0
	h.core.OnCollision(func(event.Collision) { fired++ })

	// 0.1m apart: five times the contact threshold.
	h.connectTracked(0)
	h.connectTracked(0.1)
	h.core.Tick(tick)
	h.core.Tick(tick)

	if fired != 0 {
		t.Errorf("%d collision events for separated blades", fired)
	}
}

func TestCollisionChecksEveryPair(t *testing.T) {
	h := newHarness(t)

	type pair struct{ a, b ecs.EntityID }
	seen := make(map[pair]int)
	h.core.OnCollision(func(ev event.Collision) {
		seen[pair{ev.A, ev.B}]++
	})

	// Three blades clustered inside one contact radius of each other.
	h.connectTracked(0)
	h.connectTracked(0.01)
	h.connectTracked(0.02)
	h.core.Tick(tick)

	if len(seen) != 3 {
		t.Fatalf("got %d distinct pairs, want 3", len(seen))
	}
	for p, n := range seen {
		if n != 1 {
			t.Errorf("pair %v reported %d times in one tick", p, n)
		}
	}
}

func TestCollisionFanOutPreservesOrder(t *testing.T) {
	h := newHarness(t)

	var order []string
	h.core.OnCollision(func(event.Collision) { order = append(order, "first") })
	h.core.OnCollision(func(event.Collision) { order = append(order, "second") })

	h.connectTracked(0)
	h.connectTracked(0.01)
	h.core.Tick(tick)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("fan-out order %v", order)
	}
}

func TestUntrackedBladeNeverCollides(t *testing.T) {
	h := newHarness(t)

	fired := 0
	h.core.OnCollision(func(event.Collision) { fired++ })

	h.connectTracked(0)
	b := h.connectTracked(0.01)
	h.core.Tick(tick) // both bound
	fired = 0

	// Tracking drops out for one blade: its last pose must not keep
	// generating contacts.
	h.source.Drop(b)
	h.core.Tick(tick)
	if fired != 0 {
		t.Errorf("%d events with an untracked blade", fired)
	}
}

func TestShutdownReleasesEverything(t *testing.T) {
	h := newHarness(t)

	h.connectTracked(0)
	h.connectTracked(0.5)
	h.core.Tick(tick)

	if err := h.core.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if h.core.EntityCount() != 0 {
		t.Errorf("entity count %d after shutdown", h.core.EntityCount())
	}
	if err := h.renderer.CheckBalance(0); err != nil {
		t.Error(err)
	}
	if h.renderer.Disposed() != 4 {
		t.Errorf("%d handles disposed, want 4", h.renderer.Disposed())
	}
}

func TestSetupRejectsInvalidTrailTuning(t *testing.T) {
	cfg := config.Defaults()
	cfg.Trail.Capacity = 0

	renderer := render.NewLogRenderer(zap.NewNop(), render.Anchors{})
	_, err := New(cfg, renderer, input.NewScriptedSource(), zap.NewNop())
	if err == nil {
		t.Fatal("expected a setup error for invalid trail tuning")
	}
}
