// Package game assembles the gameplay core: entity store, lifecycle
// bindings, input bridge, per-tick systems and the collision queue. A Core is
// an explicit, self-contained instance; nothing here is process-global, so
// tests and concurrent sessions can each run their own.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/arcblade/engine/internal/component"
	"github.com/arcblade/engine/internal/config"
	"github.com/arcblade/engine/internal/core/ecs"
	"github.com/arcblade/engine/internal/core/event"
	coresys "github.com/arcblade/engine/internal/core/system"
	"github.com/arcblade/engine/internal/input"
	"github.com/arcblade/engine/internal/lifecycle"
	"github.com/arcblade/engine/internal/render"
	"github.com/arcblade/engine/internal/system"
	"github.com/arcblade/engine/internal/trail"
)

// Core is one running gameplay instance, driven by an external Tick call.
type Core struct {
	store      *ecs.Store
	runner     *coresys.Runner
	bridge     *input.Bridge
	lifecycles *lifecycle.Set
	collisions *event.Queue[event.Collision]
	animator   *trail.Animator
	renderer   render.Renderer
	log        *zap.Logger

	onCollision []func(event.Collision)
}

// New wires a core from its collaborators. Setup errors (invalid trail
// tuning, malformed query signatures, duplicate lifecycle bindings) are
// returned immediately; nothing is retried or degraded.
func New(cfg *config.Config, renderer render.Renderer, source input.Source, log *zap.Logger) (*Core, error) {
	animator, err := trail.NewAnimator(cfg.Trail.TrailSettings())
	if err != nil {
		return nil, fmt.Errorf("trail config: %w", err)
	}

	c := &Core{
		store:    ecs.NewStore(),
		animator: animator,
		renderer: renderer,
		log:      log,
	}

	// Single consumer: every reaction to a collision is fanned out from this
	// one handler. A second queue on the same events would see nothing.
	c.collisions = event.NewQueue(func(ev event.Collision) {
		c.log.Debug("blade contact",
			zap.Uint64("a", uint64(ev.A)),
			zap.Uint64("b", uint64(ev.B)),
			zap.Float64("distance", ev.Distance))
		for _, fn := range c.onCollision {
			fn(ev)
		}
	})

	// Resources bind to the entry archetype: an entity exists as a player
	// blade the moment it has a device and an identity. Narrower views (the
	// per-system ones below) never own disposal.
	spawned, err := c.store.Query().With(ecs.KindDevice, ecs.KindIdentity).Build()
	if err != nil {
		return nil, fmt.Errorf("lifecycle query: %w", err)
	}
	c.lifecycles = lifecycle.NewSet(c.store, log)
	if _, err := c.lifecycles.Bind(spawned, c.createResources, c.destroyResources); err != nil {
		return nil, fmt.Errorf("lifecycle bind: %w", err)
	}

	c.bridge, err = input.NewBridge(c.store, log)
	if err != nil {
		return nil, fmt.Errorf("input bridge: %w", err)
	}

	c.runner = coresys.NewRunner(log)

	gripBind, err := system.NewGripBindSystem(c.store, source, log)
	if err != nil {
		return nil, fmt.Errorf("grip bind system: %w", err)
	}
	trails, err := system.NewTrailSystem(c.store, source, renderer, animator, log)
	if err != nil {
		return nil, fmt.Errorf("trail system: %w", err)
	}
	collisions, err := system.NewCollisionSystem(c.store, source, c.collisions, cfg.Blade.Radius, log)
	if err != nil {
		return nil, fmt.Errorf("collision system: %w", err)
	}

	c.runner.Register(gripBind)
	c.runner.Register(trails)
	c.runner.Register(collisions)
	c.runner.AttachQueue(c.collisions)

	return c, nil
}

// Tick advances the core one frame. The caller guarantees ticks arrive one
// at a time on a single execution context.
func (c *Core) Tick(dt time.Duration) {
	c.runner.Tick(dt)
}

// Connect routes a device connect signal into the core. Call between ticks.
func (c *Core) Connect(handle uuid.UUID, hand component.Hand) {
	c.bridge.Connected(handle, hand)
}

// Disconnect routes a device disconnect signal into the core. Call between
// ticks.
func (c *Core) Disconnect(handle uuid.UUID) {
	c.bridge.Disconnected(handle)
}

// OnCollision registers a reaction to blade contacts. Setup-time only: the
// callback list must be complete before the first Tick.
func (c *Core) OnCollision(fn func(event.Collision)) {
	c.onCollision = append(c.onCollision, fn)
}

// EntityCount returns the number of live entities.
func (c *Core) EntityCount() int { return c.store.Count() }

// Store exposes the entity store for integration callers and tests.
func (c *Core) Store() *ecs.Store { return c.store }

// Audit cross-checks resource accounting against entity membership.
func (c *Core) Audit() error { return c.lifecycles.Audit() }

// Shutdown removes all entities, releasing their renderer resources through
// the normal lifecycle path, then tears down the lifecycle bindings.
func (c *Core) Shutdown() error {
	return c.lifecycles.Shutdown()
}

// createResources arms a freshly spawned entity: visual, trail surface and
// trail sample storage, all exactly once.
func (c *Core) createResources(id ecs.EntityID) {
	visual, anchors := c.renderer.BuildVisual()
	buf := c.animator.NewBuffer()
	surface := c.renderer.BuildTrailSurface(buf.Capacity())
	c.store.Update(id,
		component.Visual{Handle: visual, Anchors: anchors},
		component.TrailSurface{Handle: surface},
		component.TrailBuffers{Buf: buf},
	)
}

// destroyResources releases everything createResources built. Components are
// still readable here: the store clears the record only after exit hooks ran.
func (c *Core) destroyResources(id ecs.EntityID) error {
	var err error

	if visual, ok := ecs.Get[component.Visual](c.store, id); ok {
		c.renderer.Dispose(visual.Handle)
	} else {
		err = multierr.Append(err, fmt.Errorf("entity %d lost its visual before destroy", id))
	}

	if surface, ok := ecs.Get[component.TrailSurface](c.store, id); ok {
		c.renderer.Dispose(surface.Handle)
	} else {
		err = multierr.Append(err, fmt.Errorf("entity %d lost its trail surface before destroy", id))
	}

	return err
}
