// Package system holds the per-tick gameplay systems: grip binding, trail
// animation and blade collision. Systems are registered on the core runner
// and communicate through the entity store and the collision event queue,
// never by calling each other.
package system

import (
	"time"

	coresys "github.com/arcblade/engine/internal/core/system"

	"go.uber.org/zap"

	"github.com/arcblade/engine/internal/component"
	"github.com/arcblade/engine/internal/core/ecs"
	"github.com/arcblade/engine/internal/input"
)

// GripBindSystem promotes armed entities to active. Phase 1 (Update).
//
// An armed entity has its visual and trail resources but no grip yet. The
// first tick its controller pose polls as tracked, the trail is started at
// the current blade pose and the GripBound marker is set. Adding the marker
// moves the entity out of this system's view, so the binding happens exactly
// once per entity lifetime.
type GripBindSystem struct {
	store  *ecs.Store
	armed  *ecs.View
	source input.Source
	log    *zap.Logger
}

func NewGripBindSystem(store *ecs.Store, source input.Source, log *zap.Logger) (*GripBindSystem, error) {
	armed, err := store.Query().
		With(ecs.KindDevice, ecs.KindVisual, ecs.KindTrailBuffers).
		Without(ecs.KindGripBound).
		Build()
	if err != nil {
		return nil, err
	}
	return &GripBindSystem{store: store, armed: armed, source: source, log: log}, nil
}

func (s *GripBindSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *GripBindSystem) Update(_ time.Duration) {
	s.armed.Each(func(id ecs.EntityID) {
		dev := ecs.MustGet[component.Device](s.store, id)
		pose, ok := s.source.Poll(dev.Handle)
		if !ok {
			return // not tracked yet, try again next tick
		}

		visual := ecs.MustGet[component.Visual](s.store, id)
		buffers := ecs.MustGet[component.TrailBuffers](s.store, id)

		blade := pose.Blade(visual.Anchors)
		buffers.Buf.Start(blade.Base, blade.Tip)
		s.store.Update(id, component.GripBound{})

		s.log.Info("grip bound, trail started", zap.Uint64("entity", uint64(id)))
	})
}
