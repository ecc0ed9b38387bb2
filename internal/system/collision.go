package system

import (
	"time"

	coresys "github.com/arcblade/engine/internal/core/system"

	"go.uber.org/zap"

	"github.com/arcblade/engine/internal/component"
	"github.com/arcblade/engine/internal/core/ecs"
	"github.com/arcblade/engine/internal/core/event"
	"github.com/arcblade/engine/internal/geom"
	"github.com/arcblade/engine/internal/input"
)

// CollisionSystem evaluates blade-to-blade proximity across all active
// blades, pairwise. Phase 2 (PostUpdate), after grip binding and trail
// animation have settled this tick's poses.
//
// Contact is a pure distance test: two segments closer than twice the blade
// radius collide. Any directional or angle gating happens downstream in the
// queue consumer. With the usual two controllers the pairwise walk degrades
// to a single pair; it stays correct if more blades ever join.
type CollisionSystem struct {
	store  *ecs.Store
	active *ecs.View
	source input.Source
	queue  *event.Queue[event.Collision]
	radius float64
	log    *zap.Logger

	scratch []bladeEntry // reused across ticks
}

type bladeEntry struct {
	id  ecs.EntityID
	seg geom.Segment
}

func NewCollisionSystem(
	store *ecs.Store,
	source input.Source,
	queue *event.Queue[event.Collision],
	bladeRadius float64,
	log *zap.Logger,
) (*CollisionSystem, error) {
	active, err := store.Query().
		With(ecs.KindDevice, ecs.KindVisual, ecs.KindGripBound).
		Build()
	if err != nil {
		return nil, err
	}
	return &CollisionSystem{
		store:  store,
		active: active,
		source: source,
		queue:  queue,
		radius: bladeRadius,
		log:    log,
	}, nil
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *CollisionSystem) Update(_ time.Duration) {
	s.scratch = s.scratch[:0]
	s.active.Each(func(id ecs.EntityID) {
		dev := ecs.MustGet[component.Device](s.store, id)
		pose, ok := s.source.Poll(dev.Handle)
		if !ok {
			return
		}
		visual := ecs.MustGet[component.Visual](s.store, id)
		s.scratch = append(s.scratch, bladeEntry{id: id, seg: pose.Blade(visual.Anchors)})
	})

	threshold := 2 * s.radius
	for i := 0; i < len(s.scratch); i++ {
		for j := i + 1; j < len(s.scratch); j++ {
			dist, mid := geom.Closest(s.scratch[i].seg, s.scratch[j].seg)
			if dist < threshold {
				s.queue.Push(event.Collision{
					A:        s.scratch[i].id,
					B:        s.scratch[j].id,
					Distance: dist,
					Point:    mid,
				})
			}
		}
	}
}
