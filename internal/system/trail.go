package system

import (
	"time"

	coresys "github.com/arcblade/engine/internal/core/system"

	"go.uber.org/zap"

	"github.com/arcblade/engine/internal/component"
	"github.com/arcblade/engine/internal/core/ecs"
	"github.com/arcblade/engine/internal/input"
	"github.com/arcblade/engine/internal/render"
	"github.com/arcblade/engine/internal/trail"
)

// TrailSystem advances every active blade's trail and pushes the resulting
// vertex data to the renderer. Phase 1 (Update), registered after grip
// binding so a trail started this tick gets its first step this tick.
type TrailSystem struct {
	store    *ecs.Store
	active   *ecs.View
	source   input.Source
	renderer render.Renderer
	animator *trail.Animator
	log      *zap.Logger
}

func NewTrailSystem(
	store *ecs.Store,
	source input.Source,
	renderer render.Renderer,
	animator *trail.Animator,
	log *zap.Logger,
) (*TrailSystem, error) {
	active, err := store.Query().
		With(ecs.KindDevice, ecs.KindVisual, ecs.KindTrailBuffers, ecs.KindTrailSurface, ecs.KindGripBound).
		Build()
	if err != nil {
		return nil, err
	}
	return &TrailSystem{
		store:    store,
		active:   active,
		source:   source,
		renderer: renderer,
		animator: animator,
		log:      log,
	}, nil
}

func (s *TrailSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *TrailSystem) Update(dt time.Duration) {
	s.active.Each(func(id ecs.EntityID) {
		dev := ecs.MustGet[component.Device](s.store, id)
		pose, ok := s.source.Poll(dev.Handle)
		if !ok {
			// Tracking dropped mid-play: the trail freezes at its last pose
			// rather than animating toward stale data.
			return
		}

		visual := ecs.MustGet[component.Visual](s.store, id)
		buffers := ecs.MustGet[component.TrailBuffers](s.store, id)
		surface := ecs.MustGet[component.TrailSurface](s.store, id)

		blade := pose.Blade(visual.Anchors)
		s.animator.Step(buffers.Buf, blade.Base, blade.Tip, dt.Seconds())
		s.renderer.UpdateTrailSurface(surface.Handle, buffers.Buf.Positions(), buffers.Buf.Alphas())
	})
}
