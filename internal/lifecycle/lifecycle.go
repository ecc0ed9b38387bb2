// Package lifecycle binds entity lifetime to externally owned resources. A
// Bridge watches one view's enter/exit events and is the only place in the
// core that creates or destroys renderer-owned resources: create runs at most
// once per entity, destroy exactly once if and only if create ran.
//
// A bridge binds the view that defines the resource's entry archetype, never
// a narrower per-system view. Binding a second bridge to the same view is a
// configuration error and fails at setup, because overlapping disposal
// registrations are how resources get freed twice.
package lifecycle

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/arcblade/engine/internal/core/ecs"
)

var (
	// ErrViewBound marks an attempt to bind two bridges to one view.
	ErrViewBound = errors.New("lifecycle: view already has a bound bridge")

	// ErrNilHook marks a bridge bound without both hooks.
	ErrNilHook = errors.New("lifecycle: create and destroy hooks are both required")
)

// CreateFunc builds the resources for an entity that entered the view.
type CreateFunc func(ecs.EntityID)

// DestroyFunc releases every resource the matching create call built,
// transitively. It runs while the entity's components are still readable.
type DestroyFunc func(ecs.EntityID) error

// Set owns all bridges over one store and drives ordered teardown: every
// entity is removed from the store, firing the usual exits and disposals,
// before any bridge stops observing. Tearing down in the other order leaks
// the final batch of resources.
type Set struct {
	store  *ecs.Store
	log    *zap.Logger
	byView map[*ecs.View]*Bridge
	closed bool
}

func NewSet(store *ecs.Store, log *zap.Logger) *Set {
	return &Set{
		store:  store,
		log:    log,
		byView: make(map[*ecs.View]*Bridge),
	}
}

// Bind attaches create/destroy hooks to the view's enter/exit events.
func (s *Set) Bind(view *ecs.View, create CreateFunc, destroy DestroyFunc) (*Bridge, error) {
	if view == nil || create == nil || destroy == nil {
		return nil, ErrNilHook
	}
	if _, ok := s.byView[view]; ok {
		return nil, ErrViewBound
	}

	b := &Bridge{
		view:    view,
		create:  create,
		destroy: destroy,
		created: make(map[ecs.EntityID]struct{}),
		log:     s.log,
	}
	view.OnEnter(b.enter)
	view.OnExit(b.exit)
	s.byView[view] = b
	return b, nil
}

// Audit verifies that each bridge's live resource count matches its view's
// membership. Divergence means a leak or a double-create and is an invariant
// violation, not a runtime condition to recover from.
func (s *Set) Audit() error {
	var err error
	for view, b := range s.byView {
		if got, want := len(b.created), view.Len(); got != want {
			err = multierr.Append(err, fmt.Errorf(
				"lifecycle: %d entities hold resources, view has %d members", got, want))
		}
	}
	return err
}

// Shutdown removes every entity (running all disposals through the normal
// exit path) and then detaches the bridges. Returns the aggregate of any
// disposal errors. The set is unusable afterwards.
func (s *Set) Shutdown() error {
	if s.closed {
		return nil
	}
	s.store.Clear()

	var err error
	for _, b := range s.byView {
		err = multierr.Append(err, b.takeErr())
		b.detached = true
	}
	s.closed = true
	return err
}

// Bridge couples one view to one create/destroy hook pair.
type Bridge struct {
	view     *ecs.View
	create   CreateFunc
	destroy  DestroyFunc
	created  map[ecs.EntityID]struct{}
	log      *zap.Logger
	errs     error
	detached bool
}

// Created returns how many entities currently hold resources from this
// bridge.
func (b *Bridge) Created() int { return len(b.created) }

func (b *Bridge) enter(id ecs.EntityID) {
	if b.detached {
		return
	}
	if _, dup := b.created[id]; dup {
		// Re-entering without an exit cannot happen through the store; a dup
		// here means a bookkeeping bug upstream, so refuse the second create.
		b.log.Error("suppressed duplicate resource create", zap.Uint64("entity", uint64(id)))
		return
	}
	b.created[id] = struct{}{}
	b.create(id)
}

func (b *Bridge) exit(id ecs.EntityID) {
	if b.detached {
		return
	}
	if _, ok := b.created[id]; !ok {
		return // never created for this entity, nothing to release
	}
	delete(b.created, id)
	if err := b.destroy(id); err != nil {
		b.log.Error("resource destroy failed", zap.Uint64("entity", uint64(id)), zap.Error(err))
		b.errs = multierr.Append(b.errs, err)
	}
}

func (b *Bridge) takeErr() error {
	err := b.errs
	b.errs = nil
	return err
}
