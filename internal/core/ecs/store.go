// Package ecs implements the entity store and its live query views. Entities
// are open records over a closed component-kind enumeration; views are
// incrementally maintained indexes that fire enter/exit hooks synchronously
// as part of the mutation that changes membership. Everything here runs on
// the single tick context: there is no internal locking.
package ecs

import "fmt"

// Store holds all entity records: a generational slot pool, one sparse
// component column per Kind, and a signature mask per entity. Every mutation
// re-evaluates the affected entity against each registered view and delivers
// enter/exit notifications synchronously, before the mutating call returns.
//
// The store is single-threaded by contract: all mutations happen on the tick
// context (see package doc).
type Store struct {
	pool    *pool
	masks   []Mask
	columns [KindCount][]Component

	views     []*View
	viewCache map[viewKey]*View

	// Entities currently inside Remove: still alive and readable for exit
	// hooks, but already non-matching for every view.
	removing map[EntityID]struct{}
}

type viewKey struct {
	required Mask
	excluded Mask
}

func NewStore() *Store {
	return &Store{
		pool:      newPool(),
		masks:     make([]Mask, 0, 64),
		viewCache: make(map[viewKey]*View),
		removing:  make(map[EntityID]struct{}),
	}
}

// Create allocates a new entity carrying the given components and returns its
// handle. Views matching the new signature fire their enter hooks before
// Create returns.
func (s *Store) Create(components ...Component) EntityID {
	id := s.pool.create()
	idx := int(id.Index())
	s.grow(idx)

	var m Mask
	for _, c := range components {
		s.columns[c.Kind()][idx] = c
		m = m.Set(c.Kind())
	}
	s.masks[idx] = m

	s.reindex(id)
	return id
}

// Update attaches or replaces components on an existing entity. A write that
// does not change the entity's signature fires no view notifications, so
// re-setting a component an entity already has is observationally silent.
// Updates against a stale handle are no-ops.
func (s *Store) Update(id EntityID, components ...Component) {
	if !s.pool.alive(id) {
		return
	}
	idx := int(id.Index())
	before := s.masks[idx]
	after := before
	for _, c := range components {
		s.columns[c.Kind()][idx] = c
		after = after.Set(c.Kind())
	}
	s.masks[idx] = after

	if after != before {
		s.reindex(id)
	}
}

// Remove destroys an entity. Exit hooks fire for every view the entity was a
// member of while its components are still readable, so disposal hooks can
// reach the resources they must release; the record is cleared only after all
// views have been notified. Removing a stale handle is a no-op.
//
// This is the single removal path: device disconnects, gameplay despawns and
// engine teardown all go through here, so lifecycle observers cannot tell
// removals apart by cause.
func (s *Store) Remove(id EntityID) {
	if !s.pool.alive(id) {
		return
	}
	if _, busy := s.removing[id]; busy {
		return // re-entrant remove of the entity already being removed
	}
	idx := int(id.Index())

	// Mark the entity as leaving before notifying: views resolve it as
	// non-matching from here on, while its components stay readable for the
	// exit hooks.
	s.removing[id] = struct{}{}
	s.reindex(id)
	delete(s.removing, id)

	for k := Kind(0); k < KindCount; k++ {
		s.columns[k][idx] = nil
	}
	s.masks[idx] = 0
	s.pool.destroy(id)
}

// Alive reports whether the handle still refers to a live entity.
func (s *Store) Alive(id EntityID) bool { return s.pool.alive(id) }

// Signature returns the entity's current component mask, or zero for a stale
// handle.
func (s *Store) Signature(id EntityID) Mask {
	if !s.pool.alive(id) {
		return 0
	}
	return s.masks[id.Index()]
}

// Lookup returns the component of the given kind, if present.
func (s *Store) Lookup(id EntityID, k Kind) (Component, bool) {
	if !s.pool.alive(id) || !s.masks[id.Index()].Has(k) {
		return nil, false
	}
	return s.columns[k][id.Index()], true
}

// Count returns the number of live entities.
func (s *Store) Count() int {
	return int(s.pool.nextIndex) - len(s.pool.freeList)
}

// Each calls fn for every live entity. The iteration order is slot order.
// fn must not mutate the store; use All when removal during iteration is
// needed.
func (s *Store) Each(fn func(EntityID)) {
	for idx := uint32(0); idx < s.pool.nextIndex; idx++ {
		id := newEntityID(idx, s.pool.generations[idx])
		if s.pool.alive(id) {
			fn(id)
		}
	}
}

// All returns a snapshot of every live entity handle.
func (s *Store) All() []EntityID {
	out := make([]EntityID, 0, s.Count())
	s.Each(func(id EntityID) { out = append(out, id) })
	return out
}

// Clear removes every live entity through the normal removal path, firing
// exit hooks as usual. Used at teardown, before lifecycle observers are torn
// down, so the final batch of externally owned resources is released.
func (s *Store) Clear() {
	for _, id := range s.All() {
		s.Remove(id)
	}
}

func (s *Store) grow(idx int) {
	for idx >= len(s.masks) {
		s.masks = append(s.masks, 0)
		for k := range s.columns {
			s.columns[k] = append(s.columns[k], nil)
		}
	}
}

// reindex settles one entity's membership across all registered views. Each
// view diffs its own recorded membership against the store's live state at
// the moment it is visited, so hooks that mutate the store re-entrantly
// cannot leave later views settling from a stale signature. The view list is
// walked by index so hooks that register new views are safe.
func (s *Store) reindex(id EntityID) {
	for i := 0; i < len(s.views); i++ {
		s.views[i].reindex(id)
	}
}

// liveMask returns the entity's current signature and whether the entity
// should match views at all. An entity inside Remove is still alive and
// readable but no longer matches anything.
func (s *Store) liveMask(id EntityID) (Mask, bool) {
	if !s.pool.alive(id) {
		return 0, false
	}
	if _, going := s.removing[id]; going {
		return 0, false
	}
	return s.masks[id.Index()], true
}

// Get returns the entity's component of type T, if present.
func Get[T Component](s *Store, id EntityID) (T, bool) {
	var zero T
	c, ok := s.Lookup(id, zero.Kind())
	if !ok {
		return zero, false
	}
	return c.(T), true
}

// MustGet returns the entity's component of type T and panics if it is
// missing. Systems call this for components their view signature guarantees;
// a miss means a query signature is wrong and must surface loudly rather than
// be skipped.
func MustGet[T Component](s *Store, id EntityID) T {
	c, ok := Get[T](s, id)
	if !ok {
		var zero T
		panic(fmt.Sprintf("ecs: entity %d missing required %s component", id, zero.Kind()))
	}
	return c
}
