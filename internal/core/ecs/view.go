package ecs

import (
	"errors"
	"fmt"
)

// ErrOverlappingSignature marks a query whose required and excluded sets
// intersect. Such a view could never match anything and always indicates a
// wiring mistake, so it fails at construction time.
var ErrOverlappingSignature = errors.New("ecs: query requires and excludes the same kind")

// View is a live, incrementally maintained index over the store: the set of
// entities whose signature contains every required kind and none of the
// excluded kinds. Membership updates as part of the store mutation that
// causes it, and enter/exit hooks fire synchronously at that point.
//
// Views with identical signatures are shared: building the same query twice
// returns the same *View.
type View struct {
	store    *Store
	required Mask
	excluded Mask

	members map[EntityID]int // entity -> slot in dense
	dense   []EntityID

	enter []func(EntityID)
	exit  []func(EntityID)
}

// QueryBuilder accumulates a required/excluded signature for a view.
type QueryBuilder struct {
	store    *Store
	required Mask
	excluded Mask
}

// Query starts building a view over the store.
func (s *Store) Query() *QueryBuilder {
	return &QueryBuilder{store: s}
}

// With adds kinds an entity must have to match.
func (qb *QueryBuilder) With(kinds ...Kind) *QueryBuilder {
	for _, k := range kinds {
		qb.required = qb.required.Set(k)
	}
	return qb
}

// Without adds kinds an entity must not have to match.
func (qb *QueryBuilder) Without(kinds ...Kind) *QueryBuilder {
	for _, k := range kinds {
		qb.excluded = qb.excluded.Set(k)
	}
	return qb
}

// Build returns the live view for the accumulated signature, creating it on
// first use and reusing the cached one afterwards. A signature whose required
// and excluded sets overlap, or which requires nothing, is rejected.
func (qb *QueryBuilder) Build() (*View, error) {
	if qb.required.Intersects(qb.excluded) {
		return nil, fmt.Errorf("%w (required %b, excluded %b)",
			ErrOverlappingSignature, qb.required, qb.excluded)
	}
	if qb.required.IsZero() {
		return nil, errors.New("ecs: query requires no kinds")
	}

	key := viewKey{required: qb.required, excluded: qb.excluded}
	if v, ok := qb.store.viewCache[key]; ok {
		return v, nil
	}

	v := &View{
		store:    qb.store,
		required: qb.required,
		excluded: qb.excluded,
		members:  make(map[EntityID]int),
	}
	// Seed from entities that already exist.
	qb.store.Each(func(id EntityID) {
		if m, live := qb.store.liveMask(id); live && v.matches(m) {
			v.add(id)
		}
	})
	qb.store.viewCache[key] = v
	qb.store.views = append(qb.store.views, v)
	return v, nil
}

func (v *View) matches(m Mask) bool {
	return m.ContainsAll(v.required) && !m.Intersects(v.excluded)
}

// OnEnter registers fn to run when an entity starts matching the view.
func (v *View) OnEnter(fn func(EntityID)) {
	v.enter = append(v.enter, fn)
}

// OnExit registers fn to run when an entity stops matching the view,
// including via removal from the store. During removal the entity's
// components are still readable inside fn.
func (v *View) OnExit(fn func(EntityID)) {
	v.exit = append(v.exit, fn)
}

// Contains reports current membership.
func (v *View) Contains(id EntityID) bool {
	_, ok := v.members[id]
	return ok
}

// Len returns the current member count.
func (v *View) Len() int { return len(v.dense) }

// Each calls fn for every current member. It iterates a snapshot, so fn may
// mutate the store, including in ways that change this view's membership.
func (v *View) Each(fn func(EntityID)) {
	snapshot := append([]EntityID(nil), v.dense...)
	for _, id := range snapshot {
		if v.store.Alive(id) {
			fn(id)
		}
	}
}

// Entities returns a snapshot of the current members.
func (v *View) Entities() []EntityID {
	return append([]EntityID(nil), v.dense...)
}

// reindex settles membership for one entity and fires the corresponding
// hook. The before state is the view's own recorded membership and the after
// state is read from the store at this moment, never from a caller snapshot:
// an earlier view's hook may already have mutated the entity again, and a
// diff against stale masks would admit or strand it here. Membership is
// updated before hooks run, so a hook observing the store sees the settled
// state. Hook slices are copied so a hook may register further hooks.
func (v *View) reindex(id EntityID) {
	was := v.Contains(id)
	m, live := v.store.liveMask(id)
	now := live && v.matches(m)
	switch {
	case now && !was:
		v.add(id)
		for _, fn := range append([]func(EntityID){}, v.enter...) {
			fn(id)
		}
	case was && !now:
		v.remove(id)
		for _, fn := range append([]func(EntityID){}, v.exit...) {
			fn(id)
		}
	}
}

func (v *View) add(id EntityID) {
	if _, ok := v.members[id]; ok {
		return
	}
	v.members[id] = len(v.dense)
	v.dense = append(v.dense, id)
}

func (v *View) remove(id EntityID) {
	slot, ok := v.members[id]
	if !ok {
		return
	}
	last := len(v.dense) - 1
	moved := v.dense[last]
	v.dense[slot] = moved
	v.members[moved] = slot
	v.dense = v.dense[:last]
	delete(v.members, id)
}
