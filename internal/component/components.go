// Package component defines the component types entities carry. An entity
// only ever gains components over its lifetime: it is created with Device and
// Identity, armed with Visual/TrailSurface/TrailBuffers by the lifecycle
// bridge, and finally marked GripBound when its controller pose becomes
// trackable. Components are dropped only when the entity is removed outright.
package component

import (
	"github.com/google/uuid"

	"github.com/arcblade/engine/internal/core/ecs"
	"github.com/arcblade/engine/internal/render"
	"github.com/arcblade/engine/internal/trail"
)

// Hand identifies which hand a controller belongs to.
type Hand uint8

const (
	HandLeft Hand = iota
	HandRight
)

func (h Hand) String() string {
	if h == HandLeft {
		return "left"
	}
	return "right"
}

// Device ties an entity to its controller. The handle is owned by the input
// layer; the core only stores and compares it.
type Device struct {
	Handle uuid.UUID
}

func (Device) Kind() ecs.Kind { return ecs.KindDevice }

// Identity carries the hand side the entity represents.
type Identity struct {
	Hand Hand
}

func (Identity) Kind() ecs.Kind { return ecs.KindIdentity }

// Visual references the renderer-owned blade visual and its anchor points.
// Created and disposed exclusively by the lifecycle bridge.
type Visual struct {
	Handle  render.Handle
	Anchors render.Anchors
}

func (Visual) Kind() ecs.Kind { return ecs.KindVisual }

// TrailSurface references the renderer-owned trail mesh surface. Created and
// disposed exclusively by the lifecycle bridge.
type TrailSurface struct {
	Handle render.Handle
}

func (TrailSurface) Kind() ecs.Kind { return ecs.KindTrailSurface }

// TrailBuffers owns the entity's trail sample storage. Only the trail
// animator, acting for this entity, mutates it.
type TrailBuffers struct {
	Buf *trail.Buffer
}

func (TrailBuffers) Kind() ecs.Kind { return ecs.KindTrailBuffers }

// GripBound marks an entity whose controller pose has become trackable and
// whose trail has been started. Set exactly once per entity lifetime.
type GripBound struct{}

func (GripBound) Kind() ecs.Kind { return ecs.KindGripBound }
