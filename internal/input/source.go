// Package input defines the device collaborator contract and the bridge that
// maps controller connect/disconnect signals onto entity creation and
// removal. Connect and disconnect are assumed delivered on the tick context,
// between tick boundaries.
package input

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/arcblade/engine/internal/geom"
	"github.com/arcblade/engine/internal/render"
)

// Pose is a controller's world transform for the current tick.
type Pose struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

// Transform maps a controller-local point into world space.
func (p Pose) Transform(local mgl64.Vec3) mgl64.Vec3 {
	return p.Rot.Rotate(local).Add(p.Pos)
}

// Blade maps the blade anchors through the pose, yielding the world-space
// segment. The trail and collision systems both read blades through this one
// path so they can never disagree about where a blade is.
func (p Pose) Blade(a render.Anchors) geom.Segment {
	return geom.Segment{
		Base: p.Transform(a.Base),
		Tip:  p.Transform(a.Tip),
	}
}

// Source is the device collaborator. Poses are polled, not pushed: systems
// that need a pose ask for it once per tick. The second return is false while
// the device is connected but not currently tracked.
type Source interface {
	Poll(handle uuid.UUID) (Pose, bool)
}
