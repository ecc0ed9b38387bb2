package event

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/arcblade/engine/internal/core/ecs"
)

// Collision is fired when two blades pass within contact range. Point is the
// midpoint between the closest points of the two blade segments.
type Collision struct {
	A, B     ecs.EntityID
	Distance float64
	Point    mgl64.Vec3
}
