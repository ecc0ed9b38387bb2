// Package render defines the contract the gameplay core requires from a
// rendering backend. The core never constructs or frees GPU resources itself:
// it asks the renderer to build them, feeds it vertex data, and tells it to
// dispose them. Dispose is required by contract to transitively release
// everything owned by the handle.
package render

import "github.com/go-gl/mathgl/mgl64"

// Handle identifies a renderer-owned resource. Zero is never a valid handle.
type Handle uint64

// Anchors are the blade's base and tip attachment points in controller-local
// space. The trail and collision systems transform them by the current pose
// to get the world-space blade segment.
type Anchors struct {
	Base mgl64.Vec3
	Tip  mgl64.Vec3
}

// Renderer is the rendering collaborator.
type Renderer interface {
	// BuildVisual constructs the blade's visual representation and returns
	// its handle together with the blade anchor points.
	BuildVisual() (Handle, Anchors)

	// BuildTrailSurface constructs a trail mesh surface sized for the given
	// sample capacity.
	BuildTrailSurface(capacity int) Handle

	// UpdateTrailSurface replaces the trail surface's vertex data. positions
	// holds capacity base/tip pairs (6 scalars per sample), alphas one value
	// per vertex (2 per sample).
	UpdateTrailSurface(h Handle, positions, alphas []float64)

	// Dispose releases the resource and everything it owns.
	Dispose(h Handle)
}
