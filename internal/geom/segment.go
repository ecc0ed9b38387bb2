// Package geom holds the blade segment math shared by the trail and
// collision systems.
package geom

import "github.com/go-gl/mathgl/mgl64"

// Segment is a finite 3D segment between a blade's base and tip anchors.
type Segment struct {
	Base mgl64.Vec3
	Tip  mgl64.Vec3
}

// epsSq guards the parametric solve against near-zero-length segments and
// near-parallel pairs. Below it we fall back to endpoint clamping instead of
// dividing by a vanishing denominator.
const epsSq = 1e-12

// Closest returns the minimum distance between two segments and the midpoint
// between their closest points. The result is defined (and finite) for every
// input, including zero-length segments, which collapse to point-to-segment
// distance.
func Closest(p, q Segment) (dist float64, mid mgl64.Vec3) {
	d1 := p.Tip.Sub(p.Base)
	d2 := q.Tip.Sub(q.Base)
	r := p.Base.Sub(q.Base)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= epsSq && e <= epsSq:
		// Both segments degenerate to points.
		s, t = 0, 0
	case a <= epsSq:
		t = clamp01(f / e)
	case e <= epsSq:
		c := d1.Dot(r)
		s = clamp01(-c / a)
	default:
		c := d1.Dot(r)
		b := d1.Dot(d2)
		denom := a*e - b*b
		if denom > epsSq {
			s = clamp01((b*f - c*e) / denom)
		} else {
			// Near-parallel: any s works, pick the base end.
			s = 0
		}
		t = (b*s + f) / e
		// Clamping t may invalidate s; recompute s against the clamped t.
		if t < 0 {
			t = 0
			s = clamp01(-c / a)
		} else if t > 1 {
			t = 1
			s = clamp01((b - c) / a)
		}
	}

	c1 := p.Base.Add(d1.Mul(s))
	c2 := q.Base.Add(d2.Mul(t))
	return c2.Sub(c1).Len(), c1.Add(c2).Mul(0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
