// Package trail implements swing-trail geometry generation: a fixed-capacity
// buffer of historical blade poses and the per-tick animation step that emits
// samples, ages them out, and produces the vertex data the renderer turns
// into a quad-ladder mesh.
package trail

import "github.com/go-gl/mathgl/mgl64"

// Buffer holds one blade's trail samples. Slot 0 is the live sample and
// always mirrors the current blade pose; higher slots are past poses ordered
// newest to oldest. A sample's age of -1 means the slot is inactive. All
// storage is allocated once, here; the animation step never reallocates.
type Buffer struct {
	capacity  int
	positions []float64 // capacity*6: base xyz then tip xyz per sample
	ages      []float64 // capacity; -1 = inactive, live slot pinned at 0
	alphas    []float64 // capacity*2: one per vertex (base, tip)

	active     bool
	lastTravel float64 // tip travel of the previous step, acceleration proxy
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 2 {
		capacity = 2
	}
	b := &Buffer{
		capacity:  capacity,
		positions: make([]float64, capacity*6),
		ages:      make([]float64, capacity),
		alphas:    make([]float64, capacity*2),
	}
	for i := range b.ages {
		b.ages[i] = -1
	}
	return b
}

// Start collapses every sample onto the current blade pose, producing a
// zero-length trail, and marks the buffer active. Animation steps before
// Start are no-ops.
func (b *Buffer) Start(base, tip mgl64.Vec3) {
	for i := 0; i < b.capacity; i++ {
		b.writeSample(i, base, tip)
		b.ages[i] = -1
		b.alphas[i*2] = 0
		b.alphas[i*2+1] = 0
	}
	b.ages[0] = 0
	b.lastTravel = 0
	b.active = true
}

func (b *Buffer) Active() bool { return b.active }

func (b *Buffer) Capacity() int { return b.capacity }

// Positions returns the flattened sample positions, newest first. The slice
// is the buffer's own storage; it is handed to the renderer each tick and
// must not be retained across ticks.
func (b *Buffer) Positions() []float64 { return b.positions }

// Alphas returns the per-vertex alpha values parallel to Positions.
func (b *Buffer) Alphas() []float64 { return b.alphas }

// Live returns the live sample's base and tip.
func (b *Buffer) Live() (base, tip mgl64.Vec3) {
	return b.readSample(0)
}

// ActiveSamples counts non-live samples that have not yet faded out.
func (b *Buffer) ActiveSamples() int {
	n := 0
	for i := 1; i < b.capacity; i++ {
		if b.ages[i] >= 0 {
			n++
		}
	}
	return n
}

// Age returns the age of the sample in the given slot (-1 when inactive).
func (b *Buffer) Age(slot int) float64 { return b.ages[slot] }

// shift moves every sample one slot toward the oldest end, discarding the
// oldest, and frees slot 0 for the new live sample at age 0. The retired
// live pose lands in slot 1 and starts aging from there.
func (b *Buffer) shift() {
	copy(b.positions[6:], b.positions[:(b.capacity-1)*6])
	copy(b.ages[1:], b.ages[:b.capacity-1])
	b.ages[0] = 0
}

func (b *Buffer) writeSample(slot int, base, tip mgl64.Vec3) {
	o := slot * 6
	b.positions[o+0] = base.X()
	b.positions[o+1] = base.Y()
	b.positions[o+2] = base.Z()
	b.positions[o+3] = tip.X()
	b.positions[o+4] = tip.Y()
	b.positions[o+5] = tip.Z()
}

func (b *Buffer) readSample(slot int) (base, tip mgl64.Vec3) {
	o := slot * 6
	base = mgl64.Vec3{b.positions[o+0], b.positions[o+1], b.positions[o+2]}
	tip = mgl64.Vec3{b.positions[o+3], b.positions[o+4], b.positions[o+5]}
	return base, tip
}
