package ecs

import "math/bits"

// Mask is a component-presence bitmask over the closed Kind enumeration.
// One word is plenty: KindCount is far below 64.
type Mask uint64

// MaskOf builds a mask with the given kinds set.
func MaskOf(kinds ...Kind) Mask {
	var m Mask
	for _, k := range kinds {
		m = m.Set(k)
	}
	return m
}

func (m Mask) Set(k Kind) Mask   { return m | 1<<k }
func (m Mask) Clear(k Kind) Mask { return m &^ (1 << k) }

func (m Mask) Has(k Kind) bool { return m&(1<<k) != 0 }

// ContainsAll reports whether every bit set in other is also set in m.
func (m Mask) ContainsAll(other Mask) bool { return m&other == other }

// Intersects reports whether m and other share any bit.
func (m Mask) Intersects(other Mask) bool { return m&other != 0 }

func (m Mask) IsZero() bool { return m == 0 }

func (m Mask) Count() int { return bits.OnesCount64(uint64(m)) }
