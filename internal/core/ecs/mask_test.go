package ecs

import "testing"

func TestMaskOps(t *testing.T) {
	m := MaskOf(KindDevice, KindVisual)

	if !m.Has(KindDevice) || !m.Has(KindVisual) || m.Has(KindGripBound) {
		t.Errorf("unexpected bits in %b", m)
	}
	if m.Count() != 2 {
		t.Errorf("expected 2 bits, got %d", m.Count())
	}
	if !m.ContainsAll(MaskOf(KindDevice)) {
		t.Error("superset should contain subset")
	}
	if m.ContainsAll(MaskOf(KindDevice, KindGripBound)) {
		t.Error("must not contain a mask with extra bits")
	}
	if !m.Intersects(MaskOf(KindVisual, KindGripBound)) {
		t.Error("shared bit not detected")
	}
	if m.Intersects(MaskOf(KindGripBound)) {
		t.Error("disjoint masks reported intersecting")
	}
	if m.Clear(KindDevice).Has(KindDevice) {
		t.Error("clear failed")
	}
	if !Mask(0).IsZero() || m.IsZero() {
		t.Error("IsZero wrong")
	}
}
