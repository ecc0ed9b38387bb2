package render

import (
	"fmt"

	"go.uber.org/zap"
)

// LogRenderer is a backend-free Renderer that hands out sequential handles,
// keeps an account of what is live, and logs through zap. The demo driver
// runs on it, and because it tracks live handle counts it doubles as the
// leak check: if handles outlive their entities the audit reports it.
type LogRenderer struct {
	log     *zap.Logger
	anchors Anchors

	next     Handle
	live     map[Handle]string // handle -> resource kind, for log context
	disposed map[Handle]bool

	updates int
}

func NewLogRenderer(log *zap.Logger, anchors Anchors) *LogRenderer {
	return &LogRenderer{
		log:      log,
		anchors:  anchors,
		live:     make(map[Handle]string),
		disposed: make(map[Handle]bool),
	}
}

func (r *LogRenderer) BuildVisual() (Handle, Anchors) {
	h := r.alloc("visual")
	r.log.Debug("built visual", zap.Uint64("handle", uint64(h)))
	return h, r.anchors
}

func (r *LogRenderer) BuildTrailSurface(capacity int) Handle {
	h := r.alloc("trail_surface")
	r.log.Debug("built trail surface",
		zap.Uint64("handle", uint64(h)), zap.Int("capacity", capacity))
	return h
}

func (r *LogRenderer) UpdateTrailSurface(h Handle, positions, alphas []float64) {
	if _, ok := r.live[h]; !ok {
		r.log.Error("trail update on dead handle", zap.Uint64("handle", uint64(h)))
		return
	}
	r.updates++
}

func (r *LogRenderer) Dispose(h Handle) {
	kind, ok := r.live[h]
	if !ok {
		if r.disposed[h] {
			r.log.Error("double dispose", zap.Uint64("handle", uint64(h)))
		} else {
			r.log.Error("dispose of unknown handle", zap.Uint64("handle", uint64(h)))
		}
		return
	}
	delete(r.live, h)
	r.disposed[h] = true
	r.log.Debug("disposed "+kind, zap.Uint64("handle", uint64(h)))
}

// Live returns the number of currently live handles.
func (r *LogRenderer) Live() int { return len(r.live) }

// Updates returns how many trail surface updates have been received.
func (r *LogRenderer) Updates() int { return r.updates }

// Disposed returns how many distinct handles have been released.
func (r *LogRenderer) Disposed() int { return len(r.disposed) }

// CheckBalance returns an error when the live handle count diverges from the
// expected entity-derived count. Divergence is an ownership invariant
// violation, not a recoverable condition.
func (r *LogRenderer) CheckBalance(want int) error {
	if len(r.live) != want {
		return fmt.Errorf("render: %d live handles, want %d", len(r.live), want)
	}
	return nil
}

func (r *LogRenderer) alloc(kind string) Handle {
	r.next++
	r.live[r.next] = kind
	return r.next
}
