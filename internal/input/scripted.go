package input

import "github.com/google/uuid"

// SwingFunc produces a pose for a simulated controller at time t seconds.
type SwingFunc func(t float64) Pose

// ScriptedSource is a Source fed by time-parametric swing functions. The demo
// driver and tests use it in place of real tracking hardware.
type ScriptedSource struct {
	t      float64
	swings map[uuid.UUID]SwingFunc
}

func NewScriptedSource() *ScriptedSource {
	return &ScriptedSource{swings: make(map[uuid.UUID]SwingFunc)}
}

// Track registers a swing script for a device handle.
func (s *ScriptedSource) Track(handle uuid.UUID, fn SwingFunc) {
	s.swings[handle] = fn
}

// Drop stops tracking a device handle.
func (s *ScriptedSource) Drop(handle uuid.UUID) {
	delete(s.swings, handle)
}

// Advance moves simulated time forward. Called once per tick by the driver.
func (s *ScriptedSource) Advance(dt float64) {
	s.t += dt
}

func (s *ScriptedSource) Poll(handle uuid.UUID) (Pose, bool) {
	fn, ok := s.swings[handle]
	if !ok {
		return Pose{}, false
	}
	return fn(s.t), true
}
