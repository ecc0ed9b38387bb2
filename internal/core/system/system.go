package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: device signal intake
	PhaseUpdate                  // 1: grip binding, trail animation
	PhasePostUpdate              // 2: collision evaluation
)

// System is the interface every per-tick system implements. Systems of the
// same phase run in registration order.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
