package system

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/arcblade/engine/internal/core/event"
)

// Runner executes systems in phase order each tick, then flushes the attached
// event queues in attachment order. A panicking system is logged and skipped;
// the remaining systems and the queue flushes still run, so one bad frame in
// one system cannot stall the whole pipeline.
type Runner struct {
	systems []System
	sorted  bool
	queues  []event.Flusher
	log     *zap.Logger
}

func NewRunner(log *zap.Logger) *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
		log:     log,
	}
}

// Register appends a system. Registration order is preserved within a phase.
func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// AttachQueue adds a queue to be flushed after all systems have run.
func (r *Runner) AttachQueue(q event.Flusher) {
	r.queues = append(r.queues, q)
}

// Tick runs one frame: all systems in phase order, then all queue flushes.
func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		r.runOne(s, dt)
	}
	for _, q := range r.queues {
		q.Flush()
	}
}

func (r *Runner) runOne(s System, dt time.Duration) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("system panicked, skipping for this tick",
				zap.String("system", fmt.Sprintf("%T", s)),
				zap.Any("panic", rec),
				zap.Stack("stack"))
		}
	}()
	s.Update(dt)
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		// Stable: registration order is the tiebreak within a phase.
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
