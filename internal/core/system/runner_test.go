package system

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/arcblade/engine/internal/core/event"
)

type recordingSystem struct {
	phase Phase
	name  string
	trace *[]string
	fail  bool
}

func (s *recordingSystem) Phase() Phase { return s.phase }

func (s *recordingSystem) Update(time.Duration) {
	*s.trace = append(*s.trace, s.name)
	if s.fail {
		panic("boom")
	}
}

func TestTickRunsPhasesInOrderRegistrationStable(t *testing.T) {
	var trace []string
	r := NewRunner(zap.NewNop())

	// Registered out of phase order; same-phase systems keep registration
	// order.
	r.Register(&recordingSystem{phase: PhasePostUpdate, name: "collision", trace: &trace})
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "grip", trace: &trace})
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "trail", trace: &trace})
	r.Register(&recordingSystem{phase: PhaseInput, name: "input", trace: &trace})

	r.Tick(time.Millisecond)

	want := []string{"input", "grip", "trail", "collision"}
	if len(trace) != len(want) {
		t.Fatalf("expected %v, got %v", want, trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, trace)
		}
	}
}

func TestPanickingSystemIsSkippedNotFatal(t *testing.T) {
	var trace []string
	r := NewRunner(zap.NewNop())
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "bad", trace: &trace, fail: true})
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "good", trace: &trace})

	q := event.NewQueue(func(string) { trace = append(trace, "flush") })
	r.AttachQueue(q)
	q.Push("ev")

	r.Tick(time.Millisecond) // must not panic

	want := []string{"bad", "good", "flush"}
	if len(trace) != 3 || trace[1] != "good" || trace[2] != "flush" {
		t.Errorf("expected %v, got %v", want, trace)
	}
}

func TestQueuesFlushAfterAllSystemsInAttachmentOrder(t *testing.T) {
	var trace []string
	r := NewRunner(zap.NewNop())
	r.Register(&recordingSystem{phase: PhasePostUpdate, name: "sys", trace: &trace})

	qa := event.NewQueue(func(string) { trace = append(trace, "a") })
	qb := event.NewQueue(func(string) { trace = append(trace, "b") })
	r.AttachQueue(qa)
	r.AttachQueue(qb)

	// Pushed before the tick; delivery still happens after every system ran.
	qb.Push("x")
	qa.Push("x")

	r.Tick(time.Millisecond)

	want := []string{"sys", "a", "b"}
	for i := range want {
		if i >= len(trace) || trace[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, trace)
		}
	}
}
