package event

import "testing"

func TestFlushInvokesHandlerInPushOrder(t *testing.T) {
	var got []int
	q := NewQueue(func(v int) { got = append(got, v) })

	q.Push(1)
	q.Push(2)
	q.Push(3)
	if q.Len() != 3 {
		t.Errorf("expected 3 buffered, got %d", q.Len())
	}

	q.Flush()
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", got)
	}

	// A second flush with nothing pushed delivers nothing.
	q.Flush()
	if len(got) != 3 {
		t.Errorf("empty flush delivered events: %v", got)
	}
	if q.Len() != 0 {
		t.Errorf("buffer not cleared, %d left", q.Len())
	}
}

func TestHandlerPushDuringFlushIsDrainedSameFlush(t *testing.T) {
	var got []int
	var q *Queue[int]
	q = NewQueue(func(v int) {
		got = append(got, v)
		if v == 1 {
			q.Push(10)
		}
	})

	q.Push(1)
	q.Push(2)
	q.Flush()

	if len(got) != 3 || got[2] != 10 {
		t.Errorf("expected [1 2 10], got %v", got)
	}
	if q.Len() != 0 {
		t.Errorf("buffer not cleared after re-entrant push, %d left", q.Len())
	}
}

func TestSingleConsumerDrainsEverything(t *testing.T) {
	// Two independent reactions to one stream must share the one handler; a
	// second queue over the same producer would observe nothing, because the
	// producer pushes into exactly one buffer.
	first, second := 0, 0
	q := NewQueue(func(int) {
		first++
		second++
	})

	q.Push(0)
	q.Push(0)
	q.Flush()

	if first != 2 || second != 2 {
		t.Errorf("fan-out inside the handler broken: %d, %d", first, second)
	}
}
