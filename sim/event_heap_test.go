package sim

import "testing"

// noopEvent is a bare event for heap-ordering tests.
type noopEvent struct {
	BaseEvent
}

func (e *noopEvent) Execute(*Simulator) {}

func newNoopEvent(ts int64, id uint64, kind EventKind) *noopEvent {
	return &noopEvent{BaseEvent{timestamp: ts, eventID: id, kind: kind}}
}

func TestEventHeap_OrdersByTimestamp(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(newNoopEvent(300, 1, EventKindArrival))
	h.Schedule(newNoopEvent(100, 2, EventKindArrival))
	h.Schedule(newNoopEvent(200, 3, EventKindArrival))

	want := []int64{100, 200, 300}
	for i, ts := range want {
		ev := h.PopNext()
		if ev.Timestamp() != ts {
			t.Errorf("Pop %d: timestamp %d, want %d", i, ev.Timestamp(), ts)
		}
	}
}

func TestEventHeap_SameTimestampOrdersByKindRank(t *testing.T) {
	// GIVEN one event of each kind, all at the same instant, pushed in
	// deliberately scrambled order
	h := NewEventHeap()
	h.Schedule(newNoopEvent(50, 1, EventKindStepEnd))
	h.Schedule(newNoopEvent(50, 2, EventKindArrival))
	h.Schedule(newNoopEvent(50, 3, EventKindRepairEnd))
	h.Schedule(newNoopEvent(50, 4, EventKindStepStart))
	h.Schedule(newNoopEvent(50, 5, EventKindFailureStart))

	// THEN pops follow the fixed kind order
	want := []EventKind{
		EventKindRepairEnd,
		EventKindFailureStart,
		EventKindStepStart,
		EventKindArrival,
		EventKindStepEnd,
	}
	for i, kind := range want {
		ev := h.PopNext()
		if ev.Kind() != kind {
			t.Errorf("Pop %d: kind %s, want %s", i, ev.Kind(), kind)
		}
	}
}

func TestEventHeap_SameTimestampAndKindOrdersByEventID(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(newNoopEvent(10, 9, EventKindStepStart))
	h.Schedule(newNoopEvent(10, 3, EventKindStepStart))
	h.Schedule(newNoopEvent(10, 6, EventKindStepStart))

	want := []uint64{3, 6, 9}
	for i, id := range want {
		ev := h.PopNext()
		if ev.EventID() != id {
			t.Errorf("Pop %d: event ID %d, want %d", i, ev.EventID(), id)
		}
	}
}

func TestEventHeap_EmptyBehavior(t *testing.T) {
	h := NewEventHeap()
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
	if h.PopNext() != nil {
		t.Error("PopNext on empty heap: want nil")
	}
	if h.Peek() != nil {
		t.Error("Peek on empty heap: want nil")
	}
}

func TestEventHeap_PeekDoesNotRemove(t *testing.T) {
	h := NewEventHeap()
	ev := newNoopEvent(42, 1, EventKindArrival)
	h.Schedule(ev)

	if got := h.Peek(); got != Event(ev) {
		t.Errorf("Peek: got %v, want the scheduled event", got)
	}
	if h.Len() != 1 {
		t.Errorf("Peek modified heap length: got %d, want 1", h.Len())
	}
}
