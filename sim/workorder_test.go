package sim

import "testing"

func TestBacklog_FIFOOrder(t *testing.T) {
	// GIVEN a backlog with work orders [A, B, C]
	b := &Backlog{}
	cfg := testConfig()
	woA := testWorkOrder(cfg, "WO-A", 100)
	woB := testWorkOrder(cfg, "WO-B", 100)
	woC := testWorkOrder(cfg, "WO-C", 100)
	b.Enqueue(woA)
	b.Enqueue(woB)
	b.Enqueue(woC)

	// WHEN all are dequeued
	// THEN they come out strictly in arrival order
	want := []*WorkOrder{woA, woB, woC}
	for i, wo := range want {
		got := b.Dequeue()
		if got != wo {
			t.Errorf("Dequeue %d: got %v, want %v", i, got.ID, wo.ID)
		}
	}
	if b.Len() != 0 {
		t.Errorf("Len after draining: got %d, want 0", b.Len())
	}
}

func TestBacklog_PeekDoesNotRemove(t *testing.T) {
	// GIVEN a backlog with one work order
	b := &Backlog{}
	wo := testWorkOrder(testConfig(), "WO-A", 100)
	b.Enqueue(wo)

	// WHEN Peek() is called
	got := b.Peek()

	// THEN it returns the head without removing it
	if got != wo {
		t.Errorf("Peek: got %v, want %v", got, wo.ID)
	}
	if b.Len() != 1 {
		t.Errorf("Peek modified backlog length: got %d, want 1", b.Len())
	}
}

func TestBacklog_EmptyBehavior(t *testing.T) {
	b := &Backlog{}
	if b.Peek() != nil {
		t.Error("Peek on empty backlog: want nil")
	}
	if b.Dequeue() != nil {
		t.Error("Dequeue on empty backlog: want nil")
	}
}

func TestWorkOrder_RemainingSteps(t *testing.T) {
	cfg := testConfig()
	wo := testWorkOrder(cfg, "WO-A", 100)

	if got := wo.RemainingSteps(); got != 2 {
		t.Errorf("RemainingSteps at step 0: got %d, want 2", got)
	}
	wo.StepIndex = 1
	if got := wo.RemainingSteps(); got != 1 {
		t.Errorf("RemainingSteps at step 1: got %d, want 1", got)
	}
	wo.StepIndex = 2
	if got := wo.RemainingSteps(); got != 0 {
		t.Errorf("RemainingSteps at route end: got %d, want 0", got)
	}
}

func TestWorkOrder_RouteAccess(t *testing.T) {
	cfg := testConfig()
	wo := testWorkOrder(cfg, "WO-A", 100)
	if wo.Route() != cfg.RouteByID("R-001") {
		t.Error("Route() does not return the bound route")
	}
}
