package sim

import (
	"fmt"
	"strings"
)

// WorkOrderState is the lifecycle state tag of a work order. "Resuming" a
// parked order is re-dispatch from queue data, never a suspended call stack.
type WorkOrderState string

const (
	WorkOrderStatePending    WorkOrderState = "pending"
	WorkOrderStateAdmitted   WorkOrderState = "admitted"
	WorkOrderStateInProgress WorkOrderState = "in_progress"
	WorkOrderStateCompleted  WorkOrderState = "completed"
)

// WorkOrder is a unit of demand: a planned quantity of one product walked
// through that product's process route. Owned by the router for its
// lifetime; removed from the active set on completion.
type WorkOrder struct {
	ID              string
	ProductID       string
	RouteID         string
	PlannedQuantity int
	CurrentQuantity int // shrinks as steps scrap units
	Priority        int
	DueDate         int64

	ArrivalTime   int64
	AdmissionTime int64
	StartTime     int64
	EndTime       int64

	StepIndex int // index into the route's steps
	Attempts  int // interrupted attempts of the current step
	State     WorkOrderState

	route *ProcessRoute
}

// Route returns the work order's immutable process route.
func (wo *WorkOrder) Route() *ProcessRoute {
	return wo.route
}

// RemainingSteps reports how many route steps have not completed yet.
func (wo *WorkOrder) RemainingSteps() int {
	return len(wo.route.Steps) - wo.StepIndex
}

func (wo *WorkOrder) String() string {
	return fmt.Sprintf("%s(%s q=%d step=%d %s)", wo.ID, wo.ProductID, wo.CurrentQuantity, wo.StepIndex, wo.State)
}

// Backlog is the FIFO queue of work orders that have arrived but are not yet
// admitted. Ordering is strictly by arrival; priority never reorders it.
type Backlog struct {
	queue []*WorkOrder
}

// Enqueue adds a work order to the back of the backlog.
func (b *Backlog) Enqueue(wo *WorkOrder) {
	b.queue = append(b.queue, wo)
}

// Len returns the number of queued work orders.
func (b *Backlog) Len() int {
	return len(b.queue)
}

// Peek returns the work order at the head without removing it.
// Returns nil if the backlog is empty.
func (b *Backlog) Peek() *WorkOrder {
	if len(b.queue) == 0 {
		return nil
	}
	return b.queue[0]
}

// Dequeue removes and returns the head work order, or nil if empty.
func (b *Backlog) Dequeue() *WorkOrder {
	if len(b.queue) == 0 {
		return nil
	}
	wo := b.queue[0]
	b.queue = b.queue[1:]
	return wo
}

func (b *Backlog) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, wo := range b.queue {
		sb.WriteString(wo.ID)
		if i < len(b.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
