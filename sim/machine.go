package sim

// MachineState is a machine's current state tag.
type MachineState string

const (
	MachineStateIdle      MachineState = "idle"
	MachineStateBusy      MachineState = "busy"
	MachineStateFailed    MachineState = "failed"
	MachineStateRepairing MachineState = "repairing"
)

// StepRequest is a work order waiting for (or holding) a machine of the
// required type to run its current route step.
type StepRequest struct {
	WorkOrder   *WorkOrder
	StepIndex   int
	EnqueueTime int64
}

// Machine is a single concrete machine. Lifetime = the whole run; owned by
// the ResourcePool. At most one in-progress step at any simulated instant.
type Machine struct {
	ID   string
	Type string

	State MachineState

	// epoch invalidates superseded future events: a FailureStart interrupting
	// a busy machine bumps it, so the step's already-scheduled StepEnd (and
	// any stale FailureStart) is ignored when popped.
	epoch uint64

	// usageSinceRepair is cumulative busy time in ticks since the last
	// RepairEnd (or since creation). Failures accrue against this, not
	// wall-clock time.
	usageSinceRepair int64

	// Current step context, valid while State == busy.
	current   *StepRequest
	stepStart int64

	// Failure bookkeeping between FailureStart and RepairEnd.
	failureStart    int64
	failureType     string
	failureUsage    int64
	interruptedWOID string
}

// Epoch returns the machine's current event epoch.
func (m *Machine) Epoch() uint64 {
	return m.epoch
}

// Current returns the step request in progress, or nil when not busy.
func (m *Machine) Current() *StepRequest {
	return m.current
}

// UsageSinceRepair returns cumulative busy ticks since the last repair.
func (m *Machine) UsageSinceRepair() int64 {
	return m.usageSinceRepair
}

// requestQueue is a FIFO of step requests waiting for one machine type.
// No priority reordering happens here: priority only affects which order
// reaches the queue first, never queue-jumping.
type requestQueue struct {
	queue []*StepRequest
}

func (q *requestQueue) enqueue(r *StepRequest) {
	q.queue = append(q.queue, r)
}

// prependFront inserts a request at the head. Used when a failure interrupts
// a step: the retry goes back first in line for its machine type.
func (q *requestQueue) prependFront(r *StepRequest) {
	q.queue = append([]*StepRequest{r}, q.queue...)
}

func (q *requestQueue) dequeue() *StepRequest {
	if len(q.queue) == 0 {
		return nil
	}
	r := q.queue[0]
	q.queue = q.queue[1:]
	return r
}

func (q *requestQueue) len() int {
	return len(q.queue)
}
