package sim

// EventKind tags the five event types the scheduler dispatches.
type EventKind string

const (
	EventKindRepairEnd    EventKind = "RepairEnd"
	EventKindFailureStart EventKind = "FailureStart"
	EventKindStepStart    EventKind = "StepStart"
	EventKindArrival      EventKind = "Arrival"
	EventKindStepEnd      EventKind = "StepEnd"
)

// eventKindRank is the fixed total order applied to simultaneous events:
// RepairEnd < FailureStart < StepStart < Arrival < StepEnd. This order is a
// reproducibility contract — changing it changes the emitted sequence.
// Consequence of FailureStart < StepEnd: a failure landing at the exact
// instant a step would finish interrupts that step.
var eventKindRank = map[EventKind]int{
	EventKindRepairEnd:    0,
	EventKindFailureStart: 1,
	EventKindStepStart:    2,
	EventKindArrival:      3,
	EventKindStepEnd:      4,
}

// Event is a transient scheduled occurrence: consumed exactly once by the
// scheduler, then discarded (except for the log records it emits).
type Event interface {
	Timestamp() int64
	EventID() uint64
	Kind() EventKind
	Execute(sim *Simulator)
}

// BaseEvent provides common event fields. Event IDs come from the owning
// Simulator's counter, so two runs with the same seed assign identical IDs.
type BaseEvent struct {
	timestamp int64
	eventID   uint64
	kind      EventKind
}

func (e *BaseEvent) Timestamp() int64 { return e.timestamp }
func (e *BaseEvent) EventID() uint64  { return e.eventID }
func (e *BaseEvent) Kind() EventKind  { return e.kind }

// ArrivalEvent delivers a new work order into the backlog and schedules the
// next arrival while the horizon has not passed.
type ArrivalEvent struct {
	BaseEvent
	WorkOrder *WorkOrder
}

func (e *ArrivalEvent) Execute(sim *Simulator) {
	sim.handleArrival(e)
}

// StepStartEvent begins a route step on a machine already reserved for it.
type StepStartEvent struct {
	BaseEvent
	Request *StepRequest
	Machine *Machine
}

func (e *StepStartEvent) Execute(sim *Simulator) {
	sim.handleStepStart(e)
}

// StepEndEvent finishes the step running on Machine. It carries the machine
// epoch it was scheduled under; if a failure superseded the step, the epoch
// no longer matches and the event is ignored.
type StepEndEvent struct {
	BaseEvent
	Request *StepRequest
	Machine *Machine
	epoch   uint64
}

func (e *StepEndEvent) Execute(sim *Simulator) {
	sim.handleStepEnd(e)
}

// FailureStartEvent interrupts a busy machine (or marks an idle one failed).
// Epoch-guarded like StepEndEvent.
type FailureStartEvent struct {
	BaseEvent
	Machine *Machine
	epoch   uint64
}

func (e *FailureStartEvent) Execute(sim *Simulator) {
	sim.handleFailureStart(e)
}

// RepairEndEvent returns a failed machine to service and emits its downtime
// record. Never invalidated: every FailureStart is matched by exactly one
// RepairEnd.
type RepairEndEvent struct {
	BaseEvent
	Machine *Machine
}

func (e *RepairEndEvent) Execute(sim *Simulator) {
	sim.handleRepairEnd(e)
}
