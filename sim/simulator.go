// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/plant-sim/plant-sim/sim/ledger"
)

// Simulator is the core object that holds simulation time, plant state, and
// the event loop. All mutable state is owned by the single scheduling loop:
// no locking, no concurrent mutation by construction.
type Simulator struct {
	Clock   int64
	Horizon int64 // arrival horizon in ticks; in-flight work drains past it

	EventQueue *EventHeap
	Config     *ScenarioConfig
	RNG        *PartitionedRNG

	Pool    *ResourcePool
	Backlog *Backlog
	// Active is the in-flight work-order arena, indexed by identity.
	Active    map[string]*WorkOrder
	ActiveWIP int // admitted-or-later, not yet completed

	Orders  *OrderGenerator
	Quality *QualitySampler
	Emitter *Emitter
	Metrics *Metrics

	// eventSeq is per-simulator (not process-global) so concurrent runs in
	// one process stay independently deterministic.
	eventSeq uint64
}

// NewSimulator validates the configuration and assembles a run. A non-nil
// error is a *ConfigError; nothing has been scheduled when it is returned.
func NewSimulator(cfg *ScenarioConfig, sink ledger.Sink) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	s := &Simulator{
		Clock:      0,
		Horizon:    cfg.Horizon(),
		EventQueue: NewEventHeap(),
		Config:     cfg,
		RNG:        rng,
		Pool:       NewResourcePool(cfg),
		Backlog:    &Backlog{},
		Active:     make(map[string]*WorkOrder),
		Orders:     NewOrderGenerator(cfg, rng.ForSubsystem(SubsystemOrders)),
		Quality:    NewQualitySampler(cfg.Quality, rng.ForSubsystem(SubsystemYield)),
		Emitter:    NewEmitter(cfg.ScenarioID, sink),
		Metrics:    NewMetrics(),
	}
	return s, nil
}

// newBaseEvent stamps an event with the next per-simulator ID. Scheduling
// into the past is a fatal logic defect.
func (sim *Simulator) newBaseEvent(timestamp int64, kind EventKind) BaseEvent {
	if timestamp < sim.Clock {
		panic(&InvariantViolation{
			Op:     "newBaseEvent",
			Detail: fmt.Sprintf("%s scheduled at %d, clock already at %d", kind, timestamp, sim.Clock),
		})
	}
	sim.eventSeq++
	return BaseEvent{timestamp: timestamp, eventID: sim.eventSeq, kind: kind}
}

// Schedule inserts an event into the queue in O(log n).
func (sim *Simulator) Schedule(ev Event) {
	if ev.Timestamp() < sim.Clock {
		panic(&InvariantViolation{
			Op:     "Schedule",
			Detail: fmt.Sprintf("%s scheduled at %d, clock already at %d", ev.Kind(), ev.Timestamp(), sim.Clock),
		})
	}
	sim.EventQueue.Schedule(ev)
}

// scheduleNextArrival draws the next interarrival gap from the arrival
// sub-stream and schedules the arrival — unless it would land past the
// horizon, which ends arrival generation for the run.
func (sim *Simulator) scheduleNextArrival(now int64) {
	shape := sim.Config.ArrivalShape
	scale := float64(sim.Config.MeanInterarrival) / shape
	gap := ticksFromSample(SampleGamma(sim.RNG.ForSubsystem(SubsystemArrival), shape, scale))

	t := now + gap
	if t > sim.Horizon {
		logrus.Debugf("[tick %07d] next arrival at %d exceeds horizon %d, no further arrivals", now, t, sim.Horizon)
		return
	}

	wo := sim.Orders.Next(t)
	sim.Active[wo.ID] = wo
	sim.Schedule(&ArrivalEvent{
		BaseEvent: sim.newBaseEvent(t, EventKindArrival),
		WorkOrder: wo,
	})
}

// Run drives the loop: pop the chronologically earliest event, advance the
// clock, dispatch. Arrivals stop at the horizon; the queue then drains the
// backlog and all in-flight work orders to empty.
func (sim *Simulator) Run() {
	sim.scheduleNextArrival(0)

	for sim.EventQueue.Len() > 0 {
		ev := sim.EventQueue.PopNext()
		sim.Clock = ev.Timestamp()
		logrus.Debugf("[tick %07d] executing %s #%d", sim.Clock, ev.Kind(), ev.EventID())
		ev.Execute(sim)
	}

	if len(sim.Active) > 0 {
		panic(&InvariantViolation{
			Op:     "Run",
			Detail: fmt.Sprintf("event queue drained with %d work orders still in flight", len(sim.Active)),
		})
	}

	sim.Metrics.SimEndedTime = sim.Clock
	logrus.Infof("[tick %07d] simulation ended", sim.Clock)
}
