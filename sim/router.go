package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/plant-sim/plant-sim/sim/ledger"
)

// The router walks an admitted work order through its route's steps in
// order. Waiting is data: an order with no machine available is parked in
// the type's wait queue and resumes when the pool's dispatch logic picks it
// up — there is no suspended call stack to resume.

// requestStep asks the pool for the machine type of the work order's current
// step. If a machine is idle it is reserved immediately and a StepStart is
// scheduled at the current instant; otherwise the request joins the FIFO
// wait queue.
func (sim *Simulator) requestStep(wo *WorkOrder, now int64) {
	step := wo.Route().Steps[wo.StepIndex]
	req := &StepRequest{WorkOrder: wo, StepIndex: wo.StepIndex, EnqueueTime: now}

	if m := sim.Pool.Acquire(step.MachineType); m != nil {
		sim.reserveAndStart(m, req, now)
		return
	}
	logrus.Debugf("[tick %07d] %s queued for %s (depth %d)",
		now, wo.ID, step.MachineType, sim.Pool.WaitingLen(step.MachineType)+1)
	sim.Pool.Enqueue(step.MachineType, req)
}

// dispatchWaiting serves a machine type's wait queue after a release or
// repair: oldest request first, as long as idle machines remain.
func (sim *Simulator) dispatchWaiting(machineType string, now int64) {
	for sim.Pool.WaitingLen(machineType) > 0 {
		m := sim.Pool.Acquire(machineType)
		if m == nil {
			return
		}
		req := sim.Pool.NextWaiting(machineType)
		sim.reserveAndStart(m, req, now)
	}
}

// reserveAndStart marks the machine busy for the request and schedules its
// StepStart at the current instant. Reserving at schedule time keeps the
// one-step-per-machine invariant even when several dispatches share a tick.
func (sim *Simulator) reserveAndStart(m *Machine, req *StepRequest, now int64) {
	m.State = MachineStateBusy
	m.current = req
	sim.Metrics.StepsStarted++
	sim.Metrics.QueueWaitTicks += now - req.EnqueueTime
	sim.Schedule(&StepStartEvent{
		BaseEvent: sim.newBaseEvent(now, EventKindStepStart),
		Request:   req,
		Machine:   m,
	})
}

// handleStepStart samples the step's actual cycle time (ideal × noise from
// the product's sub-stream, floored at one tick), arms the failure process
// for the busy period, and schedules the StepEnd.
func (sim *Simulator) handleStepStart(e *StepStartEvent) {
	m := e.Machine
	req := e.Request
	wo := req.WorkOrder
	now := e.Timestamp()

	wo.State = WorkOrderStateInProgress
	if wo.StartTime == 0 {
		wo.StartTime = now
	}

	step := wo.Route().Steps[req.StepIndex]
	noiseRng := sim.RNG.ForSubsystem(SubsystemProcess(wo.ProductID))
	noise := SampleNoiseFactor(noiseRng, sim.Config.Noise)
	actual := ticksFromSample(float64(step.IdealCycleTime) * noise)

	logrus.Infof("<< StepStart: %s step %d on %s at %d ticks (cycle %d)",
		wo.ID, req.StepIndex+1, m.ID, now, actual)

	m.stepStart = now

	sim.armFailure(m, now, actual)

	sim.Schedule(&StepEndEvent{
		BaseEvent: sim.newBaseEvent(now+actual, EventKindStepEnd),
		Request:   req,
		Machine:   m,
		epoch:     m.epoch,
	})
}

// handleStepEnd completes the step: emits the production and quality
// records, shrinks the work order to its approved quantity, releases the
// machine (serving the type's wait queue), and either re-requests the next
// step at the same instant or completes the work order.
func (sim *Simulator) handleStepEnd(e *StepEndEvent) {
	m := e.Machine
	if e.epoch != m.epoch {
		// A failure superseded this step; the retry is already queued.
		return
	}
	req := e.Request
	wo := req.WorkOrder
	now := e.Timestamp()
	duration := now - m.stepStart

	m.usageSinceRepair += duration
	sim.Metrics.addBusy(m.ID, duration)

	step := wo.Route().Steps[req.StepIndex]
	batchID := sim.Emitter.NextBatchID()
	sim.Emitter.EmitProduction(ledger.ProductionRecord{
		WorkOrderID:     wo.ID,
		MachineID:       m.ID,
		RouteID:         wo.RouteID,
		StepNumber:      req.StepIndex + 1,
		BatchID:         batchID,
		StepStart:       m.stepStart,
		StepEnd:         now,
		IdealCycleTime:  step.IdealCycleTime,
		ActualCycleTime: duration,
		Status:          ledger.StepCompleted,
	})

	initial := wo.CurrentQuantity
	approved := sim.Quality.Sample(wo)
	sim.Emitter.EmitQuality(ledger.QualityRecord{
		WorkOrderID:     wo.ID,
		BatchID:         batchID,
		EventTime:       now,
		InitialQuantity: initial,
		UnitsApproved:   approved,
		UnitsScrapped:   initial - approved,
	})
	sim.Metrics.UnitsApproved += approved
	sim.Metrics.UnitsScrapped += initial - approved
	wo.CurrentQuantity = approved
	wo.Attempts = 0

	logrus.Infof("<< StepEnd: %s step %d on %s at %d ticks (%d/%d approved)",
		wo.ID, req.StepIndex+1, m.ID, now, approved, initial)

	// Free the machine before requesting the next step so older waiters keep
	// FIFO precedence over this work order.
	sim.Pool.Release(m)
	sim.dispatchWaiting(m.Type, now)

	wo.StepIndex++
	if wo.StepIndex < len(wo.Route().Steps) {
		sim.requestStep(wo, now)
		return
	}
	sim.completeWorkOrder(wo, now)
}

// completeWorkOrder emits the lifecycle record and notifies admission.
func (sim *Simulator) completeWorkOrder(wo *WorkOrder, now int64) {
	if wo.State == WorkOrderStateCompleted {
		panic(&InvariantViolation{
			Op:     "completeWorkOrder",
			Detail: "duplicate completion for " + wo.ID,
		})
	}
	wo.State = WorkOrderStateCompleted
	wo.EndTime = now

	logrus.Infof("Finished work order %s at %d ticks (lead time %d)", wo.ID, now, now-wo.ArrivalTime)

	sim.Emitter.EmitWorkOrder(ledger.WorkOrderRecord{
		WorkOrderID:     wo.ID,
		ProductID:       wo.ProductID,
		PlannedQuantity: wo.PlannedQuantity,
		Priority:        wo.Priority,
		ArrivalTime:     wo.ArrivalTime,
		AdmissionTime:   wo.AdmissionTime,
		StartTime:       wo.StartTime,
		EndTime:         wo.EndTime,
	})
	sim.Metrics.CompletedWorkOrders++
	sim.Metrics.TotalLeadTime += now - wo.ArrivalTime
	delete(sim.Active, wo.ID)

	sim.onWorkOrderCompleted(now)
}
