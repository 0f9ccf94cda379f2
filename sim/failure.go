package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/plant-sim/plant-sim/sim/ledger"
)

// failureTypes is the catalog of failure modes a machine can suffer. One is
// drawn from the machine's failure sub-stream at each FailureStart.
var failureTypes = []string{
	"Bearing Seizure",
	"Drive Belt Snapped",
	"Hydraulic Fluid Leak",
	"Pneumatic Pressure Loss",
	"Motor Overheating",
	"Electrical Short Circuit",
	"Sensor Misalignment",
	"PLC Logic Error",
	"Lubrication Starvation",
	"Vacuum Pump Cavitation",
	"Chamber Contamination",
	"MFC Drift",
	"Wafer Handling Robot Jam",
	"ESD Event",
	"RF Generator Arc-over",
	"Ion Source Depletion",
	"Mask Misalignment",
	"CDS Clog",
	"Turbo Pump Vibration",
	"Calibration Drift",
}

// armFailure decides, at an Idle→Busy transition, whether the step about to
// run will be interrupted. Failures accrue against cumulative busy time, not
// wall-clock time: a fresh time-to-failure draw is taken from the machine's
// failure sub-stream on every transition, and a FailureStart is scheduled
// only if the draw lands inside the step's planned duration.
func (sim *Simulator) armFailure(m *Machine, now, plannedDuration int64) {
	fp := sim.Config.Failure[m.Type]
	rng := sim.RNG.ForSubsystem(SubsystemFailure(m.ID))

	meanTTF := SampleUniformInt64(rng, fp.MTBFLow, fp.MTBFHigh)
	remaining := ticksFromSample(SampleExponential(rng, float64(meanTTF)))
	if remaining > plannedDuration {
		return
	}

	failAt := now + remaining
	logrus.Debugf("[tick %07d] machine %s will fail at %d (busy draw %d <= planned %d)",
		now, m.ID, failAt, remaining, plannedDuration)
	sim.Schedule(&FailureStartEvent{
		BaseEvent: sim.newBaseEvent(failAt, EventKindFailureStart),
		Machine:   m,
		epoch:     m.epoch,
	})
}

// handleFailureStart executes a FailureStart. A busy machine's in-progress
// step is superseded: its partial duration is logged as interrupted and the
// step request returns to the front of its type's wait queue for a retry
// from the start once repair completes. An idle machine is simply marked
// failed. Either way a RepairEnd is scheduled at now + sampled repair time.
func (sim *Simulator) handleFailureStart(e *FailureStartEvent) {
	m := e.Machine
	if e.epoch != m.epoch {
		// Superseded by an earlier failure on the same machine.
		return
	}
	now := e.Timestamp()

	rng := sim.RNG.ForSubsystem(SubsystemFailure(m.ID))
	failureType := failureTypes[rng.Intn(len(failureTypes))]

	m.failureStart = now
	m.failureType = failureType
	m.interruptedWOID = ""

	if m.State == MachineStateBusy {
		req := m.current
		wo := req.WorkOrder
		elapsed := now - m.stepStart
		m.usageSinceRepair += elapsed
		m.interruptedWOID = wo.ID

		logrus.Infof("<< FailureStart: %s (%s) interrupts %s step %d at %d ticks",
			m.ID, failureType, wo.ID, req.StepIndex+1, now)

		step := wo.Route().Steps[req.StepIndex]
		sim.Emitter.EmitProduction(ledger.ProductionRecord{
			WorkOrderID:     wo.ID,
			MachineID:       m.ID,
			RouteID:         wo.RouteID,
			StepNumber:      req.StepIndex + 1,
			BatchID:         sim.Emitter.NextBatchID(),
			StepStart:       m.stepStart,
			StepEnd:         now,
			IdealCycleTime:  step.IdealCycleTime,
			ActualCycleTime: elapsed,
			Status:          ledger.StepInterrupted,
		})
		sim.Metrics.InterruptedSteps++

		wo.Attempts++
		m.current = nil
		// Retry goes first in line for this machine type; its wait clock
		// restarts here.
		req.EnqueueTime = now
		sim.Pool.EnqueueFront(m.Type, req)
	} else {
		logrus.Infof("<< FailureStart: %s (%s) while idle at %d ticks", m.ID, failureType, now)
	}

	m.failureUsage = m.usageSinceRepair
	m.State = MachineStateFailed
	// Invalidate the pending StepEnd (and any stale FailureStart).
	m.epoch++

	rp := sim.Config.Repair[m.Type]
	repairRng := sim.RNG.ForSubsystem(SubsystemRepair(m.ID))
	repairTicks := ticksFromSample(SampleLogNormalClipped(
		repairRng, rp.MeanMinutes*60, rp.Sigma, float64(rp.MinSec), float64(rp.MaxSec)))

	m.State = MachineStateRepairing
	sim.Metrics.Failures++
	sim.Schedule(&RepairEndEvent{
		BaseEvent: sim.newBaseEvent(now+repairTicks, EventKindRepairEnd),
		Machine:   m,
	})

	// An idle sibling of the same type can pick up the requeued retry now.
	sim.dispatchWaiting(m.Type, now)
}

// handleRepairEnd emits the downtime record, resets the machine's usage
// counter, returns it to idle and lets the pool serve its type's wait queue.
func (sim *Simulator) handleRepairEnd(e *RepairEndEvent) {
	m := e.Machine
	now := e.Timestamp()

	logrus.Infof("<< RepairEnd: %s back in service at %d ticks (down since %d)", m.ID, now, m.failureStart)

	sim.Emitter.EmitDowntime(ledger.DowntimeRecord{
		MachineID:     m.ID,
		WorkOrderID:   m.interruptedWOID,
		FailureStart:  m.failureStart,
		FailureEnd:    now,
		FailureType:   m.failureType,
		UsageDuration: m.failureUsage,
	})
	sim.Metrics.DowntimeTicks += now - m.failureStart

	m.usageSinceRepair = 0
	m.interruptedWOID = ""
	m.failureType = ""
	m.State = MachineStateIdle

	sim.dispatchWaiting(m.Type, now)
}
