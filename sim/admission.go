package sim

import "github.com/sirupsen/logrus"

// Admission gates work-order entry into active processing against the
// configured WIP ceiling. Arrived orders wait in a FIFO backlog; whenever a
// work order completes, the backlog head is re-evaluated. With the cap
// disabled every arrival is admitted immediately.

// handleArrival places the arriving work order in the backlog, re-evaluates
// admission, and schedules the next arrival while the horizon has not passed.
func (sim *Simulator) handleArrival(e *ArrivalEvent) {
	wo := e.WorkOrder
	logrus.Infof("<< Arrival: %s (%s, qty %d) at %d ticks", wo.ID, wo.ProductID, wo.PlannedQuantity, e.Timestamp())

	sim.Backlog.Enqueue(wo)
	sim.Metrics.ArrivedWorkOrders++
	if sim.Backlog.Len() > sim.Metrics.PeakBacklog {
		sim.Metrics.PeakBacklog = sim.Backlog.Len()
	}

	sim.tryAdmit(e.Timestamp())
	sim.scheduleNextArrival(e.Timestamp())
}

// tryAdmit admits backlog-head work orders while WIP capacity allows.
// Admission order is strictly arrival order — priority never jumps the queue.
func (sim *Simulator) tryAdmit(now int64) {
	for sim.Backlog.Len() > 0 {
		if sim.Config.WIPCap > 0 && sim.ActiveWIP >= sim.Config.WIPCap {
			logrus.Debugf("[tick %07d] WIP cap %d reached, %d orders held in backlog",
				now, sim.Config.WIPCap, sim.Backlog.Len())
			return
		}
		wo := sim.Backlog.Dequeue()
		sim.ActiveWIP++
		wo.State = WorkOrderStateAdmitted
		wo.AdmissionTime = now
		logrus.Debugf("[tick %07d] admitted %s (WIP %d)", now, wo.ID, sim.ActiveWIP)
		sim.requestStep(wo, now)
	}
}

// onWorkOrderCompleted frees WIP capacity and re-evaluates the backlog head.
// This is the mechanism that stabilizes backlog under a WIP cap.
func (sim *Simulator) onWorkOrderCompleted(now int64) {
	if sim.ActiveWIP <= 0 {
		panic(&InvariantViolation{
			Op:     "onWorkOrderCompleted",
			Detail: "completion with no admitted work orders",
		})
	}
	sim.ActiveWIP--
	sim.tryAdmit(now)
}
