// Tracks simulation-wide statistics for final reporting.

package sim

import (
	"fmt"
	"time"
)

// Metrics aggregates statistics about the simulation for final reporting.
// Useful for evaluating plant behavior and debugging runs over time.
type Metrics struct {
	ArrivedWorkOrders   int // work orders that entered the backlog
	CompletedWorkOrders int // work orders that finished their route

	InterruptedSteps int // production steps cut short by failures
	Failures         int // FailureStart count across all machines

	StepsStarted   int   // StepStart count across all machines
	QueueWaitTicks int64 // total ticks step requests waited for a machine

	UnitsApproved int
	UnitsScrapped int

	TotalLeadTime int64 // sum of (end - arrival) across completions
	DowntimeTicks int64 // total machine downtime
	PeakBacklog   int   // max backlog depth observed

	BusyTicks map[string]int64 // machine ID -> cumulative busy time

	SimEndedTime int64
}

// NewMetrics creates an empty Metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		BusyTicks: make(map[string]int64),
	}
}

func (m *Metrics) addBusy(machineID string, ticks int64) {
	m.BusyTicks[machineID] += ticks
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(horizon int64, startTime time.Time) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Arrived Work Orders    : %d\n", m.ArrivedWorkOrders)
	fmt.Printf("Completed Work Orders  : %d\n", m.CompletedWorkOrders)
	fmt.Printf("Machine Failures       : %d\n", m.Failures)
	fmt.Printf("Interrupted Steps      : %d\n", m.InterruptedSteps)
	fmt.Printf("Units Approved         : %d\n", m.UnitsApproved)
	fmt.Printf("Units Scrapped         : %d\n", m.UnitsScrapped)
	fmt.Printf("Peak Backlog           : %d\n", m.PeakBacklog)
	if m.CompletedWorkOrders > 0 {
		avgLead := float64(m.TotalLeadTime) / float64(m.CompletedWorkOrders)
		fmt.Printf("Average Lead Time      : %.2f ticks\n", avgLead)
	}
	if m.StepsStarted > 0 {
		avgWait := float64(m.QueueWaitTicks) / float64(m.StepsStarted)
		fmt.Printf("Average Queue Wait     : %.2f ticks\n", avgWait)
	}
	if m.SimEndedTime > 0 {
		var busy int64
		for _, t := range m.BusyTicks {
			busy += t
		}
		n := len(m.BusyTicks)
		if n > 0 {
			util := float64(busy) / (float64(m.SimEndedTime) * float64(n))
			fmt.Printf("Average Utilization    : %.2f%%\n", util*100)
		}
		fmt.Printf("Total Downtime         : %d ticks\n", m.DowntimeTicks)
	}
	fmt.Printf("Simulated Time         : %d ticks (horizon %d)\n", m.SimEndedTime, horizon)
	fmt.Printf("Wall Clock             : %s\n", time.Since(startTime).Round(time.Millisecond))
}
