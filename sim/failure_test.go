package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plant-sim/plant-sim/sim/ledger"
)

func TestArmFailure_NotArmedWhenDrawExceedsStep(t *testing.T) {
	// GIVEN mean time to failure astronomically beyond any step length
	s, err := NewSimulator(testConfig(), ledger.NewLedger())
	require.NoError(t, err)
	m := s.Pool.Machines("Etch")[0]

	// WHEN the failure process is armed for a short busy period
	s.armFailure(m, 0, 900)

	// THEN no FailureStart is scheduled
	assert.Equal(t, 0, s.EventQueue.Len())
}

func TestArmFailure_ArmedWithinBusyPeriod(t *testing.T) {
	// GIVEN mean time to failure far below the planned duration
	cfg := failureHeavyConfig()
	s, err := NewSimulator(cfg, ledger.NewLedger())
	require.NoError(t, err)
	m := s.Pool.Machines("Etch")[0]

	// WHEN the failure process is armed for a very long busy period
	planned := int64(1 << 30)
	s.armFailure(m, 0, planned)

	// THEN a FailureStart lands inside the busy window
	require.Equal(t, 1, s.EventQueue.Len())
	ev := s.EventQueue.PopNext()
	assert.Equal(t, EventKindFailureStart, ev.Kind())
	assert.Greater(t, ev.Timestamp(), int64(0))
	assert.LessOrEqual(t, ev.Timestamp(), planned)
}

func TestHandleStepEnd_StaleEpochIsIgnored(t *testing.T) {
	// GIVEN a StepEnd scheduled before a failure bumped the machine epoch
	cfg := testConfig()
	l := ledger.NewLedger()
	s, err := NewSimulator(cfg, l)
	require.NoError(t, err)

	m := s.Pool.Machines("Etch")[0]
	wo := testWorkOrder(cfg, "WO-A", 100)
	req := &StepRequest{WorkOrder: wo, StepIndex: 0}
	stale := &StepEndEvent{
		BaseEvent: s.newBaseEvent(900, EventKindStepEnd),
		Request:   req,
		Machine:   m,
		epoch:     m.epoch,
	}
	m.epoch++

	// WHEN the stale event executes
	s.handleStepEnd(stale)

	// THEN it is a no-op: no records, no state change
	assert.Empty(t, l.Productions)
	assert.Empty(t, l.Qualities)
	assert.Equal(t, 0, wo.StepIndex)
}

func TestFailureRun_EmitsInterruptsAndDowntime(t *testing.T) {
	// GIVEN a scenario where most busy periods hit a failure
	cfg := failureHeavyConfig()
	cfg.HorizonDays = 0.5
	l := ledger.NewLedger()
	s, err := NewSimulator(cfg, l)
	require.NoError(t, err)

	// WHEN the run drains
	s.Run()

	// THEN failures were observed and every record pair is consistent
	require.Greater(t, s.Metrics.Failures, 0)
	assert.Len(t, l.Downtimes, s.Metrics.Failures)

	interrupted := 0
	for _, r := range l.Productions {
		if r.Status == ledger.StepInterrupted {
			interrupted++
			assert.Less(t, r.ActualCycleTime, r.IdealCycleTime*2,
				"interrupted step %s ran past any plausible cycle", r.WorkOrderID)
		}
	}
	assert.Equal(t, s.Metrics.InterruptedSteps, interrupted)

	for i, d := range l.Downtimes {
		assert.Greater(t, d.FailureEnd, d.FailureStart, "downtime %d not positive", i)
		assert.GreaterOrEqual(t, d.UsageDuration, int64(0), "downtime %d negative usage", i)
		assert.NotEmpty(t, d.FailureType, "downtime %d missing failure type", i)
		assert.Equal(t, "TEST", d.ScenarioID)
	}

	// Interrupted work still finishes: the queue drained, so every arrival
	// completed despite the failures.
	assert.Equal(t, s.Metrics.ArrivedWorkOrders, s.Metrics.CompletedWorkOrders)
}

func TestFailureRun_DowntimeBlocksTheMachine(t *testing.T) {
	cfg := failureHeavyConfig()
	cfg.HorizonDays = 0.5
	l := ledger.NewLedger()
	s, err := NewSimulator(cfg, l)
	require.NoError(t, err)
	s.Run()

	byMachine := make(map[string][]ledger.DowntimeRecord)
	for _, d := range l.Downtimes {
		byMachine[d.MachineID] = append(byMachine[d.MachineID], d)
	}
	require.NotEmpty(t, byMachine)

	// Downtime episodes of one machine never overlap (records are emitted at
	// repair end, so per machine they are already chronological).
	for machineID, downs := range byMachine {
		for i := 1; i < len(downs); i++ {
			assert.GreaterOrEqual(t, downs[i].FailureStart, downs[i-1].FailureEnd,
				"machine %s has overlapping downtime episodes", machineID)
		}
	}

	// No step starts while its machine is down.
	for _, p := range l.Productions {
		for _, d := range byMachine[p.MachineID] {
			if p.StepStart > d.FailureStart {
				assert.GreaterOrEqual(t, p.StepStart, d.FailureEnd,
					"step on %s started during downtime [%d, %d)", p.MachineID, d.FailureStart, d.FailureEnd)
			}
		}
	}
}

func TestFailureRun_MachinesEndIdle(t *testing.T) {
	cfg := failureHeavyConfig()
	cfg.HorizonDays = 0.25
	s, err := NewSimulator(cfg, ledger.NewLedger())
	require.NoError(t, err)

	s.Run()

	for _, m := range s.Pool.AllMachines() {
		assert.Equal(t, MachineStateIdle, m.State, "machine %s not idle after drain", m.ID)
		assert.Nil(t, m.Current(), "machine %s still holds a request", m.ID)
	}
}
