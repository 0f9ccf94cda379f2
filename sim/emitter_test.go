package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plant-sim/plant-sim/sim/ledger"
)

func TestEmitter_StampsScenarioID(t *testing.T) {
	l := ledger.NewLedger()
	em := NewEmitter("S-STAMP", l)

	em.EmitWorkOrder(ledger.WorkOrderRecord{WorkOrderID: "WO-A"})
	em.EmitProduction(ledger.ProductionRecord{WorkOrderID: "WO-A"})
	em.EmitDowntime(ledger.DowntimeRecord{MachineID: "M-Etch-01"})
	em.EmitQuality(ledger.QualityRecord{WorkOrderID: "WO-A"})

	assert.Equal(t, "S-STAMP", l.WorkOrders[0].ScenarioID)
	assert.Equal(t, "S-STAMP", l.Productions[0].ScenarioID)
	assert.Equal(t, "S-STAMP", l.Downtimes[0].ScenarioID)
	assert.Equal(t, "S-STAMP", l.Qualities[0].ScenarioID)
}

func TestEmitter_BatchIDsAreMonotonic(t *testing.T) {
	em := NewEmitter("S1", ledger.NewLedger())
	assert.Equal(t, int64(1), em.NextBatchID())
	assert.Equal(t, int64(2), em.NextBatchID())
	assert.Equal(t, int64(3), em.NextBatchID())
}
