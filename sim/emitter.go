package sim

import "github.com/plant-sim/plant-sim/sim/ledger"

// Emitter is the engine's append-only record sink. It stamps every record
// with the scenario identifier, assigns monotonically increasing batch IDs,
// and forwards to the external Sink in emission order — never buffering,
// never re-ordering. Each record is emitted exactly once.
type Emitter struct {
	scenarioID string
	sink       ledger.Sink
	batchSeq   int64
}

// NewEmitter wires an Emitter to the external sink.
func NewEmitter(scenarioID string, sink ledger.Sink) *Emitter {
	return &Emitter{scenarioID: scenarioID, sink: sink}
}

// NextBatchID reserves the next batch identifier. Batch IDs tie a quality
// record to the production record of the batch it inspected.
func (em *Emitter) NextBatchID() int64 {
	em.batchSeq++
	return em.batchSeq
}

// EmitWorkOrder forwards a work-order lifecycle record.
func (em *Emitter) EmitWorkOrder(r ledger.WorkOrderRecord) {
	r.ScenarioID = em.scenarioID
	em.sink.AppendWorkOrder(r)
}

// EmitProduction forwards a production-step execution record.
func (em *Emitter) EmitProduction(r ledger.ProductionRecord) {
	r.ScenarioID = em.scenarioID
	em.sink.AppendProduction(r)
}

// EmitDowntime forwards a downtime record.
func (em *Emitter) EmitDowntime(r ledger.DowntimeRecord) {
	r.ScenarioID = em.scenarioID
	em.sink.AppendDowntime(r)
}

// EmitQuality forwards a quality record.
func (em *Emitter) EmitQuality(r ledger.QualityRecord) {
	r.ScenarioID = em.scenarioID
	em.sink.AppendQuality(r)
}
