package ledger

// Sink receives emitted records in emission order. Implementations must not
// re-order or drop records; each record is delivered exactly once.
type Sink interface {
	AppendWorkOrder(WorkOrderRecord)
	AppendProduction(ProductionRecord)
	AppendDowntime(DowntimeRecord)
	AppendQuality(QualityRecord)
}

// Ledger is the in-memory Sink used by tests and the CSV exporter. Records
// are append-only and never mutated once stored.
type Ledger struct {
	WorkOrders  []WorkOrderRecord
	Productions []ProductionRecord
	Downtimes   []DowntimeRecord
	Qualities   []QualityRecord
}

// NewLedger creates an empty Ledger ready for recording.
func NewLedger() *Ledger {
	return &Ledger{
		WorkOrders:  make([]WorkOrderRecord, 0),
		Productions: make([]ProductionRecord, 0),
		Downtimes:   make([]DowntimeRecord, 0),
		Qualities:   make([]QualityRecord, 0),
	}
}

func (l *Ledger) AppendWorkOrder(r WorkOrderRecord) {
	l.WorkOrders = append(l.WorkOrders, r)
}

func (l *Ledger) AppendProduction(r ProductionRecord) {
	l.Productions = append(l.Productions, r)
}

func (l *Ledger) AppendDowntime(r DowntimeRecord) {
	l.Downtimes = append(l.Downtimes, r)
}

func (l *Ledger) AppendQuality(r QualityRecord) {
	l.Qualities = append(l.Qualities, r)
}
