// Package ledger holds the emitted record streams that form the engine's
// contract with the external persistence/reporting collaborator.
// This package has no dependencies on sim/ — it stores pure data types.
package ledger

// StepStatus marks how a production step ended.
type StepStatus string

const (
	StepCompleted   StepStatus = "completed"
	StepInterrupted StepStatus = "interrupted"
)

// WorkOrderRecord is one work order's lifecycle row, emitted on completion.
type WorkOrderRecord struct {
	ScenarioID      string
	WorkOrderID     string
	ProductID       string
	PlannedQuantity int
	Priority        int
	ArrivalTime     int64
	AdmissionTime   int64
	StartTime       int64
	EndTime         int64
}

// ProductionRecord is one production-step execution row, emitted when a step
// completes or is interrupted by a failure.
type ProductionRecord struct {
	ScenarioID      string
	WorkOrderID     string
	MachineID       string
	RouteID         string
	StepNumber      int
	BatchID         int64
	StepStart       int64
	StepEnd         int64
	IdealCycleTime  int64
	ActualCycleTime int64
	Status          StepStatus
}

// DowntimeRecord is one machine failure/repair episode, emitted at repair
// end. WorkOrderID is empty unless the failure interrupted a step.
type DowntimeRecord struct {
	ScenarioID    string
	MachineID     string
	WorkOrderID   string
	FailureStart  int64
	FailureEnd    int64
	FailureType   string
	UsageDuration int64 // busy ticks accumulated since the previous repair
}

// QualityRecord is one per-batch yield determination.
type QualityRecord struct {
	ScenarioID      string
	WorkOrderID     string
	BatchID         int64
	EventTime       int64
	InitialQuantity int
	UnitsApproved   int
	UnitsScrapped   int
}
