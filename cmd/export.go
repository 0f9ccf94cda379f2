package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/plant-sim/plant-sim/sim/ledger"
)

// CSV export of the four emitted record streams. Stands in for the external
// persistence collaborator; the engine itself never touches encodings.

// ExportTables writes fact_work_order.csv, fact_production_event.csv,
// fact_downtime_event.csv and fact_quality_event.csv into dir.
func ExportTables(dir string, l *ledger.Ledger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	if err := writeCSV(filepath.Join(dir, "fact_work_order.csv"),
		[]string{"scenario_id", "work_order_id", "product_id", "planned_quantity", "priority", "arrival_time", "admission_time", "start_time", "end_time"},
		len(l.WorkOrders), func(i int) []string {
			r := l.WorkOrders[i]
			return []string{r.ScenarioID, r.WorkOrderID, r.ProductID, itoa(r.PlannedQuantity), itoa(r.Priority),
				i64(r.ArrivalTime), i64(r.AdmissionTime), i64(r.StartTime), i64(r.EndTime)}
		}); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(dir, "fact_production_event.csv"),
		[]string{"scenario_id", "work_order_id", "machine_id", "route_id", "step_number", "batch_id", "step_start", "step_end", "ideal_cycle_time", "actual_cycle_time", "status"},
		len(l.Productions), func(i int) []string {
			r := l.Productions[i]
			return []string{r.ScenarioID, r.WorkOrderID, r.MachineID, r.RouteID, itoa(r.StepNumber), i64(r.BatchID),
				i64(r.StepStart), i64(r.StepEnd), i64(r.IdealCycleTime), i64(r.ActualCycleTime), string(r.Status)}
		}); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(dir, "fact_downtime_event.csv"),
		[]string{"scenario_id", "machine_id", "work_order_id", "failure_start", "failure_end", "failure_type", "usage_duration"},
		len(l.Downtimes), func(i int) []string {
			r := l.Downtimes[i]
			return []string{r.ScenarioID, r.MachineID, r.WorkOrderID, i64(r.FailureStart), i64(r.FailureEnd), r.FailureType, i64(r.UsageDuration)}
		}); err != nil {
		return err
	}

	return writeCSV(filepath.Join(dir, "fact_quality_event.csv"),
		[]string{"scenario_id", "work_order_id", "batch_id", "event_time", "initial_quantity", "units_approved", "units_scrapped"},
		len(l.Qualities), func(i int) []string {
			r := l.Qualities[i]
			return []string{r.ScenarioID, r.WorkOrderID, i64(r.BatchID), i64(r.EventTime), itoa(r.InitialQuantity), itoa(r.UnitsApproved), itoa(r.UnitsScrapped)}
		})
}

func writeCSV(path string, header []string, n int, row func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

func itoa(v int) string { return strconv.Itoa(v) }

func i64(v int64) string { return strconv.FormatInt(v, 10) }
