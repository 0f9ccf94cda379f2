package sim

import "fmt"

// Simulation time is measured in int64 ticks, 1 tick = 1 second.
const TicksPerDay int64 = 24 * 3600

// ProcessStep is one entry of a process route: the machine type it needs and
// the deterministic baseline cycle time in ticks.
type ProcessStep struct {
	MachineType    string
	IdealCycleTime int64
}

// ProcessRoute is the ordered step sequence for one product. Immutable
// reference data, shared read-only by every work order of that product.
type ProcessRoute struct {
	RouteID     string
	ProductID   string
	Weight      float64 // relative sampling weight for arrivals
	TargetYield float64 // overall target yield across the whole route, (0, 1]
	Steps       []ProcessStep
}

// NoiseParams describes the clipped-normal cycle-time noise multiplier.
type NoiseParams struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// FailureParams describes a machine type's failure process. The mean busy
// time to failure is drawn uniformly from [MTBFLow, MTBFHigh) ticks, then the
// actual threshold is exponential around that mean.
type FailureParams struct {
	MTBFLow  int64
	MTBFHigh int64
}

// RepairParams describes a machine type's repair duration distribution:
// log-normal around MeanMinutes (converted to ticks), clipped to
// [MinSec, MaxSec].
type RepairParams struct {
	MeanMinutes float64
	Sigma       float64
	MinSec      int64
	MaxSec      int64
}

// QualityParams tunes per-step yield determination.
type QualityParams struct {
	InterruptPenalty float64 // yield deduction per interrupted attempt of a step
	MinYield         float64 // floor applied after deductions
}

// ScenarioConfig is the immutable configuration object for one run. It is
// created once at run start and owned exclusively by the engine for the
// run's duration.
type ScenarioConfig struct {
	ScenarioID   string
	ScenarioName string

	HorizonDays      float64
	MeanInterarrival int64   // mean work-order interarrival in ticks
	ArrivalShape     float64 // gamma shape for interarrival times
	WIPCap           int     // max concurrently admitted work orders; 0 = disabled
	Seed             int64   // 0 means absent; reproducibility requires a seed

	Routes   []ProcessRoute
	Capacity map[string]int // machine type -> number of machines

	Noise   NoiseParams
	Failure map[string]FailureParams // per machine type
	Repair  map[string]RepairParams  // per machine type
	Quality QualityParams
}

// Horizon returns the arrival horizon in ticks. Past this instant no further
// arrivals are scheduled; in-flight work orders still drain.
func (c *ScenarioConfig) Horizon() int64 {
	return int64(c.HorizonDays * float64(TicksPerDay))
}

// RouteByID returns the route with the given ID, or nil.
func (c *ScenarioConfig) RouteByID(id string) *ProcessRoute {
	for i := range c.Routes {
		if c.Routes[i].RouteID == id {
			return &c.Routes[i]
		}
	}
	return nil
}

// Validate checks the configuration at run start. A non-nil result is always
// a *ConfigError and means nothing has been scheduled.
func (c *ScenarioConfig) Validate() error {
	if c.ScenarioID == "" {
		return &ConfigError{Field: "scenario_id", Reason: "must not be empty"}
	}
	if c.Seed == 0 {
		return &ConfigError{Field: "seed", Reason: "a seed is required for reproducible runs"}
	}
	if c.HorizonDays <= 0 {
		return &ConfigError{Field: "horizon_days", Reason: fmt.Sprintf("must be > 0, got %v", c.HorizonDays)}
	}
	if c.MeanInterarrival <= 0 {
		return &ConfigError{Field: "mean_interarrival", Reason: fmt.Sprintf("must be > 0 ticks, got %d", c.MeanInterarrival)}
	}
	if c.ArrivalShape <= 0 {
		return &ConfigError{Field: "arrival_shape", Reason: fmt.Sprintf("must be > 0, got %v", c.ArrivalShape)}
	}
	if c.WIPCap < 0 {
		return &ConfigError{Field: "wip_cap", Reason: fmt.Sprintf("must be >= 0, got %d", c.WIPCap)}
	}
	if len(c.Routes) == 0 {
		return &ConfigError{Field: "routes", Reason: "route catalog must not be empty"}
	}
	seenRoutes := make(map[string]bool, len(c.Routes))
	for i := range c.Routes {
		r := &c.Routes[i]
		if r.RouteID == "" || r.ProductID == "" {
			return &ConfigError{Field: "routes", Reason: fmt.Sprintf("route %d is missing an identifier", i)}
		}
		if seenRoutes[r.RouteID] {
			return &ConfigError{Field: "routes", Reason: fmt.Sprintf("duplicate route id %s", r.RouteID)}
		}
		seenRoutes[r.RouteID] = true
		if len(r.Steps) == 0 {
			return &ConfigError{Field: "routes", Reason: fmt.Sprintf("route %s has no steps", r.RouteID)}
		}
		if r.TargetYield <= 0 || r.TargetYield > 1 {
			return &ConfigError{Field: "routes", Reason: fmt.Sprintf("route %s target yield %v outside (0, 1]", r.RouteID, r.TargetYield)}
		}
		if r.Weight < 0 {
			return &ConfigError{Field: "routes", Reason: fmt.Sprintf("route %s has negative weight", r.RouteID)}
		}
		for s, step := range r.Steps {
			if step.IdealCycleTime <= 0 {
				return &ConfigError{Field: "routes", Reason: fmt.Sprintf("route %s step %d ideal cycle time must be > 0, got %d", r.RouteID, s+1, step.IdealCycleTime)}
			}
			if n, ok := c.Capacity[step.MachineType]; !ok || n <= 0 {
				return &ConfigError{Field: "capacity", Reason: fmt.Sprintf("machine type %s required by route %s has no capacity", step.MachineType, r.RouteID)}
			}
		}
	}
	for mt, n := range c.Capacity {
		if n <= 0 {
			return &ConfigError{Field: "capacity", Reason: fmt.Sprintf("machine type %s capacity must be > 0, got %d", mt, n)}
		}
		fp, ok := c.Failure[mt]
		if !ok {
			return &ConfigError{Field: "failure", Reason: fmt.Sprintf("machine type %s has no failure parameters", mt)}
		}
		if fp.MTBFLow <= 0 || fp.MTBFHigh <= fp.MTBFLow {
			return &ConfigError{Field: "failure", Reason: fmt.Sprintf("machine type %s MTBF range [%d, %d) is invalid", mt, fp.MTBFLow, fp.MTBFHigh)}
		}
		rp, ok := c.Repair[mt]
		if !ok {
			return &ConfigError{Field: "repair", Reason: fmt.Sprintf("machine type %s has no repair parameters", mt)}
		}
		if rp.MeanMinutes <= 0 || rp.Sigma <= 0 || rp.MinSec <= 0 || rp.MaxSec < rp.MinSec {
			return &ConfigError{Field: "repair", Reason: fmt.Sprintf("machine type %s repair parameters are invalid", mt)}
		}
	}
	if c.Noise.StdDev < 0 {
		return &ConfigError{Field: "noise", Reason: "std dev must be >= 0"}
	}
	if c.Noise.Min <= 0 || c.Noise.Max < c.Noise.Min {
		return &ConfigError{Field: "noise", Reason: fmt.Sprintf("clip bounds [%v, %v] must satisfy 0 < min <= max", c.Noise.Min, c.Noise.Max)}
	}
	if c.Quality.MinYield < 0 || c.Quality.MinYield > 1 {
		return &ConfigError{Field: "quality", Reason: fmt.Sprintf("min yield %v outside [0, 1]", c.Quality.MinYield)}
	}
	if c.Quality.InterruptPenalty < 0 {
		return &ConfigError{Field: "quality", Reason: "interrupt penalty must be >= 0"}
	}
	return nil
}
