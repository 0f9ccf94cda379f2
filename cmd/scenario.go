package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/plant-sim/plant-sim/sim"
)

// Thin adapter between YAML scenario files and the engine's ScenarioConfig.
// Encoding concerns stay out of the engine: sim only ever sees the
// structured object.

type scenarioDoc struct {
	ScenarioID   string  `yaml:"scenario_id"`
	ScenarioName string  `yaml:"scenario_name"`
	HorizonDays  float64 `yaml:"horizon_days"`
	Seed         int64   `yaml:"seed"`

	MeanInterarrivalSec int64   `yaml:"mean_interarrival_sec"`
	ArrivalShape        float64 `yaml:"arrival_shape"`
	WIPCap              int     `yaml:"wip_cap"`

	Capacity map[string]int `yaml:"capacity"`
	Routes   []routeDoc    `yaml:"routes"`

	Noise   *noiseDoc              `yaml:"process_noise,omitempty"`
	Failure map[string]failureDoc  `yaml:"failure,omitempty"`
	Repair  map[string]repairDoc   `yaml:"repair,omitempty"`
	Quality *qualityDoc            `yaml:"quality,omitempty"`
}

type routeDoc struct {
	RouteID     string     `yaml:"route_id"`
	ProductID   string     `yaml:"product_id"`
	Weight      float64    `yaml:"weight"`
	TargetYield float64    `yaml:"target_yield"`
	Steps       []stepDoc `yaml:"steps"`
}

type stepDoc struct {
	MachineType       string `yaml:"machine_type"`
	IdealCycleTimeSec int64  `yaml:"ideal_cycle_time_sec"`
}

type noiseDoc struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

type failureDoc struct {
	MTBFLowSec  int64 `yaml:"mtbf_low_sec"`
	MTBFHighSec int64 `yaml:"mtbf_high_sec"`
}

type repairDoc struct {
	MeanMinutes float64 `yaml:"mean_minutes"`
	Sigma       float64 `yaml:"sigma"`
	MinSec      int64   `yaml:"min_sec"`
	MaxSec      int64   `yaml:"max_sec"`
}

type qualityDoc struct {
	InterruptPenalty float64 `yaml:"interrupt_penalty"`
	MinYield         float64 `yaml:"min_yield"`
}

// LoadScenario reads a YAML scenario file into a ScenarioConfig. Validation
// is left to the engine so file-based and flag-based runs share one gate.
func LoadScenario(path string) (*sim.ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var f scenarioDoc
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario file %s: %w", path, err)
	}
	return f.toConfig(), nil
}

func (f *scenarioDoc) toConfig() *sim.ScenarioConfig {
	cfg := &sim.ScenarioConfig{
		ScenarioID:       f.ScenarioID,
		ScenarioName:     f.ScenarioName,
		HorizonDays:      f.HorizonDays,
		MeanInterarrival: f.MeanInterarrivalSec,
		ArrivalShape:     f.ArrivalShape,
		WIPCap:           f.WIPCap,
		Seed:             f.Seed,
		Capacity:         f.Capacity,
		Noise:            sim.DefaultNoise(),
		Quality:          sim.DefaultQuality(),
		Failure:          make(map[string]sim.FailureParams),
		Repair:           make(map[string]sim.RepairParams),
	}
	if cfg.ArrivalShape == 0 {
		cfg.ArrivalShape = 3.0
	}

	for _, r := range f.Routes {
		steps := make([]sim.ProcessStep, 0, len(r.Steps))
		for _, s := range r.Steps {
			steps = append(steps, sim.ProcessStep{
				MachineType:    s.MachineType,
				IdealCycleTime: s.IdealCycleTimeSec,
			})
		}
		weight := r.Weight
		if weight == 0 {
			weight = 1
		}
		cfg.Routes = append(cfg.Routes, sim.ProcessRoute{
			RouteID:     r.RouteID,
			ProductID:   r.ProductID,
			Weight:      weight,
			TargetYield: r.TargetYield,
			Steps:       steps,
		})
	}

	if f.Noise != nil {
		cfg.Noise = sim.NoiseParams{Mean: f.Noise.Mean, StdDev: f.Noise.StdDev, Min: f.Noise.Min, Max: f.Noise.Max}
	}
	if f.Quality != nil {
		cfg.Quality = sim.QualityParams{InterruptPenalty: f.Quality.InterruptPenalty, MinYield: f.Quality.MinYield}
	}
	for mt := range f.Capacity {
		if p, ok := f.Failure[mt]; ok {
			cfg.Failure[mt] = sim.FailureParams{MTBFLow: p.MTBFLowSec, MTBFHigh: p.MTBFHighSec}
		} else {
			cfg.Failure[mt] = sim.FailureParams{MTBFLow: 14400, MTBFHigh: 288000}
		}
		if p, ok := f.Repair[mt]; ok {
			cfg.Repair[mt] = sim.RepairParams{MeanMinutes: p.MeanMinutes, Sigma: p.Sigma, MinSec: p.MinSec, MaxSec: p.MaxSec}
		} else {
			cfg.Repair[mt] = sim.RepairParams{MeanMinutes: 30, Sigma: 0.6, MinSec: 300, MaxSec: 86400}
		}
	}
	return cfg
}
