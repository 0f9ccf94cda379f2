package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Plant catalog generation: reproducible synthetic machine parks, products
// and process routes for runs that do not supply an explicit route catalog.
// All sampling comes from the scenario's structure sub-stream, so the same
// seed always yields the same plant.

// machineTypeWeights fixes the relative frequency of the plant's machine
// types. Slice, not map: iteration order is part of the contract.
var machineTypeWeights = []struct {
	Name   string
	Weight float64
}{
	{"Lithography", 0.20},
	{"Deposition", 0.25},
	{"Etch", 0.20},
	{"Assembly", 0.20},
	{"Test_Packaging", 0.15},
}

// productFamilyWeights biases which product a new work order is for.
var productFamilyWeights = []struct {
	Name   string
	Weight float64
}{
	{"Logic", 0.4},
	{"Memory", 0.3},
	{"Analog", 0.2},
	{"Power", 0.1},
}

// CatalogOptions sizes the generated plant.
type CatalogOptions struct {
	NumMachines int
	NumProducts int
	MinSteps    int
	MaxSteps    int
}

// DefaultCatalogOptions mirrors a mid-size fab: 5-9 step routes.
func DefaultCatalogOptions() CatalogOptions {
	return CatalogOptions{
		NumMachines: 10,
		NumProducts: 10,
		MinSteps:    5,
		MaxSteps:    9,
	}
}

// GenerateCatalog fills cfg.Capacity, cfg.Routes, cfg.Failure and cfg.Repair
// from the structure sub-stream derived from cfg.Seed. Existing catalog
// fields are overwritten. The caller still runs Validate afterwards.
func GenerateCatalog(cfg *ScenarioConfig, opts CatalogOptions) error {
	if opts.NumMachines < len(machineTypeWeights) {
		return &ConfigError{
			Field:  "num_machines",
			Reason: fmt.Sprintf("need at least %d machines (one per type), got %d", len(machineTypeWeights), opts.NumMachines),
		}
	}
	if opts.NumProducts <= 0 {
		return &ConfigError{Field: "num_products", Reason: "must be > 0"}
	}
	if opts.MinSteps <= 0 || opts.MaxSteps < opts.MinSteps {
		return &ConfigError{Field: "steps", Reason: fmt.Sprintf("step bounds [%d, %d] are invalid", opts.MinSteps, opts.MaxSteps)}
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed)).ForSubsystem(SubsystemStructure)

	cfg.Capacity = apportionMachines(opts.NumMachines)

	// One ideal cycle time per machine type, in ticks.
	cycleByType := make(map[string]int64, len(machineTypeWeights))
	typeNames := make([]string, 0, len(machineTypeWeights))
	for _, mt := range machineTypeWeights {
		typeNames = append(typeNames, mt.Name)
		cycleByType[mt.Name] = SampleUniformInt64(rng, 600, 5400)
	}

	cfg.Routes = make([]ProcessRoute, 0, opts.NumProducts)
	for i := 1; i <= opts.NumProducts; i++ {
		family := weightedFamily(rng)
		numSteps := opts.MinSteps + rng.Intn(opts.MaxSteps-opts.MinSteps+1)
		steps := make([]ProcessStep, 0, numSteps)
		for s := 0; s < numSteps; s++ {
			mt := typeNames[rng.Intn(len(typeNames))]
			steps = append(steps, ProcessStep{
				MachineType:    mt,
				IdealCycleTime: cycleByType[mt],
			})
		}
		cfg.Routes = append(cfg.Routes, ProcessRoute{
			RouteID:     fmt.Sprintf("R-%03d", i),
			ProductID:   fmt.Sprintf("P-%s-%03d", family.Name, i),
			Weight:      family.Weight,
			TargetYield: 0.90 + 0.09*rng.Float64(),
			Steps:       steps,
		})
	}

	cfg.Failure = make(map[string]FailureParams, len(typeNames))
	cfg.Repair = make(map[string]RepairParams, len(typeNames))
	for _, mt := range typeNames {
		cfg.Failure[mt] = FailureParams{MTBFLow: 14400, MTBFHigh: 288000}
		cfg.Repair[mt] = RepairParams{MeanMinutes: 30, Sigma: 0.6, MinSec: 300, MaxSec: 86400}
	}
	return nil
}

// DefaultNoise is the stock cycle-time noise: Normal(1.0, 0.1) clipped to
// [0.85, 1.20].
func DefaultNoise() NoiseParams {
	return NoiseParams{Mean: 1.0, StdDev: 0.1, Min: 0.85, Max: 1.20}
}

// DefaultQuality is the stock yield tuning.
func DefaultQuality() QualityParams {
	return QualityParams{InterruptPenalty: 0.02, MinYield: 0.85}
}

// apportionMachines splits the park across machine types by weight, flooring
// first, guaranteeing at least one machine per type, then handing leftovers
// to the heaviest types.
func apportionMachines(numMachines int) map[string]int {
	counts := make(map[string]int, len(machineTypeWeights))
	total := 0
	for _, mt := range machineTypeWeights {
		n := int(math.Floor(mt.Weight * float64(numMachines)))
		if n < 1 {
			n = 1
		}
		counts[mt.Name] = n
		total += n
	}

	// Heaviest-first order for distributing the remainder.
	order := make([]string, 0, len(machineTypeWeights))
	for _, mt := range machineTypeWeights {
		order = append(order, mt.Name)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return weightOf(order[i]) > weightOf(order[j])
	})

	i := 0
	for total < numMachines {
		counts[order[i%len(order)]]++
		total++
		i++
	}
	for total > numMachines {
		mt := order[i%len(order)]
		if counts[mt] > 1 {
			counts[mt]--
			total--
		}
		i++
	}
	return counts
}

func weightOf(name string) float64 {
	for _, mt := range machineTypeWeights {
		if mt.Name == name {
			return mt.Weight
		}
	}
	return 0
}

func weightedFamily(rng *rand.Rand) struct {
	Name   string
	Weight float64
} {
	total := 0.0
	for _, f := range productFamilyWeights {
		total += f.Weight
	}
	draw := rng.Float64() * total
	acc := 0.0
	for _, f := range productFamilyWeights {
		acc += f.Weight
		if draw < acc {
			return f
		}
	}
	return productFamilyWeights[len(productFamilyWeights)-1]
}

// OrderGenerator samples new work orders at arrival time: weighted product
// choice, planned quantity, priority and due date all come from the orders
// sub-stream. IDs are sequential, so a fixed seed yields identical orders.
type OrderGenerator struct {
	routes []ProcessRoute
	rng    *rand.Rand
	seq    int
}

// NewOrderGenerator builds a generator over the scenario's route catalog.
func NewOrderGenerator(cfg *ScenarioConfig, rng *rand.Rand) *OrderGenerator {
	return &OrderGenerator{routes: cfg.Routes, rng: rng}
}

// Next creates the work order arriving at the given instant.
func (g *OrderGenerator) Next(arrival int64) *WorkOrder {
	g.seq++

	route := g.pickRoute()
	qty := int(SampleUniformInt64(g.rng, 100, 2000))
	leadDays := SampleUniformInt64(g.rng, 3, 21)

	return &WorkOrder{
		ID:              fmt.Sprintf("WO-25%06d", g.seq),
		ProductID:       route.ProductID,
		RouteID:         route.RouteID,
		PlannedQuantity: qty,
		CurrentQuantity: qty,
		Priority:        g.rng.Intn(4),
		DueDate:         arrival + leadDays*TicksPerDay,
		ArrivalTime:     arrival,
		State:           WorkOrderStatePending,
		route:           route,
	}
}

func (g *OrderGenerator) pickRoute() *ProcessRoute {
	total := 0.0
	for i := range g.routes {
		total += g.routes[i].Weight
	}
	if total <= 0 {
		return &g.routes[g.rng.Intn(len(g.routes))]
	}
	draw := g.rng.Float64() * total
	acc := 0.0
	for i := range g.routes {
		acc += g.routes[i].Weight
		if draw < acc {
			return &g.routes[i]
		}
	}
	return &g.routes[len(g.routes)-1]
}
