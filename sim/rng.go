package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical emitted record sequences.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemArrival is the RNG subsystem for work-order interarrival times.
	SubsystemArrival = "arrival"

	// SubsystemOrders is the RNG subsystem for work-order attribute sampling
	// (product choice, quantity, priority, due date).
	SubsystemOrders = "orders"

	// SubsystemStructure is the RNG subsystem for plant catalog generation
	// (machine park, products, process routes).
	SubsystemStructure = "structure"

	// SubsystemYield is the RNG subsystem for per-batch quality outcomes.
	SubsystemYield = "yield"
)

// SubsystemProcess returns the subsystem name for a product's cycle-time
// noise stream.
func SubsystemProcess(productID string) string {
	return fmt.Sprintf("process:%s", productID)
}

// SubsystemFailure returns the subsystem name for a machine's failure stream.
func SubsystemFailure(machineID string) string {
	return fmt.Sprintf("failure:%s", machineID)
}

// SubsystemRepair returns the subsystem name for a machine's repair-duration
// stream.
func SubsystemRepair(machineID string) string {
	return fmt.Sprintf("repair:%s", machineID)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName). Streams are
// independent in the sense that adding draws to one subsystem never shifts
// the sequence observed by another.
//
// Thread-safety: NOT thread-safe. Must be called from the single scheduling
// loop that owns all mutable simulation state.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
