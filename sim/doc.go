// Package sim implements a deterministic discrete-event simulation of a
// multi-stage manufacturing plant: stochastic work-order arrivals, WIP-gated
// admission, routing through ordered process steps, contention for shared
// machines, stochastic failures/repairs and per-batch yield outcomes.
//
// The engine's contract with the outside world is narrow: it accepts one
// immutable ScenarioConfig and emits four append-only record streams (see
// sim/ledger). Two runs with the same configuration and seed produce
// identical record sequences.
package sim
