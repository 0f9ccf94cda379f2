package sim

import (
	"math"
	"math/rand"
)

// QualitySampler determines per-batch yield outcomes. Every completed step
// is a quality checkpoint: the route's overall target yield is distributed
// across its steps, reduced by a penalty for each interrupted attempt of the
// step, floored at MinYield, and the approved count is a binomial draw from
// the yield sub-stream.
type QualitySampler struct {
	params QualityParams
	rng    *rand.Rand
}

// NewQualitySampler creates a QualitySampler drawing from the given stream.
func NewQualitySampler(params QualityParams, rng *rand.Rand) *QualitySampler {
	return &QualitySampler{params: params, rng: rng}
}

// StepYield computes the effective yield fraction for a work order's current
// step. Always within [MinYield, 1].
func (q *QualitySampler) StepYield(wo *WorkOrder) float64 {
	route := wo.Route()
	distributed := math.Pow(route.TargetYield, 1.0/float64(len(route.Steps)))
	y := distributed - float64(wo.Attempts)*q.params.InterruptPenalty
	return clampFloat(y, q.params.MinYield, 1.0)
}

// Sample draws the approved unit count for the work order's current batch.
// The returned value is always within [0, wo.CurrentQuantity], so
// units_scrapped = initial - approved is never negative.
func (q *QualitySampler) Sample(wo *WorkOrder) int {
	return SampleBinomial(q.rng, wo.CurrentQuantity, q.StepYield(wo))
}
