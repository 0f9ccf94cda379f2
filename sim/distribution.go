package sim

import (
	"math"
	"math/rand"
)

// Samplers for the stochastic processes in the plant model. Every sampler
// takes an explicit *rand.Rand so callers draw from the sub-stream that owns
// the concern (see rng.go); none of them touch process-wide randomness.

// SampleGamma draws from Gamma(shape, scale) using Marsaglia-Tsang's method
// for shape >= 1, with the Ahrens-Dieter transformation for shape < 1.
// Work-order interarrival times use this with scale = mean/shape.
func SampleGamma(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1.0 {
		// Ahrens-Dieter: Gamma(a) = Gamma(a+1) * U^(1/a)
		u := rng.Float64()
		return SampleGamma(rng, shape+1.0, scale) * math.Pow(u, 1.0/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)

	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()

		// Squeeze test
		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// SampleExponential draws from Exp(mean). Used for busy-time-to-failure.
func SampleExponential(rng *rand.Rand, mean float64) float64 {
	return rng.ExpFloat64() * mean
}

// SampleLogNormalClipped draws from LogNormal(ln(mean), sigma) and clips the
// result to [min, max]. Repair durations use this with mean expressed in the
// same ticks as the bounds.
func SampleLogNormalClipped(rng *rand.Rand, mean, sigma, min, max float64) float64 {
	v := math.Exp(math.Log(mean) + sigma*rng.NormFloat64())
	return clampFloat(v, min, max)
}

// SampleNoiseFactor draws a cycle-time noise multiplier from a clipped
// Normal(Mean, StdDev) distribution. The clip bounds keep the factor
// strictly positive, so sampled cycle times never go negative.
func SampleNoiseFactor(rng *rand.Rand, p NoiseParams) float64 {
	v := p.Mean + p.StdDev*rng.NormFloat64()
	return clampFloat(v, p.Min, p.Max)
}

// SampleBinomial draws the number of successes in n Bernoulli(p) trials.
// Quality outcomes use this: approved units out of a batch of n.
// The per-trial loop keeps the draw order deterministic for a fixed stream.
func SampleBinomial(rng *rand.Rand, n int, p float64) int {
	if n <= 0 {
		return 0
	}
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	successes := 0
	for i := 0; i < n; i++ {
		if rng.Float64() < p {
			successes++
		}
	}
	return successes
}

// SampleUniformInt64 draws uniformly from [low, high).
func SampleUniformInt64(rng *rand.Rand, low, high int64) int64 {
	if high <= low {
		return low
	}
	return low + rng.Int63n(high-low)
}

// ticksFromSample rounds a sampled duration to whole ticks, flooring at one
// tick. Zero or negative samples are expected tail behavior of the chosen
// distributions and are clamped, not errored.
func ticksFromSample(v float64) int64 {
	t := int64(math.Round(v))
	if t < 1 {
		return 1
	}
	return t
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
