package dist

import (
	"math"
	"math/rand"
	"time"
)

// Above this trial count Binomial switches from per-trial Bernoulli
// draws to the normal approximation.
const binomExactMax = 256

// Rand is a seedable random source with the samplers the amplification
// model needs. The standard library provides neither binomial nor
// Poisson variates, so they are implemented here.
type Rand struct {
	*rand.Rand
}

// Creates a random source with the specified seed.
// Seed 0 means seed from the clock (non-reproducible).
func NewRand(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Rand{rand.New(rand.NewSource(seed))}
}

// Draws the number of successes among n independent trials with
// success probability p. Counts are kept as float64 because pool copy
// counts grow exponentially across PCR cycles; n is truncated to an
// integer trial count.
func (r *Rand) Binomial(n float64, p float64) float64 {
	n = math.Trunc(n)
	if n <= 0 || p <= 0 {
		return 0
	}

	if p >= 1 {
		return n
	}

	if n <= binomExactMax {
		k := 0
		for i := 0; i < int(n); i++ {
			if r.Float64() < p {
				k++
			}
		}

		return float64(k)
	}

	// normal approximation, valid for the large trial counts that
	// reach this path
	mean := n * p
	sd := math.Sqrt(n * p * (1 - p))
	k := math.Round(mean + sd*r.NormFloat64())
	if k < 0 {
		k = 0
	} else if k > n {
		k = n
	}

	return k
}

// Draws a Poisson variate with the specified rate using Knuth's
// method. The per-copy mutation rate lambda = L*e is well below one in
// any realistic configuration, so the geometric running time is fine.
func (r *Rand) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}

	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= r.Float64()
		if p <= l {
			return k
		}

		k++
	}
}
