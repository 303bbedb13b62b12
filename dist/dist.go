// Package dist implements discrete probability distributions over
// integer values, built from arrays of probability weights.
package dist

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// Weight arrays that are empty, contain negative values, or sum to
// (nearly) zero cannot be turned into a distribution.
var ErrInvalidDistribution = errors.New("invalid distribution")

// Weight sums closer to zero than this cannot be normalized
const minWeightSum = 1e-12

// Discrete is a probability distribution over a fixed set of integer
// values. The weights are normalized at construction time.
type Discrete struct {
	values []int
	probs  []float64
	cum    []float64
}

// Creates a distribution over the specified values with the specified
// weights. The weights don't have to be normalized.
func New(values []int, weights []float64) (d *Discrete, err error) {
	if len(values) == 0 || len(values) != len(weights) {
		return nil, fmt.Errorf("%w: %d values, %d weights", ErrInvalidDistribution, len(values), len(weights))
	}

	probs, err := Probabilities(weights)
	if err != nil {
		return nil, err
	}

	d = new(Discrete)
	d.values = append([]int(nil), values...)
	d.probs = probs
	d.cum = make([]float64, len(probs))

	sum := 0.0
	for i, p := range probs {
		sum += p
		d.cum[i] = sum
	}

	// guard against float drift so Sample can't run off the end
	d.cum[len(d.cum)-1] = 1

	return
}

// Probability mass of the specified value, 0 if the value is not part
// of the distribution
func (d *Discrete) Prob(v int) (p float64) {
	for i, dv := range d.values {
		if dv == v {
			p += d.probs[i]
		}
	}

	return
}

// Draws a single value
func (d *Discrete) Sample(r *rand.Rand) int {
	u := r.Float64()
	i := sort.SearchFloat64s(d.cum, u)
	if i >= len(d.values) {
		i = len(d.values) - 1
	}

	return d.values[i]
}

// Draws n independent values
func (d *Discrete) SampleN(r *rand.Rand, n int) (vals []int) {
	vals = make([]int, n)
	for i := range vals {
		vals[i] = d.Sample(r)
	}

	return
}

// Converts an array of non-negative counts into probabilities that
// sum to one (L1 normalization)
func Probabilities(counts []float64) (probs []float64, err error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidDistribution)
	}

	sum := 0.0
	for i, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("%w: negative weight %v at %d", ErrInvalidDistribution, c, i)
		}

		sum += c
	}

	if sum < minWeightSum {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidDistribution)
	}

	probs = make([]float64, len(counts))
	for i, c := range counts {
		probs[i] = c / sum
	}

	return
}
