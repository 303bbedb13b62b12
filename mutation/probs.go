package mutation

import (
	"fmt"
	"math"

	"aptasim/dist"
)

// Tolerance when asserting that a probability vector sums to one
const probTolerance = 1e-6

// MutationProbs returns the PCR-aware probability vector over the
// number of mutations a single copy accumulates: index m holds
// P(exactly m mutations), m in 0..L. It accounts for the mutation
// opportunities of every amplification cycle:
//
//	P(m) = sum over cycles n of
//	    exp(-n*e*L) * (n*e*L)^m / m! * C(N,n) * y^n / (1+y)^n
//
// The terms are evaluated in log space (lgamma) because the direct
// factorial form overflows for realistic cycle counts.
func (e *Engine) MutationProbs() []float64 {
	L := e.cfg.SeqLen
	N := e.cfg.CycleNum
	er := e.cfg.ErrRate
	y := e.cfg.Yield

	probs := make([]float64, L+1)
	lgN1, _ := math.Lgamma(float64(N + 1))
	lny := math.Log(y)
	ln1y := math.Log(1 + y)

	for m := 0; m < L; m++ {
		lgm2, _ := math.Lgamma(float64(m + 2))
		for n := 1; n <= N; n++ {
			nel := float64(n) * er * float64(L)
			lgn1, _ := math.Lgamma(float64(n + 1))
			lgNn1, _ := math.Lgamma(float64(N - n + 1))

			logc := -nel + float64(m+1)*math.Log(nel) +
				lgN1 + float64(n)*lny -
				lgm2 - lgn1 - lgNn1 - float64(n)*ln1y
			probs[m+1] += math.Exp(logc)
		}

		probs[0] += probs[m+1]
	}

	probs[0] = 1 - probs[0]

	return probs
}

// PoissonProbs returns the simplified mutation-count probability
// vector: the number of mutations per copy is Poisson with rate L*e,
// conditioned on at most L mutations. Truncating at L leaves a tail
// deficit that grows with L*e, so the vector is renormalized to sum
// to one for every valid rate. This is the model the bulk code path
// consults; it is much cheaper than the PCR-aware form.
func (e *Engine) PoissonProbs() []float64 {
	L := e.cfg.SeqLen
	lambda := float64(L) * e.cfg.ErrRate

	probs := make([]float64, L+1)
	lnl := math.Log(lambda)
	sum := 0.0
	for m := 0; m <= L; m++ {
		lgm1, _ := math.Lgamma(float64(m + 1))
		probs[m] = math.Exp(float64(m)*lnl - lambda - lgm1)
		sum += probs[m]
	}

	for m := range probs {
		probs[m] /= sum
	}

	return probs
}

// MutationDist wraps the PCR-aware vector as a sampleable distribution
// over 0..L mutations
func (e *Engine) MutationDist() (*dist.Discrete, error) {
	return probsDist(e.MutationProbs())
}

// PoissonDist wraps the simplified vector as a sampleable distribution
// over 0..L mutations
func (e *Engine) PoissonDist() (*dist.Discrete, error) {
	return probsDist(e.PoissonProbs())
}

// CycleProbs converts a per-cycle population trajectory into the
// probability that a copy selected for mutation was present at each
// cycle
func (e *Engine) CycleProbs(pop []float64) ([]float64, error) {
	if len(pop) != e.cfg.CycleNum {
		return nil, fmt.Errorf("%w: trajectory has %d cycles, configured %d", dist.ErrInvalidDistribution, len(pop), e.cfg.CycleNum)
	}

	return dist.Probabilities(pop)
}

// CycleDist wraps the cycle probabilities as a distribution over the
// cycle indices 0..N-1
func (e *Engine) CycleDist(pop []float64) (*dist.Discrete, error) {
	probs, err := e.CycleProbs(pop)
	if err != nil {
		return nil, err
	}

	return cycleDist(probs)
}

func probsDist(probs []float64) (*dist.Discrete, error) {
	if err := checkProbVector(probs); err != nil {
		return nil, err
	}

	vals := make([]int, len(probs))
	for i := range vals {
		vals[i] = i
	}

	return dist.New(vals, probs)
}

func cycleDist(probs []float64) (*dist.Discrete, error) {
	vals := make([]int, len(probs))
	for i := range vals {
		vals[i] = i
	}

	return dist.New(vals, probs)
}

// Post-hoc assertion that a mutation-count vector is a probability
// distribution. A failure indicates a configuration or logic defect,
// not a transient condition.
func checkProbVector(probs []float64) error {
	sum := 0.0
	for i, p := range probs {
		if p < 0 {
			return fmt.Errorf("%w: negative probability %v at %d", dist.ErrInvalidDistribution, p, i)
		}

		sum += p
	}

	if math.Abs(sum-1) > probTolerance {
		return fmt.Errorf("%w: probabilities sum to %v", dist.ErrInvalidDistribution, sum)
	}

	return nil
}
