package dist

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("empty input: got %v", err)
	}

	if _, err := New([]int{0, 1}, []float64{1}); !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("length mismatch: got %v", err)
	}

	if _, err := New([]int{0, 1}, []float64{1, -1}); !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("negative weight: got %v", err)
	}

	if _, err := New([]int{0, 1}, []float64{0, 0}); !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("zero sum: got %v", err)
	}
}

func TestProb(t *testing.T) {
	d, err := New([]int{2, 4, 6}, []float64{1, 1, 2})
	if err != nil {
		t.Fatal(err)
	}

	if p := d.Prob(2); p != 0.25 {
		t.Errorf("Prob(2): got %v expected 0.25", p)
	}

	if p := d.Prob(6); p != 0.5 {
		t.Errorf("Prob(6): got %v expected 0.5", p)
	}

	if p := d.Prob(5); p != 0 {
		t.Errorf("Prob(5): got %v expected 0", p)
	}
}

// Uniform weights over four cycle indices: each index is drawn with
// probability 0.25 within sampling tolerance.
func TestSampleUniform(t *testing.T) {
	d, err := New([]int{0, 1, 2, 3}, []float64{1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}

	r := rand.New(rand.NewSource(42))
	const n = 400000

	counts := make(map[int]int)
	for _, v := range d.SampleN(r, n) {
		counts[v]++
	}

	for v := 0; v < 4; v++ {
		got := float64(counts[v]) / n
		if math.Abs(got-0.25) > 0.005 {
			t.Errorf("value %d: frequency %v too far from 0.25", v, got)
		}
	}
}

func TestSampleDeterminism(t *testing.T) {
	d, _ := New([]int{0, 1, 2}, []float64{1, 2, 3})

	a := d.SampleN(rand.New(rand.NewSource(7)), 100)
	b := d.SampleN(rand.New(rand.NewSource(7)), 100)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different draws at %d", i)
		}
	}
}

func TestProbabilities(t *testing.T) {
	probs, err := Probabilities([]float64{1, 3})
	if err != nil {
		t.Fatal(err)
	}

	if probs[0] != 0.25 || probs[1] != 0.75 {
		t.Errorf("got %v expected [0.25 0.75]", probs)
	}

	if _, err = Probabilities([]float64{0, 0, 0}); !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("all-zero input: got %v", err)
	}
}

func TestBinomialMean(t *testing.T) {
	tests := []struct {
		n float64
		p float64
	}{
		{100, 0.5},   // exact regime
		{50000, 0.3}, // normal approximation regime
	}

	r := NewRand(1)
	for _, tc := range tests {
		const iter = 2000
		sum := 0.0
		for i := 0; i < iter; i++ {
			k := r.Binomial(tc.n, tc.p)
			if k < 0 || k > tc.n {
				t.Fatalf("Binomial(%v, %v) out of range: %v", tc.n, tc.p, k)
			}

			sum += k
		}

		mean := sum / iter
		want := tc.n * tc.p
		sd := math.Sqrt(tc.n * tc.p * (1 - tc.p))
		if math.Abs(mean-want) > 5*sd/math.Sqrt(iter) {
			t.Errorf("Binomial(%v, %v): mean %v too far from %v", tc.n, tc.p, mean, want)
		}
	}
}

func TestBinomialEdge(t *testing.T) {
	r := NewRand(1)

	if k := r.Binomial(0, 0.5); k != 0 {
		t.Errorf("n=0: got %v", k)
	}

	if k := r.Binomial(100, 0); k != 0 {
		t.Errorf("p=0: got %v", k)
	}

	if k := r.Binomial(100, 1); k != 100 {
		t.Errorf("p=1: got %v", k)
	}
}

func TestPoissonMean(t *testing.T) {
	r := NewRand(3)
	lambda := 0.25

	const iter = 200000
	sum := 0
	for i := 0; i < iter; i++ {
		sum += r.Poisson(lambda)
	}

	mean := float64(sum) / iter
	if math.Abs(mean-lambda) > 0.01 {
		t.Errorf("Poisson(%v): mean %v", lambda, mean)
	}
}
