package scoring

import (
	"aptasim/oligo"
)

// hamming scores a candidate by the number of positions where it
// differs from the target aptamer.
type hamming struct {
	target string
}

func newHamming(t Target) Scorer {
	return &hamming{t.Seq}
}

func (s *hamming) Name() string {
	return "hamming"
}

func (s *hamming) Distance(seq string) float64 {
	return float64(oligo.Hamming(s.target, seq))
}
