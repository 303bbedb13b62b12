package scoring

import (
	"aptasim/oligo"
)

// basepair scores a candidate by comparing its predicted secondary
// structure against the target's, position by position.
type basepair struct {
	targetStruct string
	folder       Folder
}

func newBasepair(t Target) Scorer {
	return &basepair{targetStruct: t.Struct, folder: t.Folder}
}

func (s *basepair) Name() string {
	return "basepair"
}

func (s *basepair) Distance(seq string) float64 {
	st, err := s.folder.Fold(seq)
	if err != nil {
		// an unfoldable candidate has nothing in common with the target
		return float64(len(s.targetStruct))
	}

	return float64(oligo.Hamming(s.targetStruct, st))
}
