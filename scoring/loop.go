package scoring

import (
	"aptasim/oligo"
)

// loop scores a candidate by the edit distance between its first
// hairpin loop region and the target's. Loop regions are where most of
// an aptamer's binding contacts live, so similarity there matters more
// than whole-sequence similarity.
type loop struct {
	targetLoop string
	seqLen     int
	folder     Folder
}

func newLoop(t Target) Scorer {
	return &loop{targetLoop: t.Loop, seqLen: t.SeqLen, folder: t.Folder}
}

func (s *loop) Name() string {
	return "loop"
}

func (s *loop) Distance(seq string) float64 {
	st, err := s.folder.Fold(seq)
	if err != nil {
		return float64(s.seqLen)
	}

	return float64(oligo.Levenshtein(s.targetLoop, FindLoop(seq, st, s.seqLen)))
}
