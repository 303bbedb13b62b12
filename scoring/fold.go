package scoring

import (
	"github.com/TimothyStiles/poly/fold"
)

// Folder predicts the secondary structure of a sequence, returned in
// dot-bracket notation. Folding is a black box to the rest of the
// system; tests substitute their own implementations.
type Folder interface {
	Fold(seq string) (string, error)
}

// Folding temperature used when none is specified, in Celsius
const DefaultFoldTemp = 37.0

// ZukerFolder folds sequences with the Zuker minimum-free-energy
// algorithm from the poly library.
type ZukerFolder struct {
	// Folding temperature in Celsius
	Temp float64
}

func NewFolder() *ZukerFolder {
	return &ZukerFolder{Temp: DefaultFoldTemp}
}

func (f *ZukerFolder) Fold(seq string) (string, error) {
	res, err := fold.Zuker(seq, f.Temp)
	if err != nil {
		return "", err
	}

	return res.DotBracket(), nil
}

// FindLoop locates the first hairpin loop of the structure: the
// longest run of unpaired positions directly enclosed by a paired
// ('(' ... ')') pair. Returns the corresponding sequence region, or
// the whole sequence if the structure has no loop.
func FindLoop(seq, structure string, seqLen int) string {
	if len(seq) != seqLen || len(structure) != seqLen {
		return seq
	}

	best, blen := -1, 0
	start := -1
	for i := 0; i < len(structure); i++ {
		switch structure[i] {
		case '.':
			if start < 0 {
				start = i
			}

		default:
			if start > 0 && structure[start-1] == '(' && structure[i] == ')' {
				if i-start > blen {
					best, blen = start, i-start
				}
			}

			start = -1
		}
	}

	if best < 0 {
		return seq
	}

	return seq[best : best+blen]
}
