// Package scoring defines the distance strategies used to score mutant
// aptamers against the target, and the amplification bias score.
// Strategies are registered by name and selected once per engine.
package scoring

import (
	"errors"
	"fmt"

	"github.com/TimothyStiles/poly/checks"

	"aptasim/oligo"
)

var ErrUnknownStrategy = errors.New("unknown distance strategy")

// Largest magnitude of the bias score. Keeps yield+bias comfortably
// below the binomial probability cap for any valid yield.
const biasMax = 0.05

// Scorer computes the distance of a candidate sequence to the target
// under one particular strategy.
type Scorer interface {
	// Name of the strategy the scorer implements
	Name() string

	// Distance of the candidate to the target
	Distance(seq string) float64
}

// Target holds the precomputed views of the target aptamer a scorer
// may need. Structure and loop are filled in only for strategies that
// declare they use them.
type Target struct {
	Seq    string
	Struct string
	Loop   string
	SeqLen int
	Folder Folder
}

type builder struct {
	needsFold bool
	needsLoop bool
	mk        func(t Target) Scorer
}

var builders map[string]builder

func register(name string, needsFold, needsLoop bool, mk func(t Target) Scorer) {
	if builders == nil {
		builders = make(map[string]builder)
	}

	if _, found := builders[name]; found {
		panic(fmt.Sprintf("strategy '%s' already registered", name))
	}

	builders[name] = builder{needsFold, needsLoop, mk}
}

// Names returns the registered strategy names
func Names() (names []string) {
	for n := range builders {
		names = append(names, n)
	}

	return
}

// Creates the scorer with the specified name for the specified target.
// The target is folded (and its loop located) only if the strategy
// needs it, so strategies like hamming never touch the folder.
func New(name, target string, seqLen int, f Folder) (s Scorer, err error) {
	b, found := builders[name]
	if !found {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownStrategy, name)
	}

	if len(target) != seqLen || !oligo.Valid(target) {
		return nil, fmt.Errorf("invalid target aptamer '%s' for length %d", target, seqLen)
	}

	t := Target{Seq: target, SeqLen: seqLen, Folder: f}
	if b.needsFold {
		if f == nil {
			return nil, fmt.Errorf("strategy '%s' requires a folder", name)
		}

		t.Struct, err = f.Fold(target)
		if err != nil {
			return nil, fmt.Errorf("folding target: %w", err)
		}
	}

	if b.needsLoop {
		t.Loop = FindLoop(target, t.Struct, seqLen)
	}

	return b.mk(t), nil
}

// Bias computes the amplification bias of a sequence from its GC
// content: GC-rich sequences amplify slightly better, AT-rich slightly
// worse. The result is in [-biasMax, biasMax] and is added to the
// polymerase yield when drawing amplification counts.
func Bias(seq string, seqLen int) float64 {
	if seqLen <= 0 || len(seq) != seqLen {
		return 0
	}

	return biasMax * (2*checks.GcContent(seq) - 1)
}

func init() {
	register("hamming", false, false, newHamming)
	register("random", false, false, newRandom)
	register("basepair", true, false, newBasepair)
	register("loop", true, true, newLoop)
}
