// Package mutation implements the mutation/amplification engine: it
// models how many point mutations each copy of a sequence accumulates
// across PCR cycles, and propagates mutant and wild-type copy counts
// through the binomial branching process of amplification.
package mutation

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"aptasim/aptamer"
	"aptasim/dist"
	"aptasim/scoring"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrCodecMismatch    = errors.New("codec mismatch")
)

// DefaultBulkThreshold is the copy-count magnitude at which the engine
// stops simulating mutation events one by one and switches to the bulk
// expectation update. Below it per-copy sampling is both fast enough
// and more accurate; above it the deterministic approximation wins.
const DefaultBulkThreshold = 10000

// Per-trial success probability is capped strictly below 1 so the
// binomial draw stays well-defined when yield+bias gets large.
const yieldCap = 0.99999

// Fraction of a bulk mutation frequency attributed to single-point
// variants, which the bulk path enumerates exhaustively as a proxy for
// higher-order mutants.
const bulkSingleMutFrac = 0.333

type Config struct {
	// Sequence length L
	SeqLen int

	// Number of PCR cycles N per amplification round
	CycleNum int

	// Per-base per-cycle polymerase error rate
	ErrRate float64

	// Polymerase yield: probability that a copy duplicates in one
	// cycle, before the per-sequence bias is added
	Yield float64

	// Distance strategy name ("hamming", "random", "basepair", "loop")
	Strategy string

	// Seed for the random source; 0 seeds from the clock
	Seed int64

	// Copy-count threshold selecting the bulk path; 0 means
	// DefaultBulkThreshold
	BulkThreshold float64
}

type Engine struct {
	cfg    Config
	codec  *aptamer.Codec
	scorer scoring.Scorer
	rng    *dist.Rand
	log    logrus.FieldLogger
}

// Creates an engine for the specified target aptamer. All parameter
// and strategy validation happens here; a constructed engine does not
// fail on configuration during a round.
func New(cfg Config, codec *aptamer.Codec, target string, folder scoring.Folder) (e *Engine, err error) {
	if cfg.SeqLen < 1 {
		return nil, fmt.Errorf("%w: sequence length %d", ErrInvalidParameter, cfg.SeqLen)
	}

	if cfg.CycleNum < 1 {
		return nil, fmt.Errorf("%w: cycle count %d", ErrInvalidParameter, cfg.CycleNum)
	}

	if cfg.ErrRate <= 0 || cfg.ErrRate >= 1 {
		return nil, fmt.Errorf("%w: error rate %v", ErrInvalidParameter, cfg.ErrRate)
	}

	if cfg.Yield < 0 || cfg.Yield >= 1 {
		return nil, fmt.Errorf("%w: yield %v", ErrInvalidParameter, cfg.Yield)
	}

	if cfg.BulkThreshold == 0 {
		cfg.BulkThreshold = DefaultBulkThreshold
	} else if cfg.BulkThreshold < 1 {
		return nil, fmt.Errorf("%w: bulk threshold %v", ErrInvalidParameter, cfg.BulkThreshold)
	}

	if codec == nil {
		return nil, fmt.Errorf("%w: nil codec", ErrInvalidParameter)
	}

	if codec.SeqLen() != cfg.SeqLen {
		return nil, fmt.Errorf("%w: codec length %d, configured length %d", ErrCodecMismatch, codec.SeqLen(), cfg.SeqLen)
	}

	scorer, err := scoring.New(cfg.Strategy, target, cfg.SeqLen, folder)
	if err != nil {
		return nil, err
	}

	e = new(Engine)
	e.cfg = cfg
	e.codec = codec
	e.scorer = scorer
	e.rng = dist.NewRand(cfg.Seed)
	e.log = logrus.StandardLogger()

	return
}

// Replaces the progress logger
func (e *Engine) SetLogger(l logrus.FieldLogger) {
	e.log = l
}

// The distance strategy the engine scores new mutants with
func (e *Engine) Scorer() scoring.Scorer {
	return e.scorer
}

// Reports whether a mutation frequency is handled by the bulk
// expectation path rather than per-copy sampling
func (e *Engine) bulk(freq float64) bool {
	return freq >= e.cfg.BulkThreshold
}
