package mutation

import (
	"fmt"
	"math"
	"sort"

	"aptasim/dist"
	"aptasim/pool"
	"aptasim/scoring"
)

// MutatedPool holds, for each wild-type sequence id, the number of its
// copies that receive exactly m point mutations this round: freqs[m]
// is the frequency for mutation count m, freqs[0] is ignored.
type MutatedPool map[uint64][]float64

// Round runs the legacy, exact mode: the caller decides how many
// copies of each wild type mutate (typically by sampling the PCR-aware
// mutation distribution) and the engine carries out the mutations and
// the amplification bookkeeping. Cycle probabilities are derived from
// a simulated population trajectory; net wild-type amplification is
// left to the caller, only mutation depletion is applied here.
//
// If processing fails partway, the pool is left partially updated;
// snapshot it first if isolation matters.
func (e *Engine) Round(p *pool.Pool, mutated MutatedPool) (err error) {
	ids := make([]uint64, 0, len(mutated))
	for id := range mutated {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for si, id := range ids {
		wt := p.Lookup(id)
		if wt == nil {
			return fmt.Errorf("sequence id %d is not in the pool", id)
		}

		if wt.Count <= 0 {
			continue
		}

		pop, _ := e.simulateTrajectory(wt.Count, wt.Bias)
		cycleProbs, err := e.CycleProbs(pop)
		if err != nil {
			return err
		}

		if err = e.applyMutations(p, id, cycleProbs, mutated[id]); err != nil {
			return err
		}

		e.progress(si, len(ids))
	}

	p.ClampNonNegative()
	e.log.Info("mutation round complete")

	return nil
}

// RoundAll runs the trajectory mode over the whole pool: for every
// sequence the engine simulates the per-cycle population trajectory,
// writes back the amplified count, derives the mutation-count
// frequencies itself and then applies the mutations. Frequencies come
// from per-copy Poisson draws while the accumulated population is at
// most the bulk threshold, and from the expectation vector above it.
//
// Every trajectory starts from the sequence's count as of round start:
// mutant gains deposited into an entry earlier in the same round never
// feed that entry's own amplification.
func (e *Engine) RoundAll(p *pool.Pool) (err error) {
	L := e.cfg.SeqLen
	poissonProbs := e.PoissonProbs()
	if err = checkProbVector(poissonProbs); err != nil {
		return err
	}

	// snapshot ids and prior counts before anything is updated
	ids := p.IDs()
	counts := make([]float64, len(ids))
	for i, id := range ids {
		counts[i] = p.Lookup(id).Count
	}

	for si, id := range ids {
		if counts[si] <= 0 {
			continue
		}

		wt := p.Lookup(id)
		pop, final := e.simulateTrajectory(counts[si], wt.Bias)
		wt.Count = final

		total := 0.0
		for _, c := range pop {
			total += c
		}

		cycleProbs, err := e.CycleProbs(pop)
		if err != nil {
			return err
		}

		freqs := make([]float64, L+1)
		if total > e.cfg.BulkThreshold {
			// approximate the mutated fraction per mutation
			// count with its probability mass
			for m := 1; m <= L; m++ {
				freqs[m] = poissonProbs[m] * total
			}
		} else {
			// draw a mutation count for every copy
			lambda := e.cfg.ErrRate * float64(L)
			for i := 0.0; i < total; i++ {
				if m := e.rng.Poisson(lambda); m > 0 && m <= L {
					freqs[m]++
				}
			}
		}

		if err = e.applyMutations(p, id, cycleProbs, freqs); err != nil {
			return err
		}

		e.progress(si, len(ids))
	}

	p.ClampNonNegative()
	e.log.Info("mutation round complete")

	return nil
}

// Simulates the population trajectory of a sequence across the PCR
// cycles: each copy independently duplicates per cycle with
// probability yield+bias (capped). Returns the population present at
// the start of each cycle and the final amplified count.
func (e *Engine) simulateTrajectory(count, bias float64) (pop []float64, final float64) {
	pr := math.Min(yieldCap, e.cfg.Yield+bias)

	pop = make([]float64, e.cfg.CycleNum)
	final = math.Trunc(count)
	for n := range pop {
		pop[n] = final
		final += e.rng.Binomial(final, pr)
	}

	return
}

// Carries out the mutation events of one wild-type sequence and the
// amplification updates they imply, routing each mutation-count
// frequency to the per-copy or the bulk path.
func (e *Engine) applyMutations(p *pool.Pool, wtID uint64, cycleProbs []float64, freqs []float64) (err error) {
	var cdist *dist.Discrete
	var wtSeq string

	for m := 1; m < len(freqs) && m <= e.cfg.SeqLen; m++ {
		f := math.Trunc(freqs[m])
		if f <= 0 {
			continue
		}

		if e.bulk(f) {
			if err = e.bulkMutate(p, wtID, cycleProbs, f); err != nil {
				return
			}

			continue
		}

		// the per-copy path needs the wild-type string and a
		// sampleable cycle distribution; build them on first use
		if cdist == nil {
			if cdist, err = cycleDist(cycleProbs); err != nil {
				return
			}

			if wtSeq, err = e.codec.Decode(wtID); err != nil {
				return
			}
		}

		if err = e.fineMutate(p, wtID, wtSeq, cdist, int(f), m); err != nil {
			return
		}
	}

	return nil
}

// The per-copy path: for each of freq copies, draw the cycle at which
// the copy is selected for mutation, place m random substitutions, and
// run the binomial branching forward from that cycle for both the new
// mutant lineage and the wild-type copy it consumed.
func (e *Engine) fineMutate(p *pool.Pool, wtID uint64, wtSeq string, cdist *dist.Discrete, freq, m int) error {
	L := e.cfg.SeqLen
	wt := p.Lookup(wtID)
	alphabet := e.codec.Alphabet()

	buf := make([]byte, L)
	for i := 0; i < freq; i++ {
		cycle := cdist.Sample(e.rng.Rand)

		copy(buf, wtSeq)
		for j := 0; j < m; j++ {
			buf[e.rng.Intn(L)] = alphabet[e.rng.Intn(len(alphabet))]
		}

		mutSeq := string(buf)
		id, err := e.codec.Encode(mutSeq)
		if err != nil {
			return err
		}

		me := p.Lookup(id)
		if me == nil {
			me, _ = p.InsertIfAbsent(id, e.scorer.Distance(mutSeq), scoring.Bias(mutSeq, L))
		}

		cycles := e.cfg.CycleNum - cycle
		gain := e.amplify(1, math.Min(yieldCap, e.cfg.Yield+me.Bias), cycles)
		loss := e.amplify(1, math.Min(yieldCap, e.cfg.Yield+wt.Bias), cycles)

		me.Count += gain
		wt.Count -= loss
	}

	return nil
}

// The bulk path: no per-copy randomness. Only single-point variants
// are modeled, one substitution at each position to each alternate
// nucleotide, each receiving an equal share of the mutated copies.
// Mutant ids come from fixed-radix offset arithmetic, and every cycle
// contributes its expected forward-amplified count.
func (e *Engine) bulkMutate(p *pool.Pool, wtID uint64, cycleProbs []float64, freq float64) error {
	L := e.cfg.SeqLen
	N := e.cfg.CycleNum
	y := e.cfg.Yield
	wt := p.Lookup(wtID)

	initial := math.Floor(bulkSingleMutFrac * freq / float64(L))
	seqArr, err := e.codec.SeqArray(wtID)
	if err != nil {
		return err
	}

	for pos := 0; pos < L; pos++ {
		for nt := 0; nt < e.codec.AlphabetSize(); nt++ {
			if nt == seqArr[pos] {
				continue
			}

			id, err := e.codec.Substitute(wtID, pos, nt)
			if err != nil {
				return err
			}

			me := p.Lookup(id)
			if me == nil {
				seq, err := e.codec.Decode(id)
				if err != nil {
					return err
				}

				me, _ = p.InsertIfAbsent(id, e.scorer.Distance(seq), scoring.Bias(seq, L))
			}

			for cyc, cp := range cycleProbs {
				x := math.Trunc(cp * initial * math.Pow(1+y, float64(N-cyc)))
				me.Count += x
				wt.Count -= x
			}
		}
	}

	return nil
}

// Runs the binomial branching process forward: starting from count
// copies, each cycle every copy duplicates with probability pr.
func (e *Engine) amplify(count, pr float64, cycles int) float64 {
	for n := 0; n < cycles; n++ {
		count += e.rng.Binomial(count, pr)
	}

	return count
}

// Every 5% of processed wild types, report how far the round has come
func (e *Engine) progress(si, total int) {
	step := total / 20
	if step == 0 || si%step == 0 {
		e.log.Infof("mutated %6.2f%%", 100*float64(si)/float64(total))
	}
}
