package scoring

// random is the no-distance strategy: every candidate scores zero, so
// selection is unbiased with respect to the target.
type random struct{}

func newRandom(t Target) Scorer {
	return random{}
}

func (random) Name() string {
	return "random"
}

func (random) Distance(seq string) float64 {
	return 0
}
