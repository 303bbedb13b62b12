// Package pool implements the amplified sequence pool: a mapping from
// sequence id to copy count plus the scores computed when the sequence
// first appeared.
package pool

import (
	"sort"
)

// Entry is the per-sequence record. Count is kept as a float64 because
// the bulk amplification path adds fractional expected contributions;
// it is interpreted as an integer copy count. Dist and Bias are
// computed once, when the entry is created, and never change.
type Entry struct {
	Count float64
	Dist  float64
	Bias  float64
}

type Pool struct {
	entries map[uint64]*Entry
}

func New() *Pool {
	p := new(Pool)
	p.entries = make(map[uint64]*Entry)

	return p
}

// Number of unique sequences in the pool
func (p *Pool) Len() int {
	return len(p.entries)
}

// Returns the entry for the specified id, nil if not present
func (p *Pool) Lookup(id uint64) *Entry {
	return p.entries[id]
}

// Adds an entry for the specified id if none exists yet, otherwise
// leaves the existing entry (and its scores) untouched.
// Returns the entry and whether it was created by this call.
// This is the only way entries enter the pool, so distance and bias
// scores are never recomputed for a known id.
func (p *Pool) InsertIfAbsent(id uint64, dist, bias float64) (e *Entry, created bool) {
	if e = p.entries[id]; e != nil {
		return e, false
	}

	e = &Entry{0, dist, bias}
	p.entries[id] = e

	return e, true
}

// Sets the copy count of an existing or new entry. Used when seeding a
// pool; rounds go through InsertIfAbsent and direct Count updates.
func (p *Pool) SetCount(id uint64, count, dist, bias float64) {
	e, _ := p.InsertIfAbsent(id, dist, bias)
	e.Count = count
}

// Returns the sequence ids in ascending order. Rounds iterate the pool
// in this order so that runs are reproducible for a fixed seed.
func (p *Pool) IDs() (ids []uint64) {
	ids = make([]uint64, 0, len(p.entries))
	for id := range p.entries {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return
}

// Total copy count and number of unique sequences in the pool
func (p *Pool) Total() (copies float64, unique int) {
	for _, e := range p.entries {
		copies += e.Count
		unique++
	}

	return
}

// Zeroes every negative copy count. Counts may dip below zero while a
// round subtracts wild-type depletion event by event; the engine calls
// this once at round end.
func (p *Pool) ClampNonNegative() (clamped int) {
	for _, e := range p.entries {
		if e.Count < 0 {
			e.Count = 0
			clamped++
		}
	}

	return
}
