// Package aptamer implements the bijective mapping between fixed-length
// aptamer sequence strings and their integer ids.
//
// The id of a sequence is its value as a base-4 number, with the
// nucleotide at position 0 being the most significant digit:
//
//	id = sum nt[pos] * 4^(L-1-pos)
//
// The encoding is a fixed-radix positional code, so substituting the
// nucleotide at one position shifts the id by an additive offset:
//
//	id' = id + (nt'-nt) * 4^(L-1-pos)
//
// The mutation engine's bulk path relies on that property.
package aptamer

import (
	"errors"
	"fmt"

	"aptasim/oligo"
)

var ErrInvalidParameter = errors.New("invalid parameter")

// MaxSeqLen is the longest supported sequence. Ids must fit in an int64
// even after a signed substitution offset is applied, so the limit is
// 31 nts (4^31 < 2^63) rather than the 32 a uint64 could hold.
const MaxSeqLen = 31

type Codec struct {
	seqLen int
	maxID  uint64
}

// Creates a codec for sequences of the specified length
func New(seqLen int) (c *Codec, err error) {
	if seqLen < 1 || seqLen > MaxSeqLen {
		return nil, fmt.Errorf("%w: sequence length %d must be between 1 and %d", ErrInvalidParameter, seqLen, MaxSeqLen)
	}

	c = new(Codec)
	c.seqLen = seqLen
	c.maxID = uint64(1)<<(2*seqLen) - 1

	return
}

// Length of the sequences the codec encodes
func (c *Codec) SeqLen() int {
	return c.seqLen
}

// The nucleotide alphabet, ordered by digit value
func (c *Codec) Alphabet() string {
	return oligo.Alphabet
}

func (c *Codec) AlphabetSize() int {
	return oligo.AlphabetSize
}

// The largest valid sequence id (the id of "GGG...GG")
func (c *Codec) MaxID() uint64 {
	return c.maxID
}

// Converts a sequence string to its id.
// Returns an error if the sequence has the wrong length or contains
// symbols outside the alphabet.
func (c *Codec) Encode(seq string) (id uint64, err error) {
	if len(seq) != c.seqLen {
		return 0, fmt.Errorf("invalid sequence length: got %d expected %d", len(seq), c.seqLen)
	}

	for i := 0; i < len(seq); i++ {
		nt := oligo.String2Nt(string(seq[i]))
		if nt < 0 {
			return 0, fmt.Errorf("invalid symbol %q at position %d", seq[i], i)
		}

		id = id<<2 | uint64(nt)
	}

	return
}

// Converts an id back to its sequence string
func (c *Codec) Decode(id uint64) (seq string, err error) {
	if id > c.maxID {
		return "", fmt.Errorf("id %d out of range: max is %d", id, c.maxID)
	}

	buf := make([]byte, c.seqLen)
	for i := c.seqLen - 1; i >= 0; i-- {
		buf[i] = oligo.Alphabet[id&0x3]
		id >>= 2
	}

	return string(buf), nil
}

// Returns the per-position nucleotide values of the sequence with the
// specified id
func (c *Codec) SeqArray(id uint64) (nts []int, err error) {
	if id > c.maxID {
		return nil, fmt.Errorf("id %d out of range: max is %d", id, c.maxID)
	}

	nts = make([]int, c.seqLen)
	for i := c.seqLen - 1; i >= 0; i-- {
		nts[i] = int(id & 0x3)
		id >>= 2
	}

	return
}

// Returns the id of the sequence that differs from the sequence with
// the specified id only at position pos, where it has the nucleotide nt.
// The computation is pure offset arithmetic and never materializes the
// sequence string.
func (c *Codec) Substitute(id uint64, pos, nt int) (uint64, error) {
	if id > c.maxID {
		return 0, fmt.Errorf("id %d out of range: max is %d", id, c.maxID)
	}

	if pos < 0 || pos >= c.seqLen {
		return 0, fmt.Errorf("position %d out of range: sequence length is %d", pos, c.seqLen)
	}

	if nt < 0 || nt >= oligo.AlphabetSize {
		return 0, fmt.Errorf("invalid nucleotide value %d", nt)
	}

	shift := uint(2 * (c.seqLen - pos - 1))
	old := int(id >> shift & 0x3)

	return uint64(int64(id) + int64(nt-old)<<shift), nil
}
