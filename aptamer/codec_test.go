package aptamer

import (
	"errors"
	"math/rand"
	"testing"

	"aptasim/oligo"
)

func TestNew(t *testing.T) {
	for _, n := range []int{0, -1, MaxSeqLen + 1} {
		if _, err := New(n); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("New(%d): got %v", n, err)
		}
	}

	c, err := New(5)
	if err != nil {
		t.Fatal(err)
	}

	if c.MaxID() != 1023 {
		t.Fatalf("bad max id: got %d expected 1023", c.MaxID())
	}
}

// decode(encode(s)) == s for every sequence of length 5
func TestRoundtrip(t *testing.T) {
	c, err := New(5)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 5)
	for id := uint64(0); id <= c.MaxID(); id++ {
		// build the expected string digit by digit
		v := id
		for i := 4; i >= 0; i-- {
			buf[i] = oligo.Alphabet[v&0x3]
			v >>= 2
		}

		seq, err := c.Decode(id)
		if err != nil {
			t.Fatal(err)
		}

		if seq != string(buf) {
			t.Fatalf("id %d: decoded %q expected %q", id, seq, buf)
		}

		eid, err := c.Encode(seq)
		if err != nil {
			t.Fatal(err)
		}

		if eid != id {
			t.Fatalf("roundtrip failed for %q: got %d expected %d", seq, eid, id)
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	c, _ := New(5)

	if _, err := c.Encode("ATCG"); err == nil {
		t.Errorf("wrong length should fail")
	}

	if _, err := c.Encode("ATCGU"); err == nil {
		t.Errorf("invalid symbol should fail")
	}

	if _, err := c.Decode(c.MaxID() + 1); err == nil {
		t.Errorf("out-of-range id should fail")
	}
}

func TestSeqArray(t *testing.T) {
	c, _ := New(4)

	id, err := c.Encode("GTCA")
	if err != nil {
		t.Fatal(err)
	}

	nts, err := c.SeqArray(id)
	if err != nil {
		t.Fatal(err)
	}

	expected := []int{oligo.G, oligo.T, oligo.C, oligo.A}
	for i, nt := range nts {
		if nt != expected[i] {
			t.Fatalf("position %d: got %d expected %d", i, nt, expected[i])
		}
	}
}

// The fixed-radix property the bulk mutation path relies on: the id
// produced by offset arithmetic matches encoding the manually mutated
// string.
func TestSubstitute(t *testing.T) {
	c, _ := New(8)
	r := rand.New(rand.NewSource(1))

	for n := 0; n < 1000; n++ {
		id := uint64(r.Int63n(int64(c.MaxID() + 1)))
		pos := r.Intn(8)
		nt := r.Intn(oligo.AlphabetSize)

		sid, err := c.Substitute(id, pos, nt)
		if err != nil {
			t.Fatal(err)
		}

		seq, err := c.Decode(id)
		if err != nil {
			t.Fatal(err)
		}

		mut := seq[:pos] + oligo.Nt2String(nt) + seq[pos+1:]
		eid, err := c.Encode(mut)
		if err != nil {
			t.Fatal(err)
		}

		if sid != eid {
			t.Fatalf("substitute mismatch: id %d pos %d nt %d: got %d expected %d", id, pos, nt, sid, eid)
		}
	}
}
