// The oligo package defines the nucleotide alphabet and distance
// functions over sequence strings
package oligo

const (
	A = 0
	T = 1
	C = 2
	G = 3
)

// Alphabet lists the nucleotides in the order of their numeric values.
// The order defines the digit values of the fixed-radix sequence ids
// (package aptamer), so it must not change.
const Alphabet = "ATCG"

// Number of nucleotides in the alphabet
const AlphabetSize = len(Alphabet)

// Converts a numeric value of a nucleotide (nt) to its string value
func Nt2String(nt int) string {
	if nt < 0 || nt >= len(Alphabet) {
		return "?"
	}

	return string(Alphabet[nt])
}

// Converts string value of a nt to its numeric value
func String2Nt(nt string) int {
	switch nt {
	default:
		return -1
	case "A":
		return A
	case "T":
		return T
	case "C":
		return C
	case "G":
		return G
	}
}

// Returns true if every symbol of the sequence belongs to the alphabet
func Valid(seq string) bool {
	for i := 0; i < len(seq); i++ {
		if String2Nt(string(seq[i])) < 0 {
			return false
		}
	}

	return true
}

// Hamming distance between two sequences of the same length.
// If the lengths differ, the extra symbols of the longer sequence
// all count as mismatches.
func Hamming(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	d := len(b) - len(a)
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			d++
		}
	}

	return d
}

// Implements Levenshtein distance
func Levenshtein(a, b string) int {
	f := make([]int, len(b)+1)

	for j := range f {
		f[j] = j
	}

	for n := 0; n < len(a); n++ {
		ca := a[n]
		j := 1
		fj1 := f[0] // fj1 is the value of f[j - 1] in last iteration
		f[0]++
		for m := 0; m < len(b); m++ {
			cb := b[m]
			mn := min(f[j]+1, f[j-1]+1) // delete & insert
			if cb != ca {
				mn = min(mn, fj1+1) // change
			} else {
				mn = min(mn, fj1) // matched
			}

			fj1, f[j] = f[j], mn // save f[j] to fj1(j is about to increase), update f[j] to mn
			j++
		}
	}

	return f[len(f)-1]
}

func min(a, b int) int {
	if a <= b {
		return a
	}

	return b
}
