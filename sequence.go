package pimalign

import (
	"fmt"
)

// MaxSequenceLength is the longest nucleotide sequence the kernel will
// accept in one pair. Longer sequences are a batch-precondition
// violation (spec.md section 7): NewSequence rejects them with a
// BatchPreconditionError, so they never reach the balancer.
const MaxSequenceLength = 80000

// MaxSetSize is the largest number of sequences a single Set may hold;
// set_sizes is transferred to a tile as a single byte per set.
const MaxSetSize = 255

// Sequence is a DNA sequence over {A,C,G,T}, case-insensitive. Residues
// are kept as raw ASCII; 2-bit encoding happens only at tile-transfer
// time (see EncodeSequence).
type Sequence struct {
	Name  string
	Bases []byte
}

// NewSequence upper-cases and validates bases, rejecting anything
// outside the DNA alphabet.
func NewSequence(name string, bases []byte) (Sequence, error) {
	if len(bases) == 0 {
		return Sequence{}, fmt.Errorf("pimalign: sequence %q is empty", name)
	}
	if len(bases) > MaxSequenceLength {
		return Sequence{}, NewBatchPreconditionError(
			"sequence %q has length %d, exceeds max %d",
			name, len(bases), MaxSequenceLength)
	}
	up := make([]byte, len(bases))
	for i, b := range bases {
		switch b {
		case 'a', 'A':
			up[i] = 'A'
		case 'c', 'C':
			up[i] = 'C'
		case 'g', 'G':
			up[i] = 'G'
		case 't', 'T':
			up[i] = 'T'
		default:
			return Sequence{}, fmt.Errorf(
				"pimalign: sequence %q has non-DNA residue %q at offset %d",
				name, string(b), i)
		}
	}
	return Sequence{Name: name, Bases: up}, nil
}

// Len returns the number of nucleotides in the sequence.
func (s Sequence) Len() int { return len(s.Bases) }

func (s Sequence) String() string {
	return fmt.Sprintf("%s (%d nt)", s.Name, len(s.Bases))
}

// Set is an ordered list of sequences that are compared all-vs-all.
type Set []Sequence

// Validate checks the set-size invariant from the data model (section 3).
func (s Set) Validate() error {
	if len(s) > MaxSetSize {
		return NewBatchPreconditionError("set has %d sequences, exceeds max %d", len(s), MaxSetSize)
	}
	return nil
}

// Pairs returns the number of unique pairs in an all-vs-all comparison
// of the set: n*(n-1)/2.
func (s Set) Pairs() int {
	n := len(s)
	return n * (n - 1) / 2
}

// ComputeLoad approximates the total band-step cost of aligning every
// pair in the set: sum(|a|+|b|-1) over all unordered pairs. This is the
// cost model the host load balancer sorts and bin-packs on (section 4.3).
func (s Set) ComputeLoad() int {
	load := 0
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			load += s[i].Len() + s[j].Len() - 1
		}
	}
	return load
}

// nucleotide 2-bit codes, A=0 C=1 T=2 G=3 per spec.md section 4.1.
const (
	codeA = 0
	codeC = 1
	codeT = 2
	codeG = 3
)

// padA is the out-of-bounds sentinel on sequence A's side of the band;
// padB is the sentinel on sequence B's side. They are distinct values
// that cannot equal each other or any valid nucleotide code so that a
// padded cell never spuriously matches.
const (
	padA byte = 0xFE
	padB byte = 0xFD
)

func encodeBase(b byte) byte {
	switch b {
	case 'A':
		return codeA
	case 'C':
		return codeC
	case 'T':
		return codeT
	case 'G':
		return codeG
	}
	panic(fmt.Sprintf("pimalign: invalid base %q", string(b)))
}

// wireLetters is the inverse table of encodeBase, A=0 C=1 T=2 G=3.
var wireLetters = [4]byte{'A', 'C', 'T', 'G'}

// EncodeSequence packs a validated, upper-cased DNA sequence into 2
// bits per nucleotide, four bases per output byte, matching the wire
// format of section 6 (packed sequence buffer). It is the host/tile
// transport encoding; the kernel's own band sweep works from unpacked
// Bases and never calls this directly.
func EncodeSequence(bases []byte) []byte {
	out := make([]byte, (len(bases)+3)/4)
	for i, b := range bases {
		out[i/4] |= encodeBase(b) << uint((i%4)*2)
	}
	return out
}

// DecodeSequence is the inverse of EncodeSequence, given the original
// nucleotide count n.
func DecodeSequence(packed []byte, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		code := (packed[i/4] >> uint((i%4)*2)) & 0x3
		out[i] = wireLetters[code]
	}
	return out
}

// Reverse returns a new Sequence with bases in reverse order. Used to
// exercise the reversal-symmetry invariant (spec.md section 8.1).
func (s Sequence) Reverse() Sequence {
	rev := make([]byte, len(s.Bases))
	for i, b := range s.Bases {
		rev[len(s.Bases)-1-i] = b
	}
	return Sequence{Name: s.Name, Bases: rev}
}

// reverseString reverses a string; used when emitting CIGARs, which
// are recorded during backward traceback and must be flipped to
// start-to-end order (spec.md section 4.1).
func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
