package pimalign

import "fmt"

// Cigar is an alignment encoded as a run of operation characters, one
// per aligned column, over the alphabet {=,X,I,D} (spec.md section
// 4.1 / glossary). Unlike the conventional run-length-encoded CIGAR,
// this is the core's internal flat form — one byte per column — which
// is what the kernel emits and what the wire format (section 6)
// transfers; run-length compression, if wanted, is a presentation
// concern for a collaborator, not the core.
type Cigar string

const (
	opMatch      byte = '='
	opMismatch   byte = 'X'
	opInsertionA byte = 'I' // insertion in A relative to B (gap in B)
	opDeletionA  byte = 'D' // deletion from A (gap in A)
)

// Len is the number of aligned columns.
func (c Cigar) Len() int { return len(c) }

// CountScore reprocesses the CIGAR against scoring parameters to
// recover the alignment score. Used to check the "score equals
// Cigar.count_score(p)" invariant (spec.md section 8.3).
func (c Cigar) CountScore(p AlignParams) int32 {
	var score int32
	inGap := false
	for i := 0; i < len(c); i++ {
		switch c[i] {
		case opMatch:
			score += p.Match
			inGap = false
		case opMismatch:
			score += p.Mismatch
			inGap = false
		case opInsertionA, opDeletionA:
			if !inGap {
				score += p.GapOpening
				inGap = true
			}
			score += p.GapExtension
		default:
			panic(fmt.Sprintf("pimalign: invalid CIGAR operation %q", string(c[i])))
		}
	}
	return score
}

// Reverse returns the CIGAR with its columns in reverse order. Used to
// check the reversal-symmetry invariant (spec.md section 8.1): the
// CIGAR of the reversed pair must equal the reverse of the CIGAR of
// the forward pair.
func (c Cigar) Reverse() Cigar {
	return Cigar(reverseString(string(c)))
}

func (c Cigar) String() string { return string(c) }
