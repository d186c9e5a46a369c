// Package tile models one accelerator tile: the fixed-layout batch a
// host balancer hands it, the worker pool that drains it pair by
// pair, and the result buffer it hands back. It is the Go-process
// stand-in for what, in the original accelerator, is a DPU rank
// talking over MRAM (spec.md section 6, "External interfaces").
package tile

import (
	"fmt"

	"github.com/dnatile/pimalign"
)

// Mode selects the pair-dispatch discipline a batch follows (spec.md
// section 4.2, "Pair-dispatch discipline").
type Mode int

const (
	ModePair Mode = iota
	ModeSet
	ModeAll
)

func (m Mode) String() string {
	switch m {
	case ModePair:
		return "pair"
	case ModeSet:
		return "set"
	case ModeAll:
		return "all"
	default:
		return "unknown"
	}
}

// Wire-format limits from the data model (spec.md section 6).
const (
	MaxIndexesPair = 1024
	MaxIndexesAll  = 16384
	MaxSets        = 36
	MaxScoresPair  = 4096
	MaxScoresAll   = 131072
	MaxPackedBytes = 3_840_000
	MaxCigarBytes  = 32 << 20
)

// ComparisonMetadata directs an All-mode tile at a triangular
// sub-range of the n x n upper-triangle comparison matrix: it claims
// Count consecutive pairs in row-major order starting at
// (StartRow, StartCol).
type ComparisonMetadata struct {
	StartRow int
	StartCol int
	Count    int
	N        int
}

// Batch is the host-to-tile job description. Sequences are stored
// 2-bit packed, back to back, exactly as spec.md section 6 lays out;
// Indexes and Lengths are the offset/length tables a tile uses to
// slice them back out.
type Batch struct {
	Mode Mode

	Packed  []byte
	Indexes []uint32
	Lengths []uint16

	SetSizes     [MaxSets]uint8
	NumberOfSets uint32

	Comparison ComparisonMetadata

	CigarIndexes []uint32

	Params     pimalign.AlignParams
	WantCigars bool
}

// NewBatch returns an empty batch ready for AddSet (Set mode) or
// AddFlatSet (Pair/All mode).
func NewBatch(mode Mode, p pimalign.AlignParams, wantCigars bool) *Batch {
	return &Batch{Mode: mode, Params: p, WantCigars: wantCigars}
}

// align8 rounds n up to the next multiple of 8, matching the packed
// sequence buffer's 8-byte alignment and the CIGAR index table's
// per-pair rounding (spec.md section 6).
func align8(n int) int {
	return (n + 7) &^ 7
}

// appendSequence packs one sequence into the batch's buffer and
// records its offset/length, returning its index in the table.
func (b *Batch) appendSequence(s pimalign.Sequence) int {
	idx := len(b.Indexes)
	offset := len(b.Packed)
	packed := pimalign.EncodeSequence(s.Bases)
	b.Packed = append(b.Packed, packed...)
	if pad := align8(len(b.Packed)) - len(b.Packed); pad > 0 {
		b.Packed = append(b.Packed, make([]byte, pad)...)
	}
	b.Indexes = append(b.Indexes, uint32(offset))
	b.Lengths = append(b.Lengths, uint16(s.Len()))
	return idx
}

// AddSet appends one set's sequences to a Set-mode batch, enforcing
// the per-batch budgets from spec.md section 4.3. It returns a
// BatchPreconditionError if adding the set would exceed the set,
// sequence, CIGAR-byte or packed-byte budget, or if the batch already
// holds MaxScoresPair pairs; the pair count the new set adds is not
// checked against that limit.
func (b *Batch) AddSet(set pimalign.Set) error {
	if b.Mode != ModeSet {
		return pimalign.NewBatchPreconditionError("AddSet called on a %s-mode batch", b.Mode)
	}
	if err := set.Validate(); err != nil {
		return err
	}
	if int(b.NumberOfSets) >= MaxSets {
		return pimalign.NewBatchPreconditionError("batch already holds the maximum of %d sets", MaxSets)
	}
	if len(b.Indexes)+len(set) > MaxIndexesPair {
		return pimalign.NewBatchPreconditionError(
			"adding %d sequences would exceed the %d-sequence batch limit", len(set), MaxIndexesPair)
	}
	if existingPairs(b) >= MaxScoresPair {
		return pimalign.NewBatchPreconditionError("batch already holds the maximum of %d pairs", MaxScoresPair)
	}

	cigarBudget := cigarBytesUsed(b)
	for _, s := range set {
		cigarBudget += align8(2 * s.Len())
	}
	if cigarBudget > MaxCigarBytes {
		return pimalign.NewBatchPreconditionError(
			"adding this set would exceed the %d-byte CIGAR budget", MaxCigarBytes)
	}

	packedBudget := len(b.Packed)
	for _, s := range set {
		packedBudget += align8((s.Len() + 3) / 4)
	}
	if packedBudget > MaxPackedBytes {
		return pimalign.NewBatchPreconditionError(
			"adding this set would exceed the %d-byte packed-sequence budget", MaxPackedBytes)
	}

	b.SetSizes[b.NumberOfSets] = uint8(len(set))
	b.NumberOfSets++
	for _, s := range set {
		idx := b.appendSequence(s)
		if idx > 0 {
			prevLen := int(b.Lengths[idx-1])
			b.CigarIndexes = appendCigarIndex(b.CigarIndexes, prevLen, s.Len())
		}
	}
	return nil
}

// AddFlatSet seeds a Pair- or All-mode batch with a single set
// compared all-vs-all (or, in All mode, the triangular sub-range
// described by comparison).
func (b *Batch) AddFlatSet(set pimalign.Set, comparison ComparisonMetadata) error {
	if b.Mode == ModeSet {
		return pimalign.NewBatchPreconditionError("AddFlatSet called on a set-mode batch")
	}
	if err := set.Validate(); err != nil {
		return err
	}
	maxIdx := MaxIndexesPair
	maxScores := MaxScoresPair
	if b.Mode == ModeAll {
		maxIdx = MaxIndexesAll
		maxScores = MaxScoresAll
	}
	if len(set) > maxIdx {
		return pimalign.NewBatchPreconditionError("set of %d sequences exceeds the %d-sequence limit", len(set), maxIdx)
	}
	if comparison.Count > maxScores {
		return pimalign.NewBatchPreconditionError("comparison count %d exceeds the %d-pair limit", comparison.Count, maxScores)
	}
	b.Comparison = comparison
	b.CigarIndexes = b.CigarIndexes[:0]
	b.Indexes = b.Indexes[:0]
	b.Lengths = b.Lengths[:0]
	b.Packed = b.Packed[:0]
	for _, s := range set {
		b.appendSequence(s)
	}
	return nil
}

// SequenceAt decodes the i-th sequence out of the batch's packed
// buffer.
func (b *Batch) SequenceAt(i int) pimalign.Sequence {
	off := b.Indexes[i]
	n := int(b.Lengths[i])
	bytesNeeded := (n + 3) / 4
	bases := pimalign.DecodeSequence(b.Packed[off:off+uint32(bytesNeeded)], n)
	return pimalign.Sequence{Name: fmt.Sprintf("seq%d", i), Bases: bases}
}

func existingPairs(b *Batch) int {
	total := 0
	for s := 0; s < int(b.NumberOfSets); s++ {
		n := int(b.SetSizes[s])
		total += n * (n - 1) / 2
	}
	return total
}

func cigarBytesUsed(b *Batch) int {
	if len(b.CigarIndexes) == 0 {
		return 0
	}
	return int(b.CigarIndexes[len(b.CigarIndexes)-1])
}

func appendCigarIndex(indexes []uint32, l1, l2 int) []uint32 {
	base := uint32(0)
	if len(indexes) > 0 {
		base = indexes[len(indexes)-1]
	}
	return append(indexes, base+uint32(align8(l1+l2)))
}

// Result is what a tile hands back to the balancer: scores for every
// pair the batch's dispatch discipline produced and, if requested,
// their CIGARs, plus a throughput counter analogous to the original
// accelerator's cycle count (spec.md section 6, "Output").
type Result struct {
	PerfCounter uint64
	Scores      []int32
	Lengths     []uint16
	Cigars      []pimalign.Cigar
}
