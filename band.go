package pimalign

// bandRow is one anti-diagonal's worth of affine-NW scores, indexed by
// the band-relative column w in [0,BandWidth). Two extra guard cells
// sit at logical index -1 and BandWidth: the neighbour views used by
// the per-cell update (uv/lv in spec.md section 4.1) read one cell
// past either edge of the band, and those guard cells are seeded once
// with negInf and never touched by a shift, so a lookup at the very
// edge of the band always sees "outside the band" instead of reading
// garbage.
type bandRow struct {
	data [BandWidth + 2]int32
}

func newBandRow() *bandRow {
	r := &bandRow{}
	for w := range r.data {
		r.data[w] = NegInf
	}
	return r
}

func (r *bandRow) at(w int) int32     { return r.data[w+1] }
func (r *bandRow) set(w int, v int32) { r.data[w+1] = v }

// shiftLeft moves every cell one position toward index 0, vacating the
// last cell (used when the band shifts RIGHT, toward sequence A).
func (r *bandRow) shiftLeft() {
	for w := 0; w < BandWidth-1; w++ {
		r.set(w, r.at(w+1))
	}
	r.set(BandWidth-1, NegInf)
}

// shiftRight moves every cell one position toward the last index,
// vacating the first cell (used when the band shifts DOWN, toward
// sequence B).
func (r *bandRow) shiftRight() {
	for w := BandWidth - 1; w > 0; w-- {
		r.set(w, r.at(w-1))
	}
	r.set(0, NegInf)
}

// shiftLeftBytes and shiftRightBytes slide the av/bv nucleotide
// windows by one position, appending a freshly read (or sentinel)
// residue at the vacated end.
func shiftLeftBytes(v *[BandWidth]byte, newEnd byte) {
	copy(v[:BandWidth-1], v[1:])
	v[BandWidth-1] = newEnd
}

func shiftRightBytes(v *[BandWidth]byte, newStart byte) {
	copy(v[1:], v[:BandWidth-1])
	v[0] = newStart
}

// shiftLeftVals and shiftRightVals slide an ev/fv gap-score track by
// one position, the counterpart of shiftLeftBytes/shiftRightBytes for
// the affine-gap running scores.
func shiftLeftVals(v *[BandWidth]int32, newEnd int32) {
	copy(v[:BandWidth-1], v[1:])
	v[BandWidth-1] = newEnd
}

func shiftRightVals(v *[BandWidth]int32, newStart int32) {
	copy(v[1:], v[:BandWidth-1])
	v[0] = newStart
}

// nextCode returns the encoded base at pos if pos is still within the
// sequence, or the given padding sentinel otherwise — the band keeps
// sweeping a fixed W=128 cells wide even after one sequence is
// exhausted, and the sentinel guarantees those trailing cells can
// never register as a match (spec.md section 4.1, "Numeric semantics").
func nextCode(bases []byte, pos int, pad byte) byte {
	if pos < len(bases) {
		return encodeBase(bases[pos])
	}
	return pad
}
