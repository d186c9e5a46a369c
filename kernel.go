package pimalign

import "sync"

// GroupSize is the lane count a cooperating tile group splits one
// pair's 128-wide band step across, matching the original
// accelerator's group-of-4 tasklets (nw_affine.c's (me()%4)*32
// slicing). BandWidth is always an exact multiple of it.
const GroupSize = 4

// Align computes a global alignment of a against b under the affine-gap
// scoring model, using the adaptive anti-diagonal band described in
// Suzuki & Kasahara (https://www.biorxiv.org/content/10.1101/130633v2):
// instead of the full l1*l2 matrix, it sweeps a fixed W=BandWidth
// diagonal that re-centers itself one cell at a time toward whichever
// sequence the running scores say needs it.
//
// wantCigar controls whether the (comparatively expensive) backward
// traceback runs at all; a caller that only needs the score can skip it.
func Align(a, b Sequence, p AlignParams, wantCigar bool) (int32, Cigar) {
	return sweep(a, b, p, wantCigar, 1)
}

// AlignGroup computes the same alignment as Align, but re-expresses the
// original accelerator's leader/follower cooperation: lanes goroutines
// (normally GroupSize) split each band step's BandWidth-wide sweep into
// equal slices and rendezvous at a shared barrier between the leader's
// serial band-shift work and the parallel per-cell update, the same
// hand-off nw_common.h's start_barrier/end_barrier implement around
// parallel_sr/parallel_sl. lanes <= 1 behaves exactly like Align.
func AlignGroup(a, b Sequence, p AlignParams, wantCigar bool, lanes int) (int32, Cigar) {
	return sweep(a, b, p, wantCigar, lanes)
}

// sweep runs the forward band sweep and, if requested, the backward
// traceback. With lanes <= 1 it runs as a single straight-line loop;
// with lanes > 1 the per-step cell update is split across that many
// cooperating goroutines synchronized by a groupBarrier, while the
// band-shift bookkeeping (picking the direction, sliding av/bv/ev/fv,
// advancing i/j) stays the sole responsibility of lane 0 — the
// "leader" claims the shared step state and hands it off to the
// "followers" at the barrier, exactly as a group's leader tasklet does
// in the original accelerator.
func sweep(a, b Sequence, p AlignParams, wantCigar bool, lanes int) (int32, Cigar) {
	l1, l2 := a.Len(), b.Len()
	const center = BandWidth / 2

	pv := newBandRow()
	ppv := newBandRow()
	ppv.set(center, 0)
	// Step 0 is the first anti-diagonal, reached by a RIGHT shift:
	// H(0,1) sits at center-1 and H(1,0) at center, and the av/bv windows
	// start preloaded with the first center bases of each sequence.
	pv.set(center-1, p.GapOpening+p.GapExtension)
	pv.set(center, p.GapOpening+p.GapExtension)

	var av, bv [BandWidth]byte
	for w := range av {
		av[w] = padA
		bv[w] = padB
	}
	for k := 0; k < center; k++ {
		av[center+k] = nextCode(a.Bases, k, padA)
		bv[center-1-k] = nextCode(b.Bases, k, padB)
	}
	var ev, fv [BandWidth]int32
	for w := range ev {
		ev[w] = NegInf
		fv[w] = NegInf
	}
	ev[center-1] = p.GapOpening + p.GapExtension
	fv[center] = p.GapOpening + p.GapExtension

	i, j := 1, 0
	dir, prevDir := Right, Right
	down := 0

	steps := l1 + l2 - 1
	traces := newTraceBits()
	flagE := newFlagBits()
	flagF := newFlagBits()
	dirs := newDirectionLog(steps + 1)

	dirs.Push(0, Right)
	traces.Set(center-1, uint8(Up))
	traces.Set(center, uint8(Left))
	for w := 0; w < BandWidth; w++ {
		flagE.Set(w, true)
		flagF.Set(w, true)
	}

	var traceOut [BandWidth]uint8
	var flagEOut, flagFOut [BandWidth]bool

	// shiftStep performs the leader's serial bookkeeping for step d:
	// pick the band-shift direction, slide the nucleotide/gap windows,
	// and record the direction. It must complete, and be visible to
	// every lane, before any lane computes a cell for step d.
	shiftStep := func(d int) {
		prevDir = dir
		dir = nextDirection(pv, i, l1, j, l2)
		dirs.Push(d, dir)

		if dir == Down {
			newB := nextCode(b.Bases, j+center, padB)
			j++
			shiftRightBytes(&bv, newB)
			shiftRightVals(&fv, NegInf)
			down++
			if prevDir == Down {
				ppv.shiftRight()
			}
		} else {
			newA := nextCode(a.Bases, i+center-1, padA)
			i++
			shiftLeftBytes(&av, newA)
			shiftLeftVals(&ev, NegInf)
			if prevDir == Right {
				ppv.shiftLeft()
			}
		}
	}

	// computeCells fills [lo,hi) of the current step's band, reading
	// the row the leader just shifted and writing into ppv/ev/fv plus
	// the step-local trace/flag staging buffers. Distinct lanes are
	// only ever given disjoint [lo,hi) ranges, so concurrent calls
	// never touch the same index.
	computeCells := func(lo, hi int) {
		for w := lo; w < hi; w++ {
			var uvW, lvW int32
			if dir == Down {
				uvW = pv.at(w)
				lvW = pv.at(w - 1)
			} else {
				lvW = pv.at(w)
				uvW = pv.at(w + 1)
			}

			var trace TraceCode
			var diag int32
			if av[w] == bv[w] {
				diag = ppv.at(w) + p.Match
				trace = DMatch
			} else {
				diag = ppv.at(w) + p.Mismatch
				trace = DMiss
			}

			eExtend := ev[w] + p.GapExtension
			eOpen := uvW + p.GapOpening + p.GapExtension
			openE := false
			eNew := eExtend
			if eOpen >= eExtend {
				eNew = eOpen
				openE = true
			}

			fExtend := fv[w] + p.GapExtension
			fOpen := lvW + p.GapOpening + p.GapExtension
			openF := false
			fNew := fExtend
			if fOpen >= fExtend {
				fNew = fOpen
				openF = true
			}

			cell := diag
			if eNew > cell {
				cell = eNew
				trace = Up
			}
			if fNew > cell {
				cell = fNew
				trace = Left
			}

			ppv.set(w, cell)
			ev[w] = eNew
			fv[w] = fNew
			traceOut[w] = uint8(trace)
			flagEOut[w] = openE
			flagFOut[w] = openF
		}
	}

	// flushStep is the leader's hand-off back to the shared bit-packed
	// buffers: one bulk write per step instead of BandWidth individual
	// ones, then the pv/ppv swap that starts the next step.
	flushStep := func(d int) {
		traces.FlushDiagonal(d, traceOut)
		flagE.FlushDiagonal(d, flagEOut)
		flagF.FlushDiagonal(d, flagFOut)
		pv, ppv = ppv, pv
	}

	if lanes <= 1 {
		for d := 1; d <= steps; d++ {
			shiftStep(d)
			computeCells(0, BandWidth)
			flushStep(d)
		}
	} else {
		laneWidth := BandWidth / lanes
		barrier := newGroupBarrier(lanes)
		var wg sync.WaitGroup
		for lane := 0; lane < lanes; lane++ {
			wg.Add(1)
			go func(lane int) {
				defer wg.Done()
				lo, hi := lane*laneWidth, (lane+1)*laneWidth
				if lane == lanes-1 {
					hi = BandWidth
				}
				for d := 1; d <= steps; d++ {
					if lane == 0 {
						shiftStep(d)
					}
					barrier.Wait()
					computeCells(lo, hi)
					barrier.Wait()
					if lane == 0 {
						flushStep(d)
					}
				}
			}(lane)
		}
		wg.Wait()
	}

	score := pv.at(center + down - l2)
	if !wantCigar {
		return score, ""
	}
	return score, traceback(traces, flagE, flagF, dirs, steps, center+down-l2)
}

// nextDirection picks the next band-shift direction: DOWN once the
// band has either exhausted sequence A or its left edge already
// scores better than its right edge, provided B still has nucleotides
// left; RIGHT otherwise. Ties (pv[0] == pv[W-1]) favor RIGHT, matching
// the deterministic tie-break spec.md section 4.1 calls for.
func nextDirection(pv *bandRow, i, l1, j, l2 int) Direction {
	if (pv.at(0) > pv.at(BandWidth-1) || i >= l1) && j < l2 {
		return Down
	}
	return Right
}

// traceback walks the recorded direction log and trace bits backward
// from the band-end cell, emitting CIGAR columns, then reverses the
// result into start-to-end order (spec.md section 4.1).
//
// d is the band step and w the band-relative column of the current
// cell. A DMATCH/DMISS cell's predecessor sits two steps back, offset
// by o2 in w to re-center for any band shift between the two steps; a
// LEFT/UP (gap) cell's predecessor sits one step back, offset by the
// current step's shift direction, and the walk continues through
// consecutive gap cells until the recorded open-flag says the gap
// began here.
func traceback(traces *traceBits, flagE, flagF *flagBits, dirs *directionLog, steps, startW int) Cigar {
	d := steps
	w := startW
	var rev []byte

	for d >= 0 {
		tc := TraceCode(traces.Get(d*BandWidth + w))
		switch tc {
		case DMatch, DMiss:
			if tc == DMatch {
				rev = append(rev, opMatch)
			} else {
				rev = append(rev, opMismatch)
			}
			dirCur := dirs.Get(d)
			dirPrev := Right
			if d > 0 {
				dirPrev = dirs.Get(d - 1)
			}
			o2 := 0
			if dirCur == dirPrev {
				if dirCur == Right {
					o2 = -1
				} else {
					o2 = 1
				}
			}
			w -= o2
			d--

		case Left:
			o := rightOffset(dirs.Get(d))
			for !flagF.Get(d*BandWidth + w) {
				rev = append(rev, opInsertionA)
				w -= o
				d--
				if d < 0 {
					break
				}
				o = rightOffset(dirs.Get(d))
			}
			if d >= 0 {
				rev = append(rev, opInsertionA)
				w -= o
			}

		case Up:
			o := rightOffset(dirs.Get(d))
			for !flagE.Get(d*BandWidth + w) {
				rev = append(rev, opDeletionA)
				w += 1 - o
				d--
				if d < 0 {
					break
				}
				o = rightOffset(dirs.Get(d))
			}
			if d >= 0 {
				rev = append(rev, opDeletionA)
				w += 1 - o
			}
		}
		d--
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return Cigar(rev)
}

func rightOffset(d Direction) int {
	if d == Right {
		return 0
	}
	return 1
}
