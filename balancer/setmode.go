package balancer

import (
	"context"

	"github.com/dnatile/pimalign"
	"github.com/dnatile/pimalign/tile"
)

// setAssignment records where one dispatched set's pairs ended up: the
// tile batch that carried it and the contiguous [start,end) slice of
// that batch's score/cigar output belonging to it.
type setAssignment struct {
	globalOffset int // position in the final, per-input-order output
	tileIdx      int
	start, end   int
}

// runSetMode implements the Set-mode dispatch loop (spec.md section
// 4.3): repeatedly pull the heaviest remaining sets up to a shrinking
// per-round threshold, bin-pack them onto nTiles tiles, dispatch each
// tile's batch, and reassemble scores/cigars back into per-set-input
// order.
func runSetMode(ctx context.Context, sets []pimalign.Set, nTiles int, p pimalign.AlignParams, wantCigars bool, progress *ProgressBar) (*RunResult, error) {
	remaining := sortedByLoad(sets)
	shrink := newThresholdShrinker()

	out := newRunResult(sets)
	var assignments []setAssignment
	var batches []*tile.Batch

	for len(remaining) > 0 {
		target := shrink.next(nTiles)
		taken, rest := takeLoad(remaining, target, nTiles)
		remaining = rest
		if len(taken) == 0 {
			// Round produced nothing (e.g. nTiles > len(remaining) after
			// rounding down); take everything left in one final round.
			taken, remaining = remaining, nil
			if len(taken) == 0 {
				break
			}
		}

		buckets := bucketSets(taken, nTiles)
		for tileIdx, bucket := range buckets {
			if len(bucket) == 0 {
				continue
			}
			tileBatches, tileAssignments := buildSetBatches(bucket, sets, p, wantCigars)
			for _, b := range tileBatches {
				batches = append(batches, b)
			}
			base := len(batches) - len(tileBatches)
			for _, a := range tileAssignments {
				a.tileIdx = base + a.tileIdx
				assignments = append(assignments, a)
			}
		}
	}

	results, err := dispatchBatches(ctx, batches, progress)
	if err != nil {
		return nil, err
	}

	for _, a := range assignments {
		res := results[a.tileIdx]
		copy(out.Scores[a.globalOffset:], res.Scores[a.start:a.end])
		if wantCigars {
			copy(out.Cigars[a.globalOffset:], res.Cigars[a.start:a.end])
		}
		out.PerfCounter += res.PerfCounter
	}
	return out, nil
}

// buildSetBatches packs one tile's bucketed sets into as many batches
// as the per-tile byte/set/pair/CIGAR budgets require (normally one),
// recording each set's [start,end) slice within its batch's output.
func buildSetBatches(bucket []loadEntry, sets []pimalign.Set, p pimalign.AlignParams, wantCigars bool) ([]*tile.Batch, []setAssignment) {
	var batches []*tile.Batch
	var assignments []setAssignment

	cur := tile.NewBatch(tile.ModeSet, p, wantCigars)
	curStart := 0
	flush := func() {
		if cur.NumberOfSets > 0 {
			batches = append(batches, cur)
		}
	}

	localBatchIdx := 0
	for _, e := range bucket {
		set := sets[e.index]
		if err := cur.AddSet(set); err != nil {
			flush()
			localBatchIdx++
			cur = tile.NewBatch(tile.ModeSet, p, wantCigars)
			curStart = 0
			if err := cur.AddSet(set); err != nil {
				// A single set alone exceeds the batch budget; nothing
				// further can be done for it here. The balancer's
				// caller is responsible for rejecting oversized sets
				// before dispatch (spec.md section 7).
				continue
			}
		}
		n := set.Pairs()
		assignments = append(assignments, setAssignment{
			globalOffset: e.offset,
			tileIdx:      localBatchIdx,
			start:        curStart,
			end:          curStart + n,
		})
		curStart += n
	}
	flush()
	return batches, assignments
}
