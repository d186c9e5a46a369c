package balancer

import (
	"context"

	"github.com/dnatile/pimalign"
	"github.com/dnatile/pimalign/tile"
)

// AllModeDivisor, AllModeMinBatch and AllModeMaxBatch tune All mode's
// per-round batch size: round = clamp(total_size/AllModeDivisor,
// AllModeMinBatch, AllModeMaxBatch), where total_size is the sum of
// sequence lengths in the set. spec.md section 9's open question notes
// these constants (80, 512, 100000) carry no meaning beyond empirical
// tuning; they are package variables rather than literals so a
// re-measurement is a one-line change.
var (
	AllModeDivisor  = 80
	AllModeMinBatch = 512
	AllModeMaxBatch = 100000
)

// runAllMode implements All mode's streaming dispatch discipline
// (spec.md sections 2 and 4.3): a single set, every pair, scores only,
// issued in repeated rounds sized by a moving threshold rather than
// the single even split Pair mode uses — each round's pairs are bucketed
// across nTiles tiles via the same row-major triangular cursor
// (bucketComparisons) and the cursor carries forward between rounds.
func runAllMode(ctx context.Context, set pimalign.Set, nTiles int, p pimalign.AlignParams, progress *ProgressBar) (*RunResult, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	n := len(set)
	out := newFlatRunResult(n, false)
	if n < 2 {
		return out, nil
	}

	roundSize := allModeRoundSize(set)
	row, col, remaining := 0, 1, set.Pairs()

	for remaining > 0 {
		round := roundSize
		if round > remaining {
			round = remaining
		}

		metas := bucketComparisons(n, nTiles, row, col, round)
		batches := make([]*tile.Batch, 0, len(metas))
		for _, m := range metas {
			if m.Count == 0 {
				continue
			}
			b := tile.NewBatch(tile.ModeAll, p, false)
			if err := b.AddFlatSet(set, m); err != nil {
				return nil, err
			}
			batches = append(batches, b)
		}

		results, err := dispatchBatches(ctx, batches, progress)
		if err != nil {
			return nil, err
		}

		for i, b := range batches {
			res := results[i]
			out.PerfCounter += res.PerfCounter
			idx := triangularIndex(b.Comparison.StartRow, b.Comparison.StartCol, n)
			copy(out.Scores[idx:idx+b.Comparison.Count], res.Scores)
		}

		for s := 0; s < round; s++ {
			col++
			if col >= n {
				row++
				col = row + 1
			}
		}
		remaining -= round
	}

	return out, nil
}

func allModeRoundSize(set pimalign.Set) int {
	totalSize := 0
	for _, s := range set {
		totalSize += s.Len()
	}
	round := totalSize / AllModeDivisor
	if round < AllModeMinBatch {
		round = AllModeMinBatch
	}
	if round > AllModeMaxBatch {
		round = AllModeMaxBatch
	}
	return round
}
