package balancer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dnatile/pimalign"
	"github.com/dnatile/pimalign/tile"
)

// runPairMode implements the Pair-mode dispatch discipline (spec.md
// section 4.3): a single set's n*(n-1)/2 pairs are split once into
// nTiles near-equal row-major triangular slices (bucketComparisons),
// each dispatched as its own tile batch, scores only — no CIGARs, per
// spec.md section 2's Pair-mode contract.
func runPairMode(ctx context.Context, set pimalign.Set, nTiles int, p pimalign.AlignParams, progress *ProgressBar) (*RunResult, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	n := len(set)
	out := newFlatRunResult(n, false)
	if n < 2 {
		return out, nil
	}

	metas := bucketComparisons(n, nTiles, 0, 1, set.Pairs())
	batches := make([]*tile.Batch, 0, len(metas))
	for _, m := range metas {
		if m.Count == 0 {
			continue
		}
		b := tile.NewBatch(tile.ModePair, p, false)
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
	return out, nil
}

// dispatchBatches issues one tile launch per batch concurrently — the
// host-side layer-1 scheduling of spec.md section 5: one goroutine per
// tile-rank worker, errors surfaced through errgroup, shared by
// Pair, All and Set mode.
func dispatchBatches(ctx context.Context, batches []*tile.Batch, progress *ProgressBar) ([]*tile.Result, error) {
	results := make([]*tile.Result, len(batches))
	group, gctx := errgroup.WithContext(ctx)
	for i, b := range batches {
		i, b := i, b
		group.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			sched := tile.NewScheduler(tile.DefaultWorkers)
			results[i] = sched.Run(b)
			if progress != nil {
				progress.Increment()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
