// Package balancer implements the host-side load balancer (spec.md
// section 4.3): grouping sets or pairs across tiles, bin-packing to
// equalize compute load, and issuing asynchronous per-tile batches.
package balancer

import (
	"context"

	"github.com/dnatile/pimalign"
	"github.com/dnatile/pimalign/tile"
)

// Mode selects one of the three dispatch shapes spec.md section 2
// names. It is an alias of tile.Mode so a caller never has to convert
// between the balancer's and the tile package's notion of mode.
type Mode = tile.Mode

const (
	ModePair = tile.ModePair
	ModeSet  = tile.ModeSet
	ModeAll  = tile.ModeAll
)

// Run is the balancer's single entry point. Set mode takes any number
// of disjoint sets, each compared all-vs-all with CIGARs; Pair and All
// mode expect exactly one set in sets and never return CIGARs (spec.md
// section 2). progress, if non-nil, is incremented once per tile batch
// dispatched — a caller drives its display from another goroutine.
func Run(ctx context.Context, mode Mode, sets []pimalign.Set, nTiles int, p pimalign.AlignParams, wantCigars bool, progress *ProgressBar) (*RunResult, error) {
	if nTiles < 1 {
		nTiles = 1
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	switch mode {
	case ModeSet:
		return runSetMode(ctx, sets, nTiles, p, wantCigars, progress)
	case ModePair:
		if len(sets) != 1 {
			return nil, pimalign.NewBatchPreconditionError("pair mode requires exactly one set, got %d", len(sets))
		}
		return runPairMode(ctx, sets[0], nTiles, p, progress)
	case ModeAll:
		if len(sets) != 1 {
			return nil, pimalign.NewBatchPreconditionError("all mode requires exactly one set, got %d", len(sets))
		}
		return runAllMode(ctx, sets[0], nTiles, p, progress)
	default:
		return nil, pimalign.NewBatchPreconditionError("unknown dispatch mode %v", mode)
	}
}
