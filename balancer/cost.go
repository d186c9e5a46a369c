package balancer

import (
	"sort"

	"github.com/dnatile/pimalign"
)

// loadEntry is the Go counterpart of the original host balancer's
// SortedMap: a set's index into the caller's slice, its approximate
// compute load, and the running output offset (in the triangular,
// per-set-concatenated result array) where its pairs land.
type loadEntry struct {
	index  int
	load   int
	offset int
}

// sortedByLoad ranks sets by descending compute load, same as
// AppSet.hpp's sorted_map — heaviest sets get first pick of tile
// capacity, which keeps the eventual bin-packing from starving a
// large set onto an already-busy tile late in the run.
func sortedByLoad(sets []pimalign.Set) []loadEntry {
	entries := make([]loadEntry, len(sets))
	offset := 0
	for i, s := range sets {
		entries[i] = loadEntry{index: i, load: s.ComputeLoad(), offset: offset}
		offset += s.Pairs()
	}
	sort.SliceStable(entries, func(a, b int) bool { return entries[a].load > entries[b].load })
	return entries
}

// takeLoad removes a prefix of entries (already sorted descending by
// load) whose accumulated load covers `target`, rounded down to a
// multiple of nTiles so the taken entries can be split evenly across
// tiles. Mirrors AppSet.hpp's take_load.
func takeLoad(entries []loadEntry, target, nTiles int) (taken, rest []loadEntry) {
	if nTiles <= 0 {
		nTiles = 1
	}
	i, totLoad := 0, 0
	for i < len(entries) {
		if totLoad >= target && i >= nTiles {
			break
		}
		totLoad += entries[i].load
		i++
	}
	if i > nTiles {
		i -= i % nTiles
	}
	return entries[:i], entries[i:]
}

// thresholdShrinker reproduces get_bucket's decaying per-round
// threshold: it starts at ~16e6 "load units" and shrinks by 1/45 each
// round, so later dispatch rounds claim smaller slices — the largest
// sets have already been consumed, and shrinking the target keeps the
// tail from handing one tile a disproportionate remaining chunk.
type thresholdShrinker struct {
	current int
}

func newThresholdShrinker() *thresholdShrinker {
	return &thresholdShrinker{current: 16_000_000}
}

func (t *thresholdShrinker) next(nTiles int) int {
	threshold := t.current
	t.current -= t.current / 45
	return threshold * nTiles
}

// bucketSets greedily assigns each entry's set to the currently
// least-loaded of nTiles bins (AppSet.hpp's bucket_sets), returning,
// per tile, the (original set index, entry) pairs it received.
func bucketSets(entries []loadEntry, nTiles int) [][]loadEntry {
	buckets := make([][]loadEntry, nTiles)
	loads := make([]int, nTiles)
	for _, e := range entries {
		min := 0
		for i := 1; i < nTiles; i++ {
			if loads[i] < loads[min] {
				min = i
			}
		}
		buckets[min] = append(buckets[min], e)
		loads[min] += e.load
	}
	return buckets
}
