package balancer

import "github.com/dnatile/pimalign/tile"

// triangularIndex maps a pair (i,j), i<j, out of an n-sequence set to
// its position in the row-major upper-triangle enumeration spec.md
// section 8's testable property 5 names as the host's reassembly
// order. Grounded on App16S.hpp's triangular_index, used there by
// rank_postprocess to place DPU scores back into the host vector.
func triangularIndex(i, j, n int) int {
	return i*n - i*(i+1)/2 + (j - i - 1)
}

// bucketComparisons splits `total` consecutive pairs of the row-major
// upper-triangle enumeration of an n-sequence set, starting at
// (startRow, startCol), evenly across nTiles bins. This is
// App16S.hpp's get_bucket/update_meta pair, generalized to take any
// starting cursor so the same routine serves Pair mode's one-shot even
// split and All mode's repeated, threshold-sized rounds.
func bucketComparisons(n, nTiles, startRow, startCol, total int) []tile.ComparisonMetadata {
	if nTiles < 1 {
		nTiles = 1
	}
	mean := total / nTiles
	restVal := total % nTiles
	count := mean
	if restVal != 0 {
		count++
	}
	rest := restVal - 1

	row, col := startRow, startCol
	metas := make([]tile.ComparisonMetadata, nTiles)
	for d := 0; d < nTiles; d++ {
		metas[d] = tile.ComparisonMetadata{StartRow: row, StartCol: col, Count: count, N: n}
		for s := 0; s < count; s++ {
			col++
			if col >= n {
				row++
				col = row + 1
			}
		}
		if rest == 0 {
			count--
		}
		rest--
	}
	return metas
}
