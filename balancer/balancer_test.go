package balancer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnatile/pimalign"
)

func seq(t *testing.T, name, bases string) pimalign.Sequence {
	t.Helper()
	s, err := pimalign.NewSequence(name, []byte(bases))
	require.NoError(t, err)
	return s
}

func TestRunSetModeThreeSequenceScenario(t *testing.T) {
	p := pimalign.AlignParams{Match: 1, Mismatch: -1, GapOpening: -1, GapExtension: -1}
	sets := []pimalign.Set{{
		seq(t, "s0", "ACGT"),
		seq(t, "s1", "ACGT"),
		seq(t, "s2", "AGGT"),
	}}

	res, err := Run(context.Background(), ModeSet, sets, 2, p, true, nil)
	require.NoError(t, err)
	require.Equal(t, []int32{4, 2, 2}, res.Scores)
}

func TestRunPairModeMatchesTriangularOrdering(t *testing.T) {
	p := pimalign.AlignParams{Match: 1, Mismatch: -1, GapOpening: -1, GapExtension: -1}
	set := pimalign.Set{
		seq(t, "s0", "ACGTACGT"),
		seq(t, "s1", "ACGTACGT"),
		seq(t, "s2", "TTTTAAAA"),
		seq(t, "s3", "ACGTACGT"),
	}

	single, err := Run(context.Background(), ModePair, []pimalign.Set{set}, 1, p, false, nil)
	require.NoError(t, err)

	multi, err := Run(context.Background(), ModePair, []pimalign.Set{set}, 3, p, false, nil)
	require.NoError(t, err)

	require.Equal(t, single.Scores, multi.Scores)

	idx := 0
	for i := 0; i < len(set); i++ {
		for j := i + 1; j < len(set); j++ {
			want, _ := pimalign.Align(set[i], set[j], p, false)
			require.Equalf(t, want, single.Scores[idx], "pair (%d,%d) at triangular index %d", i, j, idx)
			idx++
		}
	}
}

func TestRunAllModeTwoTilesMatchesSingleTile(t *testing.T) {
	p := pimalign.AlignParams{Match: 2, Mismatch: -2, GapOpening: -3, GapExtension: -1}
	set := pimalign.Set{
		seq(t, "s0", "ACGTACGTAA"),
		seq(t, "s1", "ACGTACGTAC"),
		seq(t, "s2", "TTTTAAAAGG"),
		seq(t, "s3", "ACGTACGTGG"),
		seq(t, "s4", "GGGGCCCCAA"),
	}

	single, err := Run(context.Background(), ModeAll, []pimalign.Set{set}, 1, p, false, nil)
	require.NoError(t, err)

	twoTiles, err := Run(context.Background(), ModeAll, []pimalign.Set{set}, 2, p, false, nil)
	require.NoError(t, err)

	require.Equal(t, single.Scores, twoTiles.Scores)
	require.Len(t, single.Scores, set.Pairs())
}

// TestRunSetModeIdempotent checks spec.md section 8's invariant 6:
// running the balancer twice on the same input yields the same
// per-tile batch assignment (here observed through the identical,
// deterministic output it produces).
func TestRunSetModeIdempotent(t *testing.T) {
	p := pimalign.AlignParams{Match: 1, Mismatch: -2, GapOpening: -4, GapExtension: -1}
	sets := []pimalign.Set{
		{seq(t, "a0", "ACGTACGTACGT"), seq(t, "a1", "ACGTACGTAAAA"), seq(t, "a2", "TTTTACGTACGT")},
		{seq(t, "b0", "GGGGCCCCAAAA"), seq(t, "b1", "GGGGCCCCTTTT")},
	}

	first, err := Run(context.Background(), ModeSet, sets, 4, p, true, nil)
	require.NoError(t, err)
	second, err := Run(context.Background(), ModeSet, sets, 4, p, true, nil)
	require.NoError(t, err)

	require.Equal(t, first.Scores, second.Scores)
	require.Equal(t, first.Cigars, second.Cigars)
}

func TestTriangularIndexEnumeratesRowMajorUpperTriangle(t *testing.T) {
	n := 5
	idx := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			require.Equal(t, idx, triangularIndex(i, j, n))
			idx++
		}
	}
}

func TestBucketComparisonsCoversEveryPairExactlyOnce(t *testing.T) {
	n, nTiles := 6, 4
	total := n * (n - 1) / 2
	metas := bucketComparisons(n, nTiles, 0, 1, total)

	seen := make([]bool, total)
	for _, m := range metas {
		idx := triangularIndex(m.StartRow, m.StartCol, n)
		for k := 0; k < m.Count; k++ {
			require.False(t, seen[idx+k], "pair at index %d covered twice", idx+k)
			seen[idx+k] = true
		}
	}
	for i, s := range seen {
		require.True(t, s, "pair at index %d never covered", i)
	}
}
