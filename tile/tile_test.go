package tile

import (
	"testing"

	"github.com/dnatile/pimalign"
	"github.com/stretchr/testify/require"
)

func seq(t *testing.T, name, bases string) pimalign.Sequence {
	t.Helper()
	s, err := pimalign.NewSequence(name, []byte(bases))
	require.NoError(t, err)
	return s
}

func TestSchedulerSetModeThreeSequenceScenario(t *testing.T) {
	p := pimalign.AlignParams{Match: 1, Mismatch: -1, GapOpening: -1, GapExtension: -1}
	set := pimalign.Set{
		seq(t, "s0", "ACGT"),
		seq(t, "s1", "ACGT"),
		seq(t, "s2", "AGGT"),
	}

	b := NewBatch(ModeSet, p, true)
	require.NoError(t, b.AddSet(set))

	sched := NewScheduler(DefaultWorkers)
	res := sched.Run(b)

	require.Equal(t, []int32{4, 2, 2}, res.Scores)
	require.Len(t, res.Cigars, 3)
	require.Equal(t, "====", res.Cigars[0].String())
}

func TestSchedulerFlatModeMatchesAllPairs(t *testing.T) {
	p := pimalign.AlignParams{Match: 2, Mismatch: -2, GapOpening: -3, GapExtension: -1}
	set := pimalign.Set{
		seq(t, "s0", "ACGTACGT"),
		seq(t, "s1", "ACGTTCGT"),
		seq(t, "s2", "TTTTTTTT"),
	}
	n := len(set)

	b := NewBatch(ModePair, p, false)
	require.NoError(t, b.AddFlatSet(set, ComparisonMetadata{StartRow: 0, StartCol: 1, Count: set.Pairs(), N: n}))

	sched := NewScheduler(8)
	res := sched.Run(b)

	require.Len(t, res.Scores, set.Pairs())
	for _, score := range res.Scores {
		require.LessOrEqual(t, score, int32(8*p.Match))
	}
}

func TestPairClaimSetModeAdvancesLikeOriginal(t *testing.T) {
	c := newSetClaim([]uint8{3, 2}, 2)

	var got []pair
	for {
		p, ok := c.next()
		if !ok {
			break
		}
		got = append(got, p)
	}

	require.Len(t, got, 3+1) // C(3,2)=3 pairs in set 0, C(2,2)=1 pair in set 1
	require.Equal(t, 0, got[0].setID)
	require.Equal(t, 1, got[len(got)-1].setID)
}

func TestPairClaimSetModeSkipsSingletonSets(t *testing.T) {
	// Sets of size 0 and 1 contribute no pairs; a trailing one must not
	// yield a spurious out-of-set claim.
	c := newSetClaim([]uint8{3, 1, 0, 2}, 4)

	var got []pair
	for {
		p, ok := c.next()
		if !ok {
			break
		}
		got = append(got, p)
	}

	require.Len(t, got, 3+1) // C(3,2)=3 pairs in set 0, C(2,2)=1 pair in set 3
	for _, p := range got {
		require.Contains(t, []int{0, 3}, p.setID)
	}
}

func TestSchedulerSetModeHandlesTrailingSingletonSet(t *testing.T) {
	p := pimalign.AlignParams{Match: 1, Mismatch: -1, GapOpening: -1, GapExtension: -1}
	sets := []pimalign.Set{
		{seq(t, "s0", "ACGT"), seq(t, "s1", "ACGT")},
		{seq(t, "s2", "TTTT")},
	}

	b := NewBatch(ModeSet, p, true)
	for _, set := range sets {
		require.NoError(t, b.AddSet(set))
	}

	sched := NewScheduler(DefaultWorkers)
	require.NotPanics(t, func() {
		res := sched.Run(b)
		require.Equal(t, []int32{4}, res.Scores)
	})
}
