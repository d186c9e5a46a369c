package pimalign

import "testing"

func mustSeq(t *testing.T, name, bases string) Sequence {
	t.Helper()
	s, err := NewSequence(name, []byte(bases))
	if err != nil {
		t.Fatalf("NewSequence(%q) failed: %v", bases, err)
	}
	return s
}

func TestAlignLiteralScenarios(t *testing.T) {
	p := AlignParams{Match: 1, Mismatch: -1, GapOpening: -1, GapExtension: -1}

	// CIGAR letters are relative to a: 'I' is a base of a with no partner
	// in b, 'D' a base of b with no partner in a. On equal scores the
	// per-cell update keeps the diagonal, which puts gaps leftmost.
	cases := []struct {
		name       string
		a, b       string
		wantScore  int32
		wantCigars []string
	}{
		{"identical", "ACGT", "ACGT", 4, []string{"===="}},
		{"mismatch", "ACGT", "AGGT", 2, []string{"=X=="}},
		{"deletion", "ACGT", "ACT", 1, []string{"==I="}},
		{"insertion", "ACGT", "ACCGT", 2, []string{"=D==="}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := mustSeq(t, "a", c.a)
			b := mustSeq(t, "b", c.b)

			score, cigar := Align(a, b, p, true)
			if score != c.wantScore {
				t.Fatalf("score = %d, want %d", score, c.wantScore)
			}
			found := false
			for _, want := range c.wantCigars {
				if cigar.String() == want {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("cigar = %q, want one of %v", cigar.String(), c.wantCigars)
			}
			if rescored := cigar.CountScore(p); rescored != score {
				t.Fatalf("cigar.CountScore() = %d, want %d (returned score)", rescored, score)
			}
		})
	}
}

func TestAlignSelfAlignmentScoresMatchTimesLength(t *testing.T) {
	p := AlignParams{Match: 2, Mismatch: -3, GapOpening: -5, GapExtension: -2}
	for _, bases := range []string{"A", "ACGT", "ACGTACGTAC", "GATTACA"} {
		a := mustSeq(t, "a", bases)
		score, cigar := Align(a, a, p, true)
		want := int32(len(bases)) * p.Match
		if score != want {
			t.Fatalf("self-alignment(%q) score = %d, want %d", bases, score, want)
		}
		for i := 0; i < cigar.Len(); i++ {
			if cigar[i] != opMatch {
				t.Fatalf("self-alignment(%q) cigar = %q, want all '='", bases, cigar.String())
			}
		}
	}
}

func TestAlignReversalSymmetry(t *testing.T) {
	p := AlignParams{Match: 1, Mismatch: -2, GapOpening: -4, GapExtension: -1}
	pairs := [][2]string{
		{"ACGT", "ACGT"},
		{"ACGT", "AGGT"},
		{"ACGTACGT", "ACGTTT"},
		{"GATTACA", "GATACA"},
	}
	for _, pair := range pairs {
		a := mustSeq(t, "a", pair[0])
		b := mustSeq(t, "b", pair[1])

		fwdScore, fwdCigar := Align(a, b, p, true)
		revScore, revCigar := Align(a.Reverse(), b.Reverse(), p, true)

		if fwdScore != revScore {
			t.Fatalf("reversal symmetry broken for %v: fwd score %d, rev score %d", pair, fwdScore, revScore)
		}
		if fwdCigar != revCigar.Reverse() {
			t.Fatalf("reversal symmetry broken for %v: fwd cigar %q, reverse(rev cigar) %q",
				pair, fwdCigar.String(), revCigar.Reverse().String())
		}
	}
}

func TestAlignCigarLengthBounds(t *testing.T) {
	p := AlignParams{Match: 1, Mismatch: -1, GapOpening: -2, GapExtension: -1}
	pairs := [][2]string{
		{"ACGT", "ACGT"},
		{"ACGT", "ACT"},
		{"ACGT", "ACCGT"},
		{"A", "A"},
		{"A", "ACGTACGT"},
		{"ACGTACGT", "A"},
	}
	for _, pair := range pairs {
		a := mustSeq(t, "a", pair[0])
		b := mustSeq(t, "b", pair[1])
		_, cigar := Align(a, b, p, true)

		l1, l2 := a.Len(), b.Len()
		lo := l1
		if l2 > lo {
			lo = l2
		}
		hi := l1 + l2
		if cigar.Len() < lo || cigar.Len() > hi {
			t.Fatalf("cigar length %d for %v out of bounds [%d,%d]", cigar.Len(), pair, lo, hi)
		}
	}
}

func TestAlignSingleNucleotidePairs(t *testing.T) {
	p := AlignParams{Match: 3, Mismatch: -3, GapOpening: -4, GapExtension: -2}

	score, cigar := Align(mustSeq(t, "a", "A"), mustSeq(t, "b", "A"), p, true)
	if score != 3 || cigar.String() != "=" {
		t.Fatalf("A/A: score=%d cigar=%q, want 3/'='", score, cigar.String())
	}

	score, cigar = Align(mustSeq(t, "a", "A"), mustSeq(t, "b", "G"), p, true)
	if score != -3 || cigar.String() != "X" {
		t.Fatalf("A/G: score=%d cigar=%q, want -3/'X'", score, cigar.String())
	}
}

func TestAlignGroupMatchesAlignAcrossLaneCounts(t *testing.T) {
	p := AlignParams{Match: 2, Mismatch: -2, GapOpening: -3, GapExtension: -1}
	pairs := [][2]string{
		{"ACGTACGT", "ACGTACGT"},
		{"ACGTACGT", "ACGTTT"},
		{"GATTACAGATTACA", "GATACAGATACA"},
	}
	for _, pair := range pairs {
		a := mustSeq(t, "a", pair[0])
		b := mustSeq(t, "b", pair[1])
		wantScore, wantCigar := Align(a, b, p, true)

		for _, lanes := range []int{1, 2, GroupSize, 8} {
			score, cigar := AlignGroup(a, b, p, true, lanes)
			if score != wantScore {
				t.Fatalf("AlignGroup(%v, lanes=%d) score = %d, want %d", pair, lanes, score, wantScore)
			}
			if cigar != wantCigar {
				t.Fatalf("AlignGroup(%v, lanes=%d) cigar = %q, want %q", pair, lanes, cigar.String(), wantCigar.String())
			}
		}
	}
}

func TestAlignScoreOnlySkipsTraceback(t *testing.T) {
	p := AlignParams{Match: 1, Mismatch: -1, GapOpening: -1, GapExtension: -1}
	a := mustSeq(t, "a", "ACGTACGT")
	b := mustSeq(t, "b", "ACGTACGT")

	scoreOnly, cigar := Align(a, b, p, false)
	if cigar != "" {
		t.Fatalf("wantCigar=false still produced a cigar: %q", cigar.String())
	}
	scoreWithCigar, _ := Align(a, b, p, true)
	if scoreOnly != scoreWithCigar {
		t.Fatalf("score with wantCigar=false (%d) != score with wantCigar=true (%d)", scoreOnly, scoreWithCigar)
	}
}
