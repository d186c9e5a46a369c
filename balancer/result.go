package balancer

import "github.com/dnatile/pimalign"

// RunResult is the balancer's caller-visible output: one score (and,
// if requested, one CIGAR) per pair, laid out in the order spec.md
// section 4.3's "Result reassembly" describes — per-set-concatenated
// for Set mode, row-major upper-triangle for Pair/All mode.
type RunResult struct {
	Scores      []int32
	Cigars      []pimalign.Cigar
	PerfCounter uint64
}

// newRunResult sizes a RunResult for Set mode: the sum of every set's
// own all-vs-all pair count, in input-set order.
func newRunResult(sets []pimalign.Set) *RunResult {
	total := 0
	for _, s := range sets {
		total += s.Pairs()
	}
	return &RunResult{
		Scores: make([]int32, total),
		Cigars: make([]pimalign.Cigar, total),
	}
}

// newFlatRunResult sizes a RunResult for Pair/All mode: the single
// flat set's n*(n-1)/2 upper-triangle pairs. Pair/All mode never
// returns CIGARs (spec.md section 2), so Cigars stays nil unless a
// caller explicitly asks for it.
func newFlatRunResult(n int, wantCigars bool) *RunResult {
	total := n * (n - 1) / 2
	r := &RunResult{Scores: make([]int32, total)}
	if wantCigars {
		r.Cigars = make([]pimalign.Cigar, total)
	}
	return r
}
