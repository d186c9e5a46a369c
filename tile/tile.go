package tile

import (
	"sync"
	"sync/atomic"

	"github.com/dnatile/pimalign"
)

// DefaultWorkers and DefaultGroups mirror the concrete numbers the
// original accelerator used (T=24 tasklets in G=6 groups of 4), kept
// as tunables per spec.md section 4.2's "tunable parameters" note.
const (
	DefaultWorkers = 24
	DefaultGroups  = 6
)

// Scheduler runs Groups concurrent leader goroutines, each draining a
// Batch's claimed pairs one at a time and driving every pair it claims
// through the cooperative group-of-4 kernel (spec.md section 4.2),
// until the pair-dispatch discipline reports the batch exhausted.
//
// The original accelerator gives each group of 4 tasklets one leader
// (claims and drives a pair through the kernel) and three followers
// that split that single pair's 128-cell diagonal sweep across
// themselves. A Scheduler re-expresses that directly: each leader
// claims a pair (the hand-off), then calls pimalign.AlignGroup, which
// spawns pimalign.GroupSize lanes that cooperate on that one pair via
// a shared barrier, before the leader moves on to its next claim.
// Parallelism across pairs (Groups) and within one pair (GroupSize)
// both happen, matching the T=24-tasklets-in-G=6-groups-of-4 shape.
type Scheduler struct {
	Workers int
	Groups  int
}

// NewScheduler returns a Scheduler with the given worker count,
// clamped to at least one group of 4.
func NewScheduler(workers int) *Scheduler {
	if workers < 4 {
		workers = 4
	}
	return &Scheduler{Workers: workers, Groups: (workers + 3) / 4}
}

// Run drains every pair the batch's claim cursor produces, invoking
// the kernel for each, and returns the assembled tile Result. Results
// are written at their claimed score_offset so output order matches
// the pair-dispatch discipline regardless of which worker finishes
// which pair first.
func (s *Scheduler) Run(b *Batch) *Result {
	claim := newClaimFor(b)

	scoreCount := scoreSlots(b)
	res := &Result{
		Scores: make([]int32, scoreCount),
	}
	var cigars []pimalign.Cigar
	var lengths []uint16
	if b.WantCigars {
		cigars = make([]pimalign.Cigar, scoreCount)
		lengths = make([]uint16, scoreCount)
	}

	var perfCounter uint64
	var wg sync.WaitGroup
	groups := s.Groups
	if groups > scoreCount && scoreCount > 0 {
		groups = scoreCount
	}
	if groups < 1 {
		groups = 1
	}

	for g := 0; g < groups; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				work, ok := claim.next()
				if !ok {
					return
				}
				a := b.SequenceAt(work.seq1)
				bSeq := b.SequenceAt(work.seq2)
				score, cigar := pimalign.AlignGroup(a, bSeq, b.Params, b.WantCigars, pimalign.GroupSize)

				res.Scores[work.scoreOffset] = score
				if b.WantCigars {
					cigars[work.scoreOffset] = cigar
					lengths[work.scoreOffset] = uint16(cigar.Len())
				}
				atomic.AddUint64(&perfCounter, uint64(a.Len()+bSeq.Len()-1))
			}
		}()
	}
	wg.Wait()

	res.PerfCounter = perfCounter
	res.Cigars = cigars
	res.Lengths = lengths
	return res
}

func newClaimFor(b *Batch) *pairClaim {
	if b.Mode == ModeSet {
		return newSetClaim(b.SetSizes[:b.NumberOfSets], int(b.NumberOfSets))
	}
	return newFlatClaim(b.Mode, b.Comparison.N, b.Comparison.StartRow, b.Comparison.StartCol, b.Comparison.Count)
}

func scoreSlots(b *Batch) int {
	if b.Mode == ModeSet {
		total := 0
		for s := 0; s < int(b.NumberOfSets); s++ {
			n := int(b.SetSizes[s])
			total += n * (n - 1) / 2
		}
		return total
	}
	return b.Comparison.Count
}
