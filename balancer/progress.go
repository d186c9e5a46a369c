package balancer

import (
	"sync/atomic"

	"github.com/dnatile/pimalign"
)

// ProgressBar renders a single-line, carriage-return-refreshed bar for
// a long dispatch loop (one per balancer Run call). Current is updated
// concurrently by tile workers as batches complete; Total is fixed at
// construction.
type ProgressBar struct {
	Label   string
	Total   uint64
	Current uint64
}

func (bar *ProgressBar) Increment() {
	atomic.AddUint64(&bar.Current, 1)
}

func (bar *ProgressBar) ClearAndDisplay() {
	pimalign.Vprint("\r")
	barWidth := uint64(80 - len(bar.Label))
	total := bar.Total
	if total == 0 {
		total = 1
	}
	current := atomic.LoadUint64(&bar.Current)
	ticks := (barWidth * current) / total
	pimalign.Vprintf("%s [", bar.Label)
	for i := uint64(0); i < ticks; i++ {
		pimalign.Vprint("=")
	}
	for i := uint64(0); i < (barWidth - ticks); i++ {
		pimalign.Vprint(" ")
	}
	pimalign.Vprint("] ")
	pimalign.Vprintf("%d / %d", current, bar.Total)
}
