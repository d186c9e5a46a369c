// Package api exposes a read-only debug/telemetry HTTP surface over a
// balancer run: its mode, rank and pair counts, the performance counter
// summed over all tiles, and the scores. It never mutates alignment state and
// never sits on the hot alignment path (spec.md section 6 names the
// CLI as the only required collaborator surface; this is an optional
// sibling modeled on bioflow-go's api/handlers).
package api

import (
	"sync"

	"github.com/dnatile/pimalign/balancer"
)

// Snapshot is the last completed balancer.Run this process observed,
// recorded by Recorder.Record and served back out over HTTP.
type Snapshot struct {
	Mode        string  `json:"mode"`
	Ranks       int     `json:"ranks"`
	Pairs       int     `json:"pairs"`
	PerfCounter uint64  `json:"perf_counter"`
	Scores      []int32 `json:"scores,omitempty"`
}

// Recorder is the thread-safe holder that Record updates after a run
// and the HTTP handlers read from. cmd/pimalign-server creates one but
// never records a run into it, so its /api/runs/last endpoint answers 404.
type Recorder struct {
	mu   sync.RWMutex
	last *Snapshot
}

// Record stores the latest run's result as the current snapshot.
func (r *Recorder) Record(mode balancer.Mode, ranks int, res *balancer.RunResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = &Snapshot{
		Mode:        mode.String(),
		Ranks:       ranks,
		Pairs:       len(res.Scores),
		PerfCounter: res.PerfCounter,
		Scores:      res.Scores,
	}
}

// Current returns the most recently recorded snapshot, or nil if no
// run has completed yet.
func (r *Recorder) Current() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}
