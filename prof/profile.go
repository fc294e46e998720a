// Package prof records coarse wall-clock timings for the expensive
// phases (trapdoor solve, key generation, signing) without pulling in
// a tracing dependency.
package prof

import (
	"sort"
	"sync"
	"time"
)

// Entry is a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track logs the duration since start under the given label. Intended
// as `defer prof.Track(time.Now(), "phase")`.
func Track(start time.Time, label string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Label: label, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns the collected entries and clears them.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := record
	record = nil
	return out
}

// Totals aggregates the current entries per label, sorted by total
// duration descending. The record is left intact.
func Totals() []Entry {
	mu.Lock()
	sums := make(map[string]time.Duration)
	for _, e := range record {
		sums[e.Label] += e.Dur
	}
	mu.Unlock()
	out := make([]Entry, 0, len(sums))
	for label, d := range sums {
		out = append(out, Entry{Label: label, Dur: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dur > out[j].Dur })
	return out
}
