// Package measure collects named byte and event counters behind an
// environment gate, so instrumented paths cost one branch when the
// gate is off.
package measure

import (
	"os"
	"sort"
	"sync"
)

// Enabled gates all collection; set SIGMEASURE=1 to turn it on.
var Enabled = os.Getenv("SIGMEASURE") == "1"

// Registry accumulates counters by name.
type Registry struct {
	mu sync.Mutex
	m  map[string]uint64
}

// Global is the registry the library code reports into.
var Global = &Registry{m: make(map[string]uint64)}

// Add accumulates v under name. No-op while disabled.
func (r *Registry) Add(name string, v uint64) {
	if !Enabled {
		return
	}
	r.mu.Lock()
	r.m[name] += v
	r.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (r *Registry) Snapshot() map[string]uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]uint64, len(r.m))
	for k, v := range r.m {
		out[k] = v
	}
	return out
}

// SnapshotAndReset returns the counters and clears the registry.
func (r *Registry) SnapshotAndReset() map[string]uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.m
	r.m = make(map[string]uint64)
	return out
}

// Names returns the counter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.m))
	for k := range r.m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
