// Package measureutil exposes the global counters and timings in
// display-friendly form for command-line front ends.
package measureutil

import (
	"fmt"
	"io"
	"sort"

	"fourpath-signature/measure"
	"fourpath-signature/prof"
)

// SnapshotAndReset returns the global counter map and clears it.
func SnapshotAndReset() map[string]uint64 {
	return measure.Global.SnapshotAndReset()
}

// Dump writes the global counters to w in sorted order and clears
// them, followed by per-phase timing totals when any were recorded.
func Dump(w io.Writer) {
	snap := SnapshotAndReset()
	names := make([]string, 0, len(snap))
	for k := range snap {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(w, "measure %-32s %d\n", k, snap[k])
	}
	for _, e := range prof.Totals() {
		fmt.Fprintf(w, "timing  %-32s %s\n", e.Label, e.Dur)
	}
	prof.SnapshotAndReset()
}
