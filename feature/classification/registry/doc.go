// Package registry holds reconciled snapshots and serves them to readers.
//
// A Snapshot is immutable once built and indexes its entries by code. The
// Store publishes a new snapshot with a single atomic pointer swap, so readers
// see either the old registry or the new one, never a mix. The replaced
// snapshot is kept only so Diff can report what a pass changed.
package registry
