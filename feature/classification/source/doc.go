// Package source contains the two source adapters and the plumbing that feeds
// them raw rows.
//
// An Adapter maps a source's column vocabulary (Indonesian and English labels,
// matched case-insensitively) onto intermediate records. Rows with a missing or
// malformed code are reported as ParseError values and skipped; a bad row never
// aborts the batch.
//
// Batches are CSV or JSON files read from disk or from the object storage
// bucket by a Loader. A Watcher can observe an inbox directory and trigger a
// refresh when batch files change.
package source
