// Package export renders registry snapshots for downstream consumers.
//
// The unified document carries every entry with its provenance and source
// conflicts. It is encoded canonically (RFC 8785) so equal snapshots produce
// identical bytes, and DecodeUnified validates it against a JSON schema and a
// semantic version constraint before rebuilding the snapshot.
//
// Surplus and deficit reports group one partition by sector with per-sector
// and overall percentages, as JSON or CSV.
package export
