// Package health reports whether the registry can serve and refresh.
//
// # Checks Provided
//
//   - Snapshot: whether a reconciled snapshot is being served, with its id and size.
//   - Storage: whether the bucket holds the configured source objects (bucket origin only)
//     and the export folder.
//   - Database: whether the archive table carries every column the archive writes.
//
// # HTTP Endpoints
//
//   - GET /health : Runs all checks. Answers 503 until the first snapshot is served.
//   - GET /health/storage : Runs the storage checks (supports ?fix=true for the export folder).
//   - GET /health/database : Runs the archive table check.
package health
