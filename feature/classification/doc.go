// Package classification serves the reconciled KBLI registry.
//
// A reconciliation pass loads the portal and regulation batches in parallel,
// parses them with their source adapters, normalizes both onto the canonical
// schema and reconciles them into one snapshot. The snapshot is swapped in
// atomically, archived to the database when one is connected, and announced
// on the event bus. Concurrent refresh requests join the pass in flight.
//
// # Routes
//
//	GET  /registry/summary        partition, sector and risk level aggregates
//	GET  /registry/codes          filtered, paged query
//	GET  /registry/codes/:code    single code with partition and provenance
//	GET  /registry/conflicts      matched codes whose sources disagree
//	GET  /registry/sectors        sector aggregates with division titles
//	GET  /registry/diff           changes against the previous snapshot
//	GET  /registry/history        archived snapshots
//	GET  /export/unified          canonical unified document
//	GET  /export/surplus          surplus report (?format=csv)
//	GET  /export/deficit          deficit report (?format=csv)
//	POST /reconcile               run a pass (?publish=true uploads the exports)
//
// Reads before the first successful pass answer 503. Invalid filters answer
// 400 and rejected source input answers 422.
package classification
