// Package metrics exposes Prometheus collectors for reconciliation passes and
// the served registry snapshot, and a fiber handler for the /metrics endpoint.
package metrics
