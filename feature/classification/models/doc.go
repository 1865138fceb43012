// Package models defines the canonical classification entities shared by the
// adapters, normalizer, reconciliation engine and exporters.
package models
