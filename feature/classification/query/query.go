package query

import (
	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/registry"
)

// Page is one window of a query result, ordered by code ascending.
type Page struct {
	Items []models.ClassificationCode `json:"items"`
	// Total is the number of matches before paging.
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Run evaluates f against a snapshot.
func Run(snap *registry.Snapshot, f Filter) Page {
	source := snap.All()
	if f.Partition != "" {
		source = snap.Partition(f.Partition)
	}

	matches := make([]models.ClassificationCode, 0)
	for _, c := range source {
		if f.Match(c) {
			matches = append(matches, c)
		}
	}

	page := Page{Total: len(matches), Limit: f.Limit, Offset: f.Offset}
	start := f.Offset
	if start > len(matches) {
		start = len(matches)
	}
	end := len(matches)
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}
	page.Items = matches[start:end]
	return page
}
