package source

import (
	"fmt"

	"kbli-registry/feature/classification/models"
)

// ParseError reports a raw row that did not yield a valid intermediate record.
type ParseError struct {
	Source models.SourceID `json:"source"`
	// Row is the zero-based index of the rejected row within its batch.
	Row    int    `json:"row"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason"`
}

func (e ParseError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s row %d (%s): %s", e.Source, e.Row, e.Code, e.Reason)
	}
	return fmt.Sprintf("%s row %d: %s", e.Source, e.Row, e.Reason)
}
