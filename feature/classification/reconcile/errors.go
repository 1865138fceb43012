package reconcile

import (
	"fmt"
	"strings"

	"kbli-registry/feature/classification/models"
)

// InputError rejects a reconciliation pass whose input indicates an adapter
// defect: an empty catalog or a catalog with repeated codes.
type InputError struct {
	Source models.SourceID
	Reason string
	// Codes lists the duplicated codes, if any.
	Codes []string
}

func (e *InputError) Error() string {
	if len(e.Codes) > 0 {
		return fmt.Sprintf("%s input: %s: %s", e.Source, e.Reason, strings.Join(e.Codes, ", "))
	}
	return fmt.Sprintf("%s input: %s", e.Source, e.Reason)
}
