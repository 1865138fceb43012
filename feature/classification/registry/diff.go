package registry

import (
	"reflect"
	"sort"

	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/reconcile"
)

// Change lists the fields of one code that differ between two snapshots.
type Change struct {
	Code   string   `json:"code"`
	Fields []string `json:"fields"`
}

// Delta describes how one snapshot differs from another.
type Delta struct {
	FromID  string   `json:"fromId"`
	ToID    string   `json:"toId"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Changed []Change `json:"changed"`
}

// Empty reports whether the snapshots hold the same registry.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares two snapshots. A nil from treats every code as added.
func Diff(from, to *Snapshot) Delta {
	d := Delta{Added: []string{}, Removed: []string{}, Changed: []Change{}}
	if to != nil {
		d.ToID = to.ID()
	}
	if from != nil {
		d.FromID = from.ID()
	}

	if to != nil {
		for _, c := range to.All() {
			if from == nil {
				d.Added = append(d.Added, c.Code)
				continue
			}
			old, oldPart, ok := from.Lookup(c.Code)
			if !ok {
				d.Added = append(d.Added, c.Code)
				continue
			}
			_, newPart, _ := to.Lookup(c.Code)
			if fields := changedFields(old, c, oldPart, newPart); len(fields) > 0 {
				d.Changed = append(d.Changed, Change{Code: c.Code, Fields: fields})
			}
		}
	}

	if from != nil {
		for _, c := range from.All() {
			if to == nil {
				d.Removed = append(d.Removed, c.Code)
				continue
			}
			if _, _, ok := to.Lookup(c.Code); !ok {
				d.Removed = append(d.Removed, c.Code)
			}
		}
	}

	return d
}

func changedFields(a, b models.ClassificationCode, pa, pb reconcile.Partition) []string {
	var fields []string
	check := func(name string, x, y any) {
		if !reflect.DeepEqual(x, y) {
			fields = append(fields, name)
		}
	}

	if pa != pb {
		fields = append(fields, "partition")
	}
	check(models.FieldTitle, a.Title, b.Title)
	check(models.FieldRiskLevel, a.RiskLevel, b.RiskLevel)
	check(models.FieldPMAAllowed, a.PMAAllowed, b.PMAAllowed)
	check(models.FieldForeignOwnershipCapPercent, a.ForeignOwnershipCapPercent, b.ForeignOwnershipCapPercent)
	check(models.FieldScaleTiers, emptyAsNil(a.ScaleTiers), emptyAsNil(b.ScaleTiers))
	check(models.FieldRequirements, emptyAsNil(a.Requirements), emptyAsNil(b.Requirements))
	check(models.FieldObligations, emptyAsNil(a.Obligations), emptyAsNil(b.Obligations))
	check(models.FieldFictitiousPositive, a.FictitiousPositiveEligible, b.FictitiousPositiveEligible)
	if len(a.SourceConflicts) > 0 || len(b.SourceConflicts) > 0 {
		check("sourceConflicts", a.SourceConflicts, b.SourceConflicts)
	}

	sort.Strings(fields)
	return fields
}

func emptyAsNil[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
