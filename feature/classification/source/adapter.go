package source

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"kbli-registry/feature/classification/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var codePattern = regexp.MustCompile(`^\d{2,5}$`)

// Adapter turns one source's raw rows into intermediate records.
type Adapter struct {
	source     models.SourceID
	vocabulary map[string]field
}

// NewPortalAdapter returns the adapter for the licensing portal extract.
func NewPortalAdapter() *Adapter {
	return &Adapter{source: models.SourcePortal, vocabulary: portalVocabulary}
}

// NewRegulationAdapter returns the adapter for the regulation annex extract.
func NewRegulationAdapter() *Adapter {
	return &Adapter{source: models.SourceRegulation, vocabulary: regulationVocabulary}
}

// ForSource returns the adapter for id, or nil if the source is unknown.
func ForSource(id models.SourceID) *Adapter {
	switch id {
	case models.SourcePortal:
		return NewPortalAdapter()
	case models.SourceRegulation:
		return NewRegulationAdapter()
	}
	return nil
}

// Source returns the source this adapter parses.
func (a *Adapter) Source() models.SourceID {
	return a.source
}

// Parse maps raw rows to intermediate records. Rows with a missing or malformed
// code, or without a title, are reported and skipped; the rest of the batch is
// still parsed.
func (a *Adapter) Parse(rows []models.RawRow) ([]models.IntermediateRecord, []ParseError) {
	return a.parse(rows, nil)
}

func (a *Adapter) parse(rows []models.RawRow, nonText map[int][]string) ([]models.IntermediateRecord, []ParseError) {
	fold := cases.Fold()
	records := make([]models.IntermediateRecord, 0, len(rows))
	var errs []ParseError

	for i, row := range rows {
		// A numeric code cell has already lost any leading zero.
		if label, ok := a.codeLabel(fold, nonText[i]); ok {
			errs = append(errs, ParseError{Source: a.source, Row: i, Code: cleanCode(row[label]), Reason: "code must be a JSON string"})
			continue
		}

		rec := models.IntermediateRecord{Row: i}
		labels := make([]string, 0, len(row))
		for label := range row {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			f, ok := a.vocabulary[headerKey(fold, label)]
			if !ok {
				continue
			}
			assign(&rec, f, strings.TrimSpace(row[label]))
		}

		rec.Code = cleanCode(rec.Code)
		switch {
		case rec.Code == "":
			errs = append(errs, ParseError{Source: a.source, Row: i, Reason: "missing code"})
			continue
		case !codePattern.MatchString(rec.Code):
			errs = append(errs, ParseError{Source: a.source, Row: i, Code: rec.Code, Reason: "code must be 2 to 5 digits"})
			continue
		case rec.Title == "":
			errs = append(errs, ParseError{Source: a.source, Row: i, Code: rec.Code, Reason: "missing title"})
			continue
		}

		records = append(records, rec)
	}

	return records, errs
}

// codeLabel returns the first of labels that names the code column.
func (a *Adapter) codeLabel(fold cases.Caser, labels []string) (string, bool) {
	for _, label := range labels {
		if f, ok := a.vocabulary[headerKey(fold, label)]; ok && f == fieldCode {
			return label, true
		}
	}
	return "", false
}

// Snapshot parses rows and captures the result as an immutable source snapshot.
func (a *Adapter) Snapshot(rows []models.RawRow, fetchedAt time.Time) (models.SourceSnapshot, []ParseError) {
	records, errs := a.Parse(rows)
	return models.NewSourceSnapshot(a.source, fetchedAt, records), errs
}

// ParseBatch is Snapshot for a loaded batch. Rows whose code arrived as a JSON
// number or boolean are rejected.
func (a *Adapter) ParseBatch(b *Batch) (models.SourceSnapshot, []ParseError) {
	records, errs := a.parse(b.Rows, b.NonText)
	return models.NewSourceSnapshot(a.source, b.FetchedAt, records), errs
}

func assign(rec *models.IntermediateRecord, f field, value string) {
	// A non-empty slot is never overwritten.
	var slot *string
	switch f {
	case fieldCode:
		slot = &rec.Code
	case fieldTitle:
		slot = &rec.Title
	case fieldRisk:
		slot = &rec.Risk
	case fieldPMA:
		slot = &rec.PMA
	case fieldOwnershipCap:
		slot = &rec.OwnershipCap
	case fieldScale:
		slot = &rec.Scale
	case fieldRequirements:
		slot = &rec.Requirements
	case fieldObligations:
		slot = &rec.Obligations
	case fieldFictitiousPositive:
		slot = &rec.FictitiousPositive
	default:
		return
	}
	if *slot == "" {
		*slot = value
	}
}

// cleanCode strips the spreadsheet text marker and inner spaces from a code cell.
func cleanCode(code string) string {
	code = strings.TrimSpace(code)
	code = strings.TrimPrefix(code, "'")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code)
}

// headerKey folds a column label so "Kode_KBLI", "KODE KBLI" and " kode-kbli "
// all resolve to "kode kbli".
func headerKey(fold cases.Caser, label string) string {
	label = norm.NFC.String(label)
	label = strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.', ':':
			return ' '
		}
		return r
	}, label)
	label = strings.Join(strings.Fields(label), " ")
	return fold.String(label)
}
