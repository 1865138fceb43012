package export

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"kbli-registry/feature/classification/models"
	"kbli-registry/feature/classification/reconcile"
	"kbli-registry/feature/classification/registry"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-json"
	"github.com/gowebpki/jcs"
)

// SchemaVersion is written into every unified document.
const SchemaVersion = "1.0.0"

// compatibleVersions accepts any 1.x document on decode.
const compatibleVersions = "^1.0"

// ErrIncompatibleVersion is returned for documents of an unsupported major version.
var ErrIncompatibleVersion = errors.New("incompatible schema version")

// UnifiedDocument is the full merged registry with provenance.
type UnifiedDocument struct {
	SchemaVersion       string            `json:"schemaVersion"`
	SnapshotID          string            `json:"snapshotId"`
	CreatedAt           time.Time         `json:"createdAt"`
	PortalFetchedAt     time.Time         `json:"portalFetchedAt"`
	RegulationFetchedAt time.Time         `json:"regulationFetchedAt"`
	Summary             reconcile.Summary `json:"summary"`
	Entries             []Entry           `json:"entries"`
}

// Entry is one code of the unified document. Lists and the conflict map are
// always present, empty when there is nothing to report.
type Entry struct {
	Code                       string                          `json:"code"`
	Title                      string                          `json:"title"`
	Sector                     string                          `json:"sector"`
	RiskLevel                  models.RiskLevel                `json:"riskLevel"`
	PMAAllowed                 *bool                           `json:"pmaAllowed"`
	ForeignOwnershipCapPercent *int                            `json:"foreignOwnershipCapPercent"`
	ScaleTiers                 []models.ScaleTier              `json:"scaleTiers"`
	Requirements               []string                        `json:"requirements"`
	Obligations                []string                        `json:"obligations"`
	FictitiousPositiveEligible *bool                           `json:"fictitiousPositiveEligible"`
	Provenance                 []models.SourceID               `json:"provenance"`
	SourceConflicts            map[string]models.FieldConflict `json:"sourceConflicts"`
}

// Unified builds the unified document of a snapshot.
func Unified(snap *registry.Snapshot) UnifiedDocument {
	meta := snap.Meta()
	doc := UnifiedDocument{
		SchemaVersion:       SchemaVersion,
		SnapshotID:          meta.ID,
		CreatedAt:           meta.CreatedAt,
		PortalFetchedAt:     meta.PortalFetchedAt,
		RegulationFetchedAt: meta.RegulationFetchedAt,
		Summary:             snap.Summary(),
		Entries:             make([]Entry, 0, snap.Len()),
	}
	for _, c := range snap.All() {
		doc.Entries = append(doc.Entries, toEntry(c))
	}
	return doc
}

// EncodeUnified returns the canonical (RFC 8785) encoding of the unified
// document. Equal snapshots always encode to identical bytes.
func EncodeUnified(snap *registry.Snapshot) ([]byte, error) {
	return canonical(Unified(snap))
}

// ContentDigest hashes the registry content of a snapshot, ignoring its id and
// timestamps, so two passes over the same sources share a digest.
func ContentDigest(snap *registry.Snapshot) (string, error) {
	doc := Unified(snap)
	data, err := canonical(struct {
		Summary reconcile.Summary `json:"summary"`
		Entries []Entry           `json:"entries"`
	}{doc.Summary, doc.Entries})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// DecodeUnified validates a unified document and rebuilds the snapshot it was
// exported from, including provenance and conflicts.
func DecodeUnified(data []byte) (*registry.Snapshot, error) {
	sch, err := schema()
	if err != nil {
		return nil, err
	}
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode unified: %w", err)
	}
	if err := sch.Validate(raw); err != nil {
		return nil, fmt.Errorf("decode unified: %w", err)
	}

	var doc UnifiedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode unified: %w", err)
	}

	if err := checkVersion(doc.SchemaVersion); err != nil {
		return nil, err
	}

	result := &reconcile.Result{
		Matched:   []models.ClassificationCode{},
		Surplus:   []models.ClassificationCode{},
		Deficit:   []models.ClassificationCode{},
		Conflicts: []string{},
	}
	seen := make(map[string]struct{}, len(doc.Entries))
	prev := ""
	for _, e := range doc.Entries {
		if _, dup := seen[e.Code]; dup {
			return nil, fmt.Errorf("decode unified: duplicate code %s", e.Code)
		}
		seen[e.Code] = struct{}{}
		if e.Code < prev {
			return nil, fmt.Errorf("decode unified: entries not ordered by code at %s", e.Code)
		}
		prev = e.Code
		if e.Sector != models.SectorOf(e.Code) {
			return nil, fmt.Errorf("decode unified: code %s has sector %s", e.Code, e.Sector)
		}

		c := fromEntry(e)
		inPortal, inRegulation := c.HasSource(models.SourcePortal), c.HasSource(models.SourceRegulation)
		switch {
		case inPortal && inRegulation:
			result.Matched = append(result.Matched, c)
			if c.HasConflicts() {
				result.Conflicts = append(result.Conflicts, c.Code)
			}
		case c.HasConflicts():
			return nil, fmt.Errorf("decode unified: code %s has conflicts but a single source", e.Code)
		case inPortal:
			result.Surplus = append(result.Surplus, c)
		default:
			result.Deficit = append(result.Deficit, c)
		}
	}

	result.Summary = reconcile.Summarize(result.Matched, result.Surplus, result.Deficit)
	if !sameSummary(result.Summary, doc.Summary) {
		return nil, errors.New("decode unified: summary does not match entries")
	}

	return registry.New(result, registry.Meta{
		ID:                  doc.SnapshotID,
		CreatedAt:           doc.CreatedAt,
		PortalFetchedAt:     doc.PortalFetchedAt,
		RegulationFetchedAt: doc.RegulationFetchedAt,
	}), nil
}

func checkVersion(v string) error {
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrIncompatibleVersion, v, err)
	}
	constraint, err := semver.NewConstraint(compatibleVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleVersion, v, compatibleVersions)
	}
	return nil
}

func sameSummary(a, b reconcile.Summary) bool {
	x, err1 := json.Marshal(a)
	y, err2 := json.Marshal(b)
	return err1 == nil && err2 == nil && bytes.Equal(x, y)
}

func canonical(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	out, err := jcs.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return out, nil
}

func toEntry(c models.ClassificationCode) Entry {
	e := Entry{
		Code:                       c.Code,
		Title:                      c.Title,
		Sector:                     c.Sector,
		RiskLevel:                  c.RiskLevel,
		PMAAllowed:                 c.PMAAllowed,
		ForeignOwnershipCapPercent: c.ForeignOwnershipCapPercent,
		ScaleTiers:                 c.ScaleTiers,
		Requirements:               c.Requirements,
		Obligations:                c.Obligations,
		FictitiousPositiveEligible: c.FictitiousPositiveEligible,
		Provenance:                 c.Provenance,
		SourceConflicts:            c.SourceConflicts,
	}
	if e.ScaleTiers == nil {
		e.ScaleTiers = []models.ScaleTier{}
	}
	if e.Requirements == nil {
		e.Requirements = []string{}
	}
	if e.Obligations == nil {
		e.Obligations = []string{}
	}
	if e.SourceConflicts == nil {
		e.SourceConflicts = map[string]models.FieldConflict{}
	}
	return e
}

func fromEntry(e Entry) models.ClassificationCode {
	c := models.ClassificationCode{
		Code:                       e.Code,
		Title:                      e.Title,
		Sector:                     e.Sector,
		RiskLevel:                  e.RiskLevel,
		PMAAllowed:                 e.PMAAllowed,
		ForeignOwnershipCapPercent: e.ForeignOwnershipCapPercent,
		FictitiousPositiveEligible: e.FictitiousPositiveEligible,
		Provenance:                 e.Provenance,
	}
	if len(e.ScaleTiers) > 0 {
		c.ScaleTiers = e.ScaleTiers
	}
	if len(e.Requirements) > 0 {
		c.Requirements = e.Requirements
	}
	if len(e.Obligations) > 0 {
		c.Obligations = e.Obligations
	}
	if len(e.SourceConflicts) > 0 {
		c.SourceConflicts = e.SourceConflicts
	}
	return c
}
