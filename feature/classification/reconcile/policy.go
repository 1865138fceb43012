package reconcile

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"kbli-registry/feature/classification/models"

	"gopkg.in/yaml.v3"
)

// Policy names, per merge field, the source whose value wins when both supply one.
type Policy map[string]models.SourceID

// DefaultPolicy gives the regulation authority over legally defined attributes
// and the portal authority over procedural ones.
func DefaultPolicy() Policy {
	return Policy{
		models.FieldTitle:                      models.SourcePortal,
		models.FieldRiskLevel:                  models.SourceRegulation,
		models.FieldPMAAllowed:                 models.SourceRegulation,
		models.FieldForeignOwnershipCapPercent: models.SourceRegulation,
		models.FieldScaleTiers:                 models.SourceRegulation,
		models.FieldRequirements:               models.SourcePortal,
		models.FieldObligations:                models.SourcePortal,
		models.FieldFictitiousPositive:         models.SourcePortal,
	}
}

// Precedence returns the winning source for field.
func (p Policy) Precedence(field string) models.SourceID {
	if src, ok := p[field]; ok {
		return src
	}
	return DefaultPolicy()[field]
}

// Validate rejects unknown fields and sources.
func (p Policy) Validate() error {
	known := make(map[string]struct{}, len(models.MergeFields))
	for _, f := range models.MergeFields {
		known[f] = struct{}{}
	}

	var errs []error
	fields := make([]string, 0, len(p))
	for f := range p {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if _, ok := known[f]; !ok {
			errs = append(errs, fmt.Errorf("unknown field %q", f))
			continue
		}
		if !p[f].Valid() {
			errs = append(errs, fmt.Errorf("field %q: unknown source %q", f, p[f]))
		}
	}
	return errors.Join(errs...)
}

type policyFile struct {
	Precedence map[string]string `yaml:"precedence"`
}

// ParsePolicy reads a YAML policy and overlays it on DefaultPolicy.
//
//	precedence:
//	  riskLevel: regulation
//	  requirements: portal
func ParsePolicy(data []byte) (Policy, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	p := DefaultPolicy()
	for field, src := range file.Precedence {
		p[field] = canonicalSource(src)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	return p, nil
}

// LoadPolicy reads a policy file. An empty path yields DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	return ParsePolicy(data)
}

func canonicalSource(s string) models.SourceID {
	for _, src := range models.Sources {
		if strings.EqualFold(strings.TrimSpace(s), string(src)) {
			return src
		}
	}
	return models.SourceID(s)
}
