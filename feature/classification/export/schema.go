package export

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://kbli-registry.local/schemas/unified.schema.json"

// unifiedSchema describes the unified export document.
const unifiedSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["schemaVersion", "snapshotId", "createdAt", "summary", "entries"],
  "properties": {
    "schemaVersion": {"type": "string", "minLength": 1},
    "snapshotId": {"type": "string", "minLength": 1},
    "createdAt": {"type": "string", "format": "date-time"},
    "portalFetchedAt": {"type": "string", "format": "date-time"},
    "regulationFetchedAt": {"type": "string", "format": "date-time"},
    "summary": {"type": "object"},
    "entries": {"type": "array", "items": {"$ref": "#/$defs/entry"}}
  },
  "$defs": {
    "nullableBool": {"type": ["boolean", "null"]},
    "entry": {
      "type": "object",
      "required": ["code", "title", "sector", "riskLevel", "provenance", "sourceConflicts"],
      "properties": {
        "code": {"type": "string", "pattern": "^[0-9]{2,5}$"},
        "title": {"type": "string"},
        "sector": {"type": "string", "pattern": "^[0-9]{2}$"},
        "riskLevel": {"enum": ["Low", "Medium", "High", "Unclassified"]},
        "pmaAllowed": {"$ref": "#/$defs/nullableBool"},
        "foreignOwnershipCapPercent": {"type": ["integer", "null"], "minimum": 0, "maximum": 100},
        "scaleTiers": {"type": "array", "items": {"enum": ["Micro", "Small", "Medium", "Large"]}, "uniqueItems": true},
        "requirements": {"type": "array", "items": {"type": "string"}},
        "obligations": {"type": "array", "items": {"type": "string"}},
        "fictitiousPositiveEligible": {"$ref": "#/$defs/nullableBool"},
        "provenance": {"type": "array", "minItems": 1, "maxItems": 2, "uniqueItems": true, "items": {"enum": ["Portal", "Regulation"]}},
        "sourceConflicts": {
          "type": "object",
          "additionalProperties": {
            "type": "object",
            "required": ["portal", "regulation"],
            "properties": {"portal": {"type": "string"}, "regulation": {"type": "string"}}
          }
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, strings.NewReader(unifiedSchema)); err != nil {
			schemaErr = fmt.Errorf("unified schema load failed: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("unified schema compile failed: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}
