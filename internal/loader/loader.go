// Package loader parses and validates forensic metadata documents into records.
// The core engine never performs I/O itself; this package is the boundary that
// feeds it.
package loader

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/forensica/triage/internal/models"
)

// recordSchema validates the shape of a metadata document before decoding:
// a record object or an array of them, content as string or {text} object.
// Presence of path is not enforced here; a missing path is a classification
// error with its own failure mode.
const recordSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "oneOf": [
    {"$ref": "#/$defs/record"},
    {"type": "array", "items": {"$ref": "#/$defs/record"}}
  ],
  "$defs": {
    "record": {
      "type": "object",
      "properties": {
        "path": {"type": "string"},
        "file_path": {"type": "string"},
        "type": {"type": "string"},
        "content": {
          "oneOf": [
            {"type": "string"},
            {"type": "null"},
            {"type": "object", "properties": {"text": {"type": "string"}}}
          ]
        },
        "tags": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("records.schema.json", recordSchema)

// rawRecord tolerates the legacy "file_path" alias for "path".
type rawRecord struct {
	Path     string         `json:"path"`
	FilePath string         `json:"file_path"`
	Type     string         `json:"type"`
	Content  models.Content `json:"content"`
	Tags     []string       `json:"tags"`
}

func (r *rawRecord) record() models.Record {
	path := r.Path
	if path == "" {
		path = r.FilePath
	}
	return models.Record{Path: path, Type: r.Type, Content: r.Content, Tags: r.Tags}
}

// Parse decodes a metadata JSON document into records. The document may be a
// single record object or an array of them. It is validated against the
// record schema first; validation failures are returned as errors.
func Parse(data []byte) ([]models.Record, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse metadata document: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("metadata document failed schema validation: %w", err)
	}

	var raws []rawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		// Single-object form.
		var one rawRecord
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("decode metadata document: %w", err)
		}
		raws = []rawRecord{one}
	}

	records := make([]models.Record, 0, len(raws))
	for i := range raws {
		records = append(records, raws[i].record())
	}
	return records, nil
}
