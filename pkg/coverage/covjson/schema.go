package covjson

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchema is returned when a report does not have the coverage.py JSON shape.
var ErrSchema = errors.New("not a coverage.py JSON report")

// reportSchema checks structure only. Line and arc values are checked per
// file so one bad entry does not reject the whole report.
const reportSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["files"],
  "properties": {
    "meta": {
      "type": "object",
      "properties": {
        "version": {"type": "string"},
        "branch_coverage": {"type": "boolean"}
      }
    },
    "files": {
      "type": "object",
      "additionalProperties": {"$ref": "#/definitions/file"}
    }
  },
  "definitions": {
    "lines": {"type": "array", "items": {"type": "integer"}},
    "arcs": {"type": "array", "items": {"type": "array", "items": {"type": "integer"}}},
    "file": {
      "type": "object",
      "properties": {
        "executed_lines": {"$ref": "#/definitions/lines"},
        "missing_lines": {"$ref": "#/definitions/lines"},
        "excluded_lines": {"$ref": "#/definitions/lines"},
        "executed_branches": {"$ref": "#/definitions/arcs"},
        "missing_branches": {"$ref": "#/definitions/arcs"}
      }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(reportSchema))
})

// Validate checks that content is shaped like a coverage.py JSON report.
func Validate(content []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile report schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return fmt.Errorf("parse coverage json: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		problems = append(problems, resultErr.String())
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(problems, "; "))
}
