package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dukex/flowcheck/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedInput indicates a workflow document that cannot be interpreted at all.
var ErrMalformedInput = errors.New("malformed workflow input")

// IsMalformedInput checks if an error indicates an undecodable workflow document.
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

// workflowSchema describes the persisted workflow document. Required workflow
// fields are left to ValidateStructure so both passes never report the same problem.
const workflowSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Workflow",
  "type": "object",
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string"},
    "active": {"type": "boolean"},
    "settings": {"type": ["object", "null"]},
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string"},
          "type": {"type": "string"},
          "typeVersion": {"type": "number"},
          "position": {
            "type": "array",
            "items": {"type": "number"},
            "minItems": 2,
            "maxItems": 2
          },
          "parameters": {"type": ["object", "null"]},
          "disabled": {"type": "boolean"},
          "continueOnFail": {"type": "boolean"},
          "retryOnFail": {"type": "boolean"},
          "maxTries": {"type": "integer"},
          "notes": {"type": "string"}
        }
      }
    },
    "connections": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "node": {"type": "string"},
              "type": {"type": "string"},
              "index": {"type": "integer", "minimum": 0}
            }
          }
        }
      }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(workflowSchema))
})

// ValidateDocument checks a raw workflow document against the workflow JSON schema.
// It catches shape problems a typed decode cannot represent, such as a non-array
// node list or a non-numeric connection index.
func ValidateDocument(raw []byte) StructureResult {
	schema, err := compiledSchema()
	if err != nil {
		return newResult([]string{fmt.Sprintf("Workflow schema is invalid: %v", err)})
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return newResult([]string{fmt.Sprintf("Workflow document is not valid JSON: %v", err)})
	}

	var errs []string

	for _, desc := range result.Errors() {
		errs = append(errs, fmt.Sprintf("Workflow document %s: %s", desc.Field(), desc.Description()))
	}

	return newResult(errs)
}

// Decode validates a raw document and decodes it. The returned result merges the
// document and structure findings. ErrMalformedInput is returned only when the
// document cannot be decoded into a workflow; the result then lists every schema
// finding followed by the decode failure.
func Decode(raw []byte) (*models.Workflow, StructureResult, error) {
	document := ValidateDocument(raw)

	var workflow models.Workflow

	err := json.Unmarshal(raw, &workflow)
	if err != nil {
		document.Errors = append(document.Errors, fmt.Sprintf("Workflow document cannot be decoded: %v", err))

		return nil, newResult(document.Errors), fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	structure := ValidateStructure(&workflow)

	return &workflow, newResult(append(document.Errors, structure.Errors...)), nil
}
