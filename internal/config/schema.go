package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// benchConfigSchema is the JSON Schema applied to JSON config files before
// decoding. YAML configs skip this step; they get the same checks from
// Validate after decoding.
const benchConfigSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "BenchConfig",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string"},
    "writers": {"type": "integer", "minimum": 1, "maximum": 1024},
    "duration": {"$ref": "#/definitions/duration"},
    "window": {"$ref": "#/definitions/duration"},
    "chunks": {"type": "integer", "minimum": 1, "maximum": 1000},
    "snapshotEvery": {"$ref": "#/definitions/duration"},
    "hitProbability": {"type": "number", "minimum": 0, "maximum": 1},
    "valueMin": {"type": "integer", "minimum": 1},
    "valueMax": {"type": "integer", "minimum": 1},
    "sigFigs": {"type": "integer", "minimum": 1, "maximum": 5},
    "expectedInterval": {"type": "integer", "minimum": 0}
  },
  "definitions": {
    "duration": {
      "oneOf": [
        {"type": "string", "pattern": "^[0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h)$"},
        {"type": "integer", "minimum": 0}
      ]
    }
  }
}`

// ValidateJSON checks raw JSON config data against the embedded schema.
func ValidateJSON(data []byte) *ValidationErrors {
	errs := &ValidationErrors{}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("bench-config.json", strings.NewReader(benchConfigSchema)); err != nil {
		errs.Add("schema", err.Error())
		return errs
	}
	schema, err := compiler.Compile("bench-config.json")
	if err != nil {
		errs.Add("schema", err.Error())
		return errs
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		errs.Add("config", fmt.Sprintf("invalid JSON: %v", err))
		return errs
	}

	if err := schema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			collectSchemaErrors(ve, errs)
		} else {
			errs.Add("config", err.Error())
		}
	}
	return errs
}

func collectSchemaErrors(err *jsonschema.ValidationError, errs *ValidationErrors) {
	if len(err.Causes) == 0 {
		field := strings.TrimPrefix(err.InstanceLocation, "/")
		if field == "" {
			field = "config"
		}
		errs.Add(field, err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, errs)
	}
}
