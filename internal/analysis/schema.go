package analysis

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	optString  = `{"type": ["string", "null"]}`
	stringList = `{"type": ["array", "null"], "items": {"type": "string"}}`
)

var analyzeSchemaJSON = `{
  "type": "object",
  "required": ["analogs"],
  "properties": {
    "analogs": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "description": ` + optString + `,
          "businessModel": ` + optString + `,
          "funding": ` + optString + `,
          "stage": ` + optString + `,
          "similarity": {"type": ["number", "null"]},
          "strengths": ` + stringList + `,
          "weaknesses": ` + stringList + `,
          "marketPosition": ` + optString + `
        }
      }
    },
    "recommendations": ` + stringList + `,
    "analysisTimestamp": ` + optString + `,
    "totalAnalogs": {"type": ["number", "null"]}
  }
}`

var grantsSchemaJSON = `{
  "type": "object",
  "required": ["grants"],
  "properties": {
    "grants": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "why": ` + optString + `
        }
      }
    }
  }
}`

var (
	analyzeSchema = mustSchema(analyzeSchemaJSON)
	grantsSchema  = mustSchema(grantsSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid response schema: %v", err))
	}
	return s
}

// validate checks a decoded JSON document against schema.
func validate(schema *gojsonschema.Schema, doc interface{}) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(errs, "; "))
	}
	return nil
}
