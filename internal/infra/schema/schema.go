// Package schema validates question sets against a JSON Schema before they
// reach a deck.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"quiz-arena/internal/domain"
)

// QuestionSetSchema is the JSON Schema every question set must satisfy.
const QuestionSetSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "questions"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "title": {"type": "string"},
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["prompt", "options", "correctIndex"],
        "properties": {
          "prompt": {"type": "string", "minLength": 1},
          "options": {
            "type": "array",
            "items": {"type": "string"},
            "minItems": 4,
            "maxItems": 4
          },
          "correctIndex": {"type": "integer", "minimum": 0, "maximum": 3},
          "timeLimit": {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`

// Validator checks question sets against QuestionSetSchema.
type Validator struct {
	schema *gojsonschema.Schema
}

func New() (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(QuestionSetSchema))
	if err != nil {
		return nil, fmt.Errorf("compile question set schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate returns an error wrapping domain.ErrInvalidQuestionSet that lists
// every violation.
func (v *Validator) Validate(set domain.QuestionSet) error {
	return v.validate(set.ID, gojsonschema.NewGoLoader(set))
}

// ValidateJSON validates a raw JSON document (a Postgres row, an upload).
func (v *Validator) ValidateJSON(raw []byte) error {
	var head struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &head)
	return v.validate(head.ID, gojsonschema.NewBytesLoader(raw))
}

func (v *Validator) validate(id string, doc gojsonschema.JSONLoader) error {
	result, err := v.schema.Validate(doc)
	if err != nil {
		return fmt.Errorf("%w %q: %v", domain.ErrInvalidQuestionSet, id, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w %q: %s", domain.ErrInvalidQuestionSet, id, strings.Join(msgs, "; "))
}
