package workflow

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dukex/scribe/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

var ErrInvalidDefinition = errors.New("invalid workflow definition")

const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "steps"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "input": {"type": "string"},
    "schedule": {"type": "string"},
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "prompt"],
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string", "minLength": 1},
          "prompt": {"type": "string", "minLength": 1},
          "order": {"type": "integer"}
        }
      }
    }
  }
}`

var definitionLoader = gojsonschema.NewStringLoader(definitionSchema)

// LoadDefinition reads a workflow definition from a YAML or JSON file.
func LoadDefinition(path string) (*models.Workflow, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow definition %s: %w", path, err)
	}

	return ParseDefinition(body)
}

// ParseDefinition validates body against the definition schema and decodes it. Steps without an
// ID get a generated one.
func ParseDefinition(body []byte) (*models.Workflow, error) {
	var document map[string]any
	if err := yaml.Unmarshal(body, &document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	if document == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
	}

	result, err := gojsonschema.Validate(definitionLoader, gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(problems, "; "))
	}

	var workflow models.Workflow
	if err := yaml.Unmarshal(body, &workflow); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	for i := range workflow.Steps {
		if workflow.Steps[i].ID == "" {
			workflow.Steps[i].ID = uuid.NewString()
		}
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(workflow); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	return &workflow, nil
}
