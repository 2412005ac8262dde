package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaValidationError is the hard failure raised when normalized data still
// violates the canonical schema. By that point only a pipeline defect should
// trigger it.
type SchemaValidationError struct {
	Err error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("schema validation: %v", e.Err)
}

func (e *SchemaValidationError) Unwrap() error { return e.Err }

const recordSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["profile", "workExperiences", "educations", "skills", "licenses", "languages", "achievements", "publications", "honors"],
  "properties": {
    "profile": {
      "type": "object",
      "required": ["name", "surname"],
      "properties": {
        "name": {"type": "string"},
        "surname": {"type": "string"},
        "email": {"type": "string"},
        "headline": {"type": "string"},
        "professionalSummary": {"type": "string"},
        "linkedIn": {"type": "string"},
        "website": {"type": "string"},
        "country": {"type": "string"},
        "city": {"type": "string"},
        "relocation": {"type": "boolean"},
        "remote": {"type": "boolean"}
      }
    },
    "workExperiences": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["jobTitle", "company"],
        "properties": {
          "jobTitle": {"type": "string"},
          "company": {"type": "string"},
          "employmentType": {"enum": ["FULL_TIME", "PART_TIME", "INTERNSHIP", "CONTRACT"]},
          "locationType": {"enum": ["ONSITE", "REMOTE", "HYBRID"]},
          "startMonth": {"type": "integer", "minimum": 1, "maximum": 12},
          "startYear": {"type": "integer"},
          "endMonth": {"type": "integer", "minimum": 1, "maximum": 12},
          "endYear": {"type": "integer"},
          "current": {"type": "boolean"},
          "description": {"type": "string"}
        }
      }
    },
    "educations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["school"],
        "properties": {
          "school": {"type": "string"},
          "degree": {"enum": ["HIGH_SCHOOL", "ASSOCIATE", "BACHELOR", "MASTER", "DOCTORATE"]},
          "major": {"type": "string"},
          "startYear": {"type": "integer"},
          "endYear": {"type": "integer"},
          "current": {"type": "boolean"},
          "description": {"type": "string"}
        }
      }
    },
    "skills": {
      "type": "array",
      "items": {"type": "string"}
    },
    "licenses": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "issuer": {"type": "string"},
          "issueYear": {"type": "integer"},
          "description": {"type": "string"}
        }
      }
    },
    "languages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["language"],
        "properties": {
          "language": {"type": "string"},
          "level": {"enum": ["BEGINNER", "INTERMEDIATE", "ADVANCED", "NATIVE"]}
        }
      }
    },
    "achievements": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string"},
          "organization": {"type": "string"},
          "achieveDate": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "publications": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string"},
          "publisher": {"type": "string"},
          "publicationDate": {"type": "string"},
          "publicationUrl": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "honors": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string"},
          "issuer": {"type": "string"},
          "issueMonth": {"type": "integer", "minimum": 1, "maximum": 12},
          "issueYear": {"type": "integer"},
          "description": {"type": "string"}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaCompiled error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.json", strings.NewReader(recordSchema)); err != nil {
			schemaCompiled = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaCompiled = compiler.Compile("record.json")
	})
	return compiledSchema, schemaCompiled
}

// ValidateRecord asserts full structural conformance and returns the
// canonical JSON encoding of the record on success.
func ValidateRecord(rec Record) (json.RawMessage, error) {
	schema, err := compiled()
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(encoded, &v); err != nil {
		return nil, err
	}
	if err := schema.Validate(v); err != nil {
		return nil, &SchemaValidationError{Err: err}
	}
	return encoded, nil
}
