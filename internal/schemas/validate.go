// Package schemas validates persisted resume content against the embedded JSON
// Schema.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchema []byte

// ResumeSchema returns the raw resume content schema.
func ResumeSchema() []byte {
	return append([]byte(nil), resumeSchema...)
}

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a JSON path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError is returned when a schema or document cannot be loaded.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

func resume() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchema))
		if compileErr != nil {
			compileErr = &SchemaLoadError{Path: "resume.schema.json", Message: "invalid schema", Cause: compileErr}
		}
	})
	return compiled, compileErr
}

// ValidateResume checks raw resume content JSON against the resume schema.
func ValidateResume(content []byte) error {
	schema, err := resume()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return &SchemaLoadError{Path: "(document)", Message: "document could not be read", Cause: err}
	}
	return fromResult(result)
}

// ValidateValue marshals v and validates it as resume content.
func ValidateValue(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}
	return ValidateResume(data)
}

// ValidateJSONString validates JSON content against an arbitrary schema.
func ValidateJSONString(schemaContent, jsonContent string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
	)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return fromResult(result)
}

func fromResult(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}
	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
