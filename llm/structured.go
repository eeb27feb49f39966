package llm

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Structured represents a type that can be used for structured output.
// Every example response schema in the cookbook implements this interface.
type Structured interface {
	// Validate validates the structured output
	Validate() error
	// JSONSchema returns the JSON schema for this type
	JSONSchema() map[string]interface{}
}

// StructuredRequest wraps a request with structured output requirements
type StructuredRequest[T Structured] struct {
	Messages     []Message              `json:"messages"`
	SystemPrompt string                 `json:"system_prompt,omitempty"`
	Model        string                 `json:"model"`
	Temperature  float64                `json:"temperature,omitempty"`
	MaxTokens    int                    `json:"max_tokens,omitempty"`
	Schema       map[string]interface{} `json:"schema,omitempty"`
	OutputType   T                      `json:"-"` // Template for the output type
}

// StructuredResponse contains the parsed and validated structured output
type StructuredResponse[T Structured] struct {
	Data        T                 `json:"data"`
	RawResponse *Response         `json:"raw_response"`
	Usage       *Usage            `json:"usage,omitempty"`
	Validation  *ValidationResult `json:"validation,omitempty"`
}

// ValidationResult contains details about validation
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
	Retries int      `json:"retries"`
	RawJSON string   `json:"raw_json,omitempty"`
}

// Usage contains token usage information
type Usage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	Cost         float64 `json:"cost,omitempty"`
}

// BaseStructured provides common functionality for structured types.
// Embed it in a schema struct and override Validate where field rules apply.
type BaseStructured struct{}

// Validate implements basic validation (override in specific types)
func (b BaseStructured) Validate() error {
	return nil
}

// JSONSchema generates a basic JSON schema from struct tags
func (b BaseStructured) JSONSchema() map[string]interface{} {
	return GenerateSchema(b)
}

// GenerateSchema creates a JSON schema from a struct using reflection.
// Field descriptions come from `description` tags; fields without omitempty
// are required.
func GenerateSchema(v interface{}) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": make(map[string]interface{}),
		"required":   []string{},
	}

	val := reflect.ValueOf(v)
	typ := reflect.TypeOf(v)

	if val.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}

	if val.Kind() != reflect.Struct {
		return schema
	}

	properties := schema["properties"].(map[string]interface{})
	var required []string

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		// Skip unexported fields and the embedded BaseStructured marker
		if !field.IsExported() || field.Name == "BaseStructured" {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		jsonName := field.Name
		omitEmpty := false
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				jsonName = parts[0]
			}
			for _, part := range parts[1:] {
				if part == "omitempty" {
					omitEmpty = true
				}
			}
		}

		properties[jsonName] = fieldSchema(fieldVal.Type(), field.Tag.Get("description"))

		if !omitEmpty {
			required = append(required, jsonName)
		}
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// fieldSchema generates schema for a specific field type
func fieldSchema(t reflect.Type, description string) map[string]interface{} {
	schema := make(map[string]interface{})

	if description != "" {
		schema["description"] = description
	}

	switch t.Kind() {
	case reflect.String:
		schema["type"] = "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		schema["type"] = "integer"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		schema["type"] = "integer"
		schema["minimum"] = 0
	case reflect.Float32, reflect.Float64:
		schema["type"] = "number"
	case reflect.Bool:
		schema["type"] = "boolean"
	case reflect.Slice, reflect.Array:
		schema["type"] = "array"
		schema["items"] = fieldSchema(t.Elem(), "")
	case reflect.Map:
		schema["type"] = "object"
	case reflect.Struct:
		schema["type"] = "object"
		props := make(map[string]interface{})
		var required []string
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Name == "BaseStructured" {
				continue
			}
			tag := f.Tag.Get("json")
			if tag == "-" {
				continue
			}
			name := f.Name
			omitEmpty := false
			if tag != "" {
				parts := strings.Split(tag, ",")
				if parts[0] != "" {
					name = parts[0]
				}
				for _, p := range parts[1:] {
					if p == "omitempty" {
						omitEmpty = true
					}
				}
			}
			props[name] = fieldSchema(f.Type, f.Tag.Get("description"))
			if !omitEmpty {
				required = append(required, name)
			}
		}
		schema["properties"] = props
		if len(required) > 0 {
			schema["required"] = required
		}
	case reflect.Interface:
		schema["oneOf"] = []map[string]interface{}{
			{"type": "string"},
			{"type": "number"},
			{"type": "boolean"},
			{"type": "object"},
			{"type": "array"},
			{"type": "null"},
		}
	case reflect.Ptr:
		return fieldSchema(t.Elem(), description)
	default:
		schema["type"] = "string"
	}

	return schema
}

// CheckSchema validates a raw JSON document against a generated schema using a
// real JSON Schema validator. This catches shape errors (wrong types, missing
// required fields) independently of what the Go unmarshaller tolerates.
func CheckSchema(jsonStr string, schema map[string]interface{}) []string {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	docLoader := gojsonschema.NewStringLoader(jsonStr)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return []string{err.Error()}
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return errs
}

// ParseStructured attempts to parse JSON into a structured type with validation.
// The raw document is first checked against the template's schema, then
// unmarshalled and passed through the type's own Validate.
func ParseStructured[T Structured](jsonStr string, template T) (*StructuredResponse[T], error) {
	var result T

	validationResult := &ValidationResult{
		RawJSON: jsonStr,
	}

	if schemaErrs := CheckSchema(jsonStr, template.JSONSchema()); len(schemaErrs) > 0 {
		validationResult.Errors = schemaErrs
	}

	// Detect whether T is a pointer type based on the provided template
	templateType := reflect.TypeOf(template)
	wantPtr := templateType.Kind() == reflect.Ptr
	if wantPtr {
		templateType = templateType.Elem()
	}

	// Always unmarshal into a pointer to the underlying struct type
	ptrValue := reflect.New(templateType)

	if err := json.Unmarshal([]byte(jsonStr), ptrValue.Interface()); err != nil {
		return nil, fmt.Errorf("json parsing error: %w", err)
	}

	if wantPtr {
		result = ptrValue.Interface().(T)
	} else {
		result = ptrValue.Elem().Interface().(T)
	}

	if err := result.Validate(); err != nil {
		validationResult.Valid = false
		validationResult.Errors = append(validationResult.Errors, err.Error())
		return &StructuredResponse[T]{
			Data:       result,
			Validation: validationResult,
		}, fmt.Errorf("validation failed: %w", err)
	}

	validationResult.Valid = true

	return &StructuredResponse[T]{
		Data:       result,
		Validation: validationResult,
	}, nil
}
