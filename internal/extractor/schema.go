package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"propintel/internal/domain"
)

var (
	schemaMu sync.Mutex
	schemas  = map[domain.DocumentType]*jsonschema.Schema{}
)

// ValidateFields checks a normalized response payload against the document
// type's response schema. Fixed templates demand exactly the template's keys
// with string values; the open template accepts any string-valued object.
func ValidateFields(payload map[string]string, documentType domain.DocumentType) error {
	schema, err := schemaFor(documentType)
	if err != nil {
		return fmt.Errorf("compiling response schema: %w", err)
	}
	doc := make(map[string]any, len(payload))
	for k, v := range payload {
		doc[k] = v
	}
	return schema.Validate(doc)
}

func schemaFor(documentType domain.DocumentType) (*jsonschema.Schema, error) {
	tmpl := domain.TemplateFor(documentType)

	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemas[tmpl.DocumentType]; ok {
		return s, nil
	}

	b, err := json.Marshal(schemaMap(tmpl))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	name := fmt.Sprintf("%s.schema.json", tmpl.DocumentType)
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	schemas[tmpl.DocumentType] = s
	return s, nil
}

func schemaMap(tmpl domain.FieldTemplate) map[string]any {
	if tmpl.Open() {
		return map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "string"},
		}
	}
	props := make(map[string]any, tmpl.Size())
	for _, name := range tmpl.FieldNames {
		props[name] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             tmpl.FieldNames,
		"additionalProperties": false,
	}
}
