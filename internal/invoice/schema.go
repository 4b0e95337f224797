package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "invoice-record.json"

func nullableString() map[string]any {
	return map[string]any{"type": []any{"string", "null"}}
}

func stringList() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

// Schema returns the JSON Schema of a serialized Record.
func Schema() map[string]any {
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"additionalProperties": false,
		"required": []any{
			"company_name", "bill_to", "ship_to", "invoice_number",
			"date_of_issue", "invoice_total", "description", "amounts",
		},
		"properties": map[string]any{
			"company_name":   nullableString(),
			"bill_to":        stringList(),
			"ship_to":        stringList(),
			"invoice_number": map[string]any{"type": []any{"string", "null"}, "pattern": `^\d+$`},
			"date_of_issue":  nullableString(),
			"invoice_total":  nullableString(),
			"description":    stringList(),
			"amounts":        stringList(),
		},
	}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func recordSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(Schema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// ValidateJSON checks that data is a well-formed serialized Record.
func ValidateJSON(data []byte) error {
	schema, err := recordSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
