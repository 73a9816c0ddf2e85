package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const billItemsSchema = `{
  "type": "object",
  "required": ["bill_items"],
  "properties": {
    "bill_items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["item_name", "item_rate", "item_quantity", "item_amount"],
        "properties": {
          "item_name": {"type": "string"},
          "item_rate": {"type": "number"},
          "item_quantity": {"type": "number"},
          "item_amount": {"type": "number"}
        }
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("bill_items.json", bytes.NewReader([]byte(billItemsSchema))); err != nil {
		panic(fmt.Sprintf("extract: adding schema resource: %v", err))
	}
	schema, err := compiler.Compile("bill_items.json")
	if err != nil {
		panic(fmt.Sprintf("extract: compiling schema: %v", err))
	}
	return schema
}

// ValidateBillItemsJSON checks that raw LLM output matches the expected
// bill_items shape before it is decoded into domain types.
func ValidateBillItemsJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal extractor output: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("extractor output does not match schema: %w", err)
	}
	return nil
}
