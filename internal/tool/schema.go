package tool

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator checks tool arguments against the compiled input schemas of a
// catalog. Schemas are compiled once; Validate is safe for concurrent use.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles the input schema of every descriptor in c.
func NewValidator(c *Catalog) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*jsonschema.Schema, c.Len())}
	for _, d := range c.Descriptors() {
		sch, err := compileSchema(d.Name, d.InputSchema)
		if err != nil {
			return nil, err
		}
		v.schemas[d.Name] = sch
	}
	return v, nil
}

func compileSchema(name string, raw json.RawMessage) (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("tool %s: unmarshal schema: %w", name, err)
	}

	url := name + ".schema.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("tool %s: add schema resource: %w", name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("tool %s: compile schema: %w", name, err)
	}
	return sch, nil
}

// Validate checks args against the schema of the named tool. Unknown tools
// pass; routing reports them.
func (v *Validator) Validate(name string, args map[string]any) error {
	sch, ok := v.schemas[name]
	if !ok {
		return nil
	}

	// Round-trip so the instance only holds JSON-native types.
	raw, err := json.Marshal(nonNil(args))
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	var inst any
	if err := json.Unmarshal(raw, &inst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func nonNil(args map[string]any) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	return args
}
