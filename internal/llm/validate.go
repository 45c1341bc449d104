package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// validator compiles each named schema once and checks replies against it.
type validator struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

var replies = &validator{compiled: map[string]*jsonschema.Schema{}}

// validateResponse checks raw against schema. A nil schema accepts anything.
// Failures are *ErrInvalidResponse.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	return replies.check(schema, raw)
}

func (v *validator) check(schema *Schema, raw json.RawMessage) error {
	invalid := func(format string, args ...any) error {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf(format, args...)}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid("invalid JSON: %w", err)
	}
	sch, err := v.schema(schema)
	if err != nil {
		return invalid("schema %q: %w", schema.Name, err)
	}
	if err := sch.Validate(doc); err != nil {
		return invalid("does not match schema %q: %w", schema.Name, err)
	}
	return nil
}

func (v *validator) schema(s *Schema) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if sch, ok := v.compiled[s.Name]; ok {
		return sch, nil
	}

	// The compiler wants the decoded form it produces itself, with
	// json.Number for numeric keywords.
	def, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, err
	}

	url := "mem://schemas/" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	v.compiled[s.Name] = sch
	return sch, nil
}
