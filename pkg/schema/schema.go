// Package schema validates topology documents against the bundled JSON
// Schema.
//
// Validation is optional. The normalizer accepts any document and fills in
// defaults; a validator is wired in when malformed input should be rejected
// instead, for example by `topoviz validate` or a server started with
// schema checks enabled. Failures carry every violation as a path and a
// message:
//
//	v := schema.MustNew()
//	if err := v.ValidateBytes(data); err != nil {
//	    for _, f := range errors.Fields(err) {
//	        fmt.Println(f.Path, f.Message)
//	    }
//	}
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
)

//go:embed topology.schema.json
var document []byte

const resourceName = "topology.schema.json"

// Document returns the raw schema.
func Document() []byte {
	return append([]byte(nil), document...)
}

// Validator checks documents against the compiled schema. It is safe for
// concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles the bundled schema.
func New() (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(resourceName, bytes.NewReader(document)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := c.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// MustNew is like New but panics if the bundled schema does not compile.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks doc, which may be raw JSON bytes, a decoded tree or any
// value that marshals to JSON. Violations are returned as a
// SCHEMA_VALIDATION error listing every field.
func (v *Validator) Validate(doc any) error {
	var data []byte
	switch d := doc.(type) {
	case []byte:
		data = d
	case json.RawMessage:
		data = d
	default:
		encoded, err := json.Marshal(doc)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "encode document for validation")
		}
		data = encoded
	}
	return v.ValidateBytes(data)
}

// ValidateBytes checks a JSON document.
func (v *Validator) ValidateBytes(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidJSON, err, "decode document for validation")
	}

	err := v.schema.Validate(tree)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return errs.Wrap(errs.ErrCodeInternal, err, "validate document")
	}
	return errs.NewValidation(leaves(ve))
}

// leaves flattens a validation error tree to its most specific causes.
func leaves(ve *jsonschema.ValidationError) []errs.FieldError {
	var out []errs.FieldError
	seen := make(map[errs.FieldError]bool)
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			f := errs.FieldError{Path: e.InstanceLocation, Message: e.Message}
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}
