package profile

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema/profile.cue
var schemaFS embed.FS

// Schema checks profiles against the embedded CUE definition #Profile.
type Schema struct {
	ctx *cue.Context
	def cue.Value
}

// NewSchema compiles the embedded schema.
func NewSchema() (*Schema, error) {
	ctx := cuecontext.New()

	schemaData, err := schemaFS.ReadFile("schema/profile.cue")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaData, cue.Filename("profile.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	def := schema.LookupPath(cue.ParsePath("#Profile"))
	if !def.Exists() {
		return nil, fmt.Errorf("schema has no #Profile definition")
	}

	return &Schema{ctx: ctx, def: def}, nil
}

// Check unifies p with #Profile and reports every violation.
func (s *Schema) Check(p *Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	val := s.ctx.CompileBytes(data, cue.Filename("profile.json"))
	if val.Err() != nil {
		return fmt.Errorf("compiling profile: %w", val.Err())
	}

	if err := s.def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

// Apply unifies a CUE profile source with #Profile and exports it as JSON.
// Authors of .cue profiles get schema errors with CUE positions.
func (s *Schema) Apply(src []byte, filename string) ([]byte, error) {
	val := s.ctx.CompileBytes(src, cue.Filename(filename))
	if val.Err() != nil {
		return nil, val.Err()
	}

	unified := s.def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, errors.New(strings.TrimSpace(cueerrors.Details(err, nil)))
	}

	return unified.MarshalJSON()
}

// toValidationErrors flattens CUE errors into field-addressed validation errors.
func toValidationErrors(err error) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		path := e.Path()
		if len(path) > 0 && path[0] == "#Profile" {
			path = path[1:]
		}
		field := strings.Join(path, ".")
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		key := field + "\x00" + msg
		if seen[key] {
			continue
		}
		seen[key] = true
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}
	if len(errs) == 0 {
		errs = append(errs, ValidationError{Field: "profile", Message: err.Error()})
	}
	return errs
}
