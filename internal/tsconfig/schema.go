package tsconfig

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"
)

// derivedSchema constrains the temporary configuration. Everything the
// project declares beyond these fields passes through unchecked.
const derivedSchema = `
#Derived: {
	compilerOptions: {
		skipLibCheck: true
		...
	}
	files: [string, ...string]
	include: []
	...
}
`

// SchemaError is a validation failure with its CUE position, if known.
type SchemaError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *SchemaError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%d:%d: %s: %s", e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks derived configuration JSON against the schema.
func Validate(data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(derivedSchema).LookupPath(cue.ParsePath("#Derived"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}

	expr, err := cuejson.Extract("tsconfig", data)
	if err != nil {
		return formatCUEError(err)
	}
	v := ctx.BuildExpr(expr)
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}

	return formatCUEError(schema.Unify(v).Validate(cue.Concrete(true)))
}

// formatCUEError reduces a CUE error list to its first entry.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := "tsconfig"
	if path := first.Path(); len(path) > 0 {
		field = strings.Join(path, ".")
	}

	schemaErr := &SchemaError{Field: field, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		schemaErr.Pos = positions[0]
	}
	return schemaErr
}
