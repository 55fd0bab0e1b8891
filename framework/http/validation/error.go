package validation

import (
	"fmt"
	"strings"
)

// SchemaError reports a structural defect found while building a Schema.
// It is fatal to startup; a Schema that produced one must not be used.
type SchemaError struct {
	Field  string // empty when the defect is not tied to a named field
	Rule   string // rule name, empty for field-level defects
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Field == "":
		return "validation: schema: " + e.Reason
	case e.Rule == "":
		return fmt.Sprintf("validation: schema: field %q: %s", e.Field, e.Reason)
	default:
		return fmt.Sprintf("validation: schema: field %q rule %s: %s", e.Field, e.Rule, e.Reason)
	}
}

// FieldErrors adapts a failing Result to the error interface.
type FieldErrors struct {
	Result Result
}

func (e *FieldErrors) Error() string {
	fields := e.Result.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Result.Error(f))
	}
	if len(parts) == 1 {
		return "validation failed: " + parts[0]
	}
	return fmt.Sprintf("validation failed on %d fields: %s", len(parts), strings.Join(parts, "; "))
}
