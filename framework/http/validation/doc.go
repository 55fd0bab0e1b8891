// Package validation provides declarative, cross-field form validation.
//
// # Overview
//
// A Schema lists every field of a form with an ordered set of Rules. Validate
// evaluates the Schema against a snapshot of raw values and returns a Result
// mapping each failing field to a single message. Schemas are built once at
// startup and passed explicitly to every Validate call.
//
// # Basic Usage
//
//	schema, err := validation.Build(
//	    validation.Field{Name: "email", Rules: []validation.Rule{
//	        validation.Email("Invalid email format"),
//	        validation.RequiredIfAbsent("phone", "Either Email or Phone Number is required"),
//	    }},
//	    validation.Field{Name: "phone", Rules: []validation.Rule{
//	        validation.Pattern(`^\+886\d{8}$`, "Phone Number must start with +886 followed by 8 digits"),
//	        validation.RequiredIfAbsent("email", "Either Phone Number or Email is required"),
//	    }},
//	)
//	if err != nil {
//	    // *SchemaError: fatal, fix the declarations
//	}
//
//	res := validation.Validate(schema, validation.Values{"phone": "+88698765432"})
//	if !res.Valid() {
//	    msg := res.Error("email")
//	}
//
// # Available Rules
//
// Presence rules:
//   - required: value must be non-blank after trimming
//   - required_without:other: value or other's value must be non-blank
//
// Format rules (an empty value always passes):
//   - regex:pattern: value must match pattern in full
//   - email: value must be a syntactically valid address
//   - date: value must parse as YYYY-MM-DD or RFC 3339
//   - before:date: a parsable date must be strictly earlier than date;
//     unparsable values pass
//   - in:a,b,c: value must be one of the listed options
//
// Comparison rules:
//   - same:other: value must equal other's raw value exactly
//
// # Evaluation
//
// Fields are evaluated in declaration order; a field stops at its first
// failing rule. Cross-field rules read the other field's raw value only, so
// fields may reference each other without any ordering concerns. Validate has
// no side effects and returns identical results for identical inputs.
//
// # Declarations
//
// Rules can be written as strings (ParseRule) and loaded from YAML
// (LoadFields, LoadSchema):
//
//	fields:
//	  - name: confirmPassword
//	    rules:
//	      - required
//	      - rule: same:password
//	        message: Passwords must match
package validation
