package validation

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
)

// Field declares one input and its ordered rules.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema is an immutable, ordered set of field declarations.
// A *Schema is safe for concurrent use by any number of Validate calls.
type Schema struct {
	order []string
	rules map[string][]Rule
}

// Build validates the declarations and returns a Schema.
//
//	schema, err := validation.Build(
//	    validation.Field{Name: "password", Rules: []validation.Rule{
//	        validation.Required("Password is required"),
//	    }},
//	    validation.Field{Name: "confirmPassword", Rules: []validation.Rule{
//	        validation.EqualsField("password", "Passwords must match"),
//	    }},
//	)
//
// Every structural defect is reported; use errors.As to get a *SchemaError.
func Build(fields ...Field) (*Schema, error) {
	s := &Schema{
		order: make([]string, 0, len(fields)),
		rules: make(map[string][]Rule, len(fields)),
	}

	var errs []error
	for _, f := range fields {
		if f.Name == "" {
			errs = append(errs, &SchemaError{Reason: "field name is empty"})
			continue
		}
		if _, dup := s.rules[f.Name]; dup {
			errs = append(errs, &SchemaError{Field: f.Name, Reason: "declared more than once"})
			continue
		}

		rules := make([]Rule, len(f.Rules))
		for i, r := range f.Rules {
			compiled, err := compileRule(f.Name, r)
			if err != nil {
				errs = append(errs, err)
			}
			rules[i] = compiled
		}
		s.order = append(s.order, f.Name)
		s.rules[f.Name] = rules
	}

	// References can point forward, so resolve them once every name is known.
	for _, name := range s.order {
		for _, r := range s.rules[name] {
			if r.kind.crossField() && !s.Has(r.counterpart) {
				errs = append(errs, &SchemaError{
					Field:  name,
					Rule:   r.kind.String(),
					Reason: fmt.Sprintf("references undeclared field %q", r.counterpart),
				})
			}
		}
		if err := checkSatisfiable(name, s.rules[name]); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// MustBuild is like Build but panics on a defective schema.
// Intended for package-level schemas declared in code.
func MustBuild(fields ...Field) *Schema {
	s, err := Build(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the field names in declaration order.
func (s *Schema) Fields() []string {
	return slices.Clone(s.order)
}

// Rules returns a copy of the rules declared for name, or nil if unknown.
func (s *Schema) Rules(name string) []Rule {
	rules, ok := s.rules[name]
	if !ok {
		return nil
	}
	return slices.Clone(rules)
}

// Has reports whether name is declared.
func (s *Schema) Has(name string) bool {
	_, ok := s.rules[name]
	return ok
}

// compileRule checks a single rule's parameters and compiles its pattern.
func compileRule(field string, r Rule) (Rule, error) {
	fail := func(reason string) (Rule, error) {
		return r, &SchemaError{Field: field, Rule: r.kind.String(), Reason: reason}
	}

	switch r.kind {
	case KindRequired, KindEmail, KindMaxDate, KindDate:
	case KindRequiredIfAbsent, KindEqualsField:
		if r.counterpart == "" {
			return fail("missing counterpart field")
		}
	case KindPattern:
		re, err := regexp.Compile(`^(?:` + r.expr + `)$`)
		if err != nil {
			return fail(fmt.Sprintf("invalid pattern: %v", err))
		}
		r.re = re
	case KindIn:
		if len(r.options) == 0 {
			return fail("empty option list")
		}
		r.options = slices.Clone(r.options)
	default:
		return fail(fmt.Sprintf("unknown rule kind %d", int(r.kind)))
	}
	return r, nil
}

// checkSatisfiable flags rule combinations no non-empty value can pass.
// Only structural cases are detected.
func checkSatisfiable(field string, rules []Rule) error {
	var allowed []string
	seen := false
	for _, r := range rules {
		if r.kind != KindIn {
			continue
		}
		if !seen {
			allowed, seen = slices.Clone(r.options), true
			continue
		}
		allowed = slices.DeleteFunc(allowed, func(o string) bool {
			return !slices.Contains(r.options, o)
		})
		if len(allowed) == 0 {
			return &SchemaError{Field: field, Rule: KindIn.String(), Reason: "option lists do not intersect"}
		}
	}
	return nil
}
