package validation

import (
	"maps"
	"slices"
	"strings"
	"time"

	playground "github.com/go-playground/validator/v10"
)

// Values is a point-in-time snapshot of raw field values.
// Dates are carried as ISO-8601 strings ("2006-01-02" or RFC 3339).
type Values map[string]string

// Clone returns an independent copy of the snapshot.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	maps.Copy(out, v)
	return out
}

// dateLayouts are tried in order by parseDate.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// syntax checks string formats; *playground.Validate is safe for concurrent use.
var syntax = playground.New()

// Validate evaluates every field of s against values and returns the failures.
//
// Fields are visited in declaration order and each field's rules in declared
// order; the first failing rule of a field is recorded and the rest skipped.
// Cross-field rules read the counterpart's raw value and never its outcome.
// Keys in values that s does not declare are ignored; missing keys are empty.
func Validate(s *Schema, values Values) Result {
	var res Result
	for _, field := range s.order {
		if msg, ok := evaluateField(s.rules[field], field, values); !ok {
			res.add(field, msg)
		}
	}
	return res
}

// ValidateField evaluates a single field and returns its message and whether
// it passed. Undeclared fields pass.
//
//	if msg, ok := validation.ValidateField(schema, values, "email"); !ok {
//	    // show msg next to the email input
//	}
func ValidateField(s *Schema, values Values, field string) (string, bool) {
	rules, ok := s.rules[field]
	if !ok {
		return "", true
	}
	return evaluateField(rules, field, values)
}

func evaluateField(rules []Rule, field string, values Values) (string, bool) {
	value := values[field]
	for _, r := range rules {
		if !passes(r, value, values) {
			return r.message, false
		}
	}
	return "", true
}

// passes returns true if the rule holds for value.
func passes(r Rule, value string, values Values) bool {
	switch r.kind {
	case KindRequired:
		return !blank(value)

	case KindRequiredIfAbsent:
		return !blank(value) || !blank(values[r.counterpart])

	case KindPattern:
		return value == "" || r.re.MatchString(value)

	case KindEmail:
		return value == "" || syntax.Var(value, "email") == nil

	case KindMaxDate:
		t, ok := parseDate(value)
		if !ok {
			return true
		}
		return t.Before(r.bound)

	case KindEqualsField:
		return value == values[r.counterpart]

	case KindDate:
		if value == "" {
			return true
		}
		_, ok := parseDate(value)
		return ok

	case KindIn:
		return value == "" || slices.Contains(r.options, value)
	}

	return false
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
