package validation

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

// ── Kinds ────────────────────────────────────────────────────────────────────

// Kind identifies what a Rule checks. The set is closed; Validate dispatches
// on it with a single switch.
type Kind int

const (
	KindRequired         Kind = iota + 1 // required
	KindRequiredIfAbsent                 // required_without:other
	KindPattern                          // regex:expr
	KindEmail                            // email
	KindMaxDate                          // before:date
	KindEqualsField                      // same:other
	KindDate                             // date
	KindIn                               // in:a,b,c
)

var kindNames = map[Kind]string{
	KindRequired:         "required",
	KindRequiredIfAbsent: "required_without",
	KindPattern:          "regex",
	KindEmail:            "email",
	KindMaxDate:          "before",
	KindEqualsField:      "same",
	KindDate:             "date",
	KindIn:               "in",
}

// String returns the rule name as written in rule strings.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// crossField reports whether the kind reads another field's raw value.
func (k Kind) crossField() bool {
	return k == KindRequiredIfAbsent || k == KindEqualsField
}

// ── Rule ─────────────────────────────────────────────────────────────────────

// Rule is one testable condition attached to a field. Rules are plain values;
// build them with the constructors below.
type Rule struct {
	kind        Kind
	counterpart string
	expr        string
	re          *regexp.Regexp
	bound       time.Time
	options     []string
	message     string
}

// Required fails when the value is missing or blank after trimming.
func Required(message string) Rule {
	return Rule{kind: KindRequired, message: message}
}

// RequiredIfAbsent fails when both the value and the counterpart's value are blank.
func RequiredIfAbsent(counterpart, message string) Rule {
	return Rule{kind: KindRequiredIfAbsent, counterpart: counterpart, message: message}
}

// Pattern fails when a non-empty value does not fully match expr.
// The expression is compiled by Build.
func Pattern(expr, message string) Rule {
	return Rule{kind: KindPattern, expr: expr, message: message}
}

// Email fails when a non-empty value is not a syntactically valid address.
func Email(message string) Rule {
	return Rule{kind: KindEmail, message: message}
}

// MaxDate fails when a parsable date is not strictly earlier than bound.
// Empty and unparsable values pass.
func MaxDate(bound time.Time, message string) Rule {
	return Rule{kind: KindMaxDate, bound: bound, message: message}
}

// EqualsField fails when the value differs from the counterpart's raw value.
func EqualsField(counterpart, message string) Rule {
	return Rule{kind: KindEqualsField, counterpart: counterpart, message: message}
}

// Date fails when a non-empty value cannot be parsed as a date.
func Date(message string) Rule {
	return Rule{kind: KindDate, message: message}
}

// In fails when a non-empty value is not one of options.
func In(options []string, message string) Rule {
	return Rule{kind: KindIn, options: slices.Clone(options), message: message}
}

// Kind returns the rule kind.
func (r Rule) Kind() Kind { return r.kind }

// Message returns the text reported when the rule fails.
func (r Rule) Message() string { return r.message }

// Counterpart returns the referenced field for cross-field kinds, "" otherwise.
func (r Rule) Counterpart() string { return r.counterpart }

// Expr returns the regular expression source of a pattern rule.
func (r Rule) Expr() string { return r.expr }

// Bound returns the exclusive upper bound of a max-date rule.
func (r Rule) Bound() time.Time { return r.bound }

// Options returns a copy of the allowed values of an in rule.
func (r Rule) Options() []string { return slices.Clone(r.options) }

// String renders the rule in rule-string form, e.g. "same:password".
func (r Rule) String() string {
	switch r.kind {
	case KindRequiredIfAbsent, KindEqualsField:
		return r.kind.String() + ":" + r.counterpart
	case KindPattern:
		return r.kind.String() + ":" + r.expr
	case KindMaxDate:
		return r.kind.String() + ":" + r.bound.UTC().Format(time.RFC3339)
	case KindIn:
		return r.kind.String() + ":" + strings.Join(r.options, ",")
	default:
		return r.kind.String()
	}
}

