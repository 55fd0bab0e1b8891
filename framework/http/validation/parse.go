package validation

import (
	"fmt"
	"strings"
	"time"
)

// ParseRule turns a rule string such as "required_without:phone" into a Rule.
// An empty message is replaced with the rule's default message for field.
// Relative dates in "before:" resolve against now.
//
//	required
//	required_without:other
//	regex:^\+886\d{8}$
//	email
//	before:yesterday        (also today, tomorrow, or YYYY-MM-DD)
//	same:other
//	date
//	in:M,F
func ParseRule(field, def, message string, now time.Time) (Rule, error) {
	name, param, hasParam := strings.Cut(strings.TrimSpace(def), ":")
	fail := func(reason string) (Rule, error) {
		return Rule{}, &SchemaError{Field: field, Rule: name, Reason: reason}
	}
	needParam := func() bool { return hasParam && param != "" }

	var r Rule
	switch name {
	case "required":
		r = Required(message)
	case "required_without":
		if !needParam() {
			return fail("missing counterpart field")
		}
		r = RequiredIfAbsent(param, message)
	case "regex":
		if !needParam() {
			return fail("missing pattern")
		}
		r = Pattern(param, message)
	case "email":
		r = Email(message)
	case "before":
		if !needParam() {
			return fail("missing date bound")
		}
		bound, err := resolveBound(param, now)
		if err != nil {
			return fail(err.Error())
		}
		r = MaxDate(bound, message)
	case "same":
		if !needParam() {
			return fail("missing counterpart field")
		}
		r = EqualsField(param, message)
	case "date":
		r = Date(message)
	case "in":
		if !needParam() {
			return fail("missing options")
		}
		opts := strings.Split(param, ",")
		for i := range opts {
			opts[i] = strings.TrimSpace(opts[i])
		}
		r = In(opts, message)
	case "":
		return fail("empty rule")
	default:
		return fail("unknown rule")
	}

	if r.message == "" {
		r.message = defaultMessage(field, r)
	}
	return r, nil
}

// resolveBound accepts today, yesterday, tomorrow or an ISO-8601 date.
func resolveBound(param string, now time.Time) (time.Time, error) {
	const day = 24 * time.Hour
	switch param {
	case "today":
		return now, nil
	case "yesterday":
		return now.Add(-day), nil
	case "tomorrow":
		return now.Add(day), nil
	}
	if t, ok := parseDate(param); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date bound %q", param)
}

// defaultMessage mirrors the Laravel wording for each rule.
func defaultMessage(field string, r Rule) string {
	switch r.kind {
	case KindRequired:
		return fmt.Sprintf("The %s field is required.", field)
	case KindRequiredIfAbsent:
		return fmt.Sprintf("The %s field is required when %s is not present.", field, r.counterpart)
	case KindPattern:
		return fmt.Sprintf("The %s format is invalid.", field)
	case KindEmail:
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case KindMaxDate:
		return fmt.Sprintf("The %s must be a date before %s.", field, r.bound.UTC().Format("2006-01-02"))
	case KindEqualsField:
		return fmt.Sprintf("The %s and %s must match.", field, r.counterpart)
	case KindDate:
		return fmt.Sprintf("The %s is not a valid date.", field)
	case KindIn:
		return fmt.Sprintf("The selected %s is invalid.", field)
	}
	return fmt.Sprintf("The %s is invalid.", field)
}
