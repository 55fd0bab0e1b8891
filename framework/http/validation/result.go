package validation

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Result maps each failing field to the message of its first failing rule.
// The zero Result is valid and empty.
type Result struct {
	order    []string
	messages map[string]string
}

func (r *Result) add(field, msg string) {
	if r.messages == nil {
		r.messages = make(map[string]string)
	}
	r.order = append(r.order, field)
	r.messages[field] = msg
}

// Valid reports whether no field failed.
func (r Result) Valid() bool { return len(r.order) == 0 }

// Len returns the number of failing fields.
func (r Result) Len() int { return len(r.order) }

// Has reports whether field failed.
func (r Result) Has(field string) bool {
	_, ok := r.messages[field]
	return ok
}

// Error returns the message recorded for field, or "" if it passed.
func (r Result) Error(field string) string { return r.messages[field] }

// Fields returns the failing fields in schema order.
func (r Result) Fields() []string { return slices.Clone(r.order) }

// Map returns a copy of the field → message mapping.
func (r Result) Map() map[string]string {
	out := make(map[string]string, len(r.messages))
	maps.Copy(out, r.messages)
	return out
}

// Err returns nil for a valid Result and a *FieldErrors otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &FieldErrors{Result: r}
}

// MarshalJSON encodes the result as an object whose keys follow schema order.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.messages[field])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
