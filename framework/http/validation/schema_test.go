package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/userform/framework/http/validation"
)

func TestBuild_Accessors(t *testing.T) {
	s := schemaOf(t,
		field("email", validation.Email("bad"), validation.RequiredIfAbsent("phone", "need one")),
		field("phone"),
	)

	assert.Equal(t, []string{"email", "phone"}, s.Fields())
	assert.True(t, s.Has("phone"))
	assert.False(t, s.Has("fax"))
	assert.Nil(t, s.Rules("fax"))
	assert.Empty(t, s.Rules("phone"))

	rules := s.Rules("email")
	require.Len(t, rules, 2)
	assert.Equal(t, validation.KindEmail, rules[0].Kind())
	assert.Equal(t, validation.KindRequiredIfAbsent, rules[1].Kind())
	assert.Equal(t, "phone", rules[1].Counterpart())
	assert.Equal(t, "need one", rules[1].Message())
}

func TestBuild_ForwardReference(t *testing.T) {
	_, err := validation.Build(
		field("confirm", validation.EqualsField("password", "must match")),
		field("password", validation.Required("required")),
	)
	assert.NoError(t, err)
}

func TestBuild_IsImmutable(t *testing.T) {
	rules := []validation.Rule{validation.Required("first")}
	s := schemaOf(t, validation.Field{Name: "name", Rules: rules})

	rules[0] = validation.Required("changed")
	s.Rules("name")[0] = validation.Required("changed again")
	fields := s.Fields()
	fields[0] = "other"

	assert.Equal(t, "first", s.Rules("name")[0].Message())
	assert.Equal(t, []string{"name"}, s.Fields())
}

func TestBuild_DuplicateRequiredIsLegal(t *testing.T) {
	_, err := validation.Build(field("name",
		validation.Required("a"),
		validation.Required("b"),
	))
	assert.NoError(t, err)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		fields []validation.Field
		field  string
		reason string
	}{
		{
			name:   "undeclared counterpart",
			fields: []validation.Field{field("email", validation.RequiredIfAbsent("phone", "x"))},
			field:  "email",
			reason: `references undeclared field "phone"`,
		},
		{
			name:   "undeclared same target",
			fields: []validation.Field{field("confirm", validation.EqualsField("password", "x"))},
			field:  "confirm",
			reason: `references undeclared field "password"`,
		},
		{
			name:   "empty counterpart",
			fields: []validation.Field{field("confirm", validation.EqualsField("", "x"))},
			field:  "confirm",
			reason: "missing counterpart field",
		},
		{
			name:   "empty field name",
			fields: []validation.Field{field("", validation.Required("x"))},
			reason: "field name is empty",
		},
		{
			name:   "duplicate field",
			fields: []validation.Field{field("a"), field("a")},
			field:  "a",
			reason: "declared more than once",
		},
		{
			name:   "zero rule",
			fields: []validation.Field{field("a", validation.Rule{})},
			field:  "a",
			reason: "unknown rule kind 0",
		},
		{
			name:   "empty options",
			fields: []validation.Field{field("g", validation.In(nil, "x"))},
			field:  "g",
			reason: "empty option list",
		},
		{
			name: "disjoint options",
			fields: []validation.Field{field("g",
				validation.In([]string{"M", "F"}, "x"),
				validation.In([]string{"X"}, "y"),
			)},
			field:  "g",
			reason: "option lists do not intersect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := validation.Build(tt.fields...)
			require.Error(t, err)
			assert.Nil(t, s)

			var se *validation.SchemaError
			require.True(t, errors.As(err, &se), "got %T: %v", err, err)
			assert.Equal(t, tt.field, se.Field)
			assert.Equal(t, tt.reason, se.Reason)
		})
	}
}

func TestBuild_InvalidPattern(t *testing.T) {
	_, err := validation.Build(field("code", validation.Pattern(`([`, "x")))

	var se *validation.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "regex", se.Rule)
	assert.Contains(t, se.Reason, "invalid pattern")
}

func TestBuild_ReportsEveryDefect(t *testing.T) {
	_, err := validation.Build(
		field("a", validation.EqualsField("missing1", "x")),
		field("b", validation.RequiredIfAbsent("missing2", "y")),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing1")
	assert.Contains(t, err.Error(), "missing2")
}

func TestMustBuild_Panics(t *testing.T) {
	assert.Panics(t, func() {
		validation.MustBuild(field("a", validation.EqualsField("nope", "x")))
	})
	assert.NotPanics(t, func() {
		validation.MustBuild(field("a", validation.Required("x")))
	})
}

func TestSchemaError_Message(t *testing.T) {
	tests := []struct {
		err  *validation.SchemaError
		want string
	}{
		{&validation.SchemaError{Reason: "no fields declared"}, "validation: schema: no fields declared"},
		{&validation.SchemaError{Field: "a", Reason: "declared more than once"}, `validation: schema: field "a": declared more than once`},
		{&validation.SchemaError{Field: "a", Rule: "same", Reason: "boom"}, `validation: schema: field "a" rule same: boom`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "required", validation.KindRequired.String())
	assert.Equal(t, "required_without", validation.KindRequiredIfAbsent.String())
	assert.Equal(t, "regex", validation.KindPattern.String())
	assert.Equal(t, "email", validation.KindEmail.String())
	assert.Equal(t, "before", validation.KindMaxDate.String())
	assert.Equal(t, "same", validation.KindEqualsField.String())
	assert.Equal(t, "date", validation.KindDate.String())
	assert.Equal(t, "in", validation.KindIn.String())
	assert.Equal(t, "unknown", validation.Kind(0).String())
}
