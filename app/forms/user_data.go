// Package forms declares the user data form: its validation schema, the
// presentation metadata the renderer needs, and the typed record a valid
// submission decodes into.
package forms

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/km-arc/userform/framework/http/validation"
)

// UserDataForm names the form in logs and metrics.
const UserDataForm = "user_data"

// phonePattern is a Taiwanese mobile number in international format.
const phonePattern = `^\+886\d{8}$`

// UserDataFields declares the user data form. The dateOfBirth bound is
// resolved against now: a valid birth date lies strictly before
// now minus 24 hours.
func UserDataFields(now time.Time) []validation.Field {
	yesterday := now.Add(-24 * time.Hour)

	return []validation.Field{
		{Name: "firstName", Rules: []validation.Rule{
			validation.Required("First Name is required"),
		}},
		{Name: "lastName", Rules: []validation.Rule{
			validation.Required("Last Name is required"),
		}},
		{Name: "gender", Rules: []validation.Rule{
			validation.Required("Gender is required"),
			validation.In([]string{"M", "F"}, "Gender must be Male or Female"),
		}},
		{Name: "dateOfBirth", Rules: []validation.Rule{
			validation.Required("Date of Birth is required"),
			validation.MaxDate(yesterday, "Date of Birth cannot be in the future"),
		}},
		{Name: "email", Rules: []validation.Rule{
			validation.Email("Invalid email format"),
			validation.RequiredIfAbsent("phoneNumber", "Either Email or Phone Number is required"),
		}},
		{Name: "phoneNumber", Rules: []validation.Rule{
			validation.Pattern(phonePattern, "Phone Number must start with +886 followed by 8 digits"),
			validation.RequiredIfAbsent("email", "Either Phone Number or Email is required"),
		}},
		{Name: "password", Rules: []validation.Rule{
			validation.Required("Password is required"),
		}},
		{Name: "confirmPassword", Rules: []validation.Rule{
			validation.Required("Confirm Password is required"),
			validation.EqualsField("password", "Passwords must match"),
		}},
	}
}

// UserDataSchema builds the user data schema for now.
func UserDataSchema(now time.Time) (*validation.Schema, error) {
	return validation.Build(UserDataFields(now)...)
}

// ── Presentation ─────────────────────────────────────────────────────────────

// Option is one entry of a select input.
type Option struct {
	Value string
	Label string
}

// Input describes how the renderer draws a field. It carries no validation
// behaviour.
type Input struct {
	Name        string
	Label       string
	Type        string // text | select | date | email | password
	Placeholder string
	Required    bool // marks the label only
	Options     []Option
}

var inputs = []Input{
	{Name: "firstName", Label: "First Name", Type: "text", Required: true},
	{Name: "lastName", Label: "Last Name", Type: "text", Required: true},
	{Name: "gender", Label: "Gender", Type: "select", Required: true, Placeholder: "Select Gender",
		Options: []Option{{Value: "M", Label: "Male"}, {Value: "F", Label: "Female"}}},
	{Name: "dateOfBirth", Label: "Date of Birth", Type: "date", Required: true},
	{Name: "email", Label: "Email Address", Type: "email"},
	{Name: "phoneNumber", Label: "Phone Number", Type: "text", Placeholder: "+88612345678"},
	{Name: "password", Label: "Password", Type: "password", Required: true},
	{Name: "confirmPassword", Label: "Confirm Password", Type: "password", Required: true},
}

// Inputs returns the user data form inputs in display order.
func Inputs() []Input {
	out := make([]Input, len(inputs))
	copy(out, inputs)
	return out
}

// ── Typed record ─────────────────────────────────────────────────────────────

// UserData is a validated user data submission.
type UserData struct {
	FirstName       string    `mapstructure:"firstName" json:"firstName"`
	LastName        string    `mapstructure:"lastName" json:"lastName"`
	Gender          string    `mapstructure:"gender" json:"gender"`
	DateOfBirth     time.Time `mapstructure:"dateOfBirth" json:"dateOfBirth"`
	Email           string    `mapstructure:"email" json:"email,omitempty"`
	PhoneNumber     string    `mapstructure:"phoneNumber" json:"phoneNumber,omitempty"`
	Password        string    `mapstructure:"password" json:"password"`
	ConfirmPassword string    `mapstructure:"confirmPassword" json:"confirmPassword"`
}

const redacted = "[REDACTED]"

// Redacted returns a copy with both password fields masked.
func (u UserData) Redacted() UserData {
	if u.Password != "" {
		u.Password = redacted
	}
	if u.ConfirmPassword != "" {
		u.ConfirmPassword = redacted
	}
	return u
}

// LogValue implements slog.LogValuer; passwords never reach the log.
func (u UserData) LogValue() slog.Value {
	r := u.Redacted()
	attrs := []slog.Attr{
		slog.String("firstName", r.FirstName),
		slog.String("lastName", r.LastName),
		slog.String("gender", r.Gender),
		slog.String("dateOfBirth", r.DateOfBirth.Format(time.DateOnly)),
	}
	if r.Email != "" {
		attrs = append(attrs, slog.String("email", r.Email))
	}
	if r.PhoneNumber != "" {
		attrs = append(attrs, slog.String("phoneNumber", r.PhoneNumber))
	}
	attrs = append(attrs, slog.String("password", r.Password))
	return slog.GroupValue(attrs...)
}

// FieldError is a decode failure attributed to one form field. Message is
// meant for the person filling in the form.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// Decode maps a values snapshot onto UserData. Keys UserData does not know
// are ignored; dateOfBirth must be an ISO date when present. A dateOfBirth
// that passed validation but does not parse yields a *FieldError.
func Decode(values validation.Values) (UserData, error) {
	in := make(map[string]string, len(values))
	for k, v := range values {
		in[k] = strings.TrimSpace(v)
	}
	// mapstructure flattens hook errors into strings, so the date is checked
	// up front to keep the field attribution.
	if _, err := parseDate(in["dateOfBirth"]); err != nil {
		return UserData{}, fmt.Errorf("decode %s: %w", UserDataForm, &FieldError{
			Field:   "dateOfBirth",
			Message: "Date of Birth is not a valid date",
			Err:     err,
		})
	}

	var data UserData
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(dateHook),
		Result:     &data,
	})
	if err != nil {
		return UserData{}, err
	}
	if err := dec.Decode(in); err != nil {
		return UserData{}, fmt.Errorf("decode %s: %w", UserDataForm, err)
	}
	return data, nil
}

var timeType = reflect.TypeOf(time.Time{})

// dateHook decodes "2006-01-02" and RFC 3339 strings into time.Time.
func dateHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}
	return parseDate(data.(string))
}

// parseDate accepts "" as the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
