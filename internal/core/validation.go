package core

// validation.go checks business inputs before they reach a Store.
//
// The same rules apply to single create, bulk create, patches and each
// imported row. A ValidationError lists every problem found, not only the
// first.

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"
)

// MaxFieldLength is the longest accepted value for any text field.
const MaxFieldLength = 500

// FieldError is one problem with one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field problem found in an input.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: fmt.Sprintf(format, args...)}}}
}

// WithPrefix returns a copy whose field names are prefixed, used to point
// at an element of a batch.
func (e *ValidationError) WithPrefix(prefix string) *ValidationError {
	out := &ValidationError{Fields: make([]FieldError, len(e.Fields))}
	for i, f := range e.Fields {
		out.Fields[i] = FieldError{Field: prefix + "." + f.Field, Message: f.Message}
	}
	return out
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// requiredFields lists the fields that must be non-blank, in report order.
var requiredFields = []string{"name", "streetName", "zipcode", "city"}

type namedValue struct {
	field string
	value *string
}

func (in *BusinessInput) textFields() []namedValue {
	return []namedValue{
		{"name", &in.Name},
		{"streetName", &in.StreetName},
		{"zipcode", &in.Zipcode},
		{"city", &in.City},
		{"email", &in.Email},
		{"phone", &in.Phone},
		{"comment", &in.Comment},
	}
}

func (p *BusinessPatch) textFields() []namedValue {
	return []namedValue{
		{"name", p.Name},
		{"streetName", p.StreetName},
		{"zipcode", p.Zipcode},
		{"city", p.City},
		{"email", p.Email},
		{"phone", p.Phone},
		{"comment", p.Comment},
	}
}

// MissingRequired returns the names of required fields that are blank.
func (in BusinessInput) MissingRequired() []string {
	var missing []string
	for _, f := range in.textFields() {
		if slices.Contains(requiredFields, f.field) && strings.TrimSpace(*f.value) == "" {
			missing = append(missing, f.field)
		}
	}
	return missing
}

// Validate checks a normalized input.
func (in BusinessInput) Validate() error {
	var v ValidationError
	for _, f := range in.textFields() {
		checkText(&v, f.field, *f.value, slices.Contains(requiredFields, f.field))
	}
	for i, tag := range in.Tags {
		if utf8.RuneCountInString(tag) > MaxFieldLength {
			v.add(fmt.Sprintf("tags[%d]", i), fmt.Sprintf("must be at most %d characters", MaxFieldLength))
		}
	}
	if in.invalidActive != "" {
		v.add("isActive", fmt.Sprintf("%q is not a recognised yes/no value", in.invalidActive))
	}
	return v.err()
}

// Validate checks the fields present in a normalized patch.
func (p BusinessPatch) Validate() error {
	var v ValidationError
	for _, f := range p.textFields() {
		if f.value == nil {
			continue
		}
		checkText(&v, f.field, *f.value, slices.Contains(requiredFields, f.field))
	}
	if p.Tags != nil {
		for i, tag := range *p.Tags {
			if utf8.RuneCountInString(tag) > MaxFieldLength {
				v.add(fmt.Sprintf("tags[%d]", i), fmt.Sprintf("must be at most %d characters", MaxFieldLength))
			}
		}
	}
	return v.err()
}

func checkText(v *ValidationError, field, value string, required bool) {
	if required && strings.TrimSpace(value) == "" {
		v.add(field, "is required")
		return
	}
	if utf8.RuneCountInString(value) > MaxFieldLength {
		v.add(field, fmt.Sprintf("must be at most %d characters", MaxFieldLength))
		return
	}
	if field == "email" && value != "" {
		if _, err := mail.ParseAddress(value); err != nil {
			v.add(field, "must be a valid email address")
		}
	}
}

// MergeTags joins tag lists into one: trimmed, empties dropped, duplicates
// removed, first occurrence wins. The result is never nil.
func MergeTags(lists ...[]string) []string {
	out := []string{}
	for _, list := range lists {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" || slices.Contains(out, tag) {
				continue
			}
			out = append(out, tag)
		}
	}
	return out
}
