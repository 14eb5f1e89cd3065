package core

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestFilter_Match(t *testing.T) {
	b := Business{
		Name: "Bakker de Vries", StreetName: "Dorpsstraat 1", Zipcode: "1234 AB", City: "Utrecht",
		Email: "info@devries.nl", Tags: []string{"horeca", "Brood"}, IsActive: true,
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter", Filter{}, true},
		{"query in name", Filter{Query: "VRIES"}, true},
		{"query in tag", Filter{Query: "brood"}, true},
		{"query miss", Filter{Query: "slager"}, false},
		{"any tag", Filter{Tags: []string{"vis", "horeca"}}, true},
		{"tags are case sensitive", Filter{Tags: []string{"brood"}}, false},
		{"city", Filter{City: " utrecht "}, true},
		{"city miss", Filter{City: "Utrechtse Heuvelrug"}, false},
		{"zipcode without space", Filter{Zipcode: "1234ab"}, true},
		{"inactive only", Filter{Active: ptr(false)}, false},
		{"combined", Filter{Query: "dorp", City: "Utrecht", Active: ptr(true)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(b); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBusinessPatch_Apply(t *testing.T) {
	orig := Business{ID: "1", Name: "Bakker", City: "Utrecht", Email: "a@b.nl", Tags: []string{"x"}, IsActive: true}

	got := BusinessPatch{City: ptr("Zeist"), IsActive: ptr(false)}.Apply(orig)
	if got.City != "Zeist" || got.IsActive {
		t.Errorf("patched fields not applied: %+v", got)
	}
	if got.Name != "Bakker" || got.Email != "a@b.nl" || !slices.Equal(got.Tags, []string{"x"}) {
		t.Errorf("absent fields changed: %+v", got)
	}

	cleared := BusinessPatch{Email: ptr(""), Tags: &[]string{}}.Apply(orig)
	if cleared.Email != "" || cleared.Tags == nil || len(cleared.Tags) != 0 {
		t.Errorf("explicit empty values not applied: %+v", cleared)
	}

	got.Tags[0] = "mutated"
	if orig.Tags[0] != "x" {
		t.Error("Apply shares tag memory with the original")
	}
}

func TestBusinessPatch_Empty(t *testing.T) {
	if !(BusinessPatch{}).Empty() {
		t.Error("zero patch not empty")
	}
	if (BusinessPatch{Comment: ptr("")}).Empty() {
		t.Error("patch with explicit empty comment reported empty")
	}
}

func TestNewBusiness_Defaults(t *testing.T) {
	b := NewBusiness("id-1", BusinessInput{Name: "Bakker"})
	if !b.IsActive {
		t.Error("IsActive should default to true")
	}
	if b.Tags == nil {
		t.Error("Tags should default to an empty list")
	}
	if b := NewBusiness("id-2", BusinessInput{IsActive: ptr(false)}); b.IsActive {
		t.Error("explicit false ignored")
	}
}

func TestBusinessInput_Validate(t *testing.T) {
	valid := BusinessInput{Name: "Bakker", StreetName: "Dorpsstraat 1", Zipcode: "1234 AB", City: "Utrecht"}

	tests := []struct {
		name   string
		mutate func(in *BusinessInput)
		fields []string
	}{
		{"valid", func(in *BusinessInput) {}, nil},
		{"valid email", func(in *BusinessInput) { in.Email = "Info <info@bakker.nl>" }, nil},
		{"missing name and city", func(in *BusinessInput) { in.Name, in.City = "", " " }, []string{"name", "city"}},
		{"bad email", func(in *BusinessInput) { in.Email = "bakker" }, []string{"email"}},
		{"long comment", func(in *BusinessInput) { in.Comment = strings.Repeat("é", MaxFieldLength+1) }, []string{"comment"}},
		{"max length in runes", func(in *BusinessInput) { in.Comment = strings.Repeat("é", MaxFieldLength) }, nil},
		{"long tag", func(in *BusinessInput) { in.Tags = []string{"ok", strings.Repeat("t", MaxFieldLength+1)} }, []string{"tags[1]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			var got []string
			for _, f := range ve.Fields {
				got = append(got, f.Field)
			}
			if !slices.Equal(got, tt.fields) {
				t.Errorf("fields = %v, want %v", got, tt.fields)
			}
		})
	}
}

func TestBusinessPatch_Validate(t *testing.T) {
	if err := (BusinessPatch{Phone: ptr("")}).Validate(); err != nil {
		t.Errorf("clearing an optional field: %v", err)
	}
	if err := (BusinessPatch{Name: ptr("")}).Validate(); err == nil {
		t.Error("clearing a required field should fail")
	}
	if err := (BusinessPatch{Email: ptr("nope")}).Validate(); err == nil {
		t.Error("invalid email accepted")
	}
}

func TestValidationError_WithPrefix(t *testing.T) {
	err := NewValidationError("name", "is required").WithPrefix("businesses[2]")
	if got := err.Error(); got != "validation failed: businesses[2].name: is required" {
		t.Errorf("Error() = %q", got)
	}
}

func TestMergeTags(t *testing.T) {
	tests := []struct {
		lists [][]string
		want  []string
	}{
		{nil, []string{}},
		{[][]string{{"A", "B"}, {"B", "C"}}, []string{"A", "B", "C"}},
		{[][]string{{" x ", "", "x"}}, []string{"x"}},
		{[][]string{{"b"}, {"a"}}, []string{"b", "a"}},
	}
	for _, tt := range tests {
		got := MergeTags(tt.lists...)
		if got == nil || !slices.Equal(got, tt.want) {
			t.Errorf("MergeTags(%v) = %#v, want %v", tt.lists, got, tt.want)
		}
	}
}
