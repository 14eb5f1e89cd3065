package core

import (
	"slices"
	"testing"

	"golang.org/x/text/cases"
)

func TestMapRow_HeaderAliases(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want BusinessInput
	}{
		{
			name: "canonical lower case",
			row:  Row{"name": "Bakker", "streetName": "Dorpsstraat 1", "zipcode": "1234 AB", "city": "Utrecht"},
			want: BusinessInput{Name: "Bakker", StreetName: "Dorpsstraat 1", Zipcode: "1234 AB", City: "Utrecht"},
		},
		{
			name: "upper case headers",
			row:  Row{"NAME": "Bakker", "CITY": "Utrecht"},
			want: BusinessInput{Name: "Bakker", City: "Utrecht"},
		},
		{
			name: "dutch headers",
			row: Row{
				"Naam (zaak)":        "Bakker",
				"Adres":              "Dorpsstraat 1",
				"Postcode":           "1234 AB",
				"Woonplaats":         "Utrecht",
				"E-mail":             "info@bakker.nl",
				"Telefoon":           "030-1234567",
				"Opmerkingen":        "achterom",
				"(Google) Categorie": "Bakkerij",
			},
			want: BusinessInput{
				Name: "Bakker", StreetName: "Dorpsstraat 1", Zipcode: "1234 AB", City: "Utrecht",
				Email: "info@bakker.nl", Phone: "030-1234567", Comment: "achterom", Tags: []string{"Bakkerij"},
			},
		},
		{
			name: "export headers",
			row:  Row{"Name": "Bakker", "Street Name": "Dorpsstraat 1", "Zipcode": "1234 AB", "City": "Utrecht"},
			want: BusinessInput{Name: "Bakker", StreetName: "Dorpsstraat 1", Zipcode: "1234 AB", City: "Utrecht"},
		},
		{
			name: "extra whitespace in header",
			row:  Row{"  Postal   Code ": "1234 AB"},
			want: BusinessInput{Zipcode: "1234 AB"},
		},
		{
			name: "earlier alias wins over later",
			row:  Row{"zaak": "Later", "naam (zaak)": "Earlier"},
			want: BusinessInput{Name: "Earlier"},
		},
		{
			name: "empty earlier alias falls through",
			row:  Row{"name": "  ", "bedrijfsnaam": "Fallback"},
			want: BusinessInput{Name: "Fallback"},
		},
		{
			name: "numeric cells",
			row:  Row{"zip": 3511, "phone": float64(301234567)},
			want: BusinessInput{Zipcode: "3511", Phone: "301234567"},
		},
		{
			name: "unknown columns ignored",
			row:  Row{"website": "https://example.org"},
			want: BusinessInput{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapRow(tt.row)
			if got.Name != tt.want.Name || got.StreetName != tt.want.StreetName ||
				got.Zipcode != tt.want.Zipcode || got.City != tt.want.City ||
				got.Email != tt.want.Email || got.Phone != tt.want.Phone ||
				got.Comment != tt.want.Comment {
				t.Errorf("MapRow = %+v, want %+v", got, tt.want)
			}
			if !slices.Equal(got.Tags, tt.want.Tags) {
				t.Errorf("Tags = %v, want %v", got.Tags, tt.want.Tags)
			}
		})
	}
}

func TestMapRow_Tags(t *testing.T) {
	tests := []struct {
		name string
		cell any
		want []string
	}{
		{"comma separated", "A, B,,C ", []string{"A", "B", "C"}},
		{"duplicates removed", "A, A, B", []string{"A", "B"}},
		{"string slice", []string{" x ", "y", ""}, []string{"x", "y"}},
		{"any slice", []any{"x", 2}, []string{"x", "2"}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapRow(Row{"Tags": tt.cell}).Tags
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tags = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapRow_Active(t *testing.T) {
	tests := []struct {
		cell        any
		wantSet     bool
		wantActive  bool
		wantInvalid bool
	}{
		{cell: nil, wantSet: false, wantActive: true},
		{cell: "Yes", wantSet: true, wantActive: true},
		{cell: "nee", wantSet: true, wantActive: false},
		{cell: false, wantSet: true, wantActive: false},
		{cell: 1, wantSet: true, wantActive: true},
		{cell: "maybe", wantInvalid: true, wantActive: true},
	}
	for _, tt := range tests {
		got := MapRow(Row{"Active": tt.cell})
		if (got.IsActive != nil) != tt.wantSet {
			t.Errorf("cell %v: IsActive set = %v, want %v", tt.cell, got.IsActive != nil, tt.wantSet)
		}
		if got.Active() != tt.wantActive {
			t.Errorf("cell %v: Active() = %v, want %v", tt.cell, got.Active(), tt.wantActive)
		}
		if (got.invalidActive != "") != tt.wantInvalid {
			t.Errorf("cell %v: invalid marker = %q", tt.cell, got.invalidActive)
		}
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"  padded ", "padded"},
		{42, "42"},
		{int64(-7), "-7"},
		{3.0, "3"},
		{1.25, "1.25"},
		{1e21, "1000000000000000000000"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := cellString(tt.in); got != tt.want {
			t.Errorf("cellString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	if got := normalizeHeader(cases.Fold(), "  Naam   (Zaak) "); got != "naam (zaak)" {
		t.Errorf("normalizeHeader = %q", got)
	}
}
