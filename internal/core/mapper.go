package core

// mapper.go turns one spreadsheet row into a BusinessInput.
//
// Uploaded files come from many sources with different column names
// ("Naam (zaak)", "Street Name", "Postcode", ...). Each canonical field has
// an ordered alias list; headers are compared after case folding and
// whitespace collapsing.

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Row is one data row keyed by its original header text.
type Row map[string]any

type fieldAliases struct {
	field   string
	aliases []string
}

// columnAliases lists the accepted headers per field, most specific first.
var columnAliases = []fieldAliases{
	{"name", []string{"name", "naam (zaak)", "naam zaak", "naam", "zaak", "bedrijfsnaam"}},
	{"streetName", []string{"streetname", "street_name", "street name", "street", "address", "adres", "adresregel", "adresregel 1"}},
	{"zipcode", []string{"zipcode", "zip", "postalcode", "postal_code", "postal code", "postcode", "pc"}},
	{"city", []string{"city", "plaats", "woonplaats"}},
	{"email", []string{"email", "e-mail", "mail"}},
	{"phone", []string{"phone", "telefoon", "tel", "telefoonnummer"}},
	{"comment", []string{"comment", "opmerking", "opmerkingen"}},
	{"tags", []string{"tags", "categorie", "(google) categorie"}},
	{"isActive", []string{"isactive", "is_active", "active", "actief"}},
}

// normalizeHeader returns the comparison key for a header.
func normalizeHeader(fold cases.Caser, h string) string {
	return strings.Join(strings.Fields(fold.String(h)), " ")
}

// MapRow maps a row onto the canonical schema. It never fails: unknown
// columns are ignored and missing ones stay empty.
func MapRow(row Row) BusinessInput {
	cells := foldRow(row)

	pick := func(field string) any {
		for _, fa := range columnAliases {
			if fa.field != field {
				continue
			}
			for _, alias := range fa.aliases {
				for _, v := range cells[alias] {
					if cellString(v) != "" {
						return v
					}
				}
			}
		}
		return nil
	}

	in := BusinessInput{
		Name:       cellString(pick("name")),
		StreetName: cellString(pick("streetName")),
		Zipcode:    cellString(pick("zipcode")),
		City:       cellString(pick("city")),
		Email:      cellString(pick("email")),
		Phone:      cellString(pick("phone")),
		Comment:    cellString(pick("comment")),
		Tags:       cellTags(pick("tags")),
	}

	if raw := cellString(pick("isActive")); raw != "" {
		if active, ok := ParseActive(raw); ok {
			in.IsActive = &active
		} else {
			in.invalidActive = raw
		}
	}
	return in
}

// foldRow groups cell values by normalized header. When several headers
// fold to the same key their values are ordered by original header text so
// the choice between them is deterministic.
func foldRow(row Row) map[string][]any {
	fold := cases.Fold()
	headers := make([]string, 0, len(row))
	for h := range row {
		headers = append(headers, h)
	}
	slices.Sort(headers)

	cells := make(map[string][]any, len(row))
	for _, h := range headers {
		key := normalizeHeader(fold, h)
		cells[key] = append(cells[key], row[h])
	}
	return cells
}

// cellString renders a cell value as trimmed text.
func cellString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, cellString(e))
		}
		return strings.Join(parts, ", ")
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// cellTags splits a tag cell. Array cells give one tag per element;
// text is split on commas.
func cellTags(v any) []string {
	var raw []string
	switch v := v.(type) {
	case nil:
	case []string:
		raw = v
	case []any:
		for _, e := range v {
			raw = append(raw, cellString(e))
		}
	default:
		raw = strings.Split(cellString(v), ",")
	}
	return MergeTags(raw)
}

// ParseActive reads a yes/no value in English or Dutch. The second result
// is false when the text is not recognised.
func ParseActive(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "ja", "y", "j", "1":
		return true, true
	case "false", "no", "nee", "n", "0":
		return false, true
	}
	return false, false
}
