package web

// handlers_common.go holds request parsing shared by the handlers.

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// maxJSONBody bounds JSON request bodies. Bulk create is the largest.
const maxJSONBody = 10 << 20

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("empty body", nil)
		}
		return badRequest("malformed JSON", err)
	}
	if dec.More() {
		return badRequest("trailing data after JSON body", nil)
	}
	return nil
}

// parseFilter reads listing filters from the query string:
// q, tag (repeatable), city, zipcode and active.
func parseFilter(r *http.Request) (core.Filter, error) {
	q := r.URL.Query()
	f := core.Filter{
		Query:   q.Get("q"),
		City:    q.Get("city"),
		Zipcode: q.Get("zipcode"),
	}

	for _, raw := range q["tag"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}

	if raw := q.Get("active"); raw != "" {
		active, ok := core.ParseActive(raw)
		if !ok {
			return core.Filter{}, badRequest("active must be true or false", nil)
		}
		f.Active = &active
	}
	return f, nil
}

// parseTagList reads the import tags field: a JSON array, or a plain
// comma-separated list.
func parseTagList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return nil, badRequest("tags must be a JSON list of strings", err)
		}
		return tags, nil
	}
	return strings.Split(raw, ","), nil
}
