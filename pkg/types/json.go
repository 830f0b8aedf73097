package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateTime accepts either RFC 3339 timestamps or plain dates from date pickers.
type DateTime struct {
	time.Time
}

var dateTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}

	return fmt.Errorf("unrecognized date %q", raw)
}

// CategoryList accepts a JSON array of strings or a single comma separated
// string. Entries are trimmed, blanks dropped and duplicates removed.
type CategoryList []string

func (c *CategoryList) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*c = nil
		return nil
	}

	var entries []string
	if len(b) > 0 && b[0] == '"' {
		var joined string
		if err := json.Unmarshal(b, &joined); err != nil {
			return err
		}
		entries = strings.Split(joined, ",")
	} else if err := json.Unmarshal(b, &entries); err != nil {
		return fmt.Errorf("categories must be a string or list of strings: %w", err)
	}

	*c = NormalizeCategories(entries)
	return nil
}

func NormalizeCategories(entries []string) []string {
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
