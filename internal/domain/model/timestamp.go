//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a backend time value. The CRMS API emits zone-less local date-times
// ("2024-05-01T10:15:30" or with fractional seconds); RFC 3339 values are accepted too.
type Timestamp struct {
	time.Time
}

//nolint:gochecknoglobals // static read-only layout list
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseTimestamp parses s with the accepted layouts. Zone-less values are read as UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("parse timestamp %q: unsupported format", s)
}

// UnmarshalJSON accepts a string in one of the accepted layouts, or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON writes the zero value as null and everything else in the backend's zone-less form.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format("2006-01-02T15:04:05"))
}

// Display formats the timestamp for tables; zero renders as an empty string.
func (t Timestamp) Display() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
