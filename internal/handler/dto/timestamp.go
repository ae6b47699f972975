package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC,
// and fractional seconds are accepted after the seconds field in every layout.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is an ISO-8601 instant on the wire. It decodes RFC 3339,
// zone-less date-times (UTC) and bare dates, and encodes RFC 3339 in UTC.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s using the accepted layouts and returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO-8601 date or date-time", s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string")
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	ts.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Time.UTC().Format(time.RFC3339Nano))
}

// TimePtr returns nil for a nil receiver, otherwise the instant in UTC.
func (ts *Timestamp) TimePtr() *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time.UTC()
	return &t
}
