package models

import (
	"encoding/json"
	"strings"
	"time"
)

// LogTime is the timestamp of a wellness log entry. Logs come from an external
// data layer that is not always well behaved, so decoding never fails:
//   - valid timestamp with zone: Valid=true, Value=instant
//   - valid timestamp without zone: Valid=true, Value=wall clock (read as UTC), zone resolved later
//   - null, missing or unparseable: Valid=false, Raw keeps the original text
type LogTime struct {
	Value time.Time
	Valid bool
	Raw   string
	naive bool
}

// zonedLayouts carry their own offset
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
}

// naiveLayouts are wall-clock only and are read in the analysis location
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NewLogTime wraps an instant that is known to be valid
func NewLogTime(t time.Time) LogTime {
	return LogTime{Value: t, Valid: true, Raw: t.Format(time.RFC3339Nano)}
}

// ParseLogTime parses s using the accepted layouts. It never returns an error;
// check Valid on the result.
func ParseLogTime(s string) LogTime {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return LogTime{Raw: s}
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return LogTime{Value: t, Valid: true, Raw: s}
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return LogTime{Value: t, Valid: true, Raw: s, naive: true}
		}
	}

	return LogTime{Raw: s}
}

// In resolves the timestamp in loc. Zoned values are converted; naive values
// keep their wall clock and take loc as their zone. ok is false for invalid
// timestamps.
func (lt LogTime) In(loc *time.Location) (t time.Time, ok bool) {
	if !lt.Valid {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	if lt.naive {
		v := lt.Value
		return time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), loc), true
	}
	return lt.Value.In(loc), true
}

// UnmarshalJSON implements tolerant JSON decoding for LogTime.
func (lt *LogTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*lt = LogTime{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Numbers, objects and other junk are kept as raw text
		*lt = LogTime{Raw: string(data)}
		return nil
	}

	*lt = ParseLogTime(s)
	return nil
}

// MarshalJSON implements JSON encoding for LogTime.
func (lt LogTime) MarshalJSON() ([]byte, error) {
	switch {
	case lt.Valid && lt.naive:
		return json.Marshal(lt.Value.Format("2006-01-02T15:04:05.999999999"))
	case lt.Valid:
		return json.Marshal(lt.Value.Format(time.RFC3339Nano))
	case lt.Raw != "":
		return json.Marshal(lt.Raw)
	default:
		return []byte("null"), nil
	}
}
