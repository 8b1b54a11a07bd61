package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

// ParseTZOffset parses a fixed UTC offset like "+05:30" or "-08:00".
// An empty value is UTC.
func ParseTZOffset(raw string) (*time.Location, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "Z" {
		return time.UTC, nil
	}

	invalid := &ParamError{Kind: ParamTimezone, Field: "tz_offset", Value: raw, Reason: "must be in +/-HH:MM format"}
	if len(trimmed) != 6 || trimmed[3] != ':' || (trimmed[0] != '+' && trimmed[0] != '-') {
		return nil, invalid
	}

	hours, err := strconv.ParseUint(trimmed[1:3], 10, 8)
	if err != nil {
		return nil, invalid
	}
	minutes, err := strconv.ParseUint(trimmed[4:6], 10, 8)
	if err != nil {
		return nil, invalid
	}
	if hours > 14 || minutes > 59 || (hours == 14 && minutes != 0) {
		invalid.Reason = "is out of range"
		return nil, invalid
	}

	offset := int(hours)*60*60 + int(minutes)*60
	if trimmed[0] == '-' {
		offset = -offset
	}
	if offset == 0 {
		return time.UTC, nil
	}
	return time.FixedZone(fmt.Sprintf("UTC%c%02d:%02d", trimmed[0], hours, minutes), offset), nil
}

// ParseDate parses a YYYY-MM-DD date (midnight in loc) or an RFC3339
// timestamp. An empty value returns the zero time.
func ParseDate(field, raw string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.ParseInLocation(models.DateLayout, trimmed, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return t.In(loc), nil
	}

	return time.Time{}, &ParamError{
		Kind:   ParamDate,
		Field:  field,
		Value:  raw,
		Reason: "must be YYYY-MM-DD or RFC3339",
	}
}

// ParseAnalysisRequest builds an AnalysisRequest from raw query values.
// Missing dates are left zero so the service applies its default window.
func ParseAnalysisRequest(startDate, endDate, tzOffset string) (AnalysisRequest, error) {
	loc, err := ParseTZOffset(tzOffset)
	if err != nil {
		return AnalysisRequest{}, err
	}

	start, err := ParseDate("start_date", startDate, loc)
	if err != nil {
		return AnalysisRequest{}, err
	}
	end, err := ParseDate("end_date", endDate, loc)
	if err != nil {
		return AnalysisRequest{}, err
	}

	return AnalysisRequest{Start: start, End: end, Location: loc}, nil
}
