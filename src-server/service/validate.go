package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const maxTitleLen = 255

// Accepted timestamp layouts. A value without an offset is taken as UTC;
// the app passes ISO-8601 strings through without time zone conversion.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a recognized timestamp", raw)
}

// validateCreate checks a create payload and returns the normalized
// title/start/end triple. It is pure: no I/O, no store access.
func validateCreate(in CreateEventInput) (string, time.Time, time.Time, *ValidationError) {
	ve := newValidationError()

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		ve.add("title", "title is required")
	case utf8.RuneCountInString(title) > maxTitleLen:
		// the limit is in characters, not bytes
		ve.add("title", fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}

	start, end := validateTimeRange(ve, in.Start, in.End)
	if !ve.empty() {
		return "", time.Time{}, time.Time{}, ve
	}
	return title, start, end, nil
}

// validateUpdate checks an update payload; title is not part of the
// update contract.
func validateUpdate(in UpdateEventInput) (time.Time, time.Time, *ValidationError) {
	ve := newValidationError()
	start, end := validateTimeRange(ve, in.Start, in.End)
	if !ve.empty() {
		return time.Time{}, time.Time{}, ve
	}
	return start, end, nil
}

func validateTimeRange(ve *ValidationError, rawStart, rawEnd string) (time.Time, time.Time) {
	var start, end time.Time
	var err error

	if strings.TrimSpace(rawStart) == "" {
		ve.add("start", "start is required")
	} else if start, err = parseTimestamp(rawStart); err != nil {
		ve.add("start", err.Error())
	}

	if strings.TrimSpace(rawEnd) == "" {
		ve.add("end", "end is required")
	} else if end, err = parseTimestamp(rawEnd); err != nil {
		ve.add("end", err.Error())
	}

	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		ve.add("end", "end must not be before start")
	}
	return start, end
}
