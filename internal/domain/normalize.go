package domain

import (
	"math"
	"strings"
	"time"
)

// dateLayouts are tried in order. Go's non-padded verbs ("1", "2") also
// accept zero-padded input, so "1950-01-01" and "1950-1-1" both match.
var dateLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"2006/1/2",
}

// ParseDate strictly parses s into a UTC calendar day. Out-of-range fields
// such as "1950-02-30" are rejected. Any time of day is discarded.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// NormalizeDates converts raw records into observations with parsed dates.
// Unparsable dates are kept as missing and counted. Temperatures start out
// missing; CleanValues fills them in.
func NormalizeDates(records []RawRecord) ([]Observation, int) {
	obs := make([]Observation, len(records))
	invalid := 0
	for i, rec := range records {
		o := Observation{
			Row:     rec.Row,
			RawDate: rec.Date,
			RawTemp: rec.Temp,
			Fields:  rec.Fields,
			Temp:    math.NaN(),
		}
		if d, ok := ParseDate(rec.Date); ok {
			o.Date = d
			o.DateValid = true
		} else {
			invalid++
		}
		obs[i] = o
	}
	return obs, invalid
}
