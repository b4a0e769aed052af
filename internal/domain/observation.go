package domain

import (
	"math"
	"time"
)

// RawRecord is one data row as read from the source table.
type RawRecord struct {
	Row    int               // zero-based data row, header excluded
	Date   string            // raw date column text
	Temp   string            // raw temperature column text
	Fields map[string]string // every other column, keyed by header name
}

// Observation is a RawRecord after date normalization.
type Observation struct {
	Row     int
	RawDate string
	RawTemp string
	Fields  map[string]string

	// Date is the UTC calendar day; meaningful only when DateValid is set.
	Date      time.Time
	DateValid bool

	// Temp is the temperature in °C, NaN when missing.
	Temp float64
}

// Year returns the calendar year of the observation date.
func (o Observation) Year() (int, bool) {
	if !o.DateValid {
		return 0, false
	}
	return o.Date.Year(), true
}

// Month returns the calendar month (1–12) of the observation date.
func (o Observation) Month() (int, bool) {
	if !o.DateValid {
		return 0, false
	}
	return int(o.Date.Month()), true
}

// HasTemp reports whether the temperature is present.
func (o Observation) HasTemp() bool {
	return !math.IsNaN(o.Temp)
}
