package domain

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// CleanStats summarizes one Value Cleaner pass.
type CleanStats struct {
	Unparsable   int // raw temperatures that were empty or non-numeric
	Interpolated int // missing values filled from both neighbours
	Unfilled     int // leading/trailing values left missing
}

// ParseTemperature coerces a raw temperature to float64. Empty, non-numeric,
// NaN and infinite values are reported as missing.
func ParseTemperature(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), false
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), false
	}
	return v, true
}

// CleanValues coerces every raw temperature and then interpolates the gaps.
func CleanValues(obs []Observation) CleanStats {
	var stats CleanStats
	for i := range obs {
		v, ok := ParseTemperature(obs[i].RawTemp)
		if !ok {
			stats.Unparsable++
		}
		obs[i].Temp = v
	}
	stats.Interpolated, stats.Unfilled = Interpolate(obs)
	return stats
}

// Interpolate fills missing temperatures linearly between the nearest
// non-missing neighbours in slice order. Values before the first or after the
// last present value stay missing. It returns the number of values filled and
// the number left missing. Interpolating an already-filled slice is a no-op.
func Interpolate(obs []Observation) (filled, unfilled int) {
	prev := -1
	for i := range obs {
		if !obs[i].HasTemp() {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			lo, hi := obs[prev].Temp, obs[i].Temp
			span := float64(i - prev)
			for j := prev + 1; j < i; j++ {
				obs[j].Temp = lo + (hi-lo)*float64(j-prev)/span
				filled++
			}
		}
		prev = i
	}

	for i := range obs {
		if !obs[i].HasTemp() {
			unfilled++
		}
	}
	return filled, unfilled
}
