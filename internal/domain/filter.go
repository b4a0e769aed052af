package domain

import "time"

// DateRange is a closed interval of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Outage is the instrument outage window. Rows dated inside it are dropped.
var Outage = DateRange{
	Start: time.Date(1949, time.July, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(1950, time.October, 4, 0, 0, 0, 0, time.UTC),
}

// Contains reports whether d lies in [Start, End], both ends inclusive.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// FilterRange removes observations dated inside r and returns the retained
// observations with the number removed. Undated observations are never in
// range. The input slice is compacted in place and must not be reused.
func FilterRange(obs []Observation, r DateRange) ([]Observation, int) {
	kept := obs[:0]
	for _, o := range obs {
		if o.DateValid && r.Contains(o.Date) {
			continue
		}
		kept = append(kept, o)
	}
	removed := len(obs) - len(kept)
	clear(obs[len(kept):])
	return kept, removed
}
