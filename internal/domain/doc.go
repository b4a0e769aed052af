// Package domain models the sea-surface-temperature (SST) observation series
// and the pure transforms applied to it.
//
// # Data Source
//
// The source table is a shore-station SST record covering 1905–2019, one row
// per collection. The loader hands every row over as a [RawRecord]; only two
// columns are interpreted, the rest ride along as passthrough fields:
//
//	COLLECTION_DATE          collection date, e.g. "1916-08-22" or "8/22/1916"
//	Sea Surface Temp Ave C   daily mean temperature in degrees Celsius
//
// # Missing Values
//
// A date that fails every accepted layout leaves [Observation.DateValid]
// false; Year and Month report ok=false for such rows. A temperature that is
// empty, non-numeric, NaN or infinite is stored as NaN. Missing is never zero.
//
// # Instrument Outage
//
// The station produced no valid readings between 1949-07-01 and 1950-10-04
// (inclusive). Rows dated inside [Outage] are dropped before cleaning,
// whatever their temperature column says. Undated rows are kept.
//
// # Interpolation
//
// Gaps are filled linearly in source row order, not chronological order.
// The source file is date-sorted, so the two coincide in practice. Leading
// and trailing gaps have no bounding value and stay missing.
//
// # Rolling Mean
//
// The smoothed yearly series uses a centered window of [RollingWindow]
// entries. For an even window the entry at position i averages positions
// [i-w/2, i+(w-1)/2], so a 10-entry window spans five earlier entries, the
// entry itself and four later ones. See [RollingMean].
//
// # Anomalies
//
// A year is anomalous when its mean lies strictly outside
// mean ± [AnomalySigma]·σ, where σ is the sample (N-1) standard deviation of
// all yearly means. With N yearly values no point can sit further than
// (N-1)/√N sample deviations from the mean, so at least six years are needed
// before anything can be flagged at 2σ.
package domain
