package domain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RollingWindow is the number of yearly entries in the smoothed series window.
const RollingWindow = 10

// YearValue is one point of a yearly series.
type YearValue struct {
	Year  int
	Value float64
}

// YearlySeries is ordered by ascending year with at most one entry per year.
type YearlySeries []YearValue

// Values returns the series values in year order.
func (s YearlySeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Value looks up the entry for year.
func (s YearlySeries) Value(year int) (float64, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Year >= year })
	if i < len(s) && s[i].Year == year {
		return s[i].Value, true
	}
	return 0, false
}

// MonthValue is one point of the pooled monthly series.
type MonthValue struct {
	Month int
	Value float64
}

// MonthlySeries is ordered by month; months without data are absent.
type MonthlySeries []MonthValue

// MonthlyDistribution holds every present temperature per month, indexed by
// month-1, in row order.
type MonthlyDistribution [12][]float64

// Month returns the values recorded in month m (1–12).
func (d MonthlyDistribution) Month(m int) []float64 {
	if m < 1 || m > 12 {
		return nil
	}
	return d[m-1]
}

// YearMonthMatrix is the year×month mean grid. Rows follow Years; cells
// without observations are NaN.
type YearMonthMatrix struct {
	Years []int
	cells [][12]float64
}

// At returns the mean for (year, month).
func (m YearMonthMatrix) At(year, month int) (float64, bool) {
	if month < 1 || month > 12 {
		return math.NaN(), false
	}
	i := sort.SearchInts(m.Years, year)
	if i >= len(m.Years) || m.Years[i] != year {
		return math.NaN(), false
	}
	v := m.cells[i][month-1]
	return v, !math.IsNaN(v)
}

// Cell returns the value at row r (index into Years) and month index c (0–11).
// Indices outside the grid yield NaN.
func (m YearMonthMatrix) Cell(r, c int) float64 {
	if r < 0 || r >= len(m.cells) || c < 0 || c >= 12 {
		return math.NaN()
	}
	return m.cells[r][c]
}

// yearMonth pulls the grouping keys of a usable observation.
func yearMonth(o Observation) (year, month int, ok bool) {
	if !o.HasTemp() {
		return 0, 0, false
	}
	year, ok = o.Year()
	if !ok {
		return 0, 0, false
	}
	month, _ = o.Month()
	return year, month, true
}

// YearlyMeans averages the present temperatures of each year.
func YearlyMeans(obs []Observation) YearlySeries {
	groups := make(map[int][]float64)
	for _, o := range obs {
		year, _, ok := yearMonth(o)
		if !ok {
			continue
		}
		groups[year] = append(groups[year], o.Temp)
	}

	series := make(YearlySeries, 0, len(groups))
	for year, vals := range groups {
		series = append(series, YearValue{Year: year, Value: stat.Mean(vals, nil)})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}

// MonthlyMeans averages the present temperatures of each month over all years.
func MonthlyMeans(obs []Observation) MonthlySeries {
	dist := MonthlyValues(obs)
	series := make(MonthlySeries, 0, 12)
	for i, vals := range dist {
		if len(vals) == 0 {
			continue
		}
		series = append(series, MonthValue{Month: i + 1, Value: stat.Mean(vals, nil)})
	}
	return series
}

// MonthlyValues collects the present temperatures of each month. The result
// is freshly allocated on every call.
func MonthlyValues(obs []Observation) MonthlyDistribution {
	var dist MonthlyDistribution
	for _, o := range obs {
		_, month, ok := yearMonth(o)
		if !ok {
			continue
		}
		dist[month-1] = append(dist[month-1], o.Temp)
	}
	return dist
}

// YearMonthMeans builds the year×month mean grid over every year with at
// least one present temperature.
func YearMonthMeans(obs []Observation) YearMonthMatrix {
	type key struct{ year, month int }
	sums := make(map[key]float64)
	counts := make(map[key]int)
	years := make(map[int]struct{})
	for _, o := range obs {
		year, month, ok := yearMonth(o)
		if !ok {
			continue
		}
		k := key{year, month}
		sums[k] += o.Temp
		counts[k]++
		years[year] = struct{}{}
	}

	m := YearMonthMatrix{Years: make([]int, 0, len(years))}
	for y := range years {
		m.Years = append(m.Years, y)
	}
	sort.Ints(m.Years)

	m.cells = make([][12]float64, len(m.Years))
	for r, y := range m.Years {
		for c := range 12 {
			k := key{y, c + 1}
			if n := counts[k]; n > 0 {
				m.cells[r][c] = sums[k] / float64(n)
			} else {
				m.cells[r][c] = math.NaN()
			}
		}
	}
	return m
}

// RollingMean smooths s with a centered window of the given size, applied to
// consecutive series entries regardless of calendar gaps. The entry at
// position i averages positions [i-window/2, i+(window-1)/2]; for an even
// window that leans one entry toward the earlier years. Entries where the full
// window does not fit produce no output.
func RollingMean(s YearlySeries, window int) YearlySeries {
	if window <= 0 || window > len(s) {
		return YearlySeries{}
	}
	before, after := window/2, (window-1)/2

	out := make(YearlySeries, 0, len(s)-window+1)
	for i := before; i+after < len(s); i++ {
		sum := 0.0
		for _, p := range s[i-before : i+after+1] {
			sum += p.Value
		}
		out = append(out, YearValue{Year: s[i].Year, Value: sum / float64(window)})
	}
	return out
}
