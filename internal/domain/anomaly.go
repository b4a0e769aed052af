package domain

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// AnomalySigma is the band half-width in sample standard deviations.
const AnomalySigma = 2.0

// AnomalyReport lists the years outside the mean ± AnomalySigma·σ band.
type AnomalyReport struct {
	Mean      float64
	StdDev    float64 // sample (N-1) standard deviation
	Upper     float64
	Lower     float64
	Anomalies YearlySeries
}

// DetectAnomalies flags yearly values strictly above Upper or strictly below
// Lower. With fewer than two values σ is undefined: StdDev and both
// thresholds are NaN and nothing is flagged.
func DetectAnomalies(s YearlySeries, sigma float64) AnomalyReport {
	report := AnomalyReport{
		Mean:      math.NaN(),
		StdDev:    math.NaN(),
		Upper:     math.NaN(),
		Lower:     math.NaN(),
		Anomalies: YearlySeries{},
	}
	if len(s) == 0 {
		return report
	}

	values := s.Values()
	if len(values) < 2 {
		report.Mean = values[0]
		return report
	}

	report.Mean, report.StdDev = stat.MeanStdDev(values, nil)
	report.Upper = report.Mean + sigma*report.StdDev
	report.Lower = report.Mean - sigma*report.StdDev

	for _, p := range s {
		if p.Value > report.Upper || p.Value < report.Lower {
			report.Anomalies = append(report.Anomalies, p)
		}
	}
	return report
}
