package domain

// Analysis bundles every derived view computed from a cleaned observation set.
type Analysis struct {
	Yearly       YearlySeries
	Rolling      YearlySeries
	Monthly      MonthlySeries
	Distribution MonthlyDistribution
	Matrix       YearMonthMatrix
	Anomalies    AnomalyReport
}

// Analyze computes the derived views. obs is only read.
func Analyze(obs []Observation) Analysis {
	yearly := YearlyMeans(obs)
	return Analysis{
		Yearly:       yearly,
		Rolling:      RollingMean(yearly, RollingWindow),
		Monthly:      MonthlyMeans(obs),
		Distribution: MonthlyValues(obs),
		Matrix:       YearMonthMeans(obs),
		Anomalies:    DetectAnomalies(yearly, AnomalySigma),
	}
}
