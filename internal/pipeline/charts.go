package pipeline

import "github.com/couchcryptid/sst-trends/internal/domain"

const tempLabel = "Average Temperature (°C)"

// Chart names double as the label of the charts_rendered_total metric.
const (
	ChartTrend     = "trend_line"
	ChartMonthly   = "monthly_means"
	ChartBoxPlot   = "monthly_boxplot"
	ChartRolling   = "trend_rolling"
	ChartAnomalies = "anomalies"
	ChartHeatmap   = "heatmap"
)

// Charts lists the charts every run produces, in render order.
var Charts = []string{ChartTrend, ChartMonthly, ChartBoxPlot, ChartRolling, ChartAnomalies, ChartHeatmap}

var chartOptions = map[string]domain.ChartOptions{
	ChartTrend: {
		Title:  "Long-Term Trends in Average Sea Surface Temperature (1905–2019)",
		XLabel: "Year",
		YLabel: tempLabel,
	},
	ChartMonthly: {
		Title:  "Seasonal Patterns in Average Sea Surface Temperature",
		XLabel: "Month",
		YLabel: tempLabel,
	},
	ChartBoxPlot: {
		Title:  "Monthly Variation in Average Sea Surface Temperature",
		XLabel: "Month",
		YLabel: tempLabel,
	},
	ChartRolling: {
		Title:  "Long-Term Trends with 10-Year Rolling Average",
		XLabel: "Year",
		YLabel: tempLabel,
	},
	ChartAnomalies: {
		Title:  "Highlighting Anomalies in Average Sea Surface Temperature",
		XLabel: "Year",
		YLabel: tempLabel,
	},
	ChartHeatmap: {
		Title:  "Yearly Heatmap of Average Sea Surface Temperatures",
		XLabel: "Month",
		YLabel: "Year",
	},
}

// ChartOptionsFor returns the labels and file name of the named chart.
func ChartOptionsFor(name string) domain.ChartOptions {
	opts := chartOptions[name]
	opts.Filename = name + ".svg"
	return opts
}
