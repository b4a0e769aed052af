package domain

// ChartOptions carries the labelling of one rendered chart.
type ChartOptions struct {
	Title    string
	XLabel   string
	YLabel   string
	Filename string // base name inside the output directory
}
