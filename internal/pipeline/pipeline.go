package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/sst-trends/internal/domain"
	"github.com/couchcryptid/sst-trends/internal/observability"
)

// Extractor reads the raw observation table from its source.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.RawRecord, error)
}

// Renderer draws each derived view to its own artifact.
type Renderer interface {
	TrendLine(ctx context.Context, yearly domain.YearlySeries, opts domain.ChartOptions) error
	MonthlyBars(ctx context.Context, monthly domain.MonthlySeries, opts domain.ChartOptions) error
	MonthlyBoxPlot(ctx context.Context, dist domain.MonthlyDistribution, opts domain.ChartOptions) error
	RollingOverlay(ctx context.Context, yearly, rolling domain.YearlySeries, opts domain.ChartOptions) error
	AnomalyScatter(ctx context.Context, yearly domain.YearlySeries, report domain.AnomalyReport, opts domain.ChartOptions) error
	Heatmap(ctx context.Context, matrix domain.YearMonthMatrix, opts domain.ChartOptions) error
}

// Result summarizes one run.
type Result struct {
	Rows          int
	InvalidDates  int
	OutageRemoved int
	Clean         domain.CleanStats
	Analysis      domain.Analysis
	Duration      time.Duration
}

// Pipeline runs the load, clean, analyze and render stages once.
type Pipeline struct {
	extractor Extractor
	renderer  Renderer
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, r Renderer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		renderer:  r,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes every stage in order. Any error aborts the run; charts
// already written stay on disk.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := clock.Now()
	var res Result

	records, err := p.extractor.Extract(ctx)
	if err != nil {
		return res, fmt.Errorf("extract: %w", err)
	}
	res.Rows = len(records)
	p.metrics.RowsLoaded.Add(float64(res.Rows))
	p.logger.Info("rows loaded", "rows", res.Rows)

	obs, invalid := domain.NormalizeDates(records)
	res.InvalidDates = invalid
	p.metrics.InvalidDates.Add(float64(invalid))
	p.logger.Info("dates normalized", "rows", len(obs), "invalid_dates", invalid)

	obs, removed := domain.FilterRange(obs, domain.Outage)
	res.OutageRemoved = removed
	p.metrics.OutageRowsRemoved.Add(float64(removed))
	p.logger.Info("outage filtered",
		"rows", len(obs),
		"outage_rows_removed", removed,
		"start", domain.Outage.Start.Format(time.DateOnly),
		"end", domain.Outage.End.Format(time.DateOnly),
	)

	res.Clean = domain.CleanValues(obs)
	p.metrics.UnparsableTemps.Add(float64(res.Clean.Unparsable))
	p.metrics.InterpolatedValues.Add(float64(res.Clean.Interpolated))
	p.metrics.UnfilledValues.Add(float64(res.Clean.Unfilled))
	p.logger.Info("values cleaned",
		"unparsable", res.Clean.Unparsable,
		"interpolated", res.Clean.Interpolated,
		"unfilled", res.Clean.Unfilled,
	)

	res.Analysis = domain.Analyze(obs)
	p.logAnalysis(res.Analysis)

	if err := p.render(ctx, res.Analysis); err != nil {
		return res, err
	}

	res.Duration = clock.Since(start)
	p.metrics.RunDuration.Set(res.Duration.Seconds())
	p.metrics.LastSuccessTimestamp.Set(float64(clock.Now().Unix()))
	p.logger.Info("pipeline finished",
		"duration", res.Duration,
		"years", len(res.Analysis.Yearly),
		"anomalies", len(res.Analysis.Anomalies.Anomalies),
	)
	return res, nil
}

func (p *Pipeline) logAnalysis(a domain.Analysis) {
	p.logger.Info("series aggregated",
		"years", len(a.Yearly),
		"months", len(a.Monthly),
		"rolling_points", len(a.Rolling),
	)

	report := a.Anomalies
	p.metrics.AnomalousYears.Set(float64(len(report.Anomalies)))
	p.logger.Info("anomalies detected",
		"mean", report.Mean,
		"std_dev", report.StdDev,
		"upper", report.Upper,
		"lower", report.Lower,
		"count", len(report.Anomalies),
	)
	for _, yv := range report.Anomalies {
		p.logger.Info("anomalous year", "year", yv.Year, "value", yv.Value)
	}
}

func (p *Pipeline) render(ctx context.Context, a domain.Analysis) error {
	for _, name := range Charts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		opts := ChartOptionsFor(name)

		var err error
		switch name {
		case ChartTrend:
			err = p.renderer.TrendLine(ctx, a.Yearly, opts)
		case ChartMonthly:
			err = p.renderer.MonthlyBars(ctx, a.Monthly, opts)
		case ChartBoxPlot:
			err = p.renderer.MonthlyBoxPlot(ctx, a.Distribution, opts)
		case ChartRolling:
			err = p.renderer.RollingOverlay(ctx, a.Yearly, a.Rolling, opts)
		case ChartAnomalies:
			err = p.renderer.AnomalyScatter(ctx, a.Yearly, a.Anomalies, opts)
		case ChartHeatmap:
			err = p.renderer.Heatmap(ctx, a.Matrix, opts)
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		p.metrics.ChartsRendered.WithLabelValues(name).Inc()
		p.logger.Info("chart rendered", "chart", name, "file", opts.Filename)
	}
	return nil
}
