package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/sst-trends/internal/domain"
	"github.com/couchcryptid/sst-trends/internal/observability"
	"github.com/couchcryptid/sst-trends/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	records []domain.RawRecord
	err     error
	onRead  func()
}

func (m *mockExtractor) Extract(_ context.Context) ([]domain.RawRecord, error) {
	if m.onRead != nil {
		m.onRead()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

type mockRenderer struct {
	calls   []string
	opts    map[string]domain.ChartOptions
	yearly  domain.YearlySeries
	report  domain.AnomalyReport
	failOn  string
	failErr error
}

func (m *mockRenderer) record(name string, opts domain.ChartOptions) error {
	m.calls = append(m.calls, name)
	if m.opts == nil {
		m.opts = map[string]domain.ChartOptions{}
	}
	m.opts[name] = opts
	if name == m.failOn {
		return m.failErr
	}
	return nil
}

func (m *mockRenderer) TrendLine(_ context.Context, yearly domain.YearlySeries, opts domain.ChartOptions) error {
	m.yearly = yearly
	return m.record(pipeline.ChartTrend, opts)
}

func (m *mockRenderer) MonthlyBars(_ context.Context, _ domain.MonthlySeries, opts domain.ChartOptions) error {
	return m.record(pipeline.ChartMonthly, opts)
}

func (m *mockRenderer) MonthlyBoxPlot(_ context.Context, _ domain.MonthlyDistribution, opts domain.ChartOptions) error {
	return m.record(pipeline.ChartBoxPlot, opts)
}

func (m *mockRenderer) RollingOverlay(_ context.Context, _, _ domain.YearlySeries, opts domain.ChartOptions) error {
	return m.record(pipeline.ChartRolling, opts)
}

func (m *mockRenderer) AnomalyScatter(_ context.Context, _ domain.YearlySeries, report domain.AnomalyReport, opts domain.ChartOptions) error {
	m.report = report
	return m.record(pipeline.ChartAnomalies, opts)
}

func (m *mockRenderer) Heatmap(_ context.Context, _ domain.YearMonthMatrix, opts domain.ChartOptions) error {
	return m.record(pipeline.ChartHeatmap, opts)
}

func records(rows ...[2]string) []domain.RawRecord {
	out := make([]domain.RawRecord, len(rows))
	for i, r := range rows {
		out[i] = domain.RawRecord{Row: i, Date: r[0], Temp: r[1]}
	}
	return out
}

// --- tests ---

func TestPipeline_Run_EndToEnd(t *testing.T) {
	ext := &mockExtractor{records: records(
		[2]string{"1949-06-01", "10"},
		[2]string{"1950-01-01", "999"},
		[2]string{"1950-11-01", "14"},
	)}
	rnd := &mockRenderer{}
	metrics := observability.NewMetricsForTesting()

	res, err := pipeline.New(ext, rnd, slog.Default(), metrics).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 0, res.InvalidDates)
	assert.Equal(t, 1, res.OutageRemoved)
	assert.Equal(t, domain.CleanStats{}, res.Clean)

	want := domain.YearlySeries{{Year: 1949, Value: 10}, {Year: 1950, Value: 14}}
	if diff := cmp.Diff(want, res.Analysis.Yearly); diff != "" {
		t.Errorf("yearly means mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, rnd.yearly); diff != "" {
		t.Errorf("rendered yearly series mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, pipeline.Charts, rnd.calls)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RowsLoaded), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.OutageRowsRemoved), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.AnomalousYears), 0)
	for _, name := range pipeline.Charts {
		assert.InDelta(t, 1, testutil.ToFloat64(metrics.ChartsRendered.WithLabelValues(name)), 0, name)
	}
}

func TestPipeline_Run_ChartOptions(t *testing.T) {
	ext := &mockExtractor{records: records([2]string{"1990-01-15", "14.2"})}
	rnd := &mockRenderer{}

	_, err := pipeline.New(ext, rnd, slog.Default(), observability.NewMetricsForTesting()).Run(context.Background())
	require.NoError(t, err)

	wantFiles := map[string]string{
		pipeline.ChartTrend:     "trend_line.svg",
		pipeline.ChartMonthly:   "monthly_means.svg",
		pipeline.ChartBoxPlot:   "monthly_boxplot.svg",
		pipeline.ChartRolling:   "trend_rolling.svg",
		pipeline.ChartAnomalies: "anomalies.svg",
		pipeline.ChartHeatmap:   "heatmap.svg",
	}
	for name, file := range wantFiles {
		opts := rnd.opts[name]
		assert.Equal(t, file, opts.Filename, name)
		assert.NotEmpty(t, opts.Title, name)
		assert.NotEmpty(t, opts.XLabel, name)
		assert.NotEmpty(t, opts.YLabel, name)
	}
	assert.Equal(t, "Year", rnd.opts[pipeline.ChartHeatmap].YLabel)
}

func TestPipeline_Run_CountsAndAnomalies(t *testing.T) {
	rows := [][2]string{
		{"1900-03-01", "oops"},
		{"not a date", "12"},
	}
	years := []string{"10", "11", "9", "10", "11", "9", "10", "11", "9", "10", "50"}
	for i, v := range years {
		rows = append(rows, [2]string{time.Date(1901+i, time.March, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly), v})
	}
	ext := &mockExtractor{records: records(rows...)}
	rnd := &mockRenderer{}
	metrics := observability.NewMetricsForTesting()

	res, err := pipeline.New(ext, rnd, slog.Default(), metrics).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.InvalidDates)
	assert.Equal(t, 1, res.Clean.Unparsable)
	assert.Equal(t, 1, res.Clean.Unfilled)
	assert.Equal(t, 0, res.Clean.Interpolated)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.InvalidDates), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UnparsableTemps), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UnfilledValues), 0)

	require.Len(t, rnd.report.Anomalies, 1)
	assert.Equal(t, domain.YearValue{Year: 1911, Value: 50}, rnd.report.Anomalies[0])
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.AnomalousYears), 0)
}

func TestPipeline_Run_Duration(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 12, 0, 0, 0, time.UTC))
	pipeline.SetClock(fc)
	t.Cleanup(func() { pipeline.SetClock(nil) })

	ext := &mockExtractor{
		records: records([2]string{"1990-01-15", "14.2"}),
		onRead:  func() { fc.Advance(3 * time.Second) },
	}
	metrics := observability.NewMetricsForTesting()

	res, err := pipeline.New(ext, &mockRenderer{}, slog.Default(), metrics).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, res.Duration)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RunDuration), 0)
	assert.InDelta(t, float64(fc.Now().Unix()), testutil.ToFloat64(metrics.LastSuccessTimestamp), 0)
}

func TestPipeline_Run_ExtractError(t *testing.T) {
	sentinel := errors.New("disk gone")
	rnd := &mockRenderer{}

	_, err := pipeline.New(&mockExtractor{err: sentinel}, rnd, slog.Default(), observability.NewMetricsForTesting()).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "extract")
	assert.Empty(t, rnd.calls)
}

func TestPipeline_Run_RenderErrorStopsRun(t *testing.T) {
	sentinel := errors.New("write failed")
	ext := &mockExtractor{records: records([2]string{"1990-01-15", "14.2"})}
	rnd := &mockRenderer{failOn: pipeline.ChartBoxPlot, failErr: sentinel}
	metrics := observability.NewMetricsForTesting()

	_, err := pipeline.New(ext, rnd, slog.Default(), metrics).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "render monthly_boxplot")

	assert.Equal(t, []string{pipeline.ChartTrend, pipeline.ChartMonthly, pipeline.ChartBoxPlot}, rnd.calls)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.ChartsRendered.WithLabelValues(pipeline.ChartBoxPlot)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.LastSuccessTimestamp), 0)
}

func TestPipeline_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ext := &mockExtractor{
		records: records([2]string{"1990-01-15", "14.2"}),
		onRead:  cancel,
	}
	rnd := &mockRenderer{}

	_, err := pipeline.New(ext, rnd, slog.Default(), observability.NewMetricsForTesting()).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rnd.calls)
}
