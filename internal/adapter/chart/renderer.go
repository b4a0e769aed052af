// Package chart draws the derived SST views as SVG files with gonum/plot.
package chart

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/couchcryptid/sst-trends/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a chart's input view is empty.
var ErrNoData = errors.New("no data to plot")

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var (
	blue   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	red    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	orange = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	faded  = color.RGBA{R: 31, G: 119, B: 180, A: 150}
	dashes = []vg.Length{vg.Points(6), vg.Points(3)}
)

// Renderer writes charts into a single output directory.
// It implements pipeline.Renderer.
type Renderer struct {
	dir    string
	width  vg.Length
	height vg.Length
	logger *slog.Logger
}

// NewRenderer creates the output directory if needed and returns a Renderer
// drawing widthIn×heightIn inch canvases into it. It fails before any chart is
// drawn when the directory cannot be created.
func NewRenderer(dir string, widthIn, heightIn float64, logger *slog.Logger) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat output dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output dir %s is not a directory", dir)
	}
	return &Renderer{
		dir:    dir,
		width:  vg.Length(widthIn) * vg.Inch,
		height: vg.Length(heightIn) * vg.Inch,
		logger: logger,
	}, nil
}

// Dir returns the output directory.
func (r *Renderer) Dir() string { return r.dir }

// TrendLine draws the yearly mean series as a line.
func (r *Renderer) TrendLine(ctx context.Context, yearly domain.YearlySeries, opts domain.ChartOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(yearly) == 0 {
		return fmt.Errorf("trend line: %w", ErrNoData)
	}
	p := newPlot(opts)

	line, err := plotter.NewLine(yearlyXYs(yearly))
	if err != nil {
		return fmt.Errorf("trend line: %w", err)
	}
	line.Color = blue
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("Avg Temp (°C)", line)

	return r.save(p, opts)
}

// MonthlyBars draws the pooled monthly means as a bar chart.
func (r *Renderer) MonthlyBars(ctx context.Context, monthly domain.MonthlySeries, opts domain.ChartOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(monthly) == 0 {
		return fmt.Errorf("monthly bars: %w", ErrNoData)
	}
	p := newPlot(opts)

	values := make(plotter.Values, len(monthly))
	labels := make([]string, len(monthly))
	for i, mv := range monthly {
		values[i] = mv.Value
		labels[i] = monthNames[mv.Month-1]
	}
	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("monthly bars: %w", err)
	}
	bars.Color = faded
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)

	return r.save(p, opts)
}

// MonthlyBoxPlot draws one box per month from the per-month value lists.
// Outliers are not drawn. Months without values are left blank.
func (r *Renderer) MonthlyBoxPlot(ctx context.Context, dist domain.MonthlyDistribution, opts domain.ChartOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := newPlot(opts)

	drawn := 0
	for i := range monthNames {
		vals := dist.Month(i + 1)
		if len(vals) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(24), float64(i), plotter.Values(vals))
		if err != nil {
			return fmt.Errorf("monthly box plot %s: %w", monthNames[i], err)
		}
		box.GlyphStyle.Radius = 0
		p.Add(box)
		drawn++
	}
	if drawn == 0 {
		return fmt.Errorf("monthly box plot: %w", ErrNoData)
	}
	p.NominalX(monthNames[:]...)

	return r.save(p, opts)
}

// RollingOverlay draws the yearly series with its smoothed series on top.
func (r *Renderer) RollingOverlay(ctx context.Context, yearly, rolling domain.YearlySeries, opts domain.ChartOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(yearly) == 0 {
		return fmt.Errorf("rolling overlay: %w", ErrNoData)
	}
	p := newPlot(opts)

	raw, err := plotter.NewLine(yearlyXYs(yearly))
	if err != nil {
		return fmt.Errorf("rolling overlay: %w", err)
	}
	raw.Color = faded
	p.Add(raw)
	p.Legend.Add("Yearly Avg Temp (°C)", raw)

	if len(rolling) > 0 {
		smooth, err := plotter.NewLine(yearlyXYs(rolling))
		if err != nil {
			return fmt.Errorf("rolling overlay: %w", err)
		}
		smooth.Color = red
		smooth.Width = vg.Points(2)
		p.Add(smooth)
		p.Legend.Add(fmt.Sprintf("%d-Year Rolling Avg (°C)", domain.RollingWindow), smooth)
	}

	return r.save(p, opts)
}

// AnomalyScatter draws every yearly mean, highlights the flagged years and
// marks both thresholds as dashed reference lines.
func (r *Renderer) AnomalyScatter(ctx context.Context, yearly domain.YearlySeries, report domain.AnomalyReport, opts domain.ChartOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(yearly) == 0 {
		return fmt.Errorf("anomaly scatter: %w", ErrNoData)
	}
	p := newPlot(opts)

	all, err := plotter.NewScatter(yearlyXYs(yearly))
	if err != nil {
		return fmt.Errorf("anomaly scatter: %w", err)
	}
	all.GlyphStyle.Color = faded
	p.Add(all)
	p.Legend.Add("Yearly Avg Temp (°C)", all)

	if len(report.Anomalies) > 0 {
		flagged, err := plotter.NewScatter(yearlyXYs(report.Anomalies))
		if err != nil {
			return fmt.Errorf("anomaly scatter: %w", err)
		}
		flagged.GlyphStyle.Color = red
		flagged.GlyphStyle.Shape = draw.CircleGlyph{}
		flagged.GlyphStyle.Radius = vg.Points(4)
		p.Add(flagged)
		p.Legend.Add("Anomalies", flagged)
	}

	for _, ref := range []struct {
		label string
		value float64
		tint  color.Color
	}{
		{fmt.Sprintf("+%g Std Dev", domain.AnomalySigma), report.Upper, orange},
		{fmt.Sprintf("-%g Std Dev", domain.AnomalySigma), report.Lower, blue},
	} {
		if math.IsNaN(ref.value) {
			continue
		}
		v := ref.value
		fn := plotter.NewFunction(func(float64) float64 { return v })
		fn.Color = ref.tint
		fn.Dashes = dashes
		p.Add(fn)
		p.Legend.Add(ref.label, fn)
	}

	return r.save(p, opts)
}

// Heatmap draws the year×month grid. Empty cells are left transparent.
func (r *Renderer) Heatmap(ctx context.Context, matrix domain.YearMonthMatrix, opts domain.ChartOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(matrix.Years) == 0 {
		return fmt.Errorf("heatmap: %w", ErrNoData)
	}
	p := newPlot(opts)

	colors := moreland.SmoothBlueRed()
	colors.SetMin(0)
	colors.SetMax(1)
	hm := plotter.NewHeatMap(grid{matrix}, colors.Palette(255))
	p.Add(hm)

	ticks := make([]plot.Tick, len(monthNames))
	for i, name := range monthNames {
		ticks[i] = plot.Tick{Value: float64(i + 1), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	return r.save(p, opts)
}

func newPlot(opts domain.ChartOptions) *plot.Plot {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Legend.Top = true
	lines := plotter.NewGrid()
	lines.Vertical.Dashes = dashes
	lines.Horizontal.Dashes = dashes
	p.Add(lines)
	return p
}

func (r *Renderer) save(p *plot.Plot, opts domain.ChartOptions) error {
	path := filepath.Join(r.dir, opts.Filename)
	if err := p.Save(r.width, r.height, path); err != nil {
		return fmt.Errorf("save %s: %w", opts.Filename, err)
	}
	r.logger.Debug("chart written", "path", path)
	return nil
}

func yearlyXYs(s domain.YearlySeries) plotter.XYs {
	pts := make(plotter.XYs, len(s))
	for i, p := range s {
		pts[i].X = float64(p.Year)
		pts[i].Y = p.Value
	}
	return pts
}

// grid adapts a YearMonthMatrix to plotter.GridXYZ: columns are months,
// rows are years.
type grid struct {
	m domain.YearMonthMatrix
}

func (g grid) Dims() (c, r int)   { return 12, len(g.m.Years) }
func (g grid) Z(c, r int) float64 { return g.m.Cell(r, c) }
func (g grid) X(c int) float64    { return float64(c + 1) }
func (g grid) Y(r int) float64    { return float64(g.m.Years[r]) }
