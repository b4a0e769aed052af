package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/couchcryptid/sst-trends/internal/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing column")

// Reader loads the observation table from a comma-delimited file.
// It implements pipeline.Extractor.
type Reader struct {
	path       string
	dateColumn string
	tempColumn string
	logger     *slog.Logger
}

// NewReader creates a Reader for path that interprets the named date and
// temperature columns.
func NewReader(path, dateColumn, tempColumn string, logger *slog.Logger) *Reader {
	return &Reader{
		path:       path,
		dateColumn: dateColumn,
		tempColumn: tempColumn,
		logger:     logger,
	}
}

// Extract reads every data row of the file.
func (r *Reader) Extract(ctx context.Context) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open source table: %w", err)
	}
	defer f.Close()

	records, err := ReadRecords(f, r.dateColumn, r.tempColumn)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	r.logger.Info("source table loaded", "path", r.path, "rows", len(records))
	return records, nil
}

// ReadRecords parses a header-led CSV stream. A leading UTF-8 BOM is
// discarded. Every cell is kept as raw text; interpretation happens later.
func ReadRecords(src io.Reader, dateColumn, tempColumn string) ([]domain.RawRecord, error) {
	decoded := transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	df := dataframe.ReadCSV(decoded,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}

	names := df.Names()
	for _, col := range []string{dateColumn, tempColumn} {
		if !slices.Contains(names, col) {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	columns := make(map[string][]string, len(names))
	for _, name := range names {
		columns[name] = df.Col(name).Records()
	}

	rows := df.Nrow()
	records := make([]domain.RawRecord, rows)
	for i := range rows {
		fields := make(map[string]string, len(names)-2)
		for _, name := range names {
			if name == dateColumn || name == tempColumn {
				continue
			}
			fields[name] = columns[name][i]
		}
		records[i] = domain.RawRecord{
			Row:    i,
			Date:   columns[dateColumn][i],
			Temp:   columns[tempColumn][i],
			Fields: fields,
		}
	}
	return records, nil
}
