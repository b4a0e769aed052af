// Command validate checks a sea-surface-temperature source table before it is
// charted. It loads the file, runs date normalization, the outage filter and
// value cleaning, and reports PASS or FAIL per check: required columns, share
// of invalid dates, row date order, outage removal and interior gaps.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -input Data/1905-2019sst.csv \
//	  -max-invalid-share 0.01
//
// Flags default to the INPUT_PATH, DATE_COLUMN and TEMP_COLUMN environment
// settings used by the pipeline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/couchcryptid/sst-trends/internal/adapter/csvfile"
	"github.com/couchcryptid/sst-trends/internal/config"
	"github.com/couchcryptid/sst-trends/internal/domain"
)

// maxDetails caps the error lines printed per phase.
const maxDetails = 10

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type options struct {
	input           string
	dateColumn      string
	tempColumn      string
	maxInvalidShare float64
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}

	var opts options
	flag.StringVar(&opts.input, "input", cfg.InputPath, "path to the source CSV")
	flag.StringVar(&opts.dateColumn, "date-column", cfg.DateColumn, "name of the collection date column")
	flag.StringVar(&opts.tempColumn, "temp-column", cfg.TempColumn, "name of the temperature column")
	flag.Float64Var(&opts.maxInvalidShare, "max-invalid-share", 0.01, "largest tolerated share of unparsable dates")
	flag.Parse()

	if code := run(os.Stdout, opts); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, opts options) int {
	fmt.Fprintln(w, "=== Sea Surface Temperature Data Validation ===")
	fmt.Fprintln(w)

	f, err := os.Open(opts.input)
	if err != nil {
		fmt.Fprintf(w, "FATAL: open source table: %v\n", err)
		return 1
	}
	defer f.Close()

	columns := &phase{name: "Phase 1: Required Columns"}
	records, err := csvfile.ReadRecords(f, opts.dateColumn, opts.tempColumn)
	switch {
	case errors.Is(err, csvfile.ErrMissingColumn):
		columns.errorf("%v", err)
		return report(w, []*phase{columns}, 0)
	case err != nil:
		fmt.Fprintf(w, "FATAL: read %s: %v\n", opts.input, err)
		return 1
	}
	columns.notef("date column %q, temperature column %q", opts.dateColumn, opts.tempColumn)

	obs, invalid := domain.NormalizeDates(records)
	phases := []*phase{
		columns,
		validateInvalidDates(len(obs), invalid, opts.maxInvalidShare),
		validateDateOrder(obs),
	}

	filtered, removed := domain.FilterRange(obs, domain.Outage)
	phases = append(phases, validateOutage(filtered, removed))

	stats := domain.CleanValues(filtered)
	phases = append(phases, validateGaps(filtered, stats))

	return report(w, phases, len(records))
}

func report(w io.Writer, phases []*phase, rows int) int {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
		for _, n := range p.notes {
			fmt.Fprintf(w, "      %s\n", n)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d source rows\n", rows)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxDetails {
				fmt.Fprintf(w, "  ... %d more\n", len(p.errors)-maxDetails)
				break
			}
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

func validateInvalidDates(rows, invalid int, maxShare float64) *phase {
	p := &phase{name: "Phase 2: Date Parsing"}
	if rows == 0 {
		p.errorf("source table has no data rows")
		return p
	}
	share := float64(invalid) / float64(rows)
	p.notef("%d of %d dates unparsable (%.2f%%)", invalid, rows, share*100)
	if share > maxShare {
		p.errorf("invalid date share %.4f exceeds %.4f", share, maxShare)
	}
	return p
}

// validateDateOrder reports dated rows that precede an earlier dated row.
// Interpolation runs in row order, so out-of-order rows blend unrelated readings.
func validateDateOrder(obs []domain.Observation) *phase {
	p := &phase{name: "Phase 3: Row Date Order"}
	var last time.Time
	lastRow := -1
	for _, o := range obs {
		if !o.DateValid {
			continue
		}
		if lastRow >= 0 && o.Date.Before(last) {
			p.errorf("row %d (%s) precedes row %d (%s)",
				o.Row, o.Date.Format(time.DateOnly), lastRow, last.Format(time.DateOnly))
		}
		last, lastRow = o.Date, o.Row
	}
	return p
}

func validateOutage(filtered []domain.Observation, removed int) *phase {
	p := &phase{name: "Phase 4: Instrument Outage"}
	p.notef("%d rows removed between %s and %s", removed,
		domain.Outage.Start.Format(time.DateOnly), domain.Outage.End.Format(time.DateOnly))
	for _, o := range filtered {
		if o.DateValid && domain.Outage.Contains(o.Date) {
			p.errorf("row %d (%s) lies inside the outage", o.Row, o.Date.Format(time.DateOnly))
		}
	}
	return p
}

// validateGaps checks that only leading and trailing temperatures stayed missing.
func validateGaps(obs []domain.Observation, stats domain.CleanStats) *phase {
	p := &phase{name: "Phase 5: Temperature Gaps"}
	p.notef("%d unparsable, %d interpolated, %d unfilled at the boundaries",
		stats.Unparsable, stats.Interpolated, stats.Unfilled)

	first, last := -1, -1
	for i, o := range obs {
		if o.HasTemp() {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		p.errorf("no usable temperature values")
		return p
	}
	for i := first; i <= last; i++ {
		if !obs[i].HasTemp() {
			p.errorf("row %d left missing between present values", obs[i].Row)
		}
	}
	return p
}
