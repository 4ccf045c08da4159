// Package convert drives the xlsx-to-csv conversion: it opens each input
// package, decodes its worksheet parts, and writes one CSV file per
// worksheet that holds data.
//
// Failures are contained at the smallest meaningful granularity.  A bad
// cell never fails its worksheet, a bad worksheet never fails its file, and
// a bad file never stops the batch.
package convert

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/TsubasaBE/go-xlsx2csv/grid"
	"github.com/TsubasaBE/go-xlsx2csv/workbook"
	"github.com/TsubasaBE/go-xlsx2csv/worksheet"
)

// Options configures a Converter.
type Options struct {
	// OutputDir overrides the output directory for all inputs.  When empty,
	// each input's CSV files land next to the input file.
	OutputDir string
	// Formatted renders numeric cells through their number format (dates
	// become ISO date strings) instead of emitting the raw stored text.
	Formatted bool
}

// Converter converts .xlsx packages to CSV files.
type Converter struct {
	opts Options
}

// New returns a Converter with the given options.
func New(opts Options) *Converter {
	return &Converter{opts: opts}
}

// Outcome reports the result of converting one input file.
type Outcome struct {
	// Input is the path of the input package.
	Input string
	// Written is the number of CSV files produced.
	Written int
	// Skipped is the number of worksheet parts that produced no output,
	// whether because they held no data or because they failed to decode.
	Skipped int
	// SheetErrors holds the per-worksheet failures, if any.  They do not
	// make the file failed.
	SheetErrors []error
	// Err is non-nil when the file as a whole failed (unopenable package,
	// unwritable output directory).
	Err error
}

// Failed reports whether the file as a whole failed.
func (o Outcome) Failed() bool { return o.Err != nil }

// Summary aggregates a batch run.
type Summary struct {
	Succeeded int
	Failed    int
	Outcomes  []Outcome
}

// Total returns the number of input files attempted.
func (s Summary) Total() int { return len(s.Outcomes) }

// Batch converts every input path in order and returns the aggregated
// summary.  The batch always runs to completion: a failed file is counted
// and the remaining files are still attempted.
func (c *Converter) Batch(paths []string) Summary {
	var sum Summary
	for _, path := range paths {
		log.Info().Str("file", path).Msg("processing input")
		out := c.File(path)
		if out.Failed() {
			log.Error().Str("file", path).Err(out.Err).Msg("conversion failed")
			sum.Failed++
		} else {
			log.Info().Str("file", path).Int("written", out.Written).Msg("converted")
			sum.Succeeded++
		}
		sum.Outcomes = append(sum.Outcomes, out)
	}
	log.Info().
		Int("succeeded", sum.Succeeded).
		Int("failed", sum.Failed).
		Int("total", sum.Total()).
		Msg("conversion summary")
	return sum
}

// File converts a single input package.
func (c *Converter) File(path string) Outcome {
	out := Outcome{Input: path}

	outDir := c.opts.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		out.Err = fmt.Errorf("convert: create output dir: %w", err)
		return out
	}

	wb, err := workbook.Open(path)
	if err != nil {
		out.Err = fmt.Errorf("convert: %w", err)
		return out
	}
	defer wb.Close()

	if wb.NoSharedStrings {
		log.Warn().Str("file", path).Msg("no shared strings part; file may not have text data")
	}

	parts := wb.Worksheets()
	if len(parts) == 0 {
		log.Warn().Str("file", path).Msg("no worksheet parts found")
		return out
	}
	log.Info().Str("file", path).Int("worksheets", len(parts)).Msg("found worksheets")

	var format worksheet.FormatFunc
	if c.opts.Formatted {
		format = wb.FormatCell
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	names := wb.SheetNames()

	for _, part := range parts {
		ev := log.Info().Str("part", part.Path)
		if name := names[part.Path]; name != "" {
			ev = ev.Str("sheet", name)
		}
		ev.Msg("processing worksheet")

		g, err := c.decodePart(wb, part, format)
		if err != nil {
			log.Error().Str("part", part.Path).Err(err).Msg("worksheet skipped")
			out.SheetErrors = append(out.SheetErrors, fmt.Errorf("%s: %w", part.Path, err))
			out.Skipped++
			continue
		}
		if g.Len() == 0 {
			log.Info().Str("part", part.Path).Msg("no data found")
			out.Skipped++
			continue
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("%s_%s.csv", base, part.Label))
		if err := writeCSVFile(outPath, g); err != nil {
			log.Error().Str("part", part.Path).Err(err).Msg("worksheet skipped")
			out.SheetErrors = append(out.SheetErrors, fmt.Errorf("%s: %w", part.Path, err))
			out.Skipped++
			continue
		}
		log.Info().
			Str("part", part.Path).
			Int("cells", g.Len()).
			Int("rows", g.MaxRow()+1).
			Int("cols", g.MaxCol()+1).
			Str("output", outPath).
			Msg("worksheet saved")
		out.Written++
	}
	return out
}

// decodePart reads and decodes one worksheet part.
func (c *Converter) decodePart(wb *workbook.Workbook, part workbook.Part, format worksheet.FormatFunc) (*grid.Grid, error) {
	data, err := wb.ReadPart(part.Path)
	if err != nil {
		return nil, err
	}
	return worksheet.Decode(bytes.NewReader(data), wb.StringTable(), format)
}

// writeCSVFile serializes the grid to path.  A worksheet either fully
// serializes or produces no file: on a write error the partial output is
// removed.
func writeCSVFile(path string, g *grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("convert: create %q: %w", path, err)
	}
	if err := g.WriteCSV(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("convert: write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("convert: close %q: %w", path, err)
	}
	return nil
}
