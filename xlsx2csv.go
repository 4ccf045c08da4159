// Package xlsx2csv converts .xlsx spreadsheet packages to CSV files, one per
// worksheet that holds data.
//
// The converter is built for hostile inputs: output bounds are computed from
// the cells that actually carry non-blank values, never from the sheet's
// declared dimension, so a package claiming millions of empty rows still
// produces a compact CSV.
//
// # Quick start
//
//	sum := xlsx2csv.ConvertAll([]string{"report.xlsx"}, convert.Options{})
//	fmt.Printf("%d converted, %d failed\n", sum.Succeeded, sum.Failed)
//
// For lower-level access open the package directly:
//
//	wb, err := xlsx2csv.Open("report.xlsx")
//	if err != nil { ... }
//	defer wb.Close()
//
//	for _, part := range wb.Worksheets() {
//	    fmt.Println(part.Path, part.Label)
//	}
//
// # Formatted mode
//
// By default numeric cells emit their raw stored text, which for date cells
// is the Excel serial number.  Set [convert.Options].Formatted to render
// numeric cells through their number format instead: date and datetime
// formats become ISO-style strings, honouring the workbook's 1900/1904 date
// system (including the inherited Lotus 1-2-3 leap-year quirk).
package xlsx2csv

import (
	"github.com/TsubasaBE/go-xlsx2csv/convert"
	"github.com/TsubasaBE/go-xlsx2csv/workbook"
)

// Version is the current version of the go-xlsx2csv library.
const Version = "1.0.0"

// Open opens the named .xlsx package.  The caller must call Close on the
// returned Workbook when done.
func Open(name string) (*workbook.Workbook, error) {
	return workbook.Open(name)
}

// ConvertFile converts one input package and returns its outcome.
func ConvertFile(path string, opts convert.Options) convert.Outcome {
	return convert.New(opts).File(path)
}

// ConvertAll converts every input path in order, never stopping at a failed
// file, and returns the aggregated summary.
func ConvertAll(paths []string, opts convert.Options) convert.Summary {
	return convert.New(opts).Batch(paths)
}
