// Package grid implements a sparse cell grid with a data-driven bounding box
// and its serialization to dense, row-ordered CSV output.
//
// The grid only ever stores non-blank trimmed values, and its bounds are
// derived purely from the cells that were actually retained.  Declared sheet
// dimensions never enter the picture, which is what keeps output sane for
// packages that claim millions of rows of empty cells.
package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Coord addresses one cell.  Both indices are 0-based.  Coord is a value
// type so map keys compare structurally.
type Coord struct {
	Row int
	Col int
}

// Grid is a sparse mapping of coordinates to non-blank cell values.
// The zero value is not usable; call New.
type Grid struct {
	cells  map[Coord]string
	maxRow int
	maxCol int
}

// New returns an empty grid.
func New() *Grid {
	return &Grid{cells: make(map[Coord]string)}
}

// Set stores the trimmed value at (row, col) and extends the bounding box.
// A value that is blank after trimming is discarded: it is never stored and
// never moves the bounds, however large its coordinates.
func (g *Grid) Set(row, col int, value string) {
	v := strings.TrimSpace(value)
	if v == "" {
		return
	}
	g.cells[Coord{Row: row, Col: col}] = v
	if row > g.maxRow {
		g.maxRow = row
	}
	if col > g.maxCol {
		g.maxCol = col
	}
}

// Get returns the value at (row, col), or "" for cells that were never set.
func (g *Grid) Get(row, col int) string {
	return g.cells[Coord{Row: row, Col: col}]
}

// Len returns the number of retained cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// MaxRow returns the largest row index among retained cells (0 for an empty
// grid).
func (g *Grid) MaxRow() int {
	return g.maxRow
}

// MaxCol returns the largest column index among retained cells (0 for an
// empty grid).
func (g *Grid) MaxCol() int {
	return g.maxCol
}

// Rows returns the dense row-ordered view of the grid: rows 0..MaxRow, each
// MaxCol+1 fields wide, with unset cells as empty strings.  Rows whose
// fields are all empty (gaps between populated rows) are dropped rather than
// emitted as blank records.  An empty grid yields nil.
func (g *Grid) Rows() [][]string {
	if len(g.cells) == 0 {
		return nil
	}
	var rows [][]string
	for r := 0; r <= g.maxRow; r++ {
		row := make([]string, g.maxCol+1)
		hasData := false
		for c := 0; c <= g.maxCol; c++ {
			if v, ok := g.cells[Coord{Row: r, Col: c}]; ok {
				row[c] = v
				hasData = true
			}
		}
		if hasData {
			rows = append(rows, row)
		}
	}
	return rows
}

// WriteCSV serializes the grid to w as UTF-8 CSV.  Fields containing the
// delimiter, a quote, or a line break are quoted with embedded quotes
// doubled, per encoding/csv.  No header row is synthesized.
func (g *Grid) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, row := range g.Rows() {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("grid: write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("grid: flush: %w", err)
	}
	return nil
}
