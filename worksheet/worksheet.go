// Package worksheet streams a single .xlsx worksheet part into a sparse grid
// of non-blank cell values.
//
// The decoder never consults the sheet's declared <dimension>: output bounds
// come exclusively from the cells that actually carry data.  A sheet that
// claims a million rows but holds values only in the first ten produces a
// ten-row grid.
package worksheet

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TsubasaBE/go-xlsx2csv/cellref"
	"github.com/TsubasaBE/go-xlsx2csv/grid"
	"github.com/TsubasaBE/go-xlsx2csv/stringtable"
)

// Namespace is the spreadsheetml main namespace.  Elements outside it are
// invisible to the decoder: a worksheet in the wrong namespace yields no
// cells rather than an error.
const Namespace = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"

// Cell type attribute values with decoder-level handling; all other types
// (numbers, booleans, formula strings, errors) carry their value in <v>.
const (
	typeSharedString = "s"
	typeInlineString = "inlineStr"
)

// FormatFunc renders the raw text of a cell given its type attribute and
// 0-based style index.  It is applied to numeric and boolean cells only;
// shared and inline strings bypass it.  A nil FormatFunc leaves raw values
// untouched.
type FormatFunc func(raw, typ string, style int) string

// Decode streams the worksheet markup from r into a fresh grid.
//
// For every cell element carrying an r attribute:
//   - the reference is decoded via cellref; undecodable references are
//     silently skipped,
//   - the raw value is the text of the first <v> child, or for inline-string
//     cells the text of the first <t> descendant, or "" when neither exists,
//   - shared-string cells resolve through st with its raw-text fallback,
//   - format, when non-nil, renders numeric and boolean raw values,
//   - the result is trimmed; blank cells are discarded, everything else is
//     inserted and extends the grid's bounds.
//
// st must be non-nil; use stringtable.Empty() for packages without a
// shared-strings part.  The returned error reports malformed markup only —
// value-level problems degrade per cell.
func Decode(r io.Reader, st *stringtable.StringTable, format FormatFunc) (*grid.Grid, error) {
	g := grid.New()
	dec := xml.NewDecoder(r)

	var (
		inCell    bool
		cellDepth int
		ref       string
		typ       string
		style     int

		valSeen, valCapturing bool
		val                   strings.Builder
		insSeen, insCapturing bool
		ins                   strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("worksheet: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != Namespace {
				continue
			}
			if !inCell {
				if el.Name.Local != "c" {
					continue
				}
				inCell = true
				cellDepth = 1
				ref, typ = "", ""
				style = -1
				valSeen, valCapturing = false, false
				insSeen, insCapturing = false, false
				val.Reset()
				ins.Reset()
				for _, attr := range el.Attr {
					switch attr.Name.Local {
					case "r":
						ref = attr.Value
					case "t":
						typ = attr.Value
					case "s":
						if n, err := strconv.Atoi(attr.Value); err == nil {
							style = n
						}
					}
				}
				continue
			}
			cellDepth++
			switch el.Name.Local {
			case "v":
				if !valSeen {
					valSeen = true
					valCapturing = true
				}
			case "t":
				// First <t> under the cell: the inline-string text.
				if !insSeen {
					insSeen = true
					insCapturing = true
				}
			}

		case xml.CharData:
			if valCapturing {
				val.Write(el)
			} else if insCapturing {
				ins.Write(el)
			}

		case xml.EndElement:
			if !inCell || el.Name.Space != Namespace {
				continue
			}
			switch el.Name.Local {
			case "v":
				valCapturing = false
			case "t":
				insCapturing = false
			}
			cellDepth--
			if cellDepth == 0 {
				inCell = false
				decodeCell(g, st, format, ref, typ, style, val.String(), ins.String(), valSeen, insSeen)
			}
		}
	}
	return g, nil
}

// decodeCell applies the per-cell value policy and inserts the result into
// the grid.  Cells without an address attribute contribute nothing.
func decodeCell(g *grid.Grid, st *stringtable.StringTable, format FormatFunc, ref, typ string, style int, raw, inline string, hasVal, hasInline bool) {
	if ref == "" {
		return
	}
	row, col, err := cellref.Decode(ref)
	if err != nil {
		return
	}

	var value string
	switch {
	case typ == typeSharedString:
		value = raw
		if hasVal {
			value = st.Resolve(raw)
		}
	case typ == typeInlineString:
		if hasInline {
			value = inline
		}
	default:
		value = raw
		if hasVal && raw != "" && format != nil {
			value = format(raw, typ, style)
		}
	}

	// Set trims and drops blanks, so oversized addresses of empty cells
	// never extend the bounds.
	g.Set(row, col, value)
}
