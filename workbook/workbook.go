// Package workbook opens an .xlsx package (a ZIP archive) and exposes its
// worksheet parts, shared strings, and number-format metadata.
package workbook

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/TsubasaBE/go-xlsx2csv/internal/rels"
	"github.com/TsubasaBE/go-xlsx2csv/numfmt"
	"github.com/TsubasaBE/go-xlsx2csv/stringtable"
	"github.com/TsubasaBE/go-xlsx2csv/styles"
)

// Well-known part paths inside the package.
const (
	sharedStringsPart = "xl/sharedStrings.xml"
	stylesPart        = "xl/styles.xml"
	workbookPart      = "xl/workbook.xml"
	workbookRelsPart  = "xl/_rels/workbook.xml.rels"
	worksheetPrefix   = "xl/worksheets/sheet"
	worksheetSuffix   = ".xml"
)

// ErrPartNotFound is returned (wrapped) by ReadPart for missing members.
var ErrPartNotFound = errors.New("part not found in archive")

// sheetOrdinal extracts the numeric suffix from a worksheet part filename.
var sheetOrdinal = regexp.MustCompile(`sheet(\d+)`)

// Part identifies one worksheet part inside the package.
type Part struct {
	// Path is the full zip member name, e.g. "xl/worksheets/sheet1.xml".
	Path string
	// Label is the ordinal-bearing name used for output naming, e.g.
	// "sheet1".  Parts without a numeric suffix get the bare "sheet".
	Label string
}

// Workbook represents an open .xlsx package.
type Workbook struct {
	zr *zip.ReadCloser // non-nil when opened by file name
	zf *zip.Reader     // always non-nil

	strings *stringtable.StringTable

	// Styles is the cell-format table parsed from xl/styles.xml, or nil
	// when the part is absent or malformed.  With a nil table FormatCell
	// renders every numeric cell as General.
	Styles styles.StyleTable

	// Date1904 is true when the workbook uses the 1904 date system.
	Date1904 bool

	// NoSharedStrings is true when the package has no shared-strings part.
	// The table degrades to empty; callers may want to surface a warning.
	NoSharedStrings bool
}

// Open opens the named .xlsx package.  The caller must call Close on the
// returned Workbook when done.
func Open(name string) (*Workbook, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("workbook: open %q: %w", name, err)
	}
	wb := &Workbook{zr: rc, zf: &rc.Reader}
	wb.parse()
	return wb, nil
}

// OpenReader reads an .xlsx package from an arbitrary [io.ReaderAt].
// size must equal the total byte length of the data.
func OpenReader(r io.ReaderAt, size int64) (*Workbook, error) {
	zf, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("workbook: open reader: %w", err)
	}
	wb := &Workbook{zf: zf}
	wb.parse()
	return wb, nil
}

// Close releases the underlying file handle.  It is a no-op for workbooks
// opened via OpenReader.
func (wb *Workbook) Close() error {
	if wb.zr != nil {
		return wb.zr.Close()
	}
	return nil
}

// StringTable returns the shared-string table.  It is never nil; packages
// without the part get an empty table.
func (wb *Workbook) StringTable() *stringtable.StringTable {
	return wb.strings
}

// Worksheets returns the worksheet parts of the package, sorted
// lexicographically by part path.  Note that plain string ordering puts
// "sheet10" before "sheet2"; this matches the observed converter behaviour
// and is kept deliberately.
func (wb *Workbook) Worksheets() []Part {
	var parts []Part
	for _, f := range wb.zf.File {
		if !strings.HasPrefix(f.Name, worksheetPrefix) || !strings.HasSuffix(f.Name, worksheetSuffix) {
			continue
		}
		label := "sheet"
		if m := sheetOrdinal.FindStringSubmatch(f.Name); m != nil {
			label = "sheet" + m[1]
		}
		parts = append(parts, Part{Path: f.Name, Label: label})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Path < parts[j].Path })
	return parts
}

// ReadPart reads the full contents of a named member from the archive.
func (wb *Workbook) ReadPart(name string) ([]byte, error) {
	for _, f := range wb.zf.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("workbook: open part %q: %w", name, err)
		}
		data, readErr := io.ReadAll(rc)
		closeErr := rc.Close()
		if readErr != nil {
			return nil, fmt.Errorf("workbook: read part %q: %w", name, readErr)
		}
		// Propagate decompressor checksum errors even when the read
		// appeared to succeed (e.g. truncated deflate stream).
		if closeErr != nil {
			return nil, fmt.Errorf("workbook: read part %q: %w", name, closeErr)
		}
		return data, nil
	}
	return nil, fmt.Errorf("workbook: %q: %w", name, ErrPartNotFound)
}

// SheetNames maps worksheet part paths to the display names on their sheet
// tabs, resolved through xl/workbook.xml and its relationships part.  The
// mapping is informational (log output); conversion never depends on it, so
// a missing or malformed workbook part yields an empty map, not an error.
func (wb *Workbook) SheetNames() map[string]string {
	relData, err := wb.ReadPart(workbookRelsPart)
	if err != nil {
		return map[string]string{}
	}
	relMap, err := rels.Parse(relData)
	if err != nil {
		return map[string]string{}
	}

	data, err := wb.ReadPart(workbookPart)
	if err != nil {
		return map[string]string{}
	}
	var doc xmlWorkbook
	if err := xml.Unmarshal(data, &doc); err != nil {
		return map[string]string{}
	}

	names := make(map[string]string, len(doc.Sheets.Sheet))
	for _, s := range doc.Sheets.Sheet {
		rel, ok := relMap[s.RID]
		if !ok {
			continue
		}
		names[resolveTarget(rel.Target)] = s.Name
	}
	return names
}

// FormatCell renders the raw text of a cell for formatted-output mode.
// typ is the cell's type attribute ("" and "n" are numeric, "b" boolean);
// style is the 0-based cell-format index from the s attribute.  Types whose
// values are already text come back unchanged.
func (wb *Workbook) FormatCell(raw, typ string, style int) string {
	switch typ {
	case "", "n":
		id, formatStr := wb.Styles.NumFmt(style)
		return numfmt.FormatValue(raw, id, formatStr, wb.Date1904)
	case "b":
		switch strings.TrimSpace(raw) {
		case "0":
			return "FALSE"
		case "1":
			return "TRUE"
		}
		return raw
	default:
		return raw
	}
}

// ── internal ─────────────────────────────────────────────────────────────────

// parse loads the optional metadata parts.  None of them may fail the open:
// shared strings degrade to an empty table, styles to nil, the date system
// to the 1900 default.
func (wb *Workbook) parse() {
	wb.parseSharedStrings()
	wb.parseStyles()
	wb.parseDateSystem()
}

func (wb *Workbook) parseSharedStrings() {
	data, err := wb.ReadPart(sharedStringsPart)
	if err != nil {
		wb.strings = stringtable.Empty()
		wb.NoSharedStrings = true
		return
	}
	st, err := stringtable.New(bytes.NewReader(data))
	if err != nil {
		// Malformed part: behave as if it were absent.
		wb.strings = stringtable.Empty()
		wb.NoSharedStrings = true
		return
	}
	wb.strings = st
}

func (wb *Workbook) parseStyles() {
	data, err := wb.ReadPart(stylesPart)
	if err != nil {
		return // optional
	}
	st, err := styles.Parse(data)
	if err != nil {
		return // degrade gracefully
	}
	wb.Styles = st
}

func (wb *Workbook) parseDateSystem() {
	data, err := wb.ReadPart(workbookPart)
	if err != nil {
		return
	}
	var doc xmlWorkbook
	if err := xml.Unmarshal(data, &doc); err != nil {
		return
	}
	if doc.WorkbookPr != nil {
		wb.Date1904 = doc.WorkbookPr.Date1904
	}
}

// resolveTarget normalizes a relationship target to a zip member path.
// Absolute targets (starting with "/") are used as-is after stripping the
// leading slash; relative targets are resolved against "xl/".
func resolveTarget(target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return "xl/" + target
}

// ── xl/workbook.xml parsing ───────────────────────────────────────────────────

type xmlWorkbook struct {
	XMLName    xml.Name       `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main workbook"`
	WorkbookPr *xmlWorkbookPr `xml:"workbookPr"`
	Sheets     xmlSheets      `xml:"sheets"`
}

type xmlWorkbookPr struct {
	Date1904 bool `xml:"date1904,attr"`
}

type xmlSheets struct {
	Sheet []xmlSheet `xml:"sheet"`
}

type xmlSheet struct {
	Name    string `xml:"name,attr"`
	SheetID string `xml:"sheetId,attr"`
	RID     string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}
