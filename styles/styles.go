// Package styles parses the number-format metadata from xl/styles.xml.
// It is a deliberately small, import-cycle-free package so that both
// workbook/ and the rendering engine can depend on it.
package styles

import (
	"encoding/xml"
	"fmt"
)

// XFStyle holds the resolved formatting information for one cell-format (XF)
// index as read from the cellXfs table in xl/styles.xml.
type XFStyle struct {
	// NumFmtID is the numFmtId of the cell format.  Values 0–163 are
	// built-in Excel formats; values >= 164 are custom formats defined by a
	// numFmt element in the same file.
	NumFmtID int
	// FormatStr is the raw formatCode of the corresponding numFmt element.
	// It is empty for built-in IDs that have no custom override.
	FormatStr string
}

// StyleTable maps XF index to XFStyle.  The slice index is the 0-based XF
// index as stored in cell s attributes.  A nil table is valid and means
// styles information is unavailable.
type StyleTable []XFStyle

// NumFmt returns the numFmtId and custom format string for style index s.
// An out-of-range index (including any index against a nil table) resolves
// to General so that rendering degrades to the raw value.
func (st StyleTable) NumFmt(s int) (id int, formatStr string) {
	if s < 0 || s >= len(st) {
		return 0, ""
	}
	return st[s].NumFmtID, st[s].FormatStr
}

// ── xl/styles.xml parsing ─────────────────────────────────────────────────────

type xmlStyleSheet struct {
	XMLName xml.Name   `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main styleSheet"`
	NumFmts xmlNumFmts `xml:"numFmts"`
	CellXfs xmlCellXfs `xml:"cellXfs"`
}

type xmlNumFmts struct {
	NumFmt []xmlNumFmt `xml:"numFmt"`
}

type xmlNumFmt struct {
	NumFmtID   int    `xml:"numFmtId,attr"`
	FormatCode string `xml:"formatCode,attr"`
}

type xmlCellXfs struct {
	Xf []xmlXf `xml:"xf"`
}

type xmlXf struct {
	NumFmtID int `xml:"numFmtId,attr"`
}

// Parse builds a StyleTable from the raw bytes of xl/styles.xml.
func Parse(data []byte) (StyleTable, error) {
	var sheet xmlStyleSheet
	if err := xml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("styles: %w", err)
	}

	// fmts maps numFmtId to format string for custom formats (id >= 164).
	fmts := make(map[int]string, len(sheet.NumFmts.NumFmt))
	for _, nf := range sheet.NumFmts.NumFmt {
		fmts[nf.NumFmtID] = nf.FormatCode
	}

	table := make(StyleTable, 0, len(sheet.CellXfs.Xf))
	for _, xf := range sheet.CellXfs.Xf {
		table = append(table, XFStyle{
			NumFmtID:  xf.NumFmtID,
			FormatStr: fmts[xf.NumFmtID], // empty string for built-in IDs
		})
	}
	return table, nil
}

// BuiltInNumFmt maps built-in numFmtId values to their canonical format
// strings as defined by ECMA-376 §18.8.30.  IDs 27–36 and 50–58 are
// locale-specific (CJK/Thai) in ECMA-376; the entries here are neutral
// Western fallbacks used when no numFmt element overrides the ID in the
// file.  This ensures date serials are always rendered as human-readable
// dates rather than raw numbers.
var BuiltInNumFmt = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	5:  `($#,##0_);($#,##0)`,
	6:  `($#,##0_);[Red]($#,##0)`,
	7:  `($#,##0.00_);($#,##0.00)`,
	8:  `($#,##0.00_);[Red]($#,##0.00)`,
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "hh:mm",
	21: "hh:mm:ss",
	22: "m/d/yy hh:mm",
	27: "MM-DD-YYYY",
	28: "D-MMM-YY",
	29: "D-MMM-YY",
	30: "M/D/YY",
	31: "YYYY-M-D",
	32: "H:MM",
	33: "H:MM:SS",
	34: "H:MM AM/PM",
	35: "H:MM:SS AM/PM",
	36: "MM-DD-YYYY",
	37: `(#,##0_);(#,##0)`,
	38: `(#,##0_);[Red](#,##0)`,
	39: `(#,##0.00_);(#,##0.00)`,
	40: `(#,##0.00_);[Red](#,##0.00)`,
	41: `_(* #,##0_);_(* (#,##0);_(* "-"_);_(@_)`,
	42: `_($* #,##0_);_($* (#,##0);_($* "-"_);_(@_)`,
	43: `_(* #,##0.00_);_(* (#,##0.00);_(* "-"??_);_(@_)`,
	44: `_($* #,##0.00_);_($* (#,##0.00);_($* "-"??_);_(@_)`,
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
	50: "MM-DD-YYYY",
	51: "D-MMM-YY",
	52: "H:MM AM/PM",
	53: "H:MM:SS AM/PM",
	54: "D-MMM-YY",
	55: "H:MM AM/PM",
	56: "H:MM:SS AM/PM",
	57: "MM-DD-YYYY",
	58: "D-MMM-YY",
}
