package workbook_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/TsubasaBE/go-xlsx2csv/workbook"
)

const nsMain = `xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"`

// buildPackage assembles an in-memory .xlsx package from part name/content
// pairs and opens it.
func buildPackage(t *testing.T, parts map[string]string) *workbook.Workbook {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range parts {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(data)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	wb, err := workbook.OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	return wb
}

func emptySheet() string {
	return `<worksheet ` + nsMain + `><sheetData/></worksheet>`
}

func TestOpenReaderNotAZip(t *testing.T) {
	data := []byte("this is not a zip archive")
	if _, err := workbook.OpenReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestWorksheetsSortedLexicographically(t *testing.T) {
	wb := buildPackage(t, map[string]string{
		"xl/worksheets/sheet2.xml":  emptySheet(),
		"xl/worksheets/sheet10.xml": emptySheet(),
		"xl/worksheets/sheet1.xml":  emptySheet(),
	})
	defer wb.Close()

	parts := wb.Worksheets()
	if len(parts) != 3 {
		t.Fatalf("len = %d, want 3", len(parts))
	}
	// Plain string ordering: "sheet10" sorts before "sheet2".
	wantOrder := []string{"sheet1", "sheet10", "sheet2"}
	for i, want := range wantOrder {
		if parts[i].Label != want {
			t.Errorf("parts[%d].Label = %q, want %q", i, parts[i].Label, want)
		}
	}
}

func TestWorksheetsFiltering(t *testing.T) {
	wb := buildPackage(t, map[string]string{
		"xl/worksheets/sheet1.xml":       emptySheet(),
		"xl/worksheets/_rels/sheet1.xml.rels": `<Relationships/>`,
		"xl/sharedStrings.xml":           `<sst ` + nsMain + `/>`,
		"xl/styles.xml":                  `<styleSheet ` + nsMain + `/>`,
		"docProps/app.xml":               `<Properties/>`,
	})
	defer wb.Close()

	parts := wb.Worksheets()
	if len(parts) != 1 || parts[0].Path != "xl/worksheets/sheet1.xml" {
		t.Fatalf("Worksheets() = %v, want only sheet1", parts)
	}
}

func TestWorksheetsNoOrdinal(t *testing.T) {
	wb := buildPackage(t, map[string]string{
		"xl/worksheets/sheetdata.xml": emptySheet(),
	})
	defer wb.Close()

	parts := wb.Worksheets()
	if len(parts) != 1 {
		t.Fatalf("len = %d, want 1", len(parts))
	}
	if parts[0].Label != "sheet" {
		t.Errorf("Label = %q, want %q", parts[0].Label, "sheet")
	}
}

func TestSharedStringsLoaded(t *testing.T) {
	wb := buildPackage(t, map[string]string{
		"xl/sharedStrings.xml": `<sst ` + nsMain + `><si><t>hello</t></si></sst>`,
	})
	defer wb.Close()

	if wb.NoSharedStrings {
		t.Error("NoSharedStrings = true, want false")
	}
	if got := wb.StringTable().Len(); got != 1 {
		t.Fatalf("StringTable().Len() = %d, want 1", got)
	}
	if got := wb.StringTable().Get(0); got != "hello" {
		t.Errorf("Get(0) = %q, want %q", got, "hello")
	}
}

func TestMissingSharedStringsDegradesToEmpty(t *testing.T) {
	wb := buildPackage(t, map[string]string{
		"xl/worksheets/sheet1.xml": emptySheet(),
	})
	defer wb.Close()

	if !wb.NoSharedStrings {
		t.Error("NoSharedStrings = false, want true")
	}
	if wb.StringTable() == nil || wb.StringTable().Len() != 0 {
		t.Errorf("StringTable() = %v, want empty table", wb.StringTable())
	}
}

func TestReadPartNotFound(t *testing.T) {
	wb := buildPackage(t, map[string]string{
		"xl/worksheets/sheet1.xml": emptySheet(),
	})
	defer wb.Close()

	if _, err := wb.ReadPart("xl/nope.xml"); !errors.Is(err, workbook.ErrPartNotFound) {
		t.Errorf("ReadPart error = %v, want ErrPartNotFound", err)
	}
}

func TestSheetNames(t *testing.T) {
	wb := buildPackage(t, map[string]string{
		"xl/workbook.xml": `<workbook ` + nsMain + ` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<sheets>` +
			`<sheet name="Data" sheetId="1" r:id="rId1"/>` +
			`<sheet name="Notes" sheetId="2" r:id="rId2"/>` +
			`</sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>` +
			`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="/xl/worksheets/sheet2.xml"/>` +
			`</Relationships>`,
		"xl/worksheets/sheet1.xml": emptySheet(),
		"xl/worksheets/sheet2.xml": emptySheet(),
	})
	defer wb.Close()

	names := wb.SheetNames()
	if got := names["xl/worksheets/sheet1.xml"]; got != "Data" {
		t.Errorf("sheet1 name = %q, want %q", got, "Data")
	}
	if got := names["xl/worksheets/sheet2.xml"]; got != "Notes" {
		t.Errorf("sheet2 name = %q, want %q", got, "Notes")
	}
}

func TestSheetNamesMissingWorkbookPart(t *testing.T) {
	wb := buildPackage(t, map[string]string{
		"xl/worksheets/sheet1.xml": emptySheet(),
	})
	defer wb.Close()

	if names := wb.SheetNames(); len(names) != 0 {
		t.Errorf("SheetNames() = %v, want empty", names)
	}
}

func TestDate1904(t *testing.T) {
	wb := buildPackage(t, map[string]string{
		"xl/workbook.xml": `<workbook ` + nsMain + `><workbookPr date1904="1"/><sheets/></workbook>`,
	})
	defer wb.Close()

	if !wb.Date1904 {
		t.Error("Date1904 = false, want true")
	}
}

func TestFormatCell(t *testing.T) {
	wb := buildPackage(t, map[string]string{
		"xl/styles.xml": `<styleSheet ` + nsMain + `>` +
			`<cellXfs count="2">` +
			`<xf numFmtId="0"/>` +
			`<xf numFmtId="14" applyNumberFormat="1"/>` +
			`</cellXfs></styleSheet>`,
	})
	defer wb.Close()

	tests := []struct {
		name  string
		raw   string
		typ   string
		style int
		want  string
	}{
		{name: "date style renders ISO date", raw: "44928", typ: "", style: 1, want: "2023-01-02"},
		{name: "general style keeps raw", raw: "44928", typ: "", style: 0, want: "44928"},
		{name: "out of range style keeps raw", raw: "44928", typ: "n", style: 42, want: "44928"},
		{name: "bool true", raw: "1", typ: "b", style: 0, want: "TRUE"},
		{name: "bool false", raw: "0", typ: "b", style: 0, want: "FALSE"},
		{name: "error type passes through", raw: "#DIV/0!", typ: "e", style: 0, want: "#DIV/0!"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := wb.FormatCell(tc.raw, tc.typ, tc.style); got != tc.want {
				t.Errorf("FormatCell(%q, %q, %d) = %q, want %q", tc.raw, tc.typ, tc.style, got, tc.want)
			}
		})
	}
}
