// Package stringtable parses the xl/sharedStrings.xml part of an .xlsx
// package and provides indexed access to the shared string values.
package stringtable

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Namespace is the spreadsheetml main namespace.  String items outside it
// are not recognised.
const Namespace = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"

// StringTable holds the shared strings parsed from xl/sharedStrings.xml.
type StringTable struct {
	strings []string
}

// New reads all string items from r and returns a populated StringTable.
//
// Each <si> element contributes the text of its first <t> descendant; this
// covers both plain items (<si><t>…</t></si>) and rich-text items
// (<si><r><t>…</t></r>…</si>), whose later runs are deliberately ignored.
// An <si> with no <t> descendant contributes an empty string so that shared
// string indices stay aligned.
func New(r io.Reader) (*StringTable, error) {
	st := &StringTable{}
	dec := xml.NewDecoder(r)

	depth := 0        // nesting depth inside the current <si>
	captured := false // first <t> of the current <si> already taken
	capturing := false
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("stringtable: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != Namespace {
				continue
			}
			switch {
			case el.Name.Local == "si" && depth == 0:
				depth = 1
				captured = false
			case depth > 0:
				depth++
				if el.Name.Local == "t" && !captured {
					capturing = true
					text.Reset()
				}
			}

		case xml.CharData:
			if capturing {
				text.Write(el)
			}

		case xml.EndElement:
			if el.Name.Space != Namespace || depth == 0 {
				continue
			}
			depth--
			if capturing && el.Name.Local == "t" {
				capturing = false
				captured = true
			}
			if depth == 0 {
				st.strings = append(st.strings, text.String())
				text.Reset()
			}
		}
	}
	return st, nil
}

// NewFromBytes is a convenience wrapper that builds a StringTable from an
// in-memory byte slice (useful in tests).
func NewFromBytes(b []byte) (*StringTable, error) {
	return New(bytes.NewReader(b))
}

// Empty returns a StringTable with no entries, used when the package has no
// shared-strings part.
func Empty() *StringTable {
	return &StringTable{}
}

// Get returns the shared string at index idx.  It panics if idx is out of
// range, matching the behaviour of a slice index.
func (st *StringTable) Get(idx int) string {
	return st.strings[idx]
}

// Len returns the total number of shared strings loaded.
func (st *StringTable) Len() int {
	return len(st.strings)
}

// Resolve interprets raw as a shared-string index and returns the referenced
// string.  When raw does not parse as an integer, or the index is out of the
// table's bounds, the raw text itself is returned unchanged so that a
// damaged reference degrades to a visible value instead of failing the
// whole decode.
func (st *StringTable) Resolve(raw string) string {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || idx < 0 || idx >= len(st.strings) {
		return raw
	}
	return st.strings[idx]
}
