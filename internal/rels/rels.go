// Package rels parses OPC relationship parts (.rels) from an .xlsx package.
//
// Relationship parts link a part to the parts it references, keyed by
// relationship ID.  The workbook part uses them to bind sheet entries in
// xl/workbook.xml to their worksheet part paths.
package rels

import (
	"encoding/xml"
	"fmt"
)

// Relationship is one entry in a .rels document.
type Relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	Relationships []Relationship `xml:"Relationship"`
}

// Parse parses the raw bytes of a .rels part and returns a map of
// relationship ID to relationship.
func Parse(data []byte) (map[string]Relationship, error) {
	var r relationships
	if err := xml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("rels: %w", err)
	}
	m := make(map[string]Relationship, len(r.Relationships))
	for _, rel := range r.Relationships {
		m[rel.ID] = rel
	}
	return m, nil
}
