// Package cellref converts between A1-style cell references and zero-based
// (row, column) coordinates.
//
// Column letters are a bijective base-26 numeral: A=1 … Z=26, AA=27, and so
// on.  Row digits are 1-based in the reference and 0-based in the decoded
// coordinate.
package cellref

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRef is returned (wrapped) by Decode for references that do not
// match the letters-then-digits pattern.
var ErrInvalidRef = errors.New("invalid cell reference")

// Excel sheet maxima (0-based).  References beyond these are rejected so that
// a corrupt reference can never inflate the output bounding box to billions
// of rows.
const (
	MaxRowIndex = 0xFFFFF // 1,048,575
	MaxColIndex = 0x3FFF  // 16,383
)

// Decode converts an A1-style reference to zero-based (row, col) coordinates.
// Lower-case letters are accepted and treated as their upper-case
// equivalents.  The reference must be one or more letters followed by one or
// more digits with nothing else before, between, or after.
//
// References beyond MaxRowIndex/MaxColIndex are rejected on purpose, even
// though they match the pattern: no valid sheet can contain them, and
// accepting them would let one corrupt reference inflate the bounding box
// past anything allocatable.
func Decode(ref string) (row, col int, err error) {
	s := strings.ToUpper(ref)

	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(s) {
		return 0, 0, fmt.Errorf("cellref: %w: %q", ErrInvalidRef, ref)
	}

	colNum, err := ColumnNumber(s[:i])
	if err != nil {
		return 0, 0, err
	}

	rowNum := 0
	for j := i; j < len(s); j++ {
		c := s[j]
		if c < '0' || c > '9' {
			return 0, 0, fmt.Errorf("cellref: %w: %q", ErrInvalidRef, ref)
		}
		rowNum = rowNum*10 + int(c-'0')
		if rowNum > MaxRowIndex+1 {
			return 0, 0, fmt.Errorf("cellref: %w: row in %q exceeds sheet maximum", ErrInvalidRef, ref)
		}
	}
	if rowNum == 0 {
		// Row digits are 1-based; "A0" is not a valid reference.
		return 0, 0, fmt.Errorf("cellref: %w: %q", ErrInvalidRef, ref)
	}

	return rowNum - 1, colNum - 1, nil
}

// Encode converts zero-based (row, col) coordinates back to an A1-style
// reference with upper-case letters.  It is the inverse of Decode.
func Encode(row, col int) (string, error) {
	if row < 0 || row > MaxRowIndex {
		return "", fmt.Errorf("cellref: row %d out of range [0, %d]", row, MaxRowIndex)
	}
	if col < 0 || col > MaxColIndex {
		return "", fmt.Errorf("cellref: column %d out of range [0, %d]", col, MaxColIndex)
	}
	return fmt.Sprintf("%s%d", ColumnLetters(col+1), row+1), nil
}

// ColumnNumber converts a column letter run ("A", "Z", "AA", …) to its
// 1-based column number.  Letters must already be upper-case.
func ColumnNumber(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("cellref: %w: empty column letters", ErrInvalidRef)
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("cellref: %w: %q", ErrInvalidRef, letters)
		}
		n = n*26 + int(c-'A'+1)
		if n > MaxColIndex+1 {
			return 0, fmt.Errorf("cellref: %w: column %q exceeds sheet maximum", ErrInvalidRef, letters)
		}
	}
	return n, nil
}

// ColumnLetters converts a 1-based column number to its letter run.
// It is the inverse of ColumnNumber.  Zero and negative inputs yield "".
func ColumnLetters(n int) string {
	var b [4]byte // 3 letters suffice up to XFD; one spare
	i := len(b)
	for n > 0 {
		n--
		i--
		b[i] = byte(n%26) + 'A'
		n /= 26
	}
	return string(b[i:])
}
