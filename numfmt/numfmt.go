// Package numfmt renders raw numeric cell text to a display value using the
// cell's number format.  It is the rendering engine behind formatted-output
// mode.
//
// Format-string parsing is delegated to [github.com/xuri/nfp].  Date and
// datetime formats are rendered as ISO-style strings; all other numeric
// formats render the machine value unchanged, which keeps CSV output
// parseable by downstream tools.
package numfmt

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/nfp"

	"github.com/TsubasaBE/go-xlsx2csv/styles"
)

// Output layouts for date/time rendering.
const (
	layoutDate     = "2006-01-02"
	layoutTime     = "15:04:05"
	layoutDateTime = "2006-01-02 15:04:05"
)

// FormatValue renders the raw text of a numeric cell using the given number
// format.
//
//   - numFmtID is the numFmtId of the cell's format (0 = General).
//   - formatStr is the custom format string; pass "" for built-in IDs that
//     have no custom override.
//   - date1904 selects the workbook's date system.
//
// Text that does not parse as a number is returned unchanged, as are values
// whose format carries no date or time tokens.
func FormatValue(raw string, numFmtID int, formatStr string, date1904 bool) string {
	val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}

	effective := resolveFormat(numFmtID, formatStr)
	if effective == "General" {
		return raw
	}

	ps := nfp.NumberFormatParser()
	sections := ps.Parse(effective)
	if len(sections) == 0 {
		return raw
	}
	sec := selectSection(sections, val)

	hasDate, hasTime := dateTokens(sec)
	if !hasDate && !hasTime {
		// Plain numeric format: keep the machine value.
		return raw
	}

	t, err := convertSerial(val, date1904)
	if err != nil {
		return raw
	}
	switch {
	case hasDate && hasTime:
		return t.Format(layoutDateTime)
	case hasTime:
		return t.Format(layoutTime)
	default:
		return t.Format(layoutDate)
	}
}

// IsDateFormat reports whether the given numFmtId and custom format string
// represent a date, datetime, or time format.
func IsDateFormat(numFmtID int, formatStr string) bool {
	effective := resolveFormat(numFmtID, formatStr)
	if effective == "General" {
		return false
	}
	ps := nfp.NumberFormatParser()
	for _, sec := range ps.Parse(effective) {
		if d, t := dateTokens(sec); d || t {
			return true
		}
	}
	return false
}

// resolveFormat returns the effective format string: the custom formatStr
// when non-empty, the built-in string for numFmtID when known, or "General".
func resolveFormat(numFmtID int, formatStr string) string {
	if formatStr != "" {
		return formatStr
	}
	if s, ok := styles.BuiltInNumFmt[numFmtID]; ok {
		return s
	}
	return "General"
}

// selectSection picks the format section that applies to val:
//
//	1 section  → applies to all values
//	2 sections → [0]=positive+zero  [1]=negative
//	3+         → [0]=positive  [1]=negative  [2]=zero
func selectSection(sections []nfp.Section, val float64) nfp.Section {
	switch {
	case len(sections) == 1:
		return sections[0]
	case len(sections) == 2:
		if val < 0 {
			return sections[1]
		}
		return sections[0]
	default:
		switch {
		case val > 0:
			return sections[0]
		case val < 0:
			return sections[1]
		default:
			return sections[2]
		}
	}
}

// dateTokens scans one parsed section and reports whether it contains
// calendar-date tokens and/or time tokens.
//
// M/MM is ambiguous between month and minute; per the format-language
// convention it means minutes when it follows an hour token, otherwise
// months.  Elapsed tokens ([h], [mm], …) count as time.
func dateTokens(sec nfp.Section) (hasDate, hasTime bool) {
	lastWasHour := false
	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypeDateTimes:
			upper := strings.ToUpper(tok.TValue)
			switch {
			case strings.HasPrefix(upper, "Y") || strings.HasPrefix(upper, "D"):
				hasDate = true
				lastWasHour = false
			case strings.HasPrefix(upper, "H"):
				hasTime = true
				lastWasHour = true
			case strings.HasPrefix(upper, "S"), upper == "AM/PM", upper == "A/P":
				hasTime = true
				lastWasHour = false
			case strings.HasPrefix(upper, "M"):
				if len(upper) >= 3 || !lastWasHour {
					hasDate = true // MMM+ is always a month name
				} else {
					hasTime = true
				}
				lastWasHour = false
			}
		case nfp.TokenTypeElapsedDateTimes:
			hasTime = true
			lastWasHour = true
		case nfp.TokenTypeLiteral:
			// A literal separator (e.g. ":") between an hour token and a
			// following M/MM must not break minute disambiguation.
		default:
			lastWasHour = false
		}
	}
	return hasDate, hasTime
}

// convertSerial converts an Excel date serial to a time.Time, honouring both
// date systems.
//
// The 1900 system perpetuates the Lotus 1-2-3 leap-year bug: serial 60 is
// the nonexistent 1900-02-29, so serials >= 61 are shifted back one day and
// both 60 and 61 render as 1900-03-01.  The 1904 system has no phantom day;
// serial 0 is 1904-01-01.
func convertSerial(serial float64, date1904 bool) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 {
		return time.Time{}, errInvalidSerial(serial)
	}
	const maxSerial = 2_958_466 // one above 9999-12-31 in the 1900 system
	if serial > maxSerial {
		return time.Time{}, errInvalidSerial(serial)
	}

	fracSec := int64(math.Round((serial - math.Trunc(serial)) * 86400))
	if fracSec > 86399 {
		fracSec = 86399
	}
	intPart := int(serial)

	if date1904 {
		base := time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
		return base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(fracSec)*time.Second), nil
	}

	base := time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	switch {
	case intPart == 0:
		return time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(fracSec) * time.Second), nil
	case intPart >= 61:
		return base.Add(time.Duration(intPart-1)*24*time.Hour + time.Duration(fracSec)*time.Second), nil
	default:
		return base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(fracSec)*time.Second), nil
	}
}

type errInvalidSerial float64

func (e errInvalidSerial) Error() string {
	return "numfmt: invalid date serial " + strconv.FormatFloat(float64(e), 'G', -1, 64)
}
