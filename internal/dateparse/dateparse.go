// Package dateparse reads the long-form dates the transaction grid renders,
// e.g. "June 2, 2020", and formats the dates used in export filenames.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Separators accept Unicode spaces too; rendered pages often carry &nbsp;.
var longDateRe = regexp.MustCompile(`^([A-Za-z]+)[\s\p{Zs}]+(\d{1,2}),[\s\p{Zs}]+(\d{4})$`)

var months = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// Unknown is rendered in place of a date that could not be determined.
const Unknown = "unknown"

// Parse converts "<Month> <Day>, <Year>" into a UTC calendar date. The month
// must be a full English name (any case). Day overflow is normalized by
// time.Date, so "February 31, 2021" yields March 3, 2021.
func Parse(s string) (time.Time, bool) {
	m := longDateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	// Casers keep state, so each call gets its own.
	month, ok := months[cases.Fold().String(m[1])]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// FormatYMD renders t as YYYY-MM-DD, or Unknown when t is nil.
func FormatYMD(t *time.Time) string {
	if t == nil {
		return Unknown
	}
	return t.Format("2006-01-02")
}

// FormatStamp renders t as YYYY-MM-DD_HHMMSS on a 24-hour clock in t's own
// location.
func FormatStamp(t time.Time) string {
	return t.Format("2006-01-02_150405")
}
