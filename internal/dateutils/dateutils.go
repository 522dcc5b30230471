// Package dateutils normalizes the issue dates found in invoice feeds.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts seen in myDATA feeds and operator-edited files.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutExport   = "02/01/2006"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutDash     = "02-01-2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// CommonFormats is the ordered list of layouts tried by ParseDate. Day-first
// layouts come before anything month-first.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutExport,
	DateLayoutEuropean,
	DateLayoutDash,
	DateLayoutFull,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2/1/2006",
	"2.1.2006",
	"2-1-2006",
	"2006/01/02",
}

var spacesRe = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using the common formats and
// returns the parsed time and the matching layout.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("unable to parse empty date")
	}
	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return spacesRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ToExportDate formats t as dd/mm/yyyy. The zero time formats as "".
func ToExportDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayoutExport)
}

// NormalizeDate rewrites a recognised date as dd/mm/yyyy and returns other
// input trimmed but otherwise unchanged.
func NormalizeDate(dateStr string) string {
	t, _, err := ParseDate(dateStr)
	if err != nil {
		return CleanDateString(dateStr)
	}
	return ToExportDate(t)
}
