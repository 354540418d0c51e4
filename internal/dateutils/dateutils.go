// Package dateutils provides common date operations used by the importers.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	// DateLayoutCompact is the fixed numeric format used by Firefly exports.
	DateLayoutCompact = "20060102"
)

// CommonFormats is a list of standard formats to try when parsing dates
// without a configured layout.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutUS,
	DateLayoutCompact,
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
}

// Parse parses a date string using the given layout. An empty layout falls
// back to trying CommonFormats in order.
func Parse(dateStr, layout string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if layout != "" {
		t, err := time.Parse(layout, dateStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing date %q with layout %q: %w", dateStr, layout, err)
		}
		return t, nil
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
