package utils

import (
	"log"
	"time"
)

const ImportDateFormat = "2006-01-02"

// ParseImportDate parses an import date string using the compliance API's
// format. Logs and falls back to today's date if the string is empty or
// unparseable, since a quote always needs an effective date.
func ParseImportDate(dateStr string) time.Time {
	if dateStr == "" {
		return time.Now()
	}
	t, err := time.Parse(ImportDateFormat, dateStr)
	if err != nil {
		log.Printf("Error parsing import date '%s' with format '%s': %v. Falling back to today.", dateStr, ImportDateFormat, err)
		return time.Now()
	}
	return t
}
