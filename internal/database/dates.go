package database

import "time"

// Today returns today's date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// FormatDateDisplay formats a brief date for human-readable display,
// e.g. "Aug 27, 2026". Unparseable input is returned as-is.
func FormatDateDisplay(briefDate string) string {
	d, err := time.Parse("2006-01-02", briefDate)
	if err != nil {
		return briefDate
	}
	return d.Format("Jan 02, 2006")
}
