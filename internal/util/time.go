package util

import "time"

const DateLayout = "2006-01-02"

// FormatDate renders t as a UTC calendar date; the zero time renders as "-".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(DateLayout)
}
