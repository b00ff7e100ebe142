package domain

import "strings"

var DefaultFutureDates = []string{"2023-12-01", "2023-12-02"}

// ParseFutureDates splits the raw forecast input on commas and trims each entry.
// Dates are not validated; the backend decides what it accepts.
func ParseFutureDates(raw string) []string {
	parts := strings.Split(raw, ",")
	dates := make([]string, 0, len(parts))
	for _, part := range parts {
		dates = append(dates, strings.TrimSpace(part))
	}

	return dates
}

func FormatFutureDates(dates []string) string {
	return strings.Join(dates, ", ")
}
