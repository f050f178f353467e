package logging

import "time"

// formatTimestamp renders log times as UTC RFC3339; zero times render empty.
func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
