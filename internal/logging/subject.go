package logging

import "strings"

const shortRunIDLength = 8

// FormatSubject builds the component/run/phase subject string used in console output.
func FormatSubject(component, runID, phase string) string {
	component = strings.TrimSpace(component)
	runID = strings.TrimSpace(runID)
	phase = strings.TrimSpace(phase)
	if len(runID) > shortRunIDLength {
		runID = runID[:shortRunIDLength]
	}
	parts := make([]string, 0, 2)
	if component != "" {
		parts = append(parts, component)
	}
	switch {
	case runID != "" && phase != "":
		parts = append(parts, "Run "+runID+" ("+phase+")")
	case runID != "":
		parts = append(parts, "Run "+runID)
	case phase != "":
		parts = append(parts, phase)
	}
	return strings.Join(parts, " · ")
}
