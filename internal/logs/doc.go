// Package logs reads the srt-translate log file for the logs command: the last
// N lines, then optionally every line appended afterwards.
package logs
