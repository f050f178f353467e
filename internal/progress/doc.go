// Package progress renders pipeline events and status lines for terminals.
package progress
