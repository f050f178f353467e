// Package rename normalizes media and subtitle file names so they can be
// passed to ffmpeg and shell commands without quoting: names are NFC
// normalized, filesystem-unsafe characters are replaced, and whitespace is
// removed.
package rename
