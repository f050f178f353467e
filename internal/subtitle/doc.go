// Package subtitle parses and serializes the blank-line delimited subtitle
// format handled by srt-translate.
//
// Entries keep their index and timing lines as opaque text; nothing is
// renumbered or re-timed. Serialization silently drops entries that are
// missing any field, which is how malformed input blocks disappear from the
// output.
package subtitle
