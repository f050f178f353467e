package subtitle

import (
	"strings"
	"unicode/utf8"
)

// DefaultWrapThreshold is the character count above which translated text is
// split over two lines.
const DefaultWrapThreshold = 30

// Rewrap splits text longer than threshold characters into two lines, breaking
// after ceil(words/2) words. Shorter text is returned unchanged.
func Rewrap(text string, threshold int) string {
	if threshold <= 0 {
		threshold = DefaultWrapThreshold
	}
	if utf8.RuneCountInString(text) <= threshold {
		return text
	}
	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}
	half := (len(words) + 1) / 2
	return strings.Join(words[:half], " ") + "\n" + strings.Join(words[half:], " ")
}

// RewrapAll applies Rewrap to the text of every entry.
func RewrapAll(doc Document, threshold int) Document {
	out := make(Document, len(doc))
	for i, entry := range doc {
		entry.Text = Rewrap(entry.Text, threshold)
		out[i] = entry
	}
	return out
}
