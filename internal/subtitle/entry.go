package subtitle

import "strings"

// Entry is one subtitle block.
type Entry struct {
	Index  string
	Timing string
	Text   string
}

// Complete reports whether every field is non-empty.
func (e Entry) Complete() bool {
	return e.Index != "" && e.Timing != "" && e.Text != ""
}

// Document is an ordered sequence of entries in on-screen order.
type Document []Entry

// CompleteCount returns the number of entries that survive serialization.
func (d Document) CompleteCount() int {
	count := 0
	for _, entry := range d {
		if entry.Complete() {
			count++
		}
	}
	return count
}

// Parse normalizes line endings, splits raw on blank lines, and maps each
// block to an Entry: first line index, second line timing, the next one or
// two lines joined by a single space as text. Timestamps are not validated and
// short blocks yield entries with empty fields. Blank blocks are skipped.
func Parse(raw string) Document {
	raw = strings.ReplaceAll(raw, "\r", "")
	blocks := strings.Split(raw, "\n\n")
	doc := make(Document, 0, len(blocks))
	for _, block := range blocks {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		var entry Entry
		entry.Index = lines[0]
		if len(lines) > 1 {
			entry.Timing = lines[1]
		}
		var first, second string
		if len(lines) > 2 {
			first = lines[2]
		}
		if len(lines) > 3 {
			second = lines[3]
		}
		entry.Text = strings.TrimSpace(first + " " + second)
		doc = append(doc, entry)
	}
	return doc
}

// Serialize renders complete entries as "index\ntiming\ntext\n\n" and omits
// the rest.
func Serialize(doc Document) string {
	var b strings.Builder
	for _, entry := range doc {
		if !entry.Complete() {
			continue
		}
		b.WriteString(entry.Index)
		b.WriteByte('\n')
		b.WriteString(entry.Timing)
		b.WriteByte('\n')
		b.WriteString(entry.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}
