package markup

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"srttranslate/internal/subtitle"
)

// Parse builds a DOM tree from rendered page markup.
func Parse(markup string) (*html.Node, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return root, nil
}

// Sanitize removes script elements, iframes, and every element carrying the
// original-text class. Passes repeat until nothing more is removed. It returns
// the number of removed elements.
func Sanitize(root *html.Node) int {
	total := 0
	for {
		var doomed []*html.Node
		walk(root, func(n *html.Node) bool {
			if shouldStrip(n) {
				doomed = append(doomed, n)
				return false
			}
			return true
		})
		if len(doomed) == 0 {
			return total
		}
		for _, n := range doomed {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
			}
		}
		total += len(doomed)
	}
}

func shouldStrip(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Iframe:
		return true
	}
	return hasClass(n, OriginalTextClass)
}

// RunID returns the text of the run identifier element, or "" when absent.
func RunID(root *html.Node) string {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && getAttr(n, "id") == RunIDElementID {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return ""
	}
	return collectText(found)
}

// Decode reads every entry container in document order. Children are read by
// position; containers with fewer than three element children produce
// entries with empty fields, which serialization later drops.
func Decode(root *html.Node) subtitle.Document {
	var doc subtitle.Document
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && hasClass(n, EntryClass) {
			doc = append(doc, decodeEntry(n))
			return false
		}
		return true
	})
	return doc
}

func decodeEntry(container *html.Node) subtitle.Entry {
	var fields [fieldCount]string
	pos := 0
	for c := container.FirstChild; c != nil && pos < fieldCount; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		fields[pos] = collectText(c)
		pos++
	}
	return subtitle.Entry{
		Index:  fields[fieldIndex],
		Timing: fields[fieldTiming],
		Text:   fields[fieldText],
	}
}

// RenderNode serializes the (possibly sanitized) tree back to markup.
func RenderNode(root *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("render node: %w", err)
	}
	return buf.String(), nil
}

// walk visits nodes depth-first; returning false from visit skips children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		walk(c, visit)
		c = next
	}
}

func getAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// collectText concatenates descendant text. Whitespace runs collapse to a
// single space; <br> elements become line breaks.
func collectText(n *html.Node) string {
	lines := []string{""}
	var rec func(*html.Node)
	rec = func(x *html.Node) {
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				lines[len(lines)-1] += c.Data
			case html.ElementNode:
				if c.DataAtom == atom.Br {
					lines = append(lines, "")
					continue
				}
				rec(c)
			}
		}
	}
	rec(n)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
