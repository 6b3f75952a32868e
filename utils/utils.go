package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true,
}

// StripHTML removes markup and returns the text content, e.g. "<b>hi</b> there" -> "hi there".
// Block elements and <br> become line breaks; blank lines are dropped.
func StripHTML(input string) string {
	if !strings.ContainsAny(input, "<&") {
		return strings.TrimSpace(input)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return strings.TrimSpace(input)
	}

	var b strings.Builder
	writeText(&b, doc.Selection)

	lines := strings.Split(b.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func writeText(b *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		switch name := goquery.NodeName(node); {
		case name == "#text":
			b.WriteString(node.Text())
		case name == "br":
			b.WriteString("\n")
		case name == "script" || name == "style":
		case blockElements[name]:
			b.WriteString("\n")
			writeText(b, node)
			b.WriteString("\n")
		default:
			writeText(b, node)
		}
	})
}

// FirstNonEmpty returns the first argument that is not blank
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Truncate cuts s to at most max runes, appending an ellipsis when shortened
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
