package models

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// RichText is a Jira text field. The v2 API and some webhooks send a plain string,
// the v3 API sends an Atlassian Document Format tree; both decode to plain text.
type RichText string

func (r *RichText) UnmarshalJSON(data []byte) error {
	parsed := gjson.ParseBytes(data)
	switch {
	case parsed.Type == gjson.Null:
		*r = ""
	case parsed.Type == gjson.String:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RichText(s)
	case parsed.IsObject():
		*r = RichText(ADFToText(parsed))
	default:
		*r = RichText(parsed.String())
	}
	return nil
}

func (r RichText) String() string {
	return string(r)
}

var adfBlockTypes = map[string]bool{
	"paragraph":   true,
	"heading":     true,
	"listItem":    true,
	"codeBlock":   true,
	"blockquote":  true,
	"tableRow":    true,
	"mediaSingle": true,
}

// ADFToText flattens an Atlassian Document Format node to text, one line per block
func ADFToText(node gjson.Result) string {
	var b strings.Builder
	writeADF(node, &b)

	lines := strings.Split(b.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func writeADF(node gjson.Result, b *strings.Builder) {
	nodeType := node.Get("type").String()
	switch nodeType {
	case "text":
		b.WriteString(node.Get("text").String())
	case "hardBreak":
		b.WriteString("\n")
	case "mention", "emoji":
		b.WriteString(node.Get("attrs.text").String())
	}

	node.Get("content").ForEach(func(_, child gjson.Result) bool {
		writeADF(child, b)
		return true
	})

	if adfBlockTypes[nodeType] {
		b.WriteString("\n")
	}
}

// NewADFDocument wraps plain text as an ADF document, one paragraph per line
func NewADFDocument(text string) map[string]any {
	content := []map[string]any{}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		content = append(content, map[string]any{
			"type": "paragraph",
			"content": []map[string]any{
				{"type": "text", "text": line},
			},
		})
	}
	return map[string]any{
		"type":    "doc",
		"version": 1,
		"content": content,
	}
}
