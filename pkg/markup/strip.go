// Package markup turns rich-text editor output into plain text.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strip removes every tag from s and returns the text content with entities
// decoded. Whitespace in the text is kept as is. A trailing "<" that never
// closes is not a tag and stays in the result verbatim.
func Strip(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	head, tail := s, ""
	if i := strings.LastIndexByte(s, '<'); i >= 0 && !strings.Contains(s[i:], ">") {
		head, tail = s[:i], s[i:]
	}
	if head == "" {
		return tail
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(head))
	if err != nil {
		return s
	}
	return doc.Text() + tail
}
