// Package ingestion streams crawled documents out of the corpus store,
// reduces their HTML to plain text, and feeds them to an indexator.
package ingestion

import (
	"strings"

	"golang.org/x/net/html"
)

// Subtrees that carry no indexable prose.
var skippedTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"iframe":   {},
	"head":     {},
	"title":    {},
}

// Elements that terminate a run of text; a space is appended after their
// children so adjacent blocks do not glue into one token.
var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {},
	"h6": {}, "br": {}, "li": {}, "tr": {}, "td": {}, "th": {},
	"article": {}, "section": {}, "header": {}, "footer": {},
	"blockquote": {}, "pre": {},
}

// ExtractText parses page HTML and returns its visible text with whitespace
// collapsed to single spaces. A page that fails to parse yields "".
func ExtractText(page string) string {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(page) / 5)
	extract(root, &sb)
	return CleanText(sb.String())
}

func extract(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode {
		if _, skip := skippedTags[n.Data]; skip {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extract(c, sb)
	}
	if n.Type == html.ElementNode {
		if _, block := blockTags[n.Data]; block {
			sb.WriteByte(' ')
		}
	}
}

// CleanText maps every whitespace run to a single space and trims the ends.
func CleanText(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	space := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			space = sb.Len() > 0
		default:
			if space {
				sb.WriteByte(' ')
				space = false
			}
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
