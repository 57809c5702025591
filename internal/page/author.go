package page

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/kuwavkdb/am2vkdb/internal/normalize"
)

// Brackets that open a qualifier after the author name, e.g. a role
// annotation. Everything from the first one onward is discarded.
// Both ASCII and full-width forms appear in the wild.
var qualifierBrackets = []string{"(", "（", "[", "［"}

// ExtractAuthor finds the author region in detail page markup and returns
// the cleaned author name. Returns ErrNoAuthor when the page has no author
// region or the region is empty after cleaning.
func ExtractAuthor(body []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", ErrNoAuthor
	}

	node := findAuthorNode(doc)
	if node == nil {
		return "", ErrNoAuthor
	}

	var buf strings.Builder
	extractText(node, &buf)

	name := CleanAuthorName(buf.String())
	if name == "" {
		return "", ErrNoAuthor
	}
	return name, nil
}

// CleanAuthorName strips the qualifier brackets and normalizes the result.
// "Jane Smith (Author)" and "Ｊａｎｅ　Ｓｍｉｔｈ［著］" both yield
// "Jane Smith".
func CleanAuthorName(raw string) string {
	cut := len(raw)
	for _, bracket := range qualifierBrackets {
		if idx := strings.Index(raw, bracket); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return normalize.Name(raw[:cut])
}

// findAuthorNode walks the tree for the first element whose class list
// contains "author".
func findAuthorNode(n *html.Node) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key != "class" {
				continue
			}
			for class := range strings.FieldsSeq(attr.Val) {
				if class == "author" {
					return n
				}
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAuthorNode(c); found != nil {
			return found
		}
	}
	return nil
}

// extractText recursively extracts text content from HTML nodes.
func extractText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}
}
