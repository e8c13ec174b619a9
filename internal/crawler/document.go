package crawler

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page exposing the two views the crawler needs:
// flattened visible text and in-order anchor enumeration.
type Document struct {
	doc *goquery.Document
}

// Anchor is one <a href> element: its flattened visible text and the raw,
// unresolved target attribute.
type Anchor struct {
	Text string
	Href string
}

// Parse turns raw page bytes into a Document. Failures are reported as
// *ParseError so the engine can treat them as per-URL, non-fatal events.
func Parse(body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return &Document{doc: doc}, nil
}

// Text returns the page's visible text: descendant text nodes trimmed and
// newline-joined, with script and style content excluded.
func (d *Document) Text() string {
	var parts []string
	for _, node := range d.doc.Selection.Nodes {
		if text := flattenText(node); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// Anchors returns every anchor element carrying an href attribute, in
// document order.
func (d *Document) Anchors() []Anchor {
	var anchors []Anchor
	d.doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		var parts []string
		for _, node := range sel.Nodes {
			if text := flattenText(node); text != "" {
				parts = append(parts, text)
			}
		}
		anchors = append(anchors, Anchor{
			Text: strings.Join(parts, "\n"),
			Href: href,
		})
	})
	return anchors
}

// flattenText concatenates the visible text under node: text nodes are
// trimmed, non-empty fragments are joined with newlines, and the result is
// trimmed again.
func flattenText(node *html.Node) string {
	if node.Type == html.TextNode {
		return strings.TrimSpace(node.Data)
	}
	if node.Type == html.ElementNode {
		switch node.Data {
		case "script", "style", "noscript":
			return ""
		}
	}
	var parts []string
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if text := flattenText(child); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
