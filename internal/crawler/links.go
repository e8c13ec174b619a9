package crawler

import (
	"net/url"
	"strings"
)

// Link is one outbound hyperlink: the anchor's visible text and the absolute,
// fragment-stripped target URL.
type Link struct {
	AnchorText string
	URL        string
}

// ExtractLinks resolves every anchor in doc against base and returns the
// valid outbound links in document order. Anchors that fail to resolve or
// fail ValidLink are dropped silently.
func ExtractLinks(base string, doc *Document) []Link {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}
	anchors := doc.Anchors()
	links := make([]Link, 0, len(anchors))
	for _, anchor := range anchors {
		ref, err := url.Parse(anchor.Href)
		if err != nil {
			continue
		}
		resolved := baseURL.ResolveReference(ref)
		resolved.Fragment = ""
		absolute := resolved.String()
		if !ValidLink(absolute) {
			continue
		}
		links = append(links, Link{AnchorText: anchor.Text, URL: absolute})
	}
	return links
}

// ValidLink reports whether raw is safe to follow and record: it must not
// contain a single-quote character and its scheme must be exactly http or
// https.
func ValidLink(raw string) bool {
	if strings.Contains(raw, "'") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
