package web

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Signals are the cheap page features the website validator scores on.
type Signals struct {
	Title string
	H1    []string
}

// ExtractSignals parses HTML and pulls the title and all h1 headings.
// Malformed markup yields whatever the tolerant parser recovers.
func ExtractSignals(rawHTML string) Signals {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return Signals{}
	}

	var sig Signals
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if sig.Title == "" {
					sig.Title = strings.TrimSpace(nodeText(n))
				}
			case "h1":
				if text := collapseSpace(nodeText(n)); text != "" {
					sig.H1 = append(sig.H1, text)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sig
}

// ExtractText returns the visible text of a page, with scripts and styles
// stripped and whitespace collapsed.
func ExtractText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				b.WriteString(text)
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return collapseSpace(b.String())
}

// ExtractFooterText returns the collapsed text of the first footer element,
// or an empty string when the page has none.
func ExtractFooterText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var footer *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if footer != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "footer" {
			footer = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if footer == nil {
		return ""
	}
	return collapseSpace(nodeText(footer))
}

// navAttrMarkers flag container elements that usually hold category menus.
var navAttrMarkers = []string{"menu", "nav", "category", "departments"}

// ExtractNavAnchors collects anchor texts from navigation-ish containers:
// nav and header elements plus anything whose class or id mentions a menu,
// nav, category or departments. When no such container exists the whole
// document is scanned.
func ExtractNavAnchors(rawHTML string) []string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var roots []*html.Node
	var findRoots func(n *html.Node)
	findRoots = func(n *html.Node) {
		if n.Type == html.ElementNode && isNavContainer(n) {
			roots = append(roots, n)
			// Children of a nav container are covered by the parent scan.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findRoots(c)
		}
	}
	findRoots(doc)
	if len(roots) == 0 {
		roots = []*html.Node{doc}
	}

	var anchors []string
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && hasAttr(n, "href") {
			if text := collapseSpace(nodeText(n)); text != "" {
				anchors = append(anchors, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	for _, root := range roots {
		collect(root)
	}
	return anchors
}

func isNavContainer(n *html.Node) bool {
	if n.Data == "nav" || n.Data == "header" {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" && attr.Key != "id" {
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, marker := range navAttrMarkers {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

var spaceRe = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
