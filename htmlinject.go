package dashassets

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AppendScript appends <script src=url type="text/javascript" async=...> to head.
// The async attribute carries the literal boolean ("true" or "false").
func AppendScript(head *html.Node, url string, async bool) {
	head.AppendChild(&html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Script,
		Data:     "script",
		Attr: []html.Attribute{
			{Key: "src", Val: url},
			{Key: "type", Val: "text/javascript"},
			{Key: "async", Val: strconv.FormatBool(async)},
		},
	})
}

// AppendStylesheet appends <link href=url type="text/css" rel="stylesheet"> to head.
func AppendStylesheet(head *html.Node, url string) {
	head.AppendChild(&html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Link,
		Data:     "link",
		Attr: []html.Attribute{
			{Key: "href", Val: url},
			{Key: "type", Val: "text/css"},
			{Key: "rel", Val: "stylesheet"},
		},
	})
}

// appendRequest dispatches a planned request to the matching utility.
func appendRequest(head *html.Node, req AssetRequest) {
	switch req.Kind {
	case Stylesheet:
		AppendStylesheet(head, req.URL)
	default:
		AppendScript(head, req.URL, req.Async)
	}
}

// parseDocument parses htmlContent as a full document.
// The HTML5 parser always synthesizes <html>, <head> and <body>, so
// fragments come back wrapped.
func parseDocument(htmlContent string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseHTML, err)
	}
	return doc, nil
}

// renderDocument renders doc back to a string.
func renderDocument(doc *html.Node) (string, error) {
	var buf strings.Builder
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderHTML, err)
	}
	return buf.String(), nil
}

// findHead returns the document's <head>, creating one under <html> if the
// tree was built by hand without it.
func findHead(doc *html.Node) *html.Node {
	if head := findElement(doc, atom.Head); head != nil {
		return head
	}

	root := findElement(doc, atom.Html)
	if root == nil {
		root = doc
	}
	head := &html.Node{Type: html.ElementNode, DataAtom: atom.Head, Data: "head"}
	root.InsertBefore(head, root.FirstChild)
	return head
}

// findElement returns the first element with the given atom in depth-first order.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
