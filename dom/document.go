package dom

import (
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/keyframes/dom/style"
	"github.com/npillmayer/keyframes/dom/style/cssom"
	"github.com/npillmayer/keyframes/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/keyframes/dom/style/inline"
	"golang.org/x/net/html"
)

// Document is a parsed HTML document. Element styles of a document may be
// read and written concurrently.
type Document struct {
	mx       sync.RWMutex // guards element styles and style attributes
	root     *html.Node
	sheets   []cssom.StyleSheet
	elements map[*html.Node]*Element
}

// Parse reads an HTML document. Style elements are parsed as style sheets.
// Malformed style attributes are ignored.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse HTML: %w", err)
	}
	doc := &Document{
		root:     root,
		sheets:   douceuradapter.StyleSheets(douceuradapter.ExtractStyleElements(root)),
		elements: make(map[*html.Node]*Element),
	}
	doc.wrap(root, nil)
	tracer().Debugf("parsed document with %d elements and %d style sheets",
		len(doc.elements), len(doc.sheets))
	return doc, nil
}

// wrap creates elements for n and its descendents.
func (doc *Document) wrap(n *html.Node, parent *Element) {
	if n.Type == html.ElementNode {
		el := &Element{
			doc:    doc,
			node:   n,
			parent: parent,
			sheet:  style.NewPropertyMap(),
			local:  style.NewPropertyMap(),
		}
		for _, kv := range cssom.Match(doc.sheets, n) {
			el.sheet.Add(kv.Key, kv.Value)
		}
		if attr, ok := attribute(n, "style"); ok {
			kvs, err := inline.Parse(attr)
			if err != nil {
				tracer().Errorf("ignoring style of %s: %v", el, err)
			}
			for _, kv := range kvs {
				el.local.Add(kv.Key, kv.Value)
			}
		}
		doc.elements[n] = el
		parent = el
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		doc.wrap(ch, parent)
	}
}

// Select returns all elements matching a CSS selector, in document order.
func (doc *Document) Select(selector string) ([]*Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	nodes := sel.MatchAll(doc.root)
	elements := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if el := doc.elements[n]; el != nil {
			elements = append(elements, el)
		}
	}
	return elements, nil
}

// Element returns the element for an HTML node of the document, or nil.
func (doc *Document) Element(n *html.Node) *Element {
	return doc.elements[n]
}

// StyleSheets returns the style sheets embedded in the document.
func (doc *Document) StyleSheets() []cssom.StyleSheet {
	return doc.sheets
}

// Root returns the root node of the document.
func (doc *Document) Root() *html.Node {
	return doc.root
}

// Render writes the document as HTML, with the current inline styles of its
// elements.
func (doc *Document) Render(w io.Writer) error {
	doc.mx.RLock()
	defer doc.mx.RUnlock()
	return html.Render(w, doc.root)
}

func attribute(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
