package dom

import (
	"strings"

	"github.com/npillmayer/keyframes/dom/style"
	"github.com/npillmayer/keyframes/dom/style/cssom"
	"github.com/npillmayer/keyframes/dom/style/inline"
	"golang.org/x/net/html"
)

// Element is an HTML element of a document.
type Element struct {
	doc    *Document
	node   *html.Node
	parent *Element
	sheet  *style.PropertyMap // set by style sheet rules
	local  *style.PropertyMap // set by the style attribute or by animations
}

// HTMLNode returns the underlying HTML node.
func (el *Element) HTMLNode() *html.Node {
	return el.node
}

// ParentNode returns the parent element, or nil for the root element.
func (el *Element) ParentNode() cssom.StyledNode {
	if el.parent == nil {
		return nil
	}
	return el.parent
}

// Styles returns the properties set for the element, either by style sheets
// or locally. Local properties take precedence.
//
// Styles does not synchronize with concurrent style changes; use Style
// instead.
func (el *Element) Styles() *style.PropertyMap {
	return style.NewPropertyMap().Merge(el.sheet, true).Merge(el.local, true)
}

// Style returns the value of a style property for the element. Properties
// not set for the element are inherited or taken from the user-agent
// defaults. For unknown properties NullStyle is returned.
func (el *Element) Style(key string) style.Property {
	el.doc.mx.RLock()
	defer el.doc.mx.RUnlock()
	return el.style(key)
}

func (el *Element) style(key string) style.Property {
	p, err := cssom.GetProperty(el, key)
	if err != nil {
		return style.NullStyle
	}
	return p
}

// Inline returns the properties of the element's style attribute, ordered
// by key.
func (el *Element) Inline() []style.KeyValue {
	el.doc.mx.RLock()
	defer el.doc.mx.RUnlock()
	return el.local.Properties()
}

// InlineStyle returns the content of the element's style attribute.
func (el *Element) InlineStyle() string {
	return inline.Format(el.Inline())
}

// SetStyle sets a local style property and updates the style attribute.
func (el *Element) SetStyle(key string, value style.Property) {
	el.SetStyles([]style.KeyValue{{Key: key, Value: value}})
}

// SetStyles sets local style properties and updates the style attribute.
func (el *Element) SetStyles(kvs []style.KeyValue) {
	el.doc.mx.Lock()
	defer el.doc.mx.Unlock()
	el.setStyles(kvs)
}

func (el *Element) setStyles(kvs []style.KeyValue) {
	for _, kv := range kvs {
		if kv.Value.IsEmpty() {
			el.local.Remove(kv.Key)
			continue
		}
		el.local.Add(kv.Key, kv.Value)
	}
	el.syncStyleAttribute()
}

func (el *Element) syncStyleAttribute() {
	text := inline.Format(el.local.Properties())
	attrs := el.node.Attr[:0]
	for _, a := range el.node.Attr {
		if a.Namespace == "" && a.Key == "style" {
			continue
		}
		attrs = append(attrs, a)
	}
	if text != "" {
		attrs = append(attrs, html.Attribute{Key: "style", Val: text})
	}
	el.node.Attr = attrs
}

// TagName returns the element's tag, e.g. "div".
func (el *Element) TagName() string {
	return el.node.Data
}

// ID returns the element's id attribute.
func (el *Element) ID() string {
	id, _ := attribute(el.node, "id")
	return id
}

// String returns a short selector-like description, e.g. "div#logo.box".
func (el *Element) String() string {
	if el == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(el.node.Data)
	if id := el.ID(); id != "" {
		b.WriteString("#" + id)
	}
	if class, ok := attribute(el.node, "class"); ok {
		for _, c := range strings.Fields(class) {
			b.WriteString("." + c)
		}
	}
	return b.String()
}
