package cssom

import (
	"errors"
	"fmt"

	"github.com/npillmayer/keyframes/dom/style"
)

// ErrNoSuchProperty is returned if neither a node, nor its ancestors, nor the
// user-agent defaults provide a value for a property.
var ErrNoSuchProperty = errors.New("no value for style property")

// GetCascadedProperty gets the value of a property. The search cascades to
// parent nodes and finally to the user-agent defaults.
//
// Clients will usually call GetProperty(…) instead as this will respect
// CSS semantics for inherited properties.
func GetCascadedProperty(node StyledNode, key string) (style.Property, error) {
	if node == nil {
		return style.NullStyle, fmt.Errorf("%w: %s (no node)", ErrNoSuchProperty, key)
	}
	for n := node; n != nil; n = n.ParentNode() {
		p := GetLocalProperty(n.Styles(), key)
		if !p.IsEmpty() && !p.IsInherit() {
			return p, nil
		}
	}
	if p := style.GetUserAgentDefaultProperty(node.HTMLNode(), key); !p.IsEmpty() {
		return p, nil
	}
	return style.NullStyle, fmt.Errorf("%w: %s", ErrNoSuchProperty, key)
}

// GetProperty gets the value of a property. If the property is not set
// locally on the node and the property is inheritable, the search
// cascades to parent nodes. Otherwise the user-agent default is returned.
// Values 'inherit' and 'initial' are resolved.
func GetProperty(node StyledNode, key string) (style.Property, error) {
	if node == nil {
		return style.NullStyle, fmt.Errorf("%w: %s (no node)", ErrNoSuchProperty, key)
	}
	if style.IsCascading(key) {
		return GetCascadedProperty(node, key)
	}
	p := GetLocalProperty(node.Styles(), key)
	switch {
	case p.IsInherit():
		if parent := node.ParentNode(); parent != nil {
			return GetProperty(parent, key)
		}
		p = style.NullStyle
	case p.IsInitial():
		p = style.NullStyle
	}
	if p.IsEmpty() {
		p = style.GetUserAgentDefaultProperty(node.HTMLNode(), key)
	}
	if p.IsEmpty() {
		tracer().Debugf("no value for property %s", key)
		return p, fmt.Errorf("%w: %s", ErrNoSuchProperty, key)
	}
	return p, nil
}

// GetLocalProperty returns a style property value, if it is set locally
// for a styled node's property map. No cascading is performed.
func GetLocalProperty(pmap *style.PropertyMap, key string) style.Property {
	p, _ := pmap.Property(key)
	return p
}
