package style

import (
	"golang.org/x/net/html"
)

// Values "default" have the following semantics:
// Treat this as an inherent UA default, which should not be instantiated in memory,
// but rather will be treated implicitely by rendering code.
//
var nonInherited = map[string]string{
	"position":            "static",
	"background-color":    "transparent",
	"border-top-color":    "default",
	"border-left-color":   "default",
	"border-right-color":  "default",
	"border-bottom-color": "default",
	"flow-from":           "none",
	"flow-into":           "none",
	"opacity":             "1",
	"transform":           "none",
	"z-index":             "auto",
	"overflow":            "visible",
}

var isDimension = map[string]string{
	"width":                      "auto",
	"height":                     "auto",
	"min-width":                  "none",
	"min-height":                 "none",
	"max-width":                  "none",
	"max-height":                 "none",
	"top":                        "auto",
	"right":                      "auto",
	"bottom":                     "auto",
	"left":                       "auto",
	"margin-top":                 "0",
	"margin-left":                "0",
	"margin-right":               "0",
	"margin-bottom":              "0",
	"padding-top":                "0",
	"padding-left":               "0",
	"padding-right":              "0",
	"padding-bottom":             "0",
	"border-top-width":           "medium",
	"border-left-width":          "medium",
	"border-right-width":         "medium",
	"border-bottom-width":        "medium",
	"border-top-left-radius":     "0",
	"border-top-right-radius":    "0",
	"border-bottom-left-radius":  "0",
	"border-bottom-right-radius": "0",
	"font-size":                  "medium",
	"line-height":                "normal",
	"letter-spacing":             "normal",
	"word-spacing":               "normal",
	"text-indent":                "0",
}

// userAgentDefaults holds the default values of all properties but display.
var userAgentDefaults = InitializeDefaultPropertyValues(nil)

// GetUserAgentDefaultProperty returns the user-agent default property for a given key.
// For properties without a known default NullStyle is returned.
func GetUserAgentDefaultProperty(node *html.Node, key string) Property {
	if key == "display" {
		return DisplayPropertyForHTMLNode(node)
	}
	if p, ok := userAgentDefaults.Property(key); ok {
		return p
	}
	return NullStyle
}

// DisplayPropertyForHTMLNode returns the default `display` CSS property for an HTML node.
func DisplayPropertyForHTMLNode(node *html.Node) Property {
	if node == nil {
		return "none"
	}
	if node.Type == html.DocumentNode {
		return "block"
	}
	if node.Type != html.ElementNode {
		tracer().Debugf("cannot get display-property for non-element")
		return "none"
	}
	switch node.Data {
	case "head", "script", "style", "title", "meta", "link":
		return "none"
	case "html", "aside", "body", "div", "h1", "h2", "h3",
		"h4", "h5", "h6", "ol", "ul", "p", "section", "article",
		"header", "footer", "nav", "main", "figure", "blockquote":
		return "block"
	case "li":
		return "list-item"
	case "i", "b", "em", "span", "strong", "a", "code", "small", "label":
		return "inline"
	case "img", "button", "input", "select", "textarea", "canvas", "video":
		return "inline-block"
	case "table":
		return "table"
	}
	tracer().Infof("unknown HTML element %s/%d will be set to display: block",
		node.Data, node.Type)
	return "block"
}

// InitializeDefaultPropertyValues creates an internal data structure to
// hold all the default values for CSS properties.
// In real-world browsers these are the user-agent CSS values.
//
// additionalProps are set in group "X" and override nothing else.
func InitializeDefaultPropertyValues(additionalProps []KeyValue) *PropertyMap {
	m := make(map[string]*PropertyGroup, 15)

	x := NewPropertyGroup(PGX) // special group for extension properties
	for _, kv := range additionalProps {
		x.Set(kv.Key, kv.Value)
	}
	m[PGX] = x

	set := func(key string, value Property) {
		groupFor(m, GroupNameFromPropertyKey(key)).Set(key, value)
	}
	for key, value := range isDimension {
		set(key, Property(value))
	}
	for key, value := range nonInherited {
		set(key, Property(value))
	}
	for _, dir := range fourDirs {
		set(p("border", "style", dir), "none")
	}
	set("display", "block")
	set("float", "none")
	set("visibility", "visible")
	set("color", "black")
	set("font-weight", "normal")
	set("font-style", "normal")
	set("direction", "ltr")
	set("white-space", "normal")
	set("word-break", "normal")
	set("text-align", "start")

	return &PropertyMap{m}
}

func groupFor(m map[string]*PropertyGroup, name string) *PropertyGroup {
	group, ok := m[name]
	if !ok {
		group = NewPropertyGroup(name)
		m[name] = group
	}
	return group
}
