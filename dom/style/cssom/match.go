package cssom

import (
	"sort"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/keyframes/dom/style"
	"golang.org/x/net/html"
)

// declaration is a property set by a matching rule, together with its
// position in the cascade.
type declaration struct {
	kv          style.KeyValue
	important   bool
	specificity cascadia.Specificity
	order       int
}

// Match returns the properties style sheets set for an HTML element. Rules
// are applied in cascade order: by importance, then by selector
// specificity, then by position within the sheets. Compound properties
// like "margin" are split into their components.
//
// Selectors which cannot be parsed are skipped.
func Match(sheets []StyleSheet, n *html.Node) []style.KeyValue {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	var decls []declaration
	order := 0
	for _, sheet := range sheets {
		if sheet == nil {
			continue
		}
		for _, rule := range sheet.Rules() {
			order++
			spec, ok := matches(rule.Selector(), n)
			if !ok {
				continue
			}
			for _, key := range rule.Properties() {
				value := rule.Value(key)
				imp := rule.IsImportant(key)
				kvs, err := style.SplitCompoundProperty(key, value)
				if err != nil {
					kvs = []style.KeyValue{{Key: key, Value: value}}
				}
				for _, kv := range kvs {
					decls = append(decls, declaration{kv: kv, important: imp, specificity: spec, order: order})
				}
			}
		}
	}
	sort.SliceStable(decls, func(i, j int) bool {
		a, b := decls[i], decls[j]
		if a.important != b.important {
			return b.important
		}
		if a.specificity != b.specificity {
			return a.specificity.Less(b.specificity)
		}
		return a.order < b.order
	})
	values := make(map[string]style.Property, len(decls))
	for _, d := range decls {
		values[d.kv.Key] = d.kv.Value
	}
	r := make([]style.KeyValue, 0, len(values))
	for k, v := range values {
		r = append(r, style.KeyValue{Key: k, Value: v})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Key < r[j].Key })
	return r
}

// matches checks a selector group against a node and returns the highest
// specificity of the matching selectors.
func matches(selector string, n *html.Node) (cascadia.Specificity, bool) {
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		tracer().Errorf("cannot parse selector %q: %v", selector, err)
		return cascadia.Specificity{}, false
	}
	var best cascadia.Specificity
	found := false
	for _, sel := range group {
		if sel.Match(n) {
			if s := sel.Specificity(); !found || best.Less(s) {
				best = s
			}
			found = true
		}
	}
	return best, found
}
