/*
Package inline reads and writes the content of HTML style attributes.

    <div style="opacity: 0; margin: 10px 20px">

is read as

    margin-bottom: 10px
    margin-left:   20px
    margin-right:  20px
    margin-top:    10px
    opacity:       0

Compound properties are split into their components. Parsing uses the CSS
declaration parser of https://github.com/aymerick/douceur.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package inline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/keyframes/dom/style"
)

// Parse reads the declarations of a style attribute. Later declarations of
// a property override earlier ones; the result is ordered by key.
func Parse(text string) ([]style.KeyValue, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil, fmt.Errorf("inline style %q: %w", text, err)
	}
	values := make(map[string]style.Property, len(decls))
	for _, d := range decls {
		key := strings.ToLower(strings.TrimSpace(d.Property))
		value := style.Property(strings.TrimSpace(d.Value))
		kvs, err := style.SplitCompoundProperty(key, value)
		if err != nil { // not a compound property
			values[key] = value
			continue
		}
		for _, kv := range kvs {
			values[kv.Key] = kv.Value
		}
	}
	r := make([]style.KeyValue, 0, len(values))
	for k, v := range values {
		r = append(r, style.KeyValue{Key: k, Value: v})
	}
	sortByKey(r)
	return r, nil
}

// Format writes properties as the content of a style attribute, ordered by
// key. Properties with empty values are omitted.
func Format(kvs []style.KeyValue) string {
	sorted := make([]style.KeyValue, 0, len(kvs))
	for _, kv := range kvs {
		if !kv.Value.IsEmpty() {
			sorted = append(sorted, kv)
		}
	}
	sortByKey(sorted)
	var b strings.Builder
	for i, kv := range sorted {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(kv.Key)
		b.WriteString(": ")
		b.WriteString(kv.Value.String())
		b.WriteString(";")
	}
	return b.String()
}

func sortByKey(kvs []style.KeyValue) {
	sort.SliceStable(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
}
