/*
Package domdbg implements helpers to debug a document while it is animated.

The diagram of a document shows the HTML tree together with the style
properties of its elements, as they are at the time of the call. Diagrams
are written in GraphViz (DOT) format and can be turned into images with

    dot -Tsvg -o doc.svg doc.dot

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/npillmayer/keyframes/dom"
	"github.com/npillmayer/keyframes/dom/style"
	"golang.org/x/net/html"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname       string
	StyleGroups    []string
	NodeTmpl       *template.Template
	EdgeTmpl       *template.Template
	StylegroupTmpl *template.Template
	PgedgeTmpl     *template.Template
	PgpgTmpl       *template.Template
}

// DefaultGroups are the style groups drawn if a client does not name any.
var DefaultGroups = []string{
	style.PGEffects,
	style.PGDimension,
	style.PGPosition,
	style.PGColor,
}

// ToGraphViz outputs a diagram for a document. The diagram is in
// GraphViz (DOT) format. Clients have to provide the document, a Writer,
// and an optional list of style parameter groups.
// The diagram will include all styles of an element belonging to one of
// the parameter groups, whether set by style sheets or locally.
//
// If the client does not provide a list of style groups, DefaultGroups
// will be used. ToGraphViz should not be called while an animation is
// changing the document's styles.
func ToGraphViz(doc *dom.Document, w io.Writer, styleGroups []string) error {
	head, err := template.New("dom").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("domnode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
			"nodename":    nodeName,
		}).Parse(domNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	gparams.StylegroupTmpl = template.Must(template.New("stylegroup").Parse(styleGroupTmpl))
	gparams.PgedgeTmpl = template.Must(template.New("pgedge").Parse(pgEdgeTmpl))
	gparams.PgpgTmpl = template.Must(template.New("pgpgedge").Parse(pgpgEdgeTmpl))
	gparams.StyleGroups = styleGroups
	if len(styleGroups) == 0 {
		gparams.StyleGroups = DefaultGroups
	}
	if err = head.Execute(w, gparams); err != nil {
		return err
	}
	g := &graph{doc: doc, w: w, params: &gparams, names: make(map[*html.Node]string, 256)}
	if err = g.nodes(doc.Root()); err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

type graph struct {
	doc    *dom.Document
	w      io.Writer
	params *graphParamsType
	names  map[*html.Node]string
}

type node struct {
	N    *html.Node
	Name string
}

func (g *graph) nodes(n *html.Node) error {
	if err := g.domNode(n); err != nil {
		return err
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.CommentNode {
			continue
		}
		if err := g.nodes(ch); err != nil {
			return err
		}
		if err := g.domEdge(n, ch); err != nil {
			return err
		}
	}
	return nil
}

func (g *graph) name(n *html.Node) string {
	name := g.names[n]
	if name == "" {
		name = fmt.Sprintf("node%05d", len(g.names)+1)
		g.names[n] = name
	}
	return name
}

func (g *graph) domNode(n *html.Node) error {
	if err := g.params.NodeTmpl.Execute(g.w, &node{n, g.name(n)}); err != nil {
		return err
	}
	if el := g.doc.Element(n); el != nil {
		return g.domStyles(el)
	}
	return nil
}

// domStyles draws a chain of property groups hanging off an element.
func (g *graph) domStyles(el *dom.Element) error {
	pmap := el.Styles()
	var prev *style.PropertyGroup
	for _, s := range g.params.StyleGroups {
		pg := pmap.Group(s)
		if pg == nil || len(pg.Properties()) == 0 {
			continue
		}
		if err := g.params.StylegroupTmpl.Execute(g.w, pg); err != nil {
			return err
		}
		var err error
		if prev == nil {
			err = g.params.PgedgeTmpl.Execute(g.w, pgedge{g.name(el.HTMLNode()), pg})
		} else {
			err = g.params.PgpgTmpl.Execute(g.w, []*style.PropertyGroup{prev, pg})
		}
		if err != nil {
			return err
		}
		prev = pg
	}
	return nil
}

type edge struct {
	N1, N2 node
}

func (g *graph) domEdge(n1, n2 *html.Node) error {
	e := edge{node{n1, g.name(n1)}, node{n2, g.name(n2)}}
	return g.params.EdgeTmpl.Execute(g.w, e)
}

type pgedge struct {
	Name      string
	PropGroup *style.PropertyGroup
}

func nodeName(n *html.Node) string {
	switch n.Type {
	case html.DocumentNode:
		return "#document"
	case html.TextNode:
		return "#text"
	}
	return n.Data
}

func shortText(n *html.Node) string {
	s := "\"\\\""
	if len(n.Data) > 10 {
		s += n.Data[:10] + "...\\\"\""
	} else {
		s += n.Data + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	return s
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ if eq (nodename .N) "#text" }}
{{ .Name }}	[ label={{ shortstring .N }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ printf "%q" (nodename .N) }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const styleGroupTmpl = `{{ printf "pg%p" . }} [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center" colspan="2"><font color="white">{{ .Name }}</font></td></tr>
      {{ range .Properties }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}</td></tr>
      {{ else }}
      <tr><td colspan="2">no styles</td></tr>
      {{ end }}
    </table>> ] ;
`

const domEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`

const pgEdgeTmpl = `{{ .Name }} -> {{ printf "pg%p" .PropGroup }} [dir=none weight=1 style="dashed"] ;
`

const pgpgEdgeTmpl = `{{ index . 0 | printf "pg%p"  }} -> {{ index . 1 | printf "pg%p" }} [dir=none weight=1 style="dashed"] ;
`
