package core

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// annotationTags are the inline emphasis elements annotation fields may keep.
var annotationTags = map[atom.Atom]bool{
	atom.B:      true,
	atom.Strong: true,
	atom.I:      true,
	atom.Em:     true,
	atom.U:      true,
}

var fragmentContext = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

// Sanitize filters an HTML fragment down to the markup class allows.
//
// Disallowed elements are unwrapped: the element goes, its text stays in
// place. Allowed elements lose every attribute. Comments and doctypes are
// dropped. Text is re-escaped for & and < only, so sanitizing sanitized
// output returns it unchanged. ClassText values are returned as given.
func Sanitize(fragment string, class ContentClass) string {
	if class == ClassText || !strings.ContainsAny(fragment, "<&") {
		return fragment
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), fragmentContext)
	if err != nil {
		return escapeText(fragment)
	}

	allowed := map[atom.Atom]bool{}
	if class == ClassAnnotation {
		allowed = annotationTags
	}

	var b strings.Builder
	for _, n := range nodes {
		renderFiltered(&b, n, allowed)
	}
	return b.String()
}

// SanitizeField cleans value according to the named field's content class.
// Unknown fields are treated as ClassText.
func SanitizeField(field, value string) string {
	spec, ok := LookupField(field)
	if !ok {
		return value
	}
	return Sanitize(value, spec.Content)
}

func renderFiltered(b *strings.Builder, n *html.Node, allowed map[atom.Atom]bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(escapeText(n.Data))
	case html.ElementNode:
		keep := allowed[n.DataAtom]
		if keep {
			b.WriteString("<" + n.Data + ">")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderFiltered(b, c, allowed)
		}
		if keep {
			b.WriteString("</" + n.Data + ">")
		}
	}
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
