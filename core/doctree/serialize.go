package doctree

import (
	"bytes"
	"strings"
)

// WriteOptions controls XML serialization.
type WriteOptions struct {
	// Declaration emits the <?xml ...?> declaration when true.
	Declaration bool

	// Indent pretty-prints with the given indentation string. Mixed-content
	// elements (any text child) are always written inline so significant
	// whitespace survives round-trips.
	Indent string
}

// XML serializes the subtree rooted at n.
func XML(n *Node, opts WriteOptions) []byte {
	var buf bytes.Buffer
	if opts.Declaration {
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
		if opts.Indent != "" {
			buf.WriteString("\n")
		}
	}
	writeNode(&buf, n, 0, opts.Indent)
	return buf.Bytes()
}

// String serializes the subtree compactly, without a declaration.
func (n *Node) String() string {
	return string(XML(n, WriteOptions{}))
}

func writeNode(w *bytes.Buffer, n *Node, depth int, indent string) {
	if n.IsText() {
		if n.Raw {
			w.WriteString(n.Text)
		} else {
			w.WriteString(EscapeText(n.Text))
		}
		return
	}

	pretty := indent != "" && !n.mixed()

	w.WriteString("<")
	w.WriteString(n.Name)
	for _, a := range n.Attrs {
		w.WriteString(" ")
		w.WriteString(a.Name)
		w.WriteString(`="`)
		w.WriteString(EscapeAttr(a.Value))
		w.WriteString(`"`)
	}
	if len(n.Children) == 0 {
		w.WriteString("/>")
		return
	}
	w.WriteString(">")

	for _, c := range n.Children {
		if pretty && !c.IsText() {
			w.WriteString("\n")
			writeIndent(w, depth+1, indent)
		}
		writeNode(w, c, depth+1, indent)
	}
	if pretty {
		w.WriteString("\n")
		writeIndent(w, depth, indent)
	}

	w.WriteString("</")
	w.WriteString(n.Name)
	w.WriteString(">")
}

// mixed reports whether the element has any non-empty text child, which
// suppresses pretty-printing inside it.
func (n *Node) mixed() bool {
	for _, c := range n.Children {
		if c.IsText() {
			return true
		}
	}
	return false
}

func writeIndent(w *bytes.Buffer, depth int, indent string) {
	for i := 0; i < depth; i++ {
		w.WriteString(indent)
	}
}

// EscapeText escapes the basic XML entities for text content.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeAttr escapes text for use in XML attributes.
// Includes quote escaping in addition to basic XML entities.
func EscapeAttr(s string) string {
	s = EscapeText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
