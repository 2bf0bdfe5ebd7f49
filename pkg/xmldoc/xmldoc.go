// SPDX-License-Identifier: AGPL-3.0-or-later

// Package xmldoc builds small XML documents as ordered trees of tagged nodes.
// Attributes and children keep insertion order and duplicate attribute names
// are retained as added.
package xmldoc

import "strings"

// Attr is a single name/value attribute pair.
type Attr struct {
	Name  string
	Value string
}

// child is either a nested node or a raw text run.
type child struct {
	node *Node
	text string
}

// Node is an element with a tag name, attributes and children.
type Node struct {
	tag      string
	attrs    []Attr
	children []child
}

// New creates a node with the given tag and no attributes or children.
func New(tag string) *Node {
	return &Node{tag: tag}
}

// Tag returns the node's tag name.
func (n *Node) Tag() string { return n.tag }

// Attr appends an attribute and returns the node for chaining.
func (n *Node) Attr(name, value string) *Node {
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	return n
}

// Attrs appends attributes in order.
func (n *Node) Attrs(attrs ...Attr) *Node {
	n.attrs = append(n.attrs, attrs...)
	return n
}

// Child appends child nodes. Nil nodes are skipped.
func (n *Node) Child(nodes ...*Node) *Node {
	for _, c := range nodes {
		if c != nil {
			n.children = append(n.children, child{node: c})
		}
	}
	return n
}

// Text appends a text run. It is escaped on serialization.
func (n *Node) Text(s string) *Node {
	n.children = append(n.children, child{text: s})
	return n
}

// Attributes returns a copy of the node's attributes.
func (n *Node) Attributes() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Get returns the value of the first attribute called name.
func (n *Node) Get(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Nodes returns the node's element children in order.
func (n *Node) Nodes() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.node != nil {
			out = append(out, c.node)
		}
	}
	return out
}

// Find returns every descendant (including n) with the given tag, depth-first.
func (n *Node) Find(tag string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		if cur.tag == tag {
			out = append(out, cur)
		}
		for _, c := range cur.children {
			if c.node != nil {
				walk(c.node)
			}
		}
	}
	walk(n)
	return out
}

// Content returns the concatenated, unescaped text runs of n's direct children.
func (n *Node) Content() string {
	var sb strings.Builder
	for _, c := range n.children {
		if c.node == nil {
			sb.WriteString(c.text)
		}
	}
	return sb.String()
}

// String serializes the node and its subtree.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	sb.WriteByte('<')
	sb.WriteString(n.tag)
	for _, a := range n.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(Escape(a.Value))
		sb.WriteByte('"')
	}
	if len(n.children) == 0 {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	for _, c := range n.children {
		if c.node != nil {
			c.node.write(sb)
			continue
		}
		sb.WriteString(Escape(c.text))
	}
	sb.WriteString("</")
	sb.WriteString(n.tag)
	sb.WriteByte('>')
}

// Document is an ordered list of top-level nodes.
type Document struct {
	roots []*Node
}

// NewDocument creates a document holding the given root nodes.
func NewDocument(roots ...*Node) *Document {
	d := &Document{}
	return d.Push(roots...)
}

// Push appends top-level nodes.
func (d *Document) Push(nodes ...*Node) *Document {
	for _, n := range nodes {
		if n != nil {
			d.roots = append(d.roots, n)
		}
	}
	return d
}

// Roots returns the document's top-level nodes.
func (d *Document) Roots() []*Node {
	return d.roots
}

// Serialize renders the document depth-first.
func Serialize(d *Document) string {
	var sb strings.Builder
	for _, n := range d.roots {
		n.write(&sb)
	}
	return sb.String()
}

// Escape replaces &, <, > and " with their entity forms. The ampersand is
// replaced first so that produced entities are not escaped twice.
func Escape(s string) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
