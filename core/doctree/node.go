// Package doctree provides the mutable XML node tree the conversion pipeline
// builds and rewrites. Order of children and attributes is significant and
// preserved through every pass.
package doctree

// Attr is a single XML attribute. Attribute order is preserved on output.
type Attr struct {
	Name  string
	Value string
}

// Node is one node of the document tree: an element, or a text leaf when
// Name is empty.
type Node struct {
	// Name is the element name. Empty for text nodes.
	Name string

	// Text is the literal content of a text node.
	Text string

	// Raw marks a text node whose content is already XML and must be
	// emitted without escaping (MathML passthrough).
	Raw bool

	// Attrs is the ordered attribute list. The id attribute, when present,
	// lives here like any other attribute.
	Attrs []Attr

	// Children is the ordered child list.
	Children []*Node

	parent *Node
}

// NewElement creates an element node.
func NewElement(name string) *Node {
	return &Node{Name: name}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Text: text}
}

// NewRaw creates a text node emitted verbatim, without escaping.
func NewRaw(xml string) *Node {
	return &Node{Text: xml, Raw: true}
}

// IsText returns true for text leaves.
func (n *Node) IsText() bool {
	return n.Name == ""
}

// Parent returns the node's parent, nil at the root or for detached nodes.
func (n *Node) Parent() *Node {
	return n.parent
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the value of the named attribute, "" if absent.
func (n *Node) AttrValue(name string) string {
	v, _ := n.Attr(name)
	return v
}

// SetAttr sets an attribute, replacing an existing one in place.
func (n *Node) SetAttr(name, value string) *Node {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// RemoveAttr deletes the named attribute if present.
func (n *Node) RemoveAttr(name string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// ID returns the node's id attribute, "" if unset.
func (n *Node) ID() string {
	return n.AttrValue("id")
}

// SetID sets the node's id attribute.
func (n *Node) SetID(id string) *Node {
	return n.SetAttr("id", id)
}

// AppendChild appends child as the last child of n.
func (n *Node) AppendChild(child *Node) *Node {
	child.detach()
	child.parent = n
	n.Children = append(n.Children, child)
	return n
}

// AppendText appends a text node with the given content.
func (n *Node) AppendText(text string) *Node {
	return n.AppendChild(NewText(text))
}

// PrependChild inserts child as the first child of n.
func (n *Node) PrependChild(child *Node) *Node {
	child.detach()
	child.parent = n
	n.Children = append([]*Node{child}, n.Children...)
	return n
}

// InsertBefore inserts child immediately before ref among n's children.
// If ref is not a child of n, child is appended.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	child.detach()
	child.parent = n
	for i, c := range n.Children {
		if c == ref {
			n.Children = append(n.Children[:i], append([]*Node{child}, n.Children[i:]...)...)
			return n
		}
	}
	n.Children = append(n.Children, child)
	return n
}

// InsertAfter inserts child immediately after ref among n's children.
// If ref is not a child of n, child is appended.
func (n *Node) InsertAfter(child, ref *Node) *Node {
	child.detach()
	child.parent = n
	for i, c := range n.Children {
		if c == ref {
			rest := append([]*Node{child}, n.Children[i+1:]...)
			n.Children = append(n.Children[:i+1], rest...)
			return n
		}
	}
	n.Children = append(n.Children, child)
	return n
}

// Detach removes n from its parent's child list. Returns n for chaining.
func (n *Node) Detach() *Node {
	n.detach()
	return n
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Index returns n's position among its parent's children, -1 if detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// NextSibling returns the node following n under the same parent, nil at end.
func (n *Node) NextSibling() *Node {
	i := n.Index()
	if i < 0 || i+1 >= len(n.parent.Children) {
		return nil
	}
	return n.parent.Children[i+1]
}

// PrevSibling returns the node preceding n under the same parent.
func (n *Node) PrevSibling() *Node {
	i := n.Index()
	if i <= 0 {
		return nil
	}
	return n.parent.Children[i-1]
}

// FirstElement returns the first element child named name, nil if none.
func (n *Node) FirstElement(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Elements returns the element children named name, in order.
func (n *Node) Elements(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ElementChildren returns all element children, in order.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsText() {
			out = append(out, c)
		}
	}
	return out
}

// InnerText returns the concatenated text content of the subtree.
func (n *Node) InnerText() string {
	if n.IsText() {
		return n.Text
	}
	var out string
	for _, c := range n.Children {
		out += c.InnerText()
	}
	return out
}

// Walk visits n and every descendant in document order. Returning false from
// fn prunes the subtree below the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	// Copy: fn may relocate children mid-walk.
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	for _, c := range children {
		c.Walk(fn)
	}
}

// WalkElements visits every element node of the subtree in document order.
func (n *Node) WalkElements(fn func(*Node) bool) {
	n.Walk(func(c *Node) bool {
		if c.IsText() {
			return true
		}
		return fn(c)
	})
}

// Find returns the first descendant element (including n itself) for which
// pred returns true, nil if none.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.WalkElements(func(c *Node) bool {
		if found != nil {
			return false
		}
		if pred(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindByID returns the descendant element whose id attribute equals id.
func (n *Node) FindByID(id string) *Node {
	return n.Find(func(c *Node) bool { return c.ID() == id })
}

// Ancestor returns the nearest ancestor named name, nil if none.
func (n *Node) Ancestor(name string) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// HasAncestor returns true if any ancestor satisfies pred.
func (n *Node) HasAncestor(pred func(*Node) bool) bool {
	for p := n.parent; p != nil; p = p.parent {
		if pred(p) {
			return true
		}
	}
	return false
}

// Clone deep-copies the subtree. The copy is detached.
func (n *Node) Clone() *Node {
	cp := &Node{Name: n.Name, Text: n.Text, Raw: n.Raw}
	cp.Attrs = append([]Attr(nil), n.Attrs...)
	for _, c := range n.Children {
		cp.AppendChild(c.Clone())
	}
	return cp
}

// Element builds an element with attributes given as alternating name/value
// pairs. Panics on an odd pair count; intended for construction sites with
// literal arguments.
func Element(name string, attrPairs ...string) *Node {
	if len(attrPairs)%2 != 0 {
		panic("doctree.Element: odd attribute pair count")
	}
	n := NewElement(name)
	for i := 0; i < len(attrPairs); i += 2 {
		n.SetAttr(attrPairs[i], attrPairs[i+1])
	}
	return n
}
