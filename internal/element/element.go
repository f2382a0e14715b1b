// Package element provides the retained element tree produced by
// widget rendering, plus a deterministic text renderer used for
// snapshot assertions. The tree is pure data: rendering a widget twice
// from the same state yields byte-identical output.
package element

// Element is one node of the rendered tree. Kind names the node type
// ("list_item", "label", ...), Text carries inline content for leaf
// nodes, and Attrs carries presentation flags ("selected", "disabled",
// indent levels) as strings so the renderer stays uniform.
type Element struct {
	Kind     string
	Text     string
	Attrs    map[string]string
	Children []Element
}

// New creates an element of the given kind.
func New(kind string) Element {
	return Element{Kind: kind}
}

// Label creates a leaf text node.
func Label(text string) Element {
	return Element{Kind: "label", Text: text}
}

// WithText returns a copy with inline text set.
func (e Element) WithText(text string) Element {
	e.Text = text
	return e
}

// WithAttr returns a copy with the attribute set. The receiver's attr
// map is never mutated; copies share nothing.
func (e Element) WithAttr(key, value string) Element {
	attrs := make(map[string]string, len(e.Attrs)+1)
	for k, v := range e.Attrs {
		attrs[k] = v
	}
	attrs[key] = value
	e.Attrs = attrs
	return e
}

// WithChild returns a copy with the child appended.
func (e Element) WithChild(child Element) Element {
	children := make([]Element, 0, len(e.Children)+1)
	children = append(children, e.Children...)
	children = append(children, child)
	e.Children = children
	return e
}

// Attr returns the attribute value, or "" when unset.
func (e Element) Attr(key string) string {
	return e.Attrs[key]
}

// Flag reports whether a boolean attribute is set to "true".
func (e Element) Flag(key string) bool {
	return e.Attrs[key] == "true"
}

// FindAll returns every descendant (including e itself) of the given
// kind, in depth-first order.
func (e Element) FindAll(kind string) []Element {
	var out []Element
	if e.Kind == kind {
		out = append(out, e)
	}
	for _, c := range e.Children {
		out = append(out, c.FindAll(kind)...)
	}
	return out
}
