package element

import (
	"fmt"
	"sort"
	"strings"
)

// Render produces the canonical text form of an element tree. The
// output is deterministic: attributes sort lexicographically, children
// render in declaration order, nesting indents by two spaces.
//
// One node renders as
//
//	kind[attr=value attr=value] "text"
//
// with the bracket and quote segments omitted when empty.
func Render(e Element) string {
	var b strings.Builder
	renderNode(&b, e, 0)
	return b.String()
}

func renderNode(b *strings.Builder, e Element, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(e.Kind)

	if len(e.Attrs) > 0 {
		keys := make([]string, 0, len(e.Attrs))
		for k := range e.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteByte('[')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "%s=%s", k, e.Attrs[k])
		}
		b.WriteByte(']')
	}

	if e.Text != "" {
		fmt.Fprintf(b, " %q", e.Text)
	}
	b.WriteByte('\n')

	for _, c := range e.Children {
		renderNode(b, c, depth+1)
	}
}
