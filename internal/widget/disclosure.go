package widget

import (
	"strconv"

	"github.com/loupe-ui/loupe/internal/element"
	"github.com/loupe-ui/loupe/internal/input"
	"github.com/loupe-ui/loupe/internal/window"
)

// Disclosure is a standalone expand/collapse chevron. ListItem embeds
// the same behavior inline; this form mounts anywhere a tree or
// section header needs one.
type Disclosure struct {
	id       string
	expanded bool
	onToggle func(expanded bool)
}

// NewDisclosure creates a collapsed disclosure.
func NewDisclosure(id string) *Disclosure {
	return &Disclosure{id: id}
}

// Expanded sets the current state.
func (d *Disclosure) Expanded(v bool) *Disclosure { d.expanded = v; return d }

// OnToggle sets the handler; it receives the requested state.
func (d *Disclosure) OnToggle(fn func(expanded bool)) *Disclosure {
	d.onToggle = fn
	return d
}

// Render produces the element for the current state.
func (d *Disclosure) Render() element.Element {
	return element.New("disclosure").
		WithAttr("id", d.id).
		WithAttr("expanded", strconv.FormatBool(d.expanded))
}

// Mount registers the toggle's hit region and returns an unmount
// function.
func (d *Disclosure) Mount(w *window.Window, bounds window.Rect) (unmount func()) {
	return w.AddRegion(bounds, func(ev input.Event) bool {
		up, ok := ev.(input.MouseUpEvent)
		if !ok || up.Button != input.MouseButtonLeft {
			return false
		}
		if d.onToggle != nil {
			d.onToggle(!d.expanded)
		}
		return true
	})
}

// PreviewElement renders the disclosure for the component catalog.
func (d *Disclosure) PreviewElement() element.Element {
	return d.Render()
}
