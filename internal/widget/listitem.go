// Package widget implements the stock interactive components rendered
// into the element tree and mounted onto window hit regions, so
// simulated clicks exercise the same dispatch path production input
// takes.
package widget

import (
	"strconv"

	"github.com/loupe-ui/loupe/internal/element"
	"github.com/loupe-ui/loupe/internal/input"
	"github.com/loupe-ui/loupe/internal/window"
)

// Spacing selects the vertical density of a list item.
type Spacing int

const (
	SpacingDense Spacing = iota
	SpacingSparse
)

func (s Spacing) String() string {
	if s == SpacingSparse {
		return "sparse"
	}
	return "dense"
}

// ListItem is a builder for one row of a list: optional start/end
// slots, an optional disclosure toggle, indentation, and click
// handlers. Configure with the chained setters, then Render for the
// element tree or Mount to receive input.
type ListItem struct {
	id          string
	spacing     Spacing
	selected    bool
	disabled    bool
	indentLevel int
	indentStep  int

	startSlot    *element.Element
	endSlot      *element.Element
	endHoverSlot *element.Element

	// disclosure distinguishes "no toggle" (nil) from a toggle in
	// either state.
	disclosure *bool

	children []element.Element

	onClick              func(input.MouseUpEvent)
	onToggle             func(expanded bool)
	onSecondaryMouseDown func(input.MouseDownEvent)
}

// NewListItem creates a dense, enabled list item.
func NewListItem(id string) *ListItem {
	return &ListItem{id: id, indentStep: 2}
}

func (li *ListItem) Spacing(s Spacing) *ListItem { li.spacing = s; return li }
func (li *ListItem) Selected(v bool) *ListItem   { li.selected = v; return li }
func (li *ListItem) Disabled(v bool) *ListItem   { li.disabled = v; return li }

// IndentLevel sets how many indent steps the row shifts right.
func (li *ListItem) IndentLevel(level int) *ListItem { li.indentLevel = level; return li }

// IndentStep sets the width of one indent step in cells.
func (li *ListItem) IndentStep(cells int) *ListItem { li.indentStep = cells; return li }

// StartSlot places an element at the row's leading edge.
func (li *ListItem) StartSlot(e element.Element) *ListItem { li.startSlot = &e; return li }

// EndSlot places an element at the row's trailing edge.
func (li *ListItem) EndSlot(e element.Element) *ListItem { li.endSlot = &e; return li }

// EndHoverSlot places an element shown in place of the end slot while
// the pointer hovers the row.
func (li *ListItem) EndHoverSlot(e element.Element) *ListItem { li.endHoverSlot = &e; return li }

// Toggle adds a disclosure toggle in the given expansion state.
func (li *ListItem) Toggle(expanded bool) *ListItem { li.disclosure = &expanded; return li }

// Child appends content to the row body.
func (li *ListItem) Child(e element.Element) *ListItem {
	li.children = append(li.children, e)
	return li
}

// OnClick sets the primary-button click handler. Disabled items never
// fire it.
func (li *ListItem) OnClick(fn func(input.MouseUpEvent)) *ListItem {
	li.onClick = fn
	return li
}

// OnToggle sets the disclosure handler; it receives the state the
// toggle is requesting, not the current one.
func (li *ListItem) OnToggle(fn func(expanded bool)) *ListItem {
	li.onToggle = fn
	return li
}

// OnSecondaryMouseDown sets the secondary-button press handler.
func (li *ListItem) OnSecondaryMouseDown(fn func(input.MouseDownEvent)) *ListItem {
	li.onSecondaryMouseDown = fn
	return li
}

// Render produces the element tree for the row's current
// configuration.
func (li *ListItem) Render() element.Element {
	e := element.New("list_item").
		WithAttr("id", li.id).
		WithAttr("spacing", li.spacing.String())
	if li.selected {
		e = e.WithAttr("selected", "true")
	}
	if li.disabled {
		e = e.WithAttr("disabled", "true")
	}
	if li.indentLevel > 0 {
		e = e.WithAttr("indent", strconv.Itoa(li.indentLevel*li.indentStep))
	}

	if li.startSlot != nil {
		e = e.WithChild(li.startSlot.WithAttr("slot", "start"))
	}
	if li.disclosure != nil {
		e = e.WithChild(element.New("disclosure").
			WithAttr("expanded", strconv.FormatBool(*li.disclosure)))
	}
	for _, c := range li.children {
		e = e.WithChild(c)
	}
	if li.endSlot != nil {
		e = e.WithChild(li.endSlot.WithAttr("slot", "end"))
	}
	if li.endHoverSlot != nil {
		e = e.WithChild(li.endHoverSlot.WithAttr("slot", "end_hover"))
	}
	return e
}

// Mount registers the row's hit regions on the window and returns an
// unmount function. The disclosure toggle, when present, occupies the
// first cell after the indent and sits above the row region, so a
// click there toggles instead of activating the row.
func (li *ListItem) Mount(w *window.Window, bounds window.Rect) (unmount func()) {
	removeRow := w.AddRegion(bounds, li.handleRowEvent)

	var removeToggle func()
	if li.disclosure != nil {
		toggleX := bounds.MinX + li.indentLevel*li.indentStep
		toggle := window.Rect{
			MinX: toggleX, MinY: bounds.MinY,
			MaxX: toggleX + 1, MaxY: bounds.MaxY,
		}
		removeToggle = w.AddRegion(toggle, li.handleToggleEvent)
	}

	return func() {
		if removeToggle != nil {
			removeToggle()
		}
		removeRow()
	}
}

func (li *ListItem) handleRowEvent(ev input.Event) bool {
	if li.disabled {
		// Disabled rows swallow clicks so nothing underneath activates.
		_, down := ev.(input.MouseDownEvent)
		_, up := ev.(input.MouseUpEvent)
		return down || up
	}

	switch e := ev.(type) {
	case input.MouseUpEvent:
		if e.Button == input.MouseButtonLeft && li.onClick != nil {
			li.onClick(e)
			return true
		}
	case input.MouseDownEvent:
		if e.Button == input.MouseButtonRight && li.onSecondaryMouseDown != nil {
			li.onSecondaryMouseDown(e)
			return true
		}
	}
	return false
}

func (li *ListItem) handleToggleEvent(ev input.Event) bool {
	if li.disabled || li.disclosure == nil {
		return false
	}
	up, ok := ev.(input.MouseUpEvent)
	if !ok || up.Button != input.MouseButtonLeft {
		return false
	}
	if li.onToggle != nil {
		li.onToggle(!*li.disclosure)
	}
	return true
}

// PreviewElement renders the item for the component catalog.
func (li *ListItem) PreviewElement() element.Element {
	return li.Render()
}
