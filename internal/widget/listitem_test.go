package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loupe-ui/loupe/internal/element"
	"github.com/loupe-ui/loupe/internal/entity"
	"github.com/loupe-ui/loupe/internal/executor"
	"github.com/loupe-ui/loupe/internal/harness"
	"github.com/loupe-ui/loupe/internal/input"
	"github.com/loupe-ui/loupe/internal/registry"
	"github.com/loupe-ui/loupe/internal/window"
)

func newClickContext(t *testing.T) *harness.Context {
	app := entity.NewApp()
	w := window.New(app, window.Size{Width: 80, Height: 24})
	return harness.NewWindowContext(t, w, executor.NewDispatcher())
}

func rowBounds() window.Rect {
	return window.Rect{MinX: 0, MinY: 0, MaxX: 40, MaxY: 1}
}

func TestListItem_RenderAttrs(t *testing.T) {
	e := NewListItem("open-file").
		Spacing(SpacingSparse).
		Selected(true).
		IndentLevel(2).
		Child(element.Label("Open file")).
		Render()

	assert.Equal(t, "list_item", e.Kind)
	assert.Equal(t, "open-file", e.Attr("id"))
	assert.Equal(t, "sparse", e.Attr("spacing"))
	assert.True(t, e.Flag("selected"))
	assert.Equal(t, "4", e.Attr("indent"), "two levels at the default two-cell step")
}

func TestListItem_RenderSlotsAndDisclosure(t *testing.T) {
	e := NewListItem("row").
		StartSlot(element.New("icon")).
		Toggle(true).
		Child(element.Label("body")).
		EndSlot(element.New("badge")).
		Render()

	require.Len(t, e.Children, 4)
	assert.Equal(t, "start", e.Children[0].Attr("slot"))
	assert.Equal(t, "disclosure", e.Children[1].Kind)
	assert.Equal(t, "true", e.Children[1].Attr("expanded"))
	assert.Equal(t, "end", e.Children[3].Attr("slot"))
}

func TestListItem_ClickThroughWindow(t *testing.T) {
	cx := newClickContext(t)

	var clicked bool
	li := NewListItem("row").OnClick(func(input.MouseUpEvent) { clicked = true })
	li.Mount(cx.Window(), rowBounds())

	cx.SimulateClick(input.Point{X: 10, Y: 0}, input.Modifiers{})

	assert.True(t, clicked)
}

func TestListItem_DisabledSwallowsClick(t *testing.T) {
	cx := newClickContext(t)

	var clicked, underneath bool
	cx.Window().AddRegion(rowBounds(), func(ev input.Event) bool {
		underneath = true
		return true
	})
	li := NewListItem("row").
		Disabled(true).
		OnClick(func(input.MouseUpEvent) { clicked = true })
	li.Mount(cx.Window(), rowBounds())

	cx.SimulateClick(input.Point{X: 10, Y: 0}, input.Modifiers{})

	assert.False(t, clicked)
	assert.False(t, underneath, "disabled rows consume the click")
}

func TestListItem_ToggleRegionFiresRequestedState(t *testing.T) {
	cx := newClickContext(t)

	var requested []bool
	var clicked bool
	li := NewListItem("row").
		IndentLevel(1).
		Toggle(false).
		OnToggle(func(expanded bool) { requested = append(requested, expanded) }).
		OnClick(func(input.MouseUpEvent) { clicked = true })
	li.Mount(cx.Window(), rowBounds())

	// One indent level at the default step puts the toggle at x=2.
	cx.SimulateClick(input.Point{X: 2, Y: 0}, input.Modifiers{})

	assert.Equal(t, []bool{true}, requested, "handler receives the requested state")
	assert.False(t, clicked, "toggle clicks never activate the row")
}

func TestListItem_BodyClickSkipsToggle(t *testing.T) {
	cx := newClickContext(t)

	var toggled, clicked bool
	li := NewListItem("row").
		Toggle(false).
		OnToggle(func(bool) { toggled = true }).
		OnClick(func(input.MouseUpEvent) { clicked = true })
	li.Mount(cx.Window(), rowBounds())

	cx.SimulateClick(input.Point{X: 20, Y: 0}, input.Modifiers{})

	assert.True(t, clicked)
	assert.False(t, toggled)
}

func TestListItem_SecondaryMouseDown(t *testing.T) {
	cx := newClickContext(t)

	var secondary bool
	li := NewListItem("row").
		OnSecondaryMouseDown(func(input.MouseDownEvent) { secondary = true })
	li.Mount(cx.Window(), rowBounds())

	cx.SimulateMouseDown(input.Point{X: 10, Y: 0}, input.MouseButtonRight, input.Modifiers{})

	assert.True(t, secondary)
}

func TestListItem_UnmountStopsDispatch(t *testing.T) {
	cx := newClickContext(t)

	var clicks int
	li := NewListItem("row").OnClick(func(input.MouseUpEvent) { clicks++ })
	unmount := li.Mount(cx.Window(), rowBounds())

	cx.SimulateClick(input.Point{X: 10, Y: 0}, input.Modifiers{})
	unmount()
	cx.SimulateClick(input.Point{X: 10, Y: 0}, input.Modifiers{})

	assert.Equal(t, 1, clicks)
}

func TestDisclosure_ToggleThroughWindow(t *testing.T) {
	cx := newClickContext(t)

	var requested []bool
	d := NewDisclosure("chevron").
		Expanded(true).
		OnToggle(func(expanded bool) { requested = append(requested, expanded) })
	d.Mount(cx.Window(), window.Rect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1})

	cx.SimulateClick(input.Point{X: 0, Y: 0}, input.Modifiers{})

	assert.Equal(t, []bool{false}, requested)
}

func TestRegisterAll_CatalogEntries(t *testing.T) {
	r := registry.New()
	require.NoError(t, RegisterAll(r))

	var names []string
	for _, e := range r.All() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"disclosure", "list_item"}, names)

	li, ok := r.Lookup("list_item")
	require.True(t, ok)
	preview, ok := li.Preview()
	require.True(t, ok)
	assert.Equal(t, "list_item", preview.Kind)
	assert.True(t, preview.Flag("selected"))
}

func TestRegisterAll_DuplicateRegistrationErrors(t *testing.T) {
	r := registry.New()
	require.NoError(t, RegisterAll(r))
	assert.Error(t, RegisterAll(r))
}
