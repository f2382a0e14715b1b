package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElement_CopyOnWrite(t *testing.T) {
	base := New("list_item").WithAttr("selected", "true")
	derived := base.WithAttr("disabled", "true").WithChild(Label("hello"))

	assert.Empty(t, base.Attr("disabled"), "derived attrs never leak into the base")
	assert.Empty(t, base.Children)
	assert.True(t, derived.Flag("selected"))
	assert.True(t, derived.Flag("disabled"))
}

func TestElement_FindAllDepthFirst(t *testing.T) {
	tree := New("list").
		WithChild(New("list_item").WithChild(Label("a"))).
		WithChild(New("list_item").WithChild(Label("b")))

	labels := tree.FindAll("label")
	assert.Equal(t, []string{"a", "b"}, []string{labels[0].Text, labels[1].Text})
}

func TestRender_Canonical(t *testing.T) {
	tree := New("list_item").
		WithAttr("selected", "true").
		WithAttr("indent", "2").
		WithChild(Label("Open file")).
		WithChild(New("disclosure").WithAttr("expanded", "false"))

	want := "list_item[indent=2 selected=true]\n" +
		"  label \"Open file\"\n" +
		"  disclosure[expanded=false]\n"
	assert.Equal(t, want, Render(tree))
}

func TestRender_Deterministic(t *testing.T) {
	build := func() Element {
		return New("row").WithAttr("b", "2").WithAttr("a", "1").WithChild(Label("x"))
	}
	assert.Equal(t, Render(build()), Render(build()))
}

func TestRender_BareNode(t *testing.T) {
	assert.Equal(t, "spacer\n", Render(New("spacer")))
}
