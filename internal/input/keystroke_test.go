package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeystroke_BareKey(t *testing.T) {
	k, err := ParseKeystroke("escape")
	require.NoError(t, err)
	assert.Equal(t, "escape", k.Key)
	assert.False(t, k.Modifiers.Any())
}

func TestParseKeystroke_Modifiers(t *testing.T) {
	k, err := ParseKeystroke("cmd-shift-p")
	require.NoError(t, err)
	assert.True(t, k.Modifiers.Cmd)
	assert.True(t, k.Modifiers.Shift)
	assert.False(t, k.Modifiers.Ctrl)
	assert.Equal(t, "p", k.Key)
}

func TestParseKeystroke_LiteralMinusKey(t *testing.T) {
	k, err := ParseKeystroke("cmd--")
	require.NoError(t, err)
	assert.True(t, k.Modifiers.Cmd)
	assert.Equal(t, "-", k.Key)
}

func TestParseKeystroke_Malformed(t *testing.T) {
	cases := []string{
		"",
		"cmd-",
		"meta-p",
		"cmd-super-p",
	}
	for _, source := range cases {
		_, err := ParseKeystroke(source)
		assert.Error(t, err, "expected %q to be rejected", source)
	}
}

func TestParseKeystroke_RoundTripsThroughString(t *testing.T) {
	for _, source := range []string{"escape", "cmd-p", "ctrl-alt-shift-cmd-fn-x"} {
		k, err := ParseKeystroke(source)
		require.NoError(t, err)
		assert.Equal(t, source, k.String())
	}
}

func TestParseSequence_LeftToRightOrder(t *testing.T) {
	keystrokes, err := ParseSequence("cmd-p escape")
	require.NoError(t, err)
	require.Len(t, keystrokes, 2)
	assert.Equal(t, "cmd-p", keystrokes[0].String())
	assert.Equal(t, "escape", keystrokes[1].String())
}

func TestParseSequence_MalformedTokenFails(t *testing.T) {
	_, err := ParseSequence("cmd-p bogus- escape")
	assert.Error(t, err)
}

func TestParseSequence_Empty(t *testing.T) {
	_, err := ParseSequence("")
	assert.Error(t, err)
	_, err = ParseSequence("   ")
	assert.Error(t, err)
}

func TestParseText_PerCharacter(t *testing.T) {
	keystrokes := ParseText("ab c")
	require.Len(t, keystrokes, 4)
	assert.Equal(t, "a", keystrokes[0].Key)
	assert.Equal(t, "b", keystrokes[1].Key)
	assert.Equal(t, "space", keystrokes[2].Key)
	assert.Equal(t, "c", keystrokes[3].Key)
}

func TestParseText_UppercaseBecomesShifted(t *testing.T) {
	keystrokes := ParseText("Hi")
	require.Len(t, keystrokes, 2)
	assert.True(t, keystrokes[0].Modifiers.Shift)
	assert.Equal(t, "h", keystrokes[0].Key)
	assert.False(t, keystrokes[1].Modifiers.Shift)
	assert.Equal(t, "i", keystrokes[1].Key)
}

func TestParseText_NFCNormalization(t *testing.T) {
	// "é" as a precomposed rune vs "e" + combining acute accent.
	composed := ParseText("é")
	decomposed := ParseText("é")
	assert.Equal(t, composed, decomposed, "both spellings must produce the same keystrokes")
}

func TestModifiers_StringCanonicalOrder(t *testing.T) {
	m := Modifiers{Cmd: true, Ctrl: true, Shift: true}
	assert.Equal(t, "ctrl-shift-cmd", m.String())
}

func TestEventKinds(t *testing.T) {
	assert.Equal(t, "key_down", KeyDownEvent{}.Kind())
	assert.Equal(t, "mouse_move", MouseMoveEvent{}.Kind())
	assert.Equal(t, "mouse_down", MouseDownEvent{}.Kind())
	assert.Equal(t, "mouse_up", MouseUpEvent{}.Kind())
	assert.Equal(t, "modifiers_changed", ModifiersChangedEvent{}.Kind())
}
