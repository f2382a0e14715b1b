// Package input defines the synthetic input vocabulary fed through the
// dispatch path: keystrokes parsed from literal test strings, and the
// closed set of primitive input events.
package input

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Modifiers is the set of modifier keys held during an input event.
type Modifiers struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Cmd   bool
	Fn    bool
}

// Any reports whether at least one modifier is held.
func (m Modifiers) Any() bool {
	return m.Ctrl || m.Alt || m.Shift || m.Cmd || m.Fn
}

// String renders the modifiers in canonical ctrl-alt-shift-cmd-fn
// order, e.g. "ctrl-shift".
func (m Modifiers) String() string {
	var parts []string
	if m.Ctrl {
		parts = append(parts, "ctrl")
	}
	if m.Alt {
		parts = append(parts, "alt")
	}
	if m.Shift {
		parts = append(parts, "shift")
	}
	if m.Cmd {
		parts = append(parts, "cmd")
	}
	if m.Fn {
		parts = append(parts, "fn")
	}
	return strings.Join(parts, "-")
}

// Keystroke is a single key press with its modifiers.
type Keystroke struct {
	Modifiers Modifiers
	Key       string
}

// String renders the keystroke in the same grammar ParseKeystroke
// accepts, e.g. "cmd-shift-p".
func (k Keystroke) String() string {
	mods := k.Modifiers.String()
	if mods == "" {
		return k.Key
	}
	return mods + "-" + k.Key
}

// ParseKeystroke parses a single keystroke token such as "escape",
// "cmd-p", or "ctrl-shift-tab". Every dash-separated part except the
// last must be a modifier name; the last part is the key. A trailing
// "--" spells the literal "-" key ("cmd--" is cmd plus minus).
//
// A malformed token is a test-authoring error: callers in the harness
// fail the test immediately rather than recovering.
func ParseKeystroke(source string) (Keystroke, error) {
	if source == "" {
		return Keystroke{}, fmt.Errorf("empty keystroke")
	}

	parts := strings.Split(source, "-")

	// "cmd--" splits to ["cmd", "", ""]: collapse the trailing pair
	// back into a literal "-" key.
	if n := len(parts); n >= 2 && parts[n-1] == "" && parts[n-2] == "" {
		parts = append(parts[:n-2], "-")
	}

	var k Keystroke
	for i, part := range parts {
		last := i == len(parts)-1
		if last {
			if part == "" {
				return Keystroke{}, fmt.Errorf("keystroke %q has no key", source)
			}
			k.Key = part
			break
		}
		switch part {
		case "ctrl":
			k.Modifiers.Ctrl = true
		case "alt":
			k.Modifiers.Alt = true
		case "shift":
			k.Modifiers.Shift = true
		case "cmd":
			k.Modifiers.Cmd = true
		case "fn":
			k.Modifiers.Fn = true
		default:
			return Keystroke{}, fmt.Errorf("keystroke %q: unknown modifier %q", source, part)
		}
	}
	return k, nil
}

// ParseSequence parses a space-separated keystroke string such as
// "cmd-p escape" into its keystrokes in left-to-right order. The
// literal space key is spelled "space".
func ParseSequence(source string) ([]Keystroke, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("empty keystroke sequence")
	}

	tokens := strings.Split(source, " ")
	keystrokes := make([]Keystroke, 0, len(tokens))
	for _, token := range tokens {
		k, err := ParseKeystroke(token)
		if err != nil {
			return nil, err
		}
		keystrokes = append(keystrokes, k)
	}
	return keystrokes, nil
}

// ParseText decomposes literal text into one keystroke per character,
// in order. The text is NFC-normalized first so composed and
// decomposed spellings of the same character produce the same
// keystrokes. Uppercase letters become shift plus the lowercase key;
// a space becomes the "space" key.
func ParseText(text string) []Keystroke {
	normalized := norm.NFC.String(text)
	keystrokes := make([]Keystroke, 0, len(normalized))
	for _, r := range normalized {
		var k Keystroke
		switch {
		case r == ' ':
			k.Key = "space"
		case r == '\n':
			k.Key = "enter"
		case r == '\t':
			k.Key = "tab"
		case unicode.IsUpper(r):
			k.Modifiers.Shift = true
			k.Key = string(unicode.ToLower(r))
		default:
			k.Key = string(r)
		}
		keystrokes = append(keystrokes, k)
	}
	return keystrokes
}
