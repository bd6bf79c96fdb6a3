package appstate

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

func shortcutOf(e key.Event) KeyShortcut {
	r := e.Rune
	if r > 0 {
		r = unicode.ToLower(r)
	}
	return KeyShortcut{Rune: r, Code: e.Code, Modifiers: e.Modifiers & (key.ModControl | key.ModShift | key.ModAlt)}
}

var panKeyNames = map[string][]key.Code{
	"space":   {key.CodeSpacebar},
	"shift":   {key.CodeLeftShift, key.CodeRightShift},
	"control": {key.CodeLeftControl, key.CodeRightControl},
	"ctrl":    {key.CodeLeftControl, key.CodeRightControl},
	"alt":     {key.CodeLeftAlt, key.CodeRightAlt},
	"meta":    {key.CodeLeftGUI, key.CodeRightGUI},
	"tab":     {key.CodeTab},
}

// ParsePanKey maps a key name such as "space", "shift" or a single letter
// to the codes that activate panning.
func ParsePanKey(name string) ([]key.Code, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if codes, ok := panKeyNames[name]; ok {
		return codes, nil
	}
	if len(name) == 1 && name[0] >= 'a' && name[0] <= 'z' {
		return []key.Code{key.CodeA + key.Code(name[0]-'a')}, nil
	}
	return nil, fmt.Errorf("unknown pan key %q", name)
}
