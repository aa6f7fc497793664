package keys

import "strings"

// Event is one key press. Key uses the names a browser reports
// ("ArrowLeft", "Home", " ", "s") so bindings read the same on every
// front end.
type Event struct {
	Key   string
	Shift bool
	Ctrl  bool
	Meta  bool
}

// Mod reports whether the platform command modifier is held.
func (e Event) Mod() bool { return e.Ctrl || e.Meta }

func (e Event) String() string {
	var b strings.Builder
	if e.Ctrl {
		b.WriteString("ctrl+")
	}
	if e.Meta {
		b.WriteString("meta+")
	}
	if e.Shift {
		b.WriteString("shift+")
	}
	if e.Key == " " {
		b.WriteString("space")
	} else {
		b.WriteString(e.Key)
	}
	return b.String()
}

var namedKeys = map[string]string{
	"space":     " ",
	" ":         " ",
	"left":      "ArrowLeft",
	"right":     "ArrowRight",
	"up":        "ArrowUp",
	"down":      "ArrowDown",
	"home":      "Home",
	"end":       "End",
	"delete":    "Delete",
	"backspace": "Backspace",
	"enter":     "Enter",
	"esc":       "Escape",
	"tab":       "Tab",
	"pgup":      "PageUp",
	"pgdown":    "PageDown",
}

// Parse turns a terminal key string such as "shift+left", "ctrl+s" or
// "alt+=" into an Event. Terminals cannot send ctrl with punctuation, so
// alt stands in for the command key.
func Parse(s string) Event {
	var ev Event
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+"):
			ev.Ctrl = true
			s = s[len("ctrl+"):]
			continue
		case strings.HasPrefix(s, "alt+"):
			ev.Meta = true
			s = s[len("alt+"):]
			continue
		case strings.HasPrefix(s, "shift+"):
			ev.Shift = true
			s = s[len("shift+"):]
			continue
		}
		break
	}
	if name, ok := namedKeys[s]; ok {
		ev.Key = name
	} else {
		ev.Key = s
	}
	return ev
}
