package keys

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Event is one key press: a tcell key code (tcell.KeyRune for characters),
// the character for rune keys, and the folded modifier set.
type Event struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// Char returns an unmodified character key.
func Char(r rune) Event {
	return Event{Key: tcell.KeyRune, Rune: r}
}

// Special returns a non-character key with the given modifiers.
func Special(k tcell.Key, mod tcell.ModMask) Event {
	return Event{Key: k, Mod: mod}
}

// Ctrl returns r with the control modifier.
func Ctrl(r rune) Event {
	return Event{Key: tcell.KeyRune, Rune: r, Mod: tcell.ModCtrl}
}

var (
	Esc       = Special(tcell.KeyEscape, tcell.ModNone)
	Enter     = Special(tcell.KeyEnter, tcell.ModNone)
	Tab       = Special(tcell.KeyTab, tcell.ModNone)
	Backspace = Special(tcell.KeyBackspace2, tcell.ModNone)
)

func (e Event) IsRune() bool {
	return e.Key == tcell.KeyRune
}

// Plain reports whether the event carries no modifiers.
func (e Event) Plain() bool {
	return e.Mod == tcell.ModNone
}

// Is reports whether the event is the unmodified character r.
func (e Event) Is(r rune) bool {
	return e.Key == tcell.KeyRune && e.Mod == tcell.ModNone && e.Rune == r
}

// IsEsc reports whether the event is an Escape press, with or without modifiers.
func (e Event) IsEsc() bool {
	return e.Key == tcell.KeyEscape
}

// special holds the bracketed names the notation understands, in match order.
var special = []struct {
	name string
	key  tcell.Key
}{
	{"ESC", tcell.KeyEscape},
	{"CR", tcell.KeyEnter},
	{"TAB", tcell.KeyTab},
	{"BS", tcell.KeyBackspace2},
	{"DEL", tcell.KeyDelete},
	{"LEFT", tcell.KeyLeft},
	{"RIGHT", tcell.KeyRight},
	{"UP", tcell.KeyUp},
	{"DOWN", tcell.KeyDown},
	{"HOME", tcell.KeyHome},
	{"END", tcell.KeyEnd},
}

func specialName(k tcell.Key) string {
	for _, s := range special {
		if s.key == k {
			return s.name
		}
	}
	return ""
}

// String renders the event in key notation. Events with no notation
// (unnamed special keys) render as "<?>".
func (e Event) String() string {
	var code string
	if e.IsRune() {
		code = escapeRune(e.Rune)
	} else {
		code = specialName(e.Key)
		if code == "" {
			return "<?>"
		}
	}
	if e.Mod == tcell.ModNone {
		if e.IsRune() {
			return code
		}
		return "<" + code + ">"
	}
	var b strings.Builder
	b.WriteByte('<')
	if e.Mod&tcell.ModCtrl != 0 {
		b.WriteString("C-")
	}
	if e.Mod&tcell.ModShift != 0 {
		b.WriteString("S-")
	}
	if e.Mod&tcell.ModMeta != 0 {
		b.WriteString("M-")
	}
	if e.Mod&tcell.ModAlt != 0 {
		b.WriteString("A-")
	}
	b.WriteString(code)
	b.WriteByte('>')
	return b.String()
}

func escapeRune(r rune) string {
	switch r {
	case '\\', '<', '>':
		return "\\" + string(r)
	}
	return string(r)
}

// Format renders a sequence of events in key notation. Parse(Format(evs))
// yields evs for every event that has a notation.
func Format(evs []Event) string {
	var b strings.Builder
	for _, ev := range evs {
		b.WriteString(ev.String())
	}
	return b.String()
}

// FromTcell converts a terminal key event. tcell reports Ctrl+letter as
// KeyCtrlA..KeyCtrlZ; those become lowercase runes with ModCtrl so that
// "<C-w>" in notation matches what the terminal delivers.
func FromTcell(ev *tcell.EventKey) Event {
	k := ev.Key()
	mod := ev.Modifiers()
	switch k {
	case tcell.KeyRune:
		// The rune already carries a lone Shift.
		if mod == tcell.ModShift {
			mod = tcell.ModNone
		}
		return Event{Key: tcell.KeyRune, Rune: ev.Rune(), Mod: mod}
	// Check these before the control range: KeyTab == KeyCtrlI, KeyEnter == KeyCtrlM.
	case tcell.KeyTab, tcell.KeyEnter, tcell.KeyEscape:
		return Event{Key: k, Mod: mod &^ tcell.ModCtrl}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Event{Key: tcell.KeyBackspace2, Mod: mod &^ tcell.ModCtrl}
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return Event{Key: tcell.KeyRune, Rune: 'a' + rune(k-tcell.KeyCtrlA), Mod: mod | tcell.ModCtrl}
	}
	return Event{Key: k, Mod: mod}
}
