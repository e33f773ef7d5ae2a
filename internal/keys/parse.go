package keys

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// ErrSyntax is returned when a notation string does not parse as a whole.
var ErrSyntax = errors.New("invalid key notation")

// Parse turns key notation into events.
//
// A token is one of:
//   - "<" MODS CODE ">" where MODS is one or more of "C-", "S-", "M-", "A-"
//     in any order (folded together) and CODE is a special name or a character
//   - "<" SPECIAL ">" with no modifiers, e.g. "<ESC>", "<CR>"
//   - a bare character; "\<", "\>" and "\\" escape the three meta characters
//
// An unescaped "<" that does not open a valid token is taken literally.
// The whole string must parse; a stray backslash is an error.
func Parse(s string) ([]Event, error) {
	p := notation{src: s}
	var out []Event
	for p.pos < len(p.src) {
		ev, err := p.token()
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// MustParse is Parse for fixed notation in tests and defaults.
func MustParse(s string) []Event {
	evs, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return evs
}

type notation struct {
	src string
	pos int
}

func (p *notation) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *notation) token() (Event, error) {
	if p.src[p.pos] == '<' {
		if ev, n, ok := bracketed(p.src[p.pos:]); ok {
			p.pos += n
			return ev, nil
		}
	}
	r, n, err := charCode(p.src[p.pos:])
	if err != nil {
		return Event{}, p.errorf("%v", err)
	}
	p.pos += n
	return Char(r), nil
}

// bracketed matches a "<...>" token at the start of s and reports how many
// bytes it spans.
func bracketed(s string) (Event, int, bool) {
	i := 1
	var mod tcell.ModMask
	for i+2 <= len(s) {
		m, ok := modifier(s[i : i+2])
		if !ok {
			break
		}
		mod |= m
		i += 2
	}
	rest := s[i:]
	for _, sp := range special {
		if strings.HasPrefix(rest, sp.name+">") {
			return Special(sp.key, mod), i + len(sp.name) + 1, true
		}
	}
	if mod == tcell.ModNone {
		// Without modifiers only special names may be bracketed.
		return Event{}, 0, false
	}
	r, n, err := charCode(rest)
	if err != nil || !strings.HasPrefix(rest[n:], ">") {
		return Event{}, 0, false
	}
	return Event{Key: tcell.KeyRune, Rune: r, Mod: mod}, i + n + 1, true
}

func modifier(s string) (tcell.ModMask, bool) {
	switch s {
	case "C-":
		return tcell.ModCtrl, true
	case "S-":
		return tcell.ModShift, true
	case "M-":
		return tcell.ModMeta, true
	case "A-":
		return tcell.ModAlt, true
	}
	return tcell.ModNone, false
}

func charCode(s string) (rune, int, error) {
	if s == "" {
		return 0, 0, errors.New("missing character")
	}
	if s[0] == '\\' {
		if len(s) < 2 {
			return 0, 0, errors.New("dangling backslash")
		}
		switch s[1] {
		case '\\', '<', '>':
			return rune(s[1]), 2, nil
		}
		return 0, 0, fmt.Errorf("cannot escape %q", s[1])
	}
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && n <= 1 {
		return 0, 0, errors.New("invalid utf-8")
	}
	return r, n, nil
}
