package keys

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestParseModifiersSpecialsAndEscapes(t *testing.T) {
	got, err := Parse(`<C-S-C><A-M-ESC>\<ESC\>\\<CR>`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []Event{
		{Key: tcell.KeyRune, Rune: 'C', Mod: tcell.ModCtrl | tcell.ModShift},
		{Key: tcell.KeyEscape, Mod: tcell.ModAlt | tcell.ModMeta},
		Char('<'),
		Char('E'),
		Char('S'),
		Char('C'),
		Char('>'),
		Char('\\'),
		Enter,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse = %v, want %v", got, want)
	}
}

func TestParseModifierOrderFolds(t *testing.T) {
	a := MustParse("<C-A-x>")
	b := MustParse("<A-C-x>")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("<C-A-x> = %v, <A-C-x> = %v", a, b)
	}
	if a[0].Mod != tcell.ModCtrl|tcell.ModAlt {
		t.Fatalf("mod = %v, want ctrl|alt", a[0].Mod)
	}
}

func TestParseLiteralAngle(t *testing.T) {
	got := MustParse("<x>")
	want := []Event{Char('<'), Char('x'), Char('>')}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse(<x>) = %v, want %v", got, want)
	}
}

func TestParseEmpty(t *testing.T) {
	got, err := Parse("")
	if err != nil || len(got) != 0 {
		t.Fatalf("Parse(\"\") = %v, %v; want empty, nil", got, err)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{`\`, `ab\c`, `<C-x>\n`} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Parse(%q) error = %v, want ErrSyntax", in, err)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, in := range []string{
		`\<\>\\`,
		`<C-S-C><A-M-ESC>\<ESC\>\\<CR>`,
		`d2w"ayy<ESC>`,
		`<C-\>><TAB><BS>`,
	} {
		t.Run(in, func(t *testing.T) {
			evs := MustParse(in)
			again, err := Parse(Format(evs))
			if err != nil {
				t.Fatalf("re-parse %q: %v", Format(evs), err)
			}
			if !reflect.DeepEqual(evs, again) {
				t.Fatalf("round trip %q -> %q -> %v, want %v", in, Format(evs), again, evs)
			}
		})
	}
}

func TestFormatEscapesLiterals(t *testing.T) {
	got := Format([]Event{Char('<'), Char('>'), Char('\\'), Char('a')})
	if got != `\<\>\\a` {
		t.Fatalf("Format = %q, want %q", got, `\<\>\\a`)
	}
}

func TestFromTcellControlLetters(t *testing.T) {
	ev := FromTcell(tcell.NewEventKey(tcell.KeyCtrlW, 0, tcell.ModCtrl))
	if ev != Ctrl('w') {
		t.Fatalf("ctrl+w = %v, want %v", ev, Ctrl('w'))
	}
	if got := FromTcell(tcell.NewEventKey(tcell.KeyTab, 0, 0)); got != Tab {
		t.Fatalf("tab = %v, want %v", got, Tab)
	}
	if got := FromTcell(tcell.NewEventKey(tcell.KeyRune, 'q', 0)); got != Char('q') {
		t.Fatalf("rune = %v, want %v", got, Char('q'))
	}
	if got := FromTcell(tcell.NewEventKey(tcell.KeyBackspace, 0, 0)); got != Backspace {
		t.Fatalf("backspace = %v, want %v", got, Backspace)
	}
}
