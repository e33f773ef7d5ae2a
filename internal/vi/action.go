package vi

import "fmt"

// ActionKind enumerates the primitive edits a resolved command expands to.
type ActionKind int

const (
	ActMoveCursor ActionKind = iota
	ActDelete
	ActInsert
	ActYank
	ActSetMode
	ActSelect
)

// Action is one primitive edit. Actions of one command are applied in
// order; each one's offsets refer to the buffer as left by the previous.
type Action struct {
	Kind ActionKind
	// Span is the range of ActDelete and ActYank, and the anchor (Start)
	// and head (End) of ActSelect.
	Span Span
	// At is the offset of ActMoveCursor and ActInsert.
	At       int
	Text     string
	Register rune
	Linewise bool
	Mode     Mode
}

func moveTo(off int) Action {
	return Action{Kind: ActMoveCursor, At: off}
}

func insertAt(off int, text string) Action {
	return Action{Kind: ActInsert, At: off, Text: text}
}

func deleteSpan(s Span, reg rune, linewise bool) Action {
	return Action{Kind: ActDelete, Span: s, Register: reg, Linewise: linewise}
}

// erase deletes without touching any register.
func erase(s Span) Action {
	return deleteSpan(s, '_', false)
}

func setMode(m Mode) Action {
	return Action{Kind: ActSetMode, Mode: m}
}

func (a Action) String() string {
	switch a.Kind {
	case ActMoveCursor:
		return fmt.Sprintf("move(%d)", a.At)
	case ActDelete:
		return fmt.Sprintf("delete(%d,%d reg=%q line=%t)", a.Span.Start, a.Span.End, a.Register, a.Linewise)
	case ActInsert:
		return fmt.Sprintf("insert(%d,%q)", a.At, a.Text)
	case ActYank:
		return fmt.Sprintf("yank(%d,%d reg=%q line=%t)", a.Span.Start, a.Span.End, a.Register, a.Linewise)
	case ActSetMode:
		return fmt.Sprintf("mode(%s)", a.Mode)
	case ActSelect:
		return fmt.Sprintf("select(%d,%d)", a.Span.Start, a.Span.End)
	}
	return fmt.Sprintf("action(%d)", int(a.Kind))
}

// Apply performs actions against buf, filling registers from deletes and
// yanks. Mode and selection actions carry no buffer effect.
func Apply(buf Editable, regs *Registers, actions []Action) {
	for _, a := range actions {
		switch a.Kind {
		case ActMoveCursor:
			buf.SetCursor(a.At)
		case ActInsert:
			buf.Insert(a.At, a.Text)
		case ActDelete:
			text := buf.Delete(a.Span.Start, a.Span.End)
			if regs != nil {
				regs.store(a.Register, text, a.Linewise, true)
			}
		case ActYank:
			if regs != nil {
				regs.store(a.Register, buf.Slice(a.Span.Start, a.Span.End), a.Linewise, false)
			}
		}
	}
}
