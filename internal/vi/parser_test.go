package vi

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"pgregory.net/rapid"

	"github.com/kobzarvs/qline/internal/keys"
)

func parseNotation(t *testing.T, notation string, mode Mode) ParseResult[Command] {
	t.Helper()
	evs, err := keys.Parse(notation)
	if err != nil {
		t.Fatalf("keys.Parse(%q): %v", notation, err)
	}
	return Parse(evs, mode)
}

func motionCmd(kind MotionKind) Target {
	return Target{Kind: TargetMotion, Motion: Motion{Kind: kind}}
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		keys   string
		mode   Mode
		status Status
	}{
		{"", ModeNormal, Incomplete},
		{"x", ModeNormal, Valid},
		{"g", ModeNormal, Incomplete},
		{"gg", ModeNormal, Valid},
		{"gx", ModeNormal, Invalid},
		{"q", ModeNormal, Invalid},
		{"<C-x>", ModeNormal, Invalid},
		{"2", ModeNormal, Incomplete},
		{"d", ModeNormal, Incomplete},
		{"d2", ModeNormal, Incomplete},
		{"dy", ModeNormal, Invalid},
		{"di", ModeNormal, Incomplete},
		{"diz", ModeNormal, Invalid},
		{"f", ModeNormal, Incomplete},
		{"f<C-a>", ModeNormal, Invalid},
		{"r", ModeNormal, Incomplete},
		{"\"", ModeNormal, Incomplete},
		{"\"!", ModeNormal, Invalid},
		{"\"a\"b", ModeNormal, Invalid},
		{"\"a", ModeNormal, Incomplete},
		{"<CR>", ModeNormal, Invalid},
		{"<LEFT>", ModeNormal, Valid},
		{"i", ModeVisual, Incomplete},
		{"q", ModeVisual, Invalid},
		{"a", ModeInsert, Valid},
		{"<C-w>", ModeInsert, Valid},
		{"", ModeReplace, Incomplete},
		{"3", ModeOperatorPending, Incomplete},
		{"dd", ModeOperatorPending, Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String()+"/"+tt.keys, func(t *testing.T) {
			res := parseNotation(t, tt.keys, tt.mode)
			if res.Status != tt.status {
				t.Fatalf("status = %v, want %v", res.Status, tt.status)
			}
		})
	}
}

func TestParseValidCommands(t *testing.T) {
	tests := []struct {
		keys     string
		mode     Mode
		want     Command
		consumed int
	}{
		{"x", ModeNormal, Command{Operator: OpDelete, Target: motionCmd(MotionRight)}, 1},
		{"0", ModeNormal, Command{Target: motionCmd(MotionLineStart)}, 1},
		{"10j", ModeNormal, Command{Count: 10, Target: motionCmd(MotionDown)}, 3},
		{"d0", ModeNormal, Command{Operator: OpDelete, Target: motionCmd(MotionLineStart)}, 2},
		{"2d3w", ModeNormal, Command{Count: 6, Operator: OpDelete, Target: motionCmd(MotionWordForward)}, 4},
		{"d2w", ModeNormal, Command{Count: 2, Operator: OpDelete, Target: motionCmd(MotionWordForward)}, 3},
		{"2dw", ModeNormal, Command{Count: 2, Operator: OpDelete, Target: motionCmd(MotionWordForward)}, 3},
		{"dd", ModeNormal, Command{Operator: OpDelete, Target: motionCmd(MotionLine)}, 2},
		{">>", ModeNormal, Command{Operator: OpIndent, Target: motionCmd(MotionLine)}, 2},
		{"gg", ModeNormal, Command{Target: motionCmd(MotionFirstLine)}, 2},
		{"dge", ModeNormal, Command{Operator: OpDelete, Target: motionCmd(MotionPrevWordEnd)}, 3},
		{"\"a2dw", ModeNormal, Command{Count: 2, Register: 'a', Operator: OpDelete, Target: motionCmd(MotionWordForward)}, 5},
		{"2\"adw", ModeNormal, Command{Count: 2, Register: 'a', Operator: OpDelete, Target: motionCmd(MotionWordForward)}, 5},
		{"2\"a3yy", ModeNormal, Command{Count: 6, Register: 'a', Operator: OpYank, Target: motionCmd(MotionLine)}, 6},
		{"diw", ModeNormal, Command{Operator: OpDelete, Target: Target{Kind: TargetObject, Object: TextObject{Kind: Word, Inner: true}}}, 3},
		{"ca\"", ModeNormal, Command{Operator: OpChange, Target: Target{Kind: TargetObject, Object: TextObject{Kind: DoubleQuote}}}, 3},
		{"yib", ModeNormal, Command{Operator: OpYank, Target: Target{Kind: TargetObject, Object: TextObject{Kind: Parenthesis, Inner: true}}}, 3},
		{"dis", ModeNormal, Command{Operator: OpDelete, Target: Target{Kind: TargetObject, Object: TextObject{Kind: Sentence, Inner: true}}}, 3},
		{"iw", ModeNormal, Command{Edit: EditInsert}, 1},
		{"3rx", ModeNormal, Command{Count: 3, Edit: EditReplaceChar, Char: 'x'}, 3},
		{"r<CR>", ModeNormal, Command{Edit: EditReplaceChar, Char: '\n'}, 2},
		{"dt)", ModeNormal, Command{Operator: OpDelete, Target: Target{Kind: TargetMotion, Motion: Motion{Kind: MotionTillForward, Char: ')'}}}, 3},
		{"f ", ModeNormal, Command{Target: Target{Kind: TargetMotion, Motion: Motion{Kind: MotionFindForward, Char: ' '}}}, 2},
		{"D", ModeNormal, Command{Operator: OpDelete, Target: motionCmd(MotionLineEnd)}, 1},
		{"d<ESC>", ModeNormal, Command{Edit: EditEscape}, 2},
		{"2\"<ESC>", ModeNormal, Command{Edit: EditEscape}, 3},
		{"f<ESC>", ModeNormal, Command{Edit: EditEscape}, 2},
		{"d", ModeVisual, Command{Operator: OpDelete, Target: Target{Kind: TargetSelection}}, 1},
		{"Y", ModeVisualLine, Command{Operator: OpYank, Target: Target{Kind: TargetSelectionLines}}, 1},
		{"iw", ModeVisual, Command{Target: Target{Kind: TargetObject, Object: TextObject{Kind: Word, Inner: true}}}, 2},
		{"o", ModeVisual, Command{Edit: EditSwapSelection}, 1},
		{"3w", ModeVisual, Command{Count: 3, Target: motionCmd(MotionWordForward)}, 2},
		{"i", ModeInsert, Command{Edit: EditKey, Key: keys.Char('i')}, 1},
		{"<ESC>", ModeInsert, Command{Edit: EditEscape}, 1},
		{"<BS>", ModeReplace, Command{Edit: EditKey, Key: keys.Special(tcell.KeyBackspace2, tcell.ModNone)}, 1},
		{"2aw", ModeOperatorPending, Command{Count: 2, Target: Target{Kind: TargetObject, Object: TextObject{Kind: Word}}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String()+"/"+tt.keys, func(t *testing.T) {
			res := parseNotation(t, tt.keys, tt.mode)
			if res.Status != Valid {
				t.Fatalf("status = %v, want valid", res.Status)
			}
			if res.Value != tt.want {
				t.Fatalf("command = %v, want %v", res.Value, tt.want)
			}
			if res.Consumed != tt.consumed {
				t.Fatalf("consumed = %d, want %d", res.Consumed, tt.consumed)
			}
		})
	}
}

func TestParseIncompleteCarriesPartialCommand(t *testing.T) {
	res := parseNotation(t, "\"b3d2", ModeNormal)
	if res.Status != Incomplete {
		t.Fatalf("status = %v, want incomplete", res.Status)
	}
	want := Command{Count: 6, Register: 'b', Operator: OpDelete}
	if res.Value != want {
		t.Fatalf("partial = %v, want %v", res.Value, want)
	}
}

func TestParseTextObjectsNeedOperatorOrVisual(t *testing.T) {
	// Without an operator, "a" is append and "(" is not a motion.
	if res := parseNotation(t, "a(", ModeNormal); res.Status != Valid || res.Value.Edit != EditAppend || res.Consumed != 1 {
		t.Fatalf("a( = %+v, want append consuming one key", res)
	}
	if res := parseNotation(t, "(", ModeNormal); res.Status != Invalid {
		t.Fatalf("( status = %v, want invalid", res.Status)
	}
}

var keyAlphabet = func() []keys.Event {
	var evs []keys.Event
	for _, r := range "0123456789dcyiawbeWEBgfFtTrxXsSDCYpPJ~\"$^%;,<>hjklvVoG(){}[]'`_ q" {
		evs = append(evs, keys.Char(r))
	}
	return append(evs, keys.Esc, keys.Enter, keys.Tab, keys.Backspace, keys.Ctrl('x'), keys.Ctrl('w'),
		keys.Special(tcell.KeyLeft, tcell.ModNone))
}()

var modes = []Mode{ModeNormal, ModeInsert, ModeVisual, ModeVisualLine, ModeReplace, ModeOperatorPending}

func TestPropertyPrefixMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mode := rapid.SampledFrom(modes).Draw(t, "mode")
		seq := rapid.SliceOfN(rapid.SampledFrom(keyAlphabet), 1, 12).Draw(t, "keys")
		invalidAt := -1
		for i := 1; i <= len(seq); i++ {
			res := Parse(seq[:i], mode)
			if invalidAt >= 0 && res.Status != Invalid {
				t.Fatalf("%q invalid but extension %q is %v", keys.Format(seq[:invalidAt]), keys.Format(seq[:i]), res.Status)
			}
			if res.Status == Invalid && invalidAt < 0 {
				invalidAt = i
			}
		}
	})
}

func TestPropertyParseIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mode := rapid.SampledFrom(modes).Draw(t, "mode")
		seq := rapid.SliceOfN(rapid.SampledFrom(keyAlphabet), 0, 8).Draw(t, "keys")
		first := Parse(seq, mode)
		second := Parse(seq, mode)
		if first != second {
			t.Fatalf("Parse(%q) = %+v then %+v", keys.Format(seq), first, second)
		}
		if first.Status == Valid && (first.Consumed < 1 || first.Consumed > len(seq)) {
			t.Fatalf("Parse(%q) consumed %d of %d keys", keys.Format(seq), first.Consumed, len(seq))
		}
	})
}
