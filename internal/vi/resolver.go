package vi

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qline/internal/buffer"
	"github.com/kobzarvs/qline/internal/keys"
)

// PendingState is the part of a command typed but not yet resolved.
type PendingState struct {
	Count    int
	Operator Operator
	Register rune
}

func (p PendingState) Empty() bool {
	return p == PendingState{}
}

// Resolver owns the editing mode and turns recognized commands into edit
// actions. Mode changes happen only here.
type Resolver struct {
	// base is the mode commands are parsed in; mode is what the user sees
	// and differs from base only while a command is half typed.
	base     Mode
	mode     Mode
	pending  PendingState
	anchor   int
	lastFind Motion
	tabWidth int
}

// NewResolver starts in Insert or Normal mode; any other start mode means Normal.
func NewResolver(start Mode, tabWidth int) *Resolver {
	if start != ModeInsert {
		start = ModeNormal
	}
	if tabWidth <= 0 {
		tabWidth = 4
	}
	return &Resolver{base: start, mode: start, tabWidth: tabWidth}
}

func (r *Resolver) Mode() Mode {
	return r.mode
}

// GrammarMode is the mode the key buffer must be parsed in.
func (r *Resolver) GrammarMode() Mode {
	return r.base
}

func (r *Resolver) Pending() PendingState {
	return r.pending
}

// Observe records the partially recognized command of an Incomplete parse.
func (r *Resolver) Observe(partial Command) {
	r.pending = PendingState{Count: partial.Count, Operator: partial.Operator, Register: partial.Register}
	r.mode = r.base
	if r.base != ModeNormal {
		return
	}
	switch {
	case partial.Operator != OpNone:
		r.mode = ModeOperatorPending
	case partial.Edit == EditReplaceChar:
		r.mode = ModeReplace
	}
}

// Reset drops the pending state after an Invalid parse.
func (r *Resolver) Reset() {
	r.pending = PendingState{}
	r.mode = r.base
}

// Selection returns the highlighted span while a Visual mode is active.
func (r *Resolver) Selection(t Text) (Span, bool) {
	if !r.base.IsVisual() {
		return Span{}, false
	}
	sp := r.selectionSpan(t, t.Cursor())
	if r.base == ModeVisualLine {
		sp = Span{t.LineStart(sp.Start), t.LineEnd(sp.End - 1)}
	}
	return sp, true
}

// Resolve expands a Valid command into actions for the current mode and
// clears the pending state. It reads t and regs but changes neither.
func (r *Resolver) Resolve(cmd Command, t Text, regs *Registers) []Action {
	defer r.Reset()
	if cmd.Edit == EditEscape {
		return r.escape(t)
	}
	switch r.base {
	case ModeInsert:
		return r.insertKey(cmd.Key, t)
	case ModeReplace:
		return r.replaceKey(cmd.Key, t)
	case ModeVisual, ModeVisualLine:
		return r.visual(cmd, t)
	default:
		return r.normal(cmd, t, regs)
	}
}

// Settle keeps the Normal and Visual cursor off the end of a non-empty line.
func (r *Resolver) Settle(t Text) (Action, bool) {
	if r.base == ModeInsert || r.base == ModeReplace {
		return Action{}, false
	}
	cur := t.Cursor()
	if cur > t.LineStart(cur) && cur >= t.LineEnd(cur) {
		return moveTo(cur - 1), true
	}
	return Action{}, false
}

func (r *Resolver) enter(m Mode) Action {
	r.base = m
	r.mode = m
	return setMode(m)
}

func (r *Resolver) escape(t Text) []Action {
	var acts []Action
	if r.base == ModeInsert || r.base == ModeReplace {
		if cur := t.Cursor(); cur > t.LineStart(cur) {
			acts = append(acts, moveTo(cur-1))
		}
	}
	return append(acts, r.enter(ModeNormal))
}

func (r *Resolver) normal(cmd Command, t Text, regs *Registers) []Action {
	switch {
	case cmd.Edit != EditNone:
		return r.normalEdit(cmd, t, regs)
	case cmd.Operator != OpNone:
		return r.operate(cmd, t)
	case cmd.Target.Kind == TargetMotion:
		res, ok := r.motionTarget(t, cmd.Target.Motion, cmd.Count, OpNone)
		if !ok {
			return nil
		}
		return []Action{moveTo(res.off)}
	}
	return nil
}

// reach is where a motion lands and how an operator treats the landing.
type reach struct {
	off       int
	inclusive bool
	linewise  bool
}

func (r *Resolver) motionTarget(t Text, m Motion, count int, op Operator) (reach, bool) {
	cur := t.Cursor()
	n := max(count, 1)
	res := reach{off: cur, inclusive: m.Inclusive(), linewise: m.Linewise()}
	switch m.Kind {
	case MotionLeft:
		res.off = max(cur-n, t.LineStart(cur))
	case MotionRight:
		res.off = min(cur+n, t.LineEnd(cur))
	case MotionUp, MotionDown:
		from := t.LineIndex(cur)
		line := from + n
		if m.Kind == MotionUp {
			line = from - n
		}
		line = min(max(line, 0), t.LineCount()-1)
		if line == from {
			return res, false
		}
		ls := t.LineOffset(line)
		res.off = min(ls+cur-t.LineStart(cur), t.LineEnd(ls))
	case MotionWordForward, MotionBigWordForward:
		big := m.Kind == MotionBigWordForward
		if op == OpChange && !unicode.IsSpace(t.RuneAt(cur)) && cur < t.Len() {
			return changeWordEnd(t, cur, n, big), true
		}
		res.off = repeat(cur, n-1, func(off int) int { return t.NextWordStart(off, big) })
		res.off = lastWordStep(t, res.off, big, op != OpNone)
	case MotionWordBackward, MotionBigWordBackward:
		big := m.Kind == MotionBigWordBackward
		res.off = repeat(cur, n, func(off int) int { return t.PrevWordStart(off, big) })
	case MotionWordEnd, MotionBigWordEnd:
		big := m.Kind == MotionBigWordEnd
		res.off = repeat(cur, n, func(off int) int { return t.WordEnd(off, big) })
	case MotionPrevWordEnd, MotionBigPrevWordEnd:
		big := m.Kind == MotionBigPrevWordEnd
		res.off = repeat(cur, n, func(off int) int { return t.PrevWordEnd(off, big) })
	case MotionLineStart:
		res.off = t.LineStart(cur)
	case MotionFirstNonBlank:
		res.off = t.FirstNonBlank(cur)
	case MotionLineEnd:
		ls := t.LineOffset(min(t.LineIndex(cur)+n-1, t.LineCount()-1))
		le := t.LineEnd(ls)
		if le == ls {
			res.off, res.inclusive = ls, false
		} else {
			res.off = le - 1
		}
	case MotionFirstLine, MotionLastLine:
		line := 0
		if m.Kind == MotionLastLine {
			line = t.LineCount() - 1
		}
		if count > 0 {
			line = min(count-1, t.LineCount()-1)
		}
		res.off = t.FirstNonBlank(t.LineOffset(line))
	case MotionParagraphForward:
		res.off = repeat(cur, n, t.NextParagraph)
	case MotionParagraphBackward:
		res.off = repeat(cur, n, t.PrevParagraph)
	case MotionMatchBracket:
		off, ok := t.MatchBracket(cur)
		if !ok {
			return res, false
		}
		res.off = off
	case MotionFindForward, MotionFindBackward, MotionTillForward, MotionTillBackward:
		r.lastFind = m
		return findChar(t, cur, m, n, false)
	case MotionRepeatFind, MotionRepeatFindReverse:
		if r.lastFind.Kind == MotionNone {
			return res, false
		}
		f := r.lastFind
		if m.Kind == MotionRepeatFindReverse {
			f = f.backward()
		}
		return findChar(t, cur, f, n, true)
	case MotionLine:
		res.off = t.LineOffset(min(t.LineIndex(cur)+n-1, t.LineCount()-1))
	default:
		return res, false
	}
	return res, true
}

func repeat(off, n int, step func(int) int) int {
	for i := 0; i < n; i++ {
		off = step(off)
	}
	return off
}

// lastWordStep is the final w of a count. Under an operator it does not
// leave the line: it stops at the line end, or at the start of the next
// line when off is on an empty line.
func lastWordStep(t Text, off int, big, operator bool) int {
	next := t.NextWordStart(off, big)
	if !operator || t.LineIndex(next) == t.LineIndex(off) {
		return next
	}
	if le := t.LineEnd(off); le > off {
		return le
	}
	return off + 1
}

// changeWordEnd is the end of cw: like e, except that a cursor already on
// the last rune of a word changes just that rune.
func changeWordEnd(t Text, cur, n int, big bool) reach {
	off := cur
	for i := 0; i < n; i++ {
		if i == 0 && (cur+1 >= t.Len() || buffer.ClassOf(t.RuneAt(cur+1), big) != buffer.ClassOf(t.RuneAt(cur), big)) {
			continue
		}
		off = t.WordEnd(off, big)
	}
	return reach{off: off, inclusive: true}
}

// findChar runs f, F, t or T n times. A repeated till skips the match
// right next to the cursor, which it would otherwise find again.
func findChar(t Text, cur int, m Motion, n int, repeated bool) (reach, bool) {
	forward := m.Kind == MotionFindForward || m.Kind == MotionTillForward
	till := m.Kind == MotionTillForward || m.Kind == MotionTillBackward
	off := cur
	for i := 0; i < n; i++ {
		next, ok := t.FindInLine(off, m.Char, forward)
		if !ok {
			return reach{off: cur}, false
		}
		if i == 0 && till && repeated && (next == cur+1 || next == cur-1) {
			if next, ok = t.FindInLine(next, m.Char, forward); !ok {
				return reach{off: cur}, false
			}
		}
		off = next
	}
	if till {
		if forward {
			off--
		} else {
			off++
		}
	}
	return reach{off: off, inclusive: forward}, true
}

// operate resolves an operator over a motion or text object.
func (r *Resolver) operate(cmd Command, t Text) []Action {
	cur := t.Cursor()
	var sp Span
	linewise := false
	switch cmd.Target.Kind {
	case TargetObject:
		s, ok := ResolveTextObject(t, cur, cmd.Target.Object, cmd.Count)
		if !ok {
			return nil
		}
		sp = s
	case TargetMotion:
		res, ok := r.motionTarget(t, cmd.Target.Motion, cmd.Count, cmd.Operator)
		if !ok {
			return nil
		}
		linewise = res.linewise
		if linewise {
			sp = Span{min(cur, res.off), max(cur, res.off) + 1}
			break
		}
		a, b := min(cur, res.off), max(cur, res.off)
		// An exclusive motion ending at the start of a later line stops at
		// the end of the line before it, and covers whole lines when it
		// began in the indentation.
		if !res.inclusive && b == t.LineStart(b) && t.LineIndex(b) > t.LineIndex(a) {
			if a <= t.FirstNonBlank(a) {
				sp, linewise = Span{a, b}, true
				break
			}
			b--
		}
		if res.inclusive {
			b = min(b+1, t.Len())
		}
		sp = Span{a, b}
	default:
		return nil
	}
	return r.applyOperator(cmd.Operator, cmd.Register, t, sp, linewise)
}

func (r *Resolver) applyOperator(op Operator, reg rune, t Text, sp Span, linewise bool) []Action {
	first := t.LineIndex(sp.Start)
	last := t.LineIndex(max(sp.Start, sp.End-1))
	switch op {
	case OpIndent, OpDedent:
		return r.shiftLines(t, first, last, op == OpIndent)
	}
	if linewise {
		return r.lineOperator(op, reg, t, first, last, sp.Start)
	}
	switch op {
	case OpDelete:
		return []Action{deleteSpan(sp, reg, false), moveTo(sp.Start), r.enter(ModeNormal)}
	case OpChange:
		return []Action{deleteSpan(sp, reg, false), moveTo(sp.Start), r.enter(ModeInsert)}
	case OpYank:
		return []Action{{Kind: ActYank, Span: sp, Register: reg}, moveTo(sp.Start), r.enter(ModeNormal)}
	}
	return nil
}

func (r *Resolver) lineOperator(op Operator, reg rune, t Text, first, last, from int) []Action {
	ls := t.LineOffset(first)
	le := t.LineEnd(t.LineOffset(last))
	switch op {
	case OpYank:
		return []Action{{Kind: ActYank, Span: Span{ls, le}, Register: reg, Linewise: true}, moveTo(from), r.enter(ModeNormal)}
	case OpChange:
		return []Action{deleteSpan(Span{ls, le}, reg, true), moveTo(ls), r.enter(ModeInsert)}
	case OpDelete:
		del := Span{ls, le + 1}
		var cursor int
		switch {
		case le < t.Len():
			cursor = t.FirstNonBlank(le+1) - del.Len()
		case ls > 0:
			// The last line goes with the newline before it.
			del = Span{ls - 1, le}
			cursor = t.FirstNonBlank(ls - 1)
		default:
			del = Span{0, le}
		}
		return []Action{deleteSpan(del, reg, true), moveTo(cursor), r.enter(ModeNormal)}
	}
	return nil
}

// shiftLines indents lines first..last by one tab, or removes one level of
// indentation. Empty lines are not indented.
func (r *Resolver) shiftLines(t Text, first, last int, indent bool) []Action {
	var acts []Action
	delta := 0
	for line := last; line >= first; line-- {
		ls := t.LineOffset(line)
		le := t.LineEnd(ls)
		if indent {
			if ls == le {
				continue
			}
			acts = append(acts, insertAt(ls, "\t"))
			if line == first {
				delta = 1
			}
			continue
		}
		n := 0
		if t.RuneAt(ls) == '\t' && ls < le {
			n = 1
		} else {
			for n < r.tabWidth && ls+n < le && t.RuneAt(ls+n) == ' ' {
				n++
			}
		}
		if n == 0 {
			continue
		}
		acts = append(acts, erase(Span{ls, ls + n}))
		if line == first {
			delta = -n
		}
	}
	fnb := t.FirstNonBlank(t.LineOffset(first)) + delta
	return append(acts, moveTo(fnb), r.enter(ModeNormal))
}

func (r *Resolver) normalEdit(cmd Command, t Text, regs *Registers) []Action {
	cur := t.Cursor()
	ls, le := t.LineStart(cur), t.LineEnd(cur)
	n := max(cmd.Count, 1)
	switch cmd.Edit {
	case EditInsert:
		return []Action{r.enter(ModeInsert)}
	case EditAppend:
		off := cur
		if cur < le {
			off++
		}
		return []Action{moveTo(off), r.enter(ModeInsert)}
	case EditInsertLineStart:
		return []Action{moveTo(t.FirstNonBlank(cur)), r.enter(ModeInsert)}
	case EditAppendLineEnd:
		return []Action{moveTo(le), r.enter(ModeInsert)}
	case EditOpenBelow:
		return []Action{insertAt(le, "\n"), moveTo(le + 1), r.enter(ModeInsert)}
	case EditOpenAbove:
		return []Action{insertAt(ls, "\n"), moveTo(ls), r.enter(ModeInsert)}
	case EditVisual, EditVisualLine:
		mode := ModeVisual
		if cmd.Edit == EditVisualLine {
			mode = ModeVisualLine
		}
		r.anchor = cur
		return []Action{r.enter(mode), {Kind: ActSelect, Span: Span{cur, cur}}}
	case EditReplaceMode:
		return []Action{r.enter(ModeReplace)}
	case EditReplaceChar:
		if cur+n > le {
			return nil
		}
		if cmd.Char == '\n' {
			return []Action{erase(Span{cur, cur + n}), insertAt(cur, "\n"), moveTo(cur + 1)}
		}
		return []Action{erase(Span{cur, cur + n}), insertAt(cur, strings.Repeat(string(cmd.Char), n)), moveTo(cur + n - 1)}
	case EditPutAfter, EditPutBefore:
		return put(t, regs, cmd.Register, cmd.Edit == EditPutAfter, n)
	case EditJoin:
		return join(t, max(n, 2))
	case EditToggleCase:
		end := min(cur+n, le)
		if end <= cur {
			return nil
		}
		return []Action{erase(Span{cur, end}), insertAt(cur, toggleCase(t.Slice(cur, end))), moveTo(end)}
	}
	return nil
}

func put(t Text, regs *Registers, name rune, after bool, n int) []Action {
	if regs == nil {
		return nil
	}
	reg, ok := regs.Get(name)
	if !ok || reg.Text == "" {
		return nil
	}
	text := strings.Repeat(reg.Text, n)
	cur := t.Cursor()
	if reg.Linewise {
		if !after {
			ls := t.LineStart(cur)
			return []Action{insertAt(ls, text), moveTo(ls + leadingBlanks(text))}
		}
		le := t.LineEnd(cur)
		if le >= t.Len() {
			body := strings.TrimSuffix(text, "\n")
			return []Action{insertAt(le, "\n"+body), moveTo(le + 1 + leadingBlanks(body))}
		}
		return []Action{insertAt(le+1, text), moveTo(le + 1 + leadingBlanks(text))}
	}
	off := cur
	if after && cur < t.LineEnd(cur) {
		off++
	}
	return []Action{insertAt(off, text), moveTo(off + utf8.RuneCountInString(text) - 1)}
}

func leadingBlanks(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

// join joins count lines starting at the cursor line, dropping the leading
// blanks of each joined line and separating with one space.
func join(t Text, count int) []Action {
	cur := t.Cursor()
	first := t.LineIndex(cur)
	last := min(first+count-1, t.LineCount()-1)
	if last == first {
		return nil
	}
	start := t.LineOffset(first)
	head := t.Slice(start, t.LineEnd(start))
	var sb strings.Builder
	sb.WriteString(head)
	n := utf8.RuneCountInString(head)
	prev, _ := utf8.DecodeLastRuneInString(head)
	joinAt := n
	for line := first + 1; line <= last; line++ {
		ls := t.LineOffset(line)
		body := t.Slice(t.FirstNonBlank(ls), t.LineEnd(ls))
		joinAt = n
		if body != "" && n > 0 && prev != ' ' && prev != '\t' {
			sb.WriteByte(' ')
			n++
		}
		sb.WriteString(body)
		n += utf8.RuneCountInString(body)
		if body != "" {
			prev, _ = utf8.DecodeLastRuneInString(body)
		}
	}
	end := t.LineEnd(t.LineOffset(last))
	return []Action{erase(Span{start, end}), insertAt(start, sb.String()), moveTo(start + joinAt)}
}

func toggleCase(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsUpper(r) {
			return unicode.ToLower(r)
		}
		return unicode.ToUpper(r)
	}, s)
}

func (r *Resolver) insertKey(key keys.Event, t Text) []Action {
	cur := t.Cursor()
	switch {
	case key.IsRune() && key.Plain():
		return []Action{insertAt(cur, string(key.Rune))}
	case key.Key == tcell.KeyEnter:
		return []Action{insertAt(cur, "\n")}
	case key.Key == tcell.KeyTab:
		return []Action{insertAt(cur, "\t")}
	case key.Key == tcell.KeyBackspace2:
		if cur > 0 {
			return []Action{erase(Span{cur - 1, cur})}
		}
	case key.Key == tcell.KeyDelete:
		if cur < t.Len() {
			return []Action{erase(Span{cur, cur + 1})}
		}
	case key == keys.Ctrl('w'):
		ls := t.LineStart(cur)
		start := t.PrevWordStart(cur, false)
		if cur > ls && start < ls {
			start = ls
		}
		if start < cur {
			return []Action{erase(Span{start, cur})}
		}
	case key == keys.Ctrl('u'):
		if ls := t.LineStart(cur); ls < cur {
			return []Action{erase(Span{ls, cur})}
		}
	default:
		return cursorKey(key, t)
	}
	return nil
}

// replaceKey overtypes the rune under the cursor; at the end of a line it
// inserts. Backspace only moves left.
func (r *Resolver) replaceKey(key keys.Event, t Text) []Action {
	cur := t.Cursor()
	ch, ok := rune(0), false
	switch {
	case key.IsRune() && key.Plain():
		ch, ok = key.Rune, true
	case key.Key == tcell.KeyTab:
		ch, ok = '\t', true
	case key.Key == tcell.KeyBackspace2:
		if cur > t.LineStart(cur) {
			return []Action{moveTo(cur - 1)}
		}
		return nil
	case key.Key == tcell.KeyEnter:
		return []Action{insertAt(cur, "\n")}
	}
	if !ok {
		return cursorKey(key, t)
	}
	if cur < t.LineEnd(cur) {
		return []Action{erase(Span{cur, cur + 1}), insertAt(cur, string(ch))}
	}
	return []Action{insertAt(cur, string(ch))}
}

// cursorKey moves the Insert and Replace cursor with the arrow keys.
func cursorKey(key keys.Event, t Text) []Action {
	cur := t.Cursor()
	ls, le := t.LineStart(cur), t.LineEnd(cur)
	switch key.Key {
	case tcell.KeyLeft:
		if cur > ls {
			return []Action{moveTo(cur - 1)}
		}
	case tcell.KeyRight:
		if cur < le {
			return []Action{moveTo(cur + 1)}
		}
	case tcell.KeyHome:
		return []Action{moveTo(ls)}
	case tcell.KeyEnd:
		return []Action{moveTo(le)}
	case tcell.KeyUp, tcell.KeyDown:
		from := t.LineIndex(cur)
		line := from - 1
		if key.Key == tcell.KeyDown {
			line = from + 1
		}
		if line < 0 || line >= t.LineCount() {
			return nil
		}
		off := t.LineOffset(line)
		return []Action{moveTo(min(off+cur-ls, t.LineEnd(off)))}
	}
	return nil
}

func (r *Resolver) visual(cmd Command, t Text) []Action {
	cur := t.Cursor()
	switch {
	case cmd.Edit == EditSwapSelection:
		anchor := r.anchor
		r.anchor = cur
		return []Action{moveTo(anchor), {Kind: ActSelect, Span: Span{cur, anchor}}}
	case cmd.Edit == EditVisual, cmd.Edit == EditVisualLine:
		mode := ModeVisual
		if cmd.Edit == EditVisualLine {
			mode = ModeVisualLine
		}
		if mode == r.base {
			return []Action{r.enter(ModeNormal)}
		}
		return []Action{r.enter(mode), {Kind: ActSelect, Span: Span{r.anchor, cur}}}
	case cmd.Operator != OpNone:
		linewise := r.base == ModeVisualLine || cmd.Target.Kind == TargetSelectionLines
		return r.applyOperator(cmd.Operator, cmd.Register, t, r.selectionSpan(t, cur), linewise)
	case cmd.Target.Kind == TargetObject:
		sp, ok := ResolveTextObject(t, cur, cmd.Target.Object, cmd.Count)
		if !ok || sp.Empty() {
			return nil
		}
		r.anchor = sp.Start
		return []Action{moveTo(sp.End - 1), {Kind: ActSelect, Span: Span{sp.Start, sp.End - 1}}}
	case cmd.Target.Kind == TargetMotion:
		res, ok := r.motionTarget(t, cmd.Target.Motion, cmd.Count, OpNone)
		if !ok {
			return nil
		}
		return []Action{moveTo(res.off), {Kind: ActSelect, Span: Span{r.anchor, res.off}}}
	}
	return nil
}

// selectionSpan is the charwise selection between the anchor and cursor,
// both ends included.
func (r *Resolver) selectionSpan(t Text, cur int) Span {
	a, b := min(r.anchor, cur), max(r.anchor, cur)
	return Span{a, min(b+1, t.Len())}
}
