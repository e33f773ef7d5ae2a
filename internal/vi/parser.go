package vi

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qline/internal/keys"
)

const maxCount = 999999

// Parse classifies the buffered keys as a complete command, a prefix of one,
// or a sequence no continuation can rescue. It keeps no state between calls:
// the caller appends keys and parses the whole buffer again.
//
// ModeOperatorPending parses a lone target (count, motion or text object)
// for callers that track the operator themselves.
func Parse(buf []keys.Event, mode Mode) ParseResult[Command] {
	p := &parser{keys: buf}
	switch mode {
	case ModeInsert, ModeReplace:
		return p.insertKey()
	case ModeOperatorPending:
		return p.operatorTarget(Command{}, OpNone)
	default:
		return p.command(mode.IsVisual())
	}
}

type parser struct {
	keys []keys.Event
	pos  int
}

func (p *parser) done() bool {
	return p.pos >= len(p.keys)
}

func (p *parser) peek() keys.Event {
	return p.keys[p.pos]
}

// escape ends the command at the current key.
func (p *parser) escape() ParseResult[Command] {
	return valid(Command{Edit: EditEscape}, p.pos+1)
}

func (p *parser) insertKey() ParseResult[Command] {
	if p.done() {
		return incomplete(Command{})
	}
	ev := p.peek()
	if ev.IsEsc() {
		return p.escape()
	}
	return valid(Command{Edit: EditKey, Key: ev}, 1)
}

func (p *parser) command(visual bool) ParseResult[Command] {
	var cmd Command
	if res, ok := p.prefix(&cmd); !ok {
		return res
	}
	ev := p.peek()
	if visual {
		return p.visualCommand(cmd, ev)
	}
	if r, ok := plainRune(ev); ok {
		if op, ok := operatorKeys[r]; ok {
			p.pos++
			cmd.Operator = op
			return p.operatorTarget(cmd, op)
		}
		if alias, ok := normalAliases[r]; ok {
			cmd.Operator = alias.op
			cmd.Target = Target{Kind: TargetMotion, Motion: Motion{Kind: alias.motion}}
			return valid(cmd, p.pos+1)
		}
		if edit, ok := editKeys[r]; ok {
			cmd.Edit = edit
			p.pos++
			if edit == EditReplaceChar {
				return p.replaceChar(cmd)
			}
			return valid(cmd, p.pos)
		}
	}
	return p.motion(cmd)
}

// prefix reads counts and at most one register, in any order. Counts
// typed on both sides of a register multiply. It returns ok when a
// command key follows.
func (p *parser) prefix(cmd *Command) (ParseResult[Command], bool) {
	for {
		if p.done() {
			return incomplete(*cmd), false
		}
		ev := p.peek()
		switch {
		case ev.IsEsc():
			return p.escape(), false
		case ev.Is('"'):
			if cmd.Register != 0 {
				return invalid[Command](), false
			}
			p.pos++
			if p.done() {
				return incomplete(*cmd), false
			}
			ev = p.peek()
			if ev.IsEsc() {
				return p.escape(), false
			}
			r, ok := plainRune(ev)
			if !ok || !IsRegister(r) {
				return invalid[Command](), false
			}
			cmd.Register = r
			p.pos++
		case countStart(ev):
			cmd.Count = multiply(cmd.Count, p.count())
		default:
			return ParseResult[Command]{}, true
		}
	}
}

func countStart(ev keys.Event) bool {
	r, ok := plainRune(ev)
	return ok && r >= '1' && r <= '9'
}

// count consumes a run of digits; the first one is known to be non-zero.
func (p *parser) count() int {
	n := 0
	for !p.done() {
		r, ok := plainRune(p.peek())
		if !ok || r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n > maxCount {
			n = maxCount
		}
		p.pos++
	}
	return n
}

func multiply(a, b int) int {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	n := a * b
	if n > maxCount || n/b != a {
		return maxCount
	}
	return n
}

// operatorTarget parses what follows an operator key: an optional second
// count, then the doubled operator, a text object or a motion.
func (p *parser) operatorTarget(cmd Command, op Operator) ParseResult[Command] {
	if p.done() {
		return incomplete(cmd)
	}
	if countStart(p.peek()) {
		cmd.Count = multiply(cmd.Count, p.count())
		if p.done() {
			return incomplete(cmd)
		}
	}
	ev := p.peek()
	if ev.IsEsc() {
		return p.escape()
	}
	r, ok := plainRune(ev)
	if ok && op != OpNone && operatorKeys[r] == op {
		cmd.Target = Target{Kind: TargetMotion, Motion: Motion{Kind: MotionLine}}
		return valid(cmd, p.pos+1)
	}
	if ok && (r == 'i' || r == 'a') {
		return p.textObject(cmd, r == 'i')
	}
	return p.motion(cmd)
}

func (p *parser) textObject(cmd Command, inner bool) ParseResult[Command] {
	p.pos++
	if p.done() {
		return incomplete(cmd)
	}
	ev := p.peek()
	if ev.IsEsc() {
		return p.escape()
	}
	r, ok := plainRune(ev)
	if !ok {
		return invalid[Command]()
	}
	kind, ok := textObjectKeys[r]
	if !ok {
		return invalid[Command]()
	}
	cmd.Target = Target{Kind: TargetObject, Object: TextObject{Kind: kind, Inner: inner}}
	return valid(cmd, p.pos+1)
}

func (p *parser) motion(cmd Command) ParseResult[Command] {
	ev := p.peek()
	if kind, ok := specialMotions[ev.Key]; ok && ev.Plain() {
		cmd.Target = Target{Kind: TargetMotion, Motion: Motion{Kind: kind}}
		return valid(cmd, p.pos+1)
	}
	r, ok := plainRune(ev)
	if !ok {
		return invalid[Command]()
	}
	if r == 'g' {
		p.pos++
		if p.done() {
			return incomplete(cmd)
		}
		ev = p.peek()
		if ev.IsEsc() {
			return p.escape()
		}
		r, ok = plainRune(ev)
		kind, found := gMotionKeys[r]
		if !ok || !found {
			return invalid[Command]()
		}
		cmd.Target = Target{Kind: TargetMotion, Motion: Motion{Kind: kind}}
		return valid(cmd, p.pos+1)
	}
	kind, found := motionKeys[r]
	if !found {
		return invalid[Command]()
	}
	m := Motion{Kind: kind}
	cmd.Target = Target{Kind: TargetMotion, Motion: m}
	if !m.isFind() {
		return valid(cmd, p.pos+1)
	}
	p.pos++
	if p.done() {
		return incomplete(cmd)
	}
	ev = p.peek()
	if ev.IsEsc() {
		return p.escape()
	}
	ch, ok := charArg(ev)
	if !ok || ch == '\n' {
		return invalid[Command]()
	}
	cmd.Target.Motion.Char = ch
	return valid(cmd, p.pos+1)
}

func (p *parser) replaceChar(cmd Command) ParseResult[Command] {
	if p.done() {
		return incomplete(cmd)
	}
	ev := p.peek()
	if ev.IsEsc() {
		return p.escape()
	}
	ch, ok := charArg(ev)
	if !ok {
		return invalid[Command]()
	}
	cmd.Char = ch
	return valid(cmd, p.pos+1)
}

// visualCommand parses a command key in Visual or VisualLine mode, where
// operators act on the selection at once and i/a introduce text objects.
func (p *parser) visualCommand(cmd Command, ev keys.Event) ParseResult[Command] {
	r, ok := plainRune(ev)
	if ok {
		if op, found := operatorKeys[r]; found {
			cmd.Operator = op
			cmd.Target = Target{Kind: TargetSelection}
			return valid(cmd, p.pos+1)
		}
		if alias, found := visualAliases[r]; found {
			cmd.Operator = alias.op
			cmd.Target = Target{Kind: alias.target}
			return valid(cmd, p.pos+1)
		}
		switch r {
		case 'i', 'a':
			return p.textObject(cmd, r == 'i')
		case 'o':
			cmd.Edit = EditSwapSelection
			return valid(cmd, p.pos+1)
		case 'v':
			cmd.Edit = EditVisual
			return valid(cmd, p.pos+1)
		case 'V':
			cmd.Edit = EditVisualLine
			return valid(cmd, p.pos+1)
		}
	}
	return p.motion(cmd)
}

type alias struct {
	op     Operator
	motion MotionKind
	target TargetKind
}

// normalAliases are the single keys vi defines as an operator plus a motion.
var normalAliases = map[rune]alias{
	'x': {op: OpDelete, motion: MotionRight},
	'X': {op: OpDelete, motion: MotionLeft},
	'D': {op: OpDelete, motion: MotionLineEnd},
	'C': {op: OpChange, motion: MotionLineEnd},
	's': {op: OpChange, motion: MotionRight},
	'S': {op: OpChange, motion: MotionLine},
	'Y': {op: OpYank, motion: MotionLine},
}

var visualAliases = map[rune]alias{
	'x': {op: OpDelete, target: TargetSelection},
	's': {op: OpChange, target: TargetSelection},
	'X': {op: OpDelete, target: TargetSelectionLines},
	'D': {op: OpDelete, target: TargetSelectionLines},
	'C': {op: OpChange, target: TargetSelectionLines},
	'S': {op: OpChange, target: TargetSelectionLines},
	'Y': {op: OpYank, target: TargetSelectionLines},
}

var specialMotions = map[tcell.Key]MotionKind{
	tcell.KeyLeft:       MotionLeft,
	tcell.KeyRight:      MotionRight,
	tcell.KeyUp:         MotionUp,
	tcell.KeyDown:       MotionDown,
	tcell.KeyHome:       MotionLineStart,
	tcell.KeyEnd:        MotionLineEnd,
	tcell.KeyBackspace2: MotionLeft,
}

func plainRune(ev keys.Event) (rune, bool) {
	if !ev.IsRune() || !ev.Plain() {
		return 0, false
	}
	return ev.Rune, true
}

// charArg is the argument key of f/F/t/T and r.
func charArg(ev keys.Event) (rune, bool) {
	switch {
	case ev.Key == tcell.KeyEnter && ev.Plain():
		return '\n', true
	case ev.Key == tcell.KeyTab && ev.Plain():
		return '\t', true
	}
	r, ok := plainRune(ev)
	if !ok || !unicode.IsPrint(r) {
		return 0, false
	}
	return r, true
}
