package vi

import (
	"github.com/kobzarvs/qline/internal/keys"
	"github.com/kobzarvs/qline/internal/logger"
)

// Outcome is what one fed key did.
type Outcome int

const (
	// Applied: the keys formed a command and its actions were applied.
	Applied Outcome = iota
	// Pending: the keys are a prefix of a command and are kept.
	Pending
	// Rejected: no command starts with the keys; they were discarded.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Pending:
		return "pending"
	default:
		return "rejected"
	}
}

// View is the state handed to the painter after every key.
type View struct {
	Text      string
	Cursor    int
	Mode      Mode
	Selection Span
	Selecting bool
	// Pending is the buffered key prefix in key notation.
	Pending  string
	Register rune
}

// Painter is notified after each key. Bell is rung for rejected keys.
type Painter interface {
	Notify(v View)
	Bell()
}

// Buffer is what the engine edits: the Editable contract plus a way to
// read the whole text back for the painter.
type Buffer interface {
	Editable
	String() string
}

type Options struct {
	StartMode Mode
	TabWidth  int
	Registers *Registers
	Painter   Painter
}

// Engine drives the parse, resolve and apply loop one key at a time.
type Engine struct {
	buf      Buffer
	regs     *Registers
	resolver *Resolver
	painter  Painter
	keys     []keys.Event
	// last holds the actions of the most recent applied command.
	last []Action
}

func NewEngine(buf Buffer, opts Options) *Engine {
	regs := opts.Registers
	if regs == nil {
		regs = NewRegisters(nil)
	}
	e := &Engine{
		buf:      buf,
		regs:     regs,
		resolver: NewResolver(opts.StartMode, opts.TabWidth),
		painter:  opts.Painter,
	}
	if s, ok := e.resolver.Settle(buf); ok {
		Apply(buf, regs, []Action{s})
	}
	return e
}

// Feed appends ev to the key buffer and reclassifies it.
func (e *Engine) Feed(ev keys.Event) Outcome {
	e.keys = append(e.keys, ev)
	res := Parse(e.keys, e.resolver.GrammarMode())
	logger.Debug("classify", "keys", keys.Format(e.keys), "mode", e.resolver.GrammarMode(), "status", res.Status)

	var out Outcome
	switch res.Status {
	case Incomplete:
		e.resolver.Observe(res.Value)
		out = Pending
	case Invalid:
		e.keys = e.keys[:0]
		e.resolver.Reset()
		if e.painter != nil {
			e.painter.Bell()
		}
		out = Rejected
	case Valid:
		e.keys = e.keys[:0]
		actions := e.resolver.Resolve(res.Value, e.buf, e.regs)
		Apply(e.buf, e.regs, actions)
		if s, ok := e.resolver.Settle(e.buf); ok {
			Apply(e.buf, e.regs, []Action{s})
			actions = append(actions, s)
		}
		e.last = actions
		logger.Debug("resolved", "command", res.Value.String(), "actions", len(actions), "mode", e.resolver.Mode())
		out = Applied
	}
	e.notify()
	return out
}

// FeedAll feeds evs in order and returns the outcome of the last one.
func (e *Engine) FeedAll(evs []keys.Event) Outcome {
	out := Applied
	for _, ev := range evs {
		out = e.Feed(ev)
	}
	return out
}

func (e *Engine) Mode() Mode {
	return e.resolver.Mode()
}

func (e *Engine) PendingState() PendingState {
	return e.resolver.Pending()
}

// Pending renders the buffered keys in key notation.
func (e *Engine) Pending() string {
	return keys.Format(e.keys)
}

func (e *Engine) Registers() *Registers {
	return e.regs
}

func (e *Engine) Buffer() Buffer {
	return e.buf
}

// LastActions returns the actions of the most recently applied command.
func (e *Engine) LastActions() []Action {
	return e.last
}

func (e *Engine) View() View {
	sel, ok := e.resolver.Selection(e.buf)
	return View{
		Text:      e.buf.String(),
		Cursor:    e.buf.Cursor(),
		Mode:      e.resolver.Mode(),
		Selection: sel,
		Selecting: ok,
		Pending:   e.Pending(),
		Register:  e.resolver.Pending().Register,
	}
}

func (e *Engine) notify() {
	if e.painter != nil {
		e.painter.Notify(e.View())
	}
}
