package vi

import (
	"fmt"
	"strings"

	"github.com/kobzarvs/qline/internal/keys"
)

// Status is the classification of a key prefix.
type Status int

const (
	Incomplete Status = iota
	Valid
	Invalid
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "incomplete"
	}
}

// ParseResult is the outcome of recognizing a production from a key prefix.
// Value is set for Valid, and for Incomplete it holds what has been
// recognized so far. Consumed counts the keys a Valid value used.
type ParseResult[T any] struct {
	Status   Status
	Value    T
	Consumed int
}

func valid[T any](v T, n int) ParseResult[T] {
	return ParseResult[T]{Status: Valid, Value: v, Consumed: n}
}

func incomplete[T any](partial T) ParseResult[T] {
	return ParseResult[T]{Status: Incomplete, Value: partial}
}

func invalid[T any]() ParseResult[T] {
	return ParseResult[T]{Status: Invalid}
}

type MotionKind int

const (
	MotionNone MotionKind = iota
	MotionLeft
	MotionRight
	MotionUp
	MotionDown
	MotionWordForward
	MotionBigWordForward
	MotionWordBackward
	MotionBigWordBackward
	MotionWordEnd
	MotionBigWordEnd
	MotionPrevWordEnd
	MotionBigPrevWordEnd
	MotionLineStart
	MotionFirstNonBlank
	MotionLineEnd
	MotionFirstLine
	MotionLastLine
	MotionParagraphForward
	MotionParagraphBackward
	MotionMatchBracket
	MotionFindForward
	MotionFindBackward
	MotionTillForward
	MotionTillBackward
	MotionRepeatFind
	MotionRepeatFindReverse
	// MotionLine is the target of doubled operators (dd, cc, yy, >>, <<).
	MotionLine
)

// Motion is a movement primitive. Char is the search rune of f/F/t/T.
type Motion struct {
	Kind MotionKind
	Char rune
}

// Inclusive reports whether an operator over the motion includes the
// destination rune. Repeated finds take the flag of the find they repeat.
func (m Motion) Inclusive() bool {
	switch m.Kind {
	case MotionWordEnd, MotionBigWordEnd, MotionPrevWordEnd, MotionBigPrevWordEnd,
		MotionLineEnd, MotionMatchBracket, MotionFindForward, MotionTillForward:
		return true
	}
	return false
}

// Linewise reports whether an operator over the motion acts on whole lines.
func (m Motion) Linewise() bool {
	switch m.Kind {
	case MotionUp, MotionDown, MotionFirstLine, MotionLastLine, MotionLine:
		return true
	}
	return false
}

// backward returns the find motion searching the other way.
func (m Motion) backward() Motion {
	switch m.Kind {
	case MotionFindForward:
		m.Kind = MotionFindBackward
	case MotionFindBackward:
		m.Kind = MotionFindForward
	case MotionTillForward:
		m.Kind = MotionTillBackward
	case MotionTillBackward:
		m.Kind = MotionTillForward
	}
	return m
}

func (m Motion) isFind() bool {
	switch m.Kind {
	case MotionFindForward, MotionFindBackward, MotionTillForward, MotionTillBackward:
		return true
	}
	return false
}

var motionKeys = map[rune]MotionKind{
	'h': MotionLeft,
	'l': MotionRight,
	' ': MotionRight,
	'k': MotionUp,
	'j': MotionDown,
	'w': MotionWordForward,
	'W': MotionBigWordForward,
	'b': MotionWordBackward,
	'B': MotionBigWordBackward,
	'e': MotionWordEnd,
	'E': MotionBigWordEnd,
	'0': MotionLineStart,
	'^': MotionFirstNonBlank,
	'$': MotionLineEnd,
	'G': MotionLastLine,
	'}': MotionParagraphForward,
	'{': MotionParagraphBackward,
	'%': MotionMatchBracket,
	'f': MotionFindForward,
	'F': MotionFindBackward,
	't': MotionTillForward,
	'T': MotionTillBackward,
	';': MotionRepeatFind,
	',': MotionRepeatFindReverse,
}

// gMotionKeys are the motions reached through the g prefix.
var gMotionKeys = map[rune]MotionKind{
	'g': MotionFirstLine,
	'e': MotionPrevWordEnd,
	'E': MotionBigPrevWordEnd,
}

// TextObjectKind enumerates the text objects. Sentence, Paragraph and Tag
// are recognized but always resolve to an empty span.
type TextObjectKind int

const (
	Word TextObjectKind = iota
	BigWord
	Sentence
	Paragraph
	Parenthesis
	Bracket
	CurlyBrace
	AngleBracket
	DoubleQuote
	SingleQuote
	BackTick
	Tag
)

func (k TextObjectKind) Reserved() bool {
	return k == Sentence || k == Paragraph || k == Tag
}

var textObjectKeys = map[rune]TextObjectKind{
	'w':  Word,
	'W':  BigWord,
	's':  Sentence,
	'p':  Paragraph,
	'(':  Parenthesis,
	')':  Parenthesis,
	'b':  Parenthesis,
	'[':  Bracket,
	']':  Bracket,
	'{':  CurlyBrace,
	'}':  CurlyBrace,
	'B':  CurlyBrace,
	'<':  AngleBracket,
	'>':  AngleBracket,
	'"':  DoubleQuote,
	'\'': SingleQuote,
	'`':  BackTick,
	't':  Tag,
}

// TextObject is a text object kind with vi's inner (i) or around (a) flag.
type TextObject struct {
	Kind  TextObjectKind
	Inner bool
}

type Operator int

const (
	OpNone Operator = iota
	OpDelete
	OpChange
	OpYank
	OpIndent
	OpDedent
)

var operatorKeys = map[rune]Operator{
	'd': OpDelete,
	'c': OpChange,
	'y': OpYank,
	'>': OpIndent,
	'<': OpDedent,
}

func (o Operator) String() string {
	for r, op := range operatorKeys {
		if op == o {
			return string(r)
		}
	}
	return ""
}

// Edit names the commands that are neither motions nor operators.
type Edit int

const (
	EditNone Edit = iota
	EditEscape
	EditInsert
	EditAppend
	EditInsertLineStart
	EditAppendLineEnd
	EditOpenBelow
	EditOpenAbove
	EditVisual
	EditVisualLine
	EditReplaceMode
	EditReplaceChar
	EditPutAfter
	EditPutBefore
	EditJoin
	EditToggleCase
	EditSwapSelection
	// EditKey is a key typed in Insert or Replace mode.
	EditKey
)

var editKeys = map[rune]Edit{
	'i': EditInsert,
	'a': EditAppend,
	'I': EditInsertLineStart,
	'A': EditAppendLineEnd,
	'o': EditOpenBelow,
	'O': EditOpenAbove,
	'v': EditVisual,
	'V': EditVisualLine,
	'R': EditReplaceMode,
	'r': EditReplaceChar,
	'p': EditPutAfter,
	'P': EditPutBefore,
	'J': EditJoin,
	'~': EditToggleCase,
}

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetMotion
	TargetObject
	// TargetSelection is the active Visual selection.
	TargetSelection
	// TargetSelectionLines is the selection widened to whole lines.
	TargetSelectionLines
)

// Target is what an operator acts on, or where a bare motion goes.
type Target struct {
	Kind   TargetKind
	Motion Motion
	Object TextObject
}

// Command is the unit the parser recognizes. Count is zero when no count
// was typed; Register is zero when no register was named.
type Command struct {
	Count    int
	Register rune
	Operator Operator
	Target   Target
	Edit     Edit
	// Char is the argument of r{char}.
	Char rune
	// Key is the raw key of an EditKey command.
	Key keys.Event
}

func (c Command) String() string {
	var sb strings.Builder
	if c.Register != 0 {
		fmt.Fprintf(&sb, "\"%c ", c.Register)
	}
	if c.Count > 0 {
		fmt.Fprintf(&sb, "%d ", c.Count)
	}
	if c.Operator != OpNone {
		fmt.Fprintf(&sb, "op=%s ", c.Operator)
	}
	switch c.Target.Kind {
	case TargetMotion:
		fmt.Fprintf(&sb, "motion=%d", c.Target.Motion.Kind)
		if c.Target.Motion.Char != 0 {
			fmt.Fprintf(&sb, "(%q)", c.Target.Motion.Char)
		}
	case TargetObject:
		fmt.Fprintf(&sb, "object=%d inner=%t", c.Target.Object.Kind, c.Target.Object.Inner)
	case TargetSelection:
		sb.WriteString("selection")
	case TargetSelectionLines:
		sb.WriteString("selection-lines")
	}
	if c.Edit != EditNone {
		fmt.Fprintf(&sb, "edit=%d", c.Edit)
		if c.Edit == EditKey {
			fmt.Fprintf(&sb, "(%s)", c.Key)
		}
	}
	return strings.TrimSpace(sb.String())
}
