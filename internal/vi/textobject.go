package vi

import "github.com/kobzarvs/qline/internal/buffer"

// Span is the half-open range [Start, End).
type Span struct {
	Start, End int
}

func (s Span) Empty() bool {
	return s.End <= s.Start
}

func (s Span) Len() int {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

var bracketObjects = map[TextObjectKind][2]rune{
	Parenthesis:  {'(', ')'},
	Bracket:      {'[', ']'},
	CurlyBrace:   {'{', '}'},
	AngleBracket: {'<', '>'},
}

var quoteObjects = map[TextObjectKind]rune{
	DoubleQuote: '"',
	SingleQuote: '\'',
	BackTick:    '`',
}

// ResolveTextObject returns the span of obj around cursor. count selects the
// count-th enclosing pair for bracket objects and is ignored otherwise. When
// the object is not found the span is empty at the cursor and ok is false;
// a found object can still be empty, as the inside of "()" is.
func ResolveTextObject(t Text, cursor int, obj TextObject, count int) (Span, bool) {
	none := Span{cursor, cursor}
	if cursor < 0 || cursor >= t.Len() {
		return none, false
	}
	if count < 1 {
		count = 1
	}
	switch obj.Kind {
	case Word, BigWord:
		return wordObject(t, cursor, obj.Kind == BigWord, obj.Inner)
	case Parenthesis, Bracket, CurlyBrace, AngleBracket:
		pair := bracketObjects[obj.Kind]
		return bracketObject(t, cursor, pair[0], pair[1], obj.Inner, count)
	case DoubleQuote, SingleQuote, BackTick:
		return quoteObject(t, cursor, quoteObjects[obj.Kind], obj.Inner)
	}
	// Sentence, Paragraph and Tag are reserved.
	return none, false
}

// wordObject selects the run of same-class runes under the cursor. Around
// extends it through the blanks that follow on the same line.
func wordObject(t Text, cursor int, big, inner bool) (Span, bool) {
	cls := buffer.ClassOf(t.RuneAt(cursor), big)
	if cls == buffer.ClassBlank {
		return Span{cursor, cursor}, false
	}
	start, end := cursor, cursor+1
	for start > 0 && buffer.ClassOf(t.RuneAt(start-1), big) == cls {
		start--
	}
	for end < t.Len() && buffer.ClassOf(t.RuneAt(end), big) == cls {
		end++
	}
	if !inner {
		for end < t.Len() && isLineBlank(t.RuneAt(end)) {
			end++
		}
	}
	return Span{start, end}, true
}

// bracketObject finds the count-th pair enclosing cursor. A delimiter under
// the cursor bounds the pair it belongs to.
func bracketObject(t Text, cursor int, open, close rune, inner bool, count int) (Span, bool) {
	lo := cursor
	if t.RuneAt(cursor) == open {
		count--
	}
	for ; count > 0; count-- {
		lo = unmatchedOpen(t, lo-1, open, close)
		if lo < 0 {
			return Span{cursor, cursor}, false
		}
	}
	hi := matchingClose(t, lo+1, open, close)
	if hi < 0 {
		return Span{cursor, cursor}, false
	}
	if inner {
		return Span{lo + 1, hi}, true
	}
	return Span{lo, hi + 1}, true
}

// unmatchedOpen scans left from i for an opener with no closer between.
func unmatchedOpen(t Text, i int, open, close rune) int {
	depth := 0
	for ; i >= 0; i-- {
		switch t.RuneAt(i) {
		case close:
			depth++
		case open:
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func matchingClose(t Text, i int, open, close rune) int {
	depth := 0
	for ; i < t.Len(); i++ {
		switch t.RuneAt(i) {
		case open:
			depth++
		case close:
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// quoteObject pairs the quotes on the cursor line left to right and picks
// the pair under or after the cursor. Backslash-escaped quotes are skipped.
func quoteObject(t Text, cursor int, quote rune, inner bool) (Span, bool) {
	ls, le := t.LineStart(cursor), t.LineEnd(cursor)
	var qs []int
	for i := ls; i < le; i++ {
		switch t.RuneAt(i) {
		case '\\':
			i++
		case quote:
			qs = append(qs, i)
		}
	}
	open, close := -1, -1
	for k := 0; k+1 < len(qs); k += 2 {
		if qs[k+1] >= cursor {
			open, close = qs[k], qs[k+1]
			break
		}
	}
	if open < 0 {
		return Span{cursor, cursor}, false
	}
	if inner {
		return Span{open + 1, close}, true
	}
	start, end := open, close+1
	for end < le && isLineBlank(t.RuneAt(end)) {
		end++
	}
	if end == close+1 {
		for start > ls && isLineBlank(t.RuneAt(start-1)) {
			start--
		}
	}
	return Span{start, end}, true
}

func isLineBlank(r rune) bool {
	return r == ' ' || r == '\t'
}
