package buffer

// NextWordStart (w/W) returns the start of the next word after off, or Len.
// An empty line counts as a word.
func (b *Buffer) NextWordStart(off int, big bool) int {
	n := len(b.text)
	i := b.clamp(off)
	if i >= n {
		return n
	}
	// Skip the rest of the current word or punctuation run
	if cls := b.class(i, big); cls != ClassBlank {
		for i < n && b.class(i, big) == cls {
			i++
		}
	}
	// Skip whitespace, stopping on an empty line
	for i < n && b.class(i, big) == ClassBlank {
		if b.text[i] == '\n' && i+1 < n && b.text[i+1] == '\n' {
			return i + 1
		}
		i++
	}
	return i
}

// PrevWordStart (b/B) returns the start of the word before off.
func (b *Buffer) PrevWordStart(off int, big bool) int {
	i := b.clamp(off) - 1
	if i <= 0 {
		return 0
	}
	// Skip whitespace backwards, stopping on an empty line
	for i > 0 && b.class(i, big) == ClassBlank {
		if b.text[i] == '\n' && b.text[i-1] == '\n' {
			return i
		}
		i--
	}
	if b.class(i, big) == ClassBlank {
		return i
	}
	cls := b.class(i, big)
	for i > 0 && b.class(i-1, big) == cls {
		i--
	}
	return i
}

// WordEnd (e/E) returns the last rune of the word ending after off.
func (b *Buffer) WordEnd(off int, big bool) int {
	n := len(b.text)
	if n == 0 {
		return 0
	}
	i := b.clamp(off) + 1
	for i < n && b.class(i, big) == ClassBlank {
		i++
	}
	if i >= n {
		return n - 1
	}
	cls := b.class(i, big)
	for i+1 < n && b.class(i+1, big) == cls {
		i++
	}
	return i
}

// PrevWordEnd (ge/gE) returns the last rune of the word before off.
func (b *Buffer) PrevWordEnd(off int, big bool) int {
	i := b.clamp(off)
	if i >= len(b.text) {
		i = len(b.text) - 1
	}
	if i <= 0 {
		return 0
	}
	if cls := b.class(i, big); cls != ClassBlank {
		for i >= 0 && b.class(i, big) == cls {
			i--
		}
	}
	for i >= 0 && b.class(i, big) == ClassBlank {
		if b.text[i] == '\n' && (i == 0 || b.text[i-1] == '\n') {
			return i
		}
		i--
	}
	if i < 0 {
		return 0
	}
	return i
}

// NextParagraph (}) returns the start of the next empty line after the
// paragraph containing off, or Len.
func (b *Buffer) NextParagraph(off int) int {
	i := b.LineStart(off)
	// Leave the run of empty lines the cursor is on
	for i < len(b.text) && b.IsEmptyLine(i) {
		i++
	}
	for i < len(b.text) {
		if b.IsEmptyLine(i) {
			return i
		}
		i = b.LineEnd(i) + 1
	}
	return len(b.text)
}

// PrevParagraph ({) returns the start of the previous empty line, or 0.
func (b *Buffer) PrevParagraph(off int) int {
	i := b.LineStart(off)
	for i > 0 && b.IsEmptyLine(i) {
		i = b.LineStart(i - 1)
	}
	for i > 0 {
		i = b.LineStart(i - 1)
		if b.IsEmptyLine(i) {
			return i
		}
	}
	return 0
}

var bracketPairs = map[rune]struct {
	match   rune
	forward bool
}{
	'(': {')', true},
	')': {'(', false},
	'[': {']', true},
	']': {'[', false},
	'{': {'}', true},
	'}': {'{', false},
}

// MatchBracket (%) finds the first bracket at or after off on the current
// line and returns the offset of its partner.
func (b *Buffer) MatchBracket(off int) (int, bool) {
	off = b.clamp(off)
	end := b.LineEnd(off)
	for ; off < end; off++ {
		if _, ok := bracketPairs[b.text[off]]; ok {
			break
		}
	}
	if off >= end {
		return 0, false
	}
	ch := b.text[off]
	pair := bracketPairs[ch]
	depth := 1
	if pair.forward {
		for i := off + 1; i < len(b.text); i++ {
			switch b.text[i] {
			case ch:
				depth++
			case pair.match:
				depth--
				if depth == 0 {
					return i, true
				}
			}
		}
		return 0, false
	}
	for i := off - 1; i >= 0; i-- {
		switch b.text[i] {
		case ch:
			depth++
		case pair.match:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// FindInLine (f/F) returns the next occurrence of ch on the current line,
// strictly after off when forward and strictly before it otherwise.
func (b *Buffer) FindInLine(off int, ch rune, forward bool) (int, bool) {
	off = b.clamp(off)
	if forward {
		end := b.LineEnd(off)
		for i := off + 1; i < end; i++ {
			if b.text[i] == ch {
				return i, true
			}
		}
		return 0, false
	}
	start := b.LineStart(off)
	for i := off - 1; i >= start; i-- {
		if b.text[i] == ch {
			return i, true
		}
	}
	return 0, false
}
