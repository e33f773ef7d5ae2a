package buffer

import (
	"strings"
	"unicode"
)

// Buffer is a flat rune buffer addressed by rune offsets. Lines are
// separated by '\n'; the newline belongs to the line it terminates.
type Buffer struct {
	text   []rune
	cursor int
}

func New(s string) *Buffer {
	return &Buffer{text: []rune(s)}
}

func (b *Buffer) String() string {
	return string(b.text)
}

func (b *Buffer) Len() int {
	return len(b.text)
}

// RuneAt returns the rune at off, or 0 when off is out of range.
func (b *Buffer) RuneAt(off int) rune {
	if off < 0 || off >= len(b.text) {
		return 0
	}
	return b.text[off]
}

// Slice returns the text in [start, end), clamped to the buffer.
func (b *Buffer) Slice(start, end int) string {
	start, end = b.clampSpan(start, end)
	return string(b.text[start:end])
}

func (b *Buffer) Cursor() int {
	return b.cursor
}

// SetCursor moves the cursor, clamping to [0, Len].
func (b *Buffer) SetCursor(off int) {
	b.cursor = b.clamp(off)
}

// Insert places s at off (clamped) and shifts the cursor if it sits at or after off.
func (b *Buffer) Insert(off int, s string) {
	if s == "" {
		return
	}
	off = b.clamp(off)
	rs := []rune(s)
	text := make([]rune, 0, len(b.text)+len(rs))
	text = append(text, b.text[:off]...)
	text = append(text, rs...)
	text = append(text, b.text[off:]...)
	b.text = text
	if b.cursor >= off {
		b.cursor += len(rs)
	}
}

// Delete removes [start, end) and returns the removed text.
func (b *Buffer) Delete(start, end int) string {
	start, end = b.clampSpan(start, end)
	if start == end {
		return ""
	}
	removed := string(b.text[start:end])
	b.text = append(b.text[:start], b.text[end:]...)
	switch {
	case b.cursor >= end:
		b.cursor -= end - start
	case b.cursor > start:
		b.cursor = start
	}
	return removed
}

func (b *Buffer) clamp(off int) int {
	if off < 0 {
		return 0
	}
	if off > len(b.text) {
		return len(b.text)
	}
	return off
}

func (b *Buffer) clampSpan(start, end int) (int, int) {
	start, end = b.clamp(start), b.clamp(end)
	if end < start {
		start, end = end, start
	}
	return start, end
}

// LineStart returns the offset of the first rune of the line containing off.
func (b *Buffer) LineStart(off int) int {
	off = b.clamp(off)
	for off > 0 && b.text[off-1] != '\n' {
		off--
	}
	return off
}

// LineEnd returns the offset of the newline ending the line containing off,
// or Len for the last line.
func (b *Buffer) LineEnd(off int) int {
	off = b.clamp(off)
	for off < len(b.text) && b.text[off] != '\n' {
		off++
	}
	return off
}

// FirstNonBlank returns the first non-blank offset on the line containing off.
func (b *Buffer) FirstNonBlank(off int) int {
	i, end := b.LineStart(off), b.LineEnd(off)
	for i < end && isSpaceRune(b.text[i]) {
		i++
	}
	return i
}

// LineCount returns the number of lines; an empty buffer has one line.
func (b *Buffer) LineCount() int {
	n := 1
	for _, r := range b.text {
		if r == '\n' {
			n++
		}
	}
	return n
}

// LineIndex returns the zero-based line number containing off.
func (b *Buffer) LineIndex(off int) int {
	off = b.clamp(off)
	n := 0
	for _, r := range b.text[:off] {
		if r == '\n' {
			n++
		}
	}
	return n
}

// LineOffset returns the start offset of line n, clamped to the first and last line.
func (b *Buffer) LineOffset(n int) int {
	if n <= 0 {
		return 0
	}
	line := 0
	for i, r := range b.text {
		if r == '\n' {
			line++
			if line == n {
				return i + 1
			}
		}
	}
	return b.LineStart(len(b.text))
}

// Line returns line n without its newline.
func (b *Buffer) Line(n int) string {
	start := b.LineOffset(n)
	return string(b.text[start:b.LineEnd(start)])
}

// Lines splits the buffer into lines without newlines.
func (b *Buffer) Lines() []string {
	return strings.Split(string(b.text), "\n")
}

// IsEmptyLine reports whether off is the newline of a line with no other runes.
func (b *Buffer) IsEmptyLine(off int) bool {
	return b.LineStart(off) == b.LineEnd(off)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t'
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Class is the vi character class used by word motions and text objects.
type Class int

const (
	ClassBlank Class = iota
	ClassPunct
	ClassWord
)

// ClassOf classifies r. With big set every non-blank rune is ClassWord.
func ClassOf(r rune, big bool) Class {
	switch {
	case isBlank(r):
		return ClassBlank
	case big || isWordRune(r):
		return ClassWord
	default:
		return ClassPunct
	}
}

func (b *Buffer) class(off int, big bool) Class {
	return ClassOf(b.text[off], big)
}
