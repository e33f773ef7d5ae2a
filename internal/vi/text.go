package vi

// Text is the read side of the buffer the resolver works against: cursor,
// line and word boundaries, bracket matching and in-line search.
type Text interface {
	Len() int
	RuneAt(off int) rune
	Slice(start, end int) string
	Cursor() int
	LineStart(off int) int
	LineEnd(off int) int
	FirstNonBlank(off int) int
	LineCount() int
	LineIndex(off int) int
	LineOffset(n int) int
	NextWordStart(off int, big bool) int
	PrevWordStart(off int, big bool) int
	WordEnd(off int, big bool) int
	PrevWordEnd(off int, big bool) int
	NextParagraph(off int) int
	PrevParagraph(off int) int
	MatchBracket(off int) (int, bool)
	FindInLine(off int, ch rune, forward bool) (int, bool)
}

// Editable adds the mutation primitives edit actions are applied through.
type Editable interface {
	Text
	SetCursor(off int)
	Insert(off int, s string)
	Delete(start, end int) string
}
