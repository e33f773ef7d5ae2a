// Package render paints the engine's view of the line onto a tcell screen.
package render

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/qline/internal/logger"
	"github.com/kobzarvs/qline/internal/vi"
)

type Options struct {
	Prompt   string
	TabWidth int
	Bell     bool
	Styles   Styles
}

// Painter implements vi.Painter. The text starts after the prompt on the
// first row; wrapped and continuation rows are indented to the prompt
// width. The bottom row is the status line.
type Painter struct {
	screen tcell.Screen
	opts   Options

	mu   sync.Mutex
	view vi.View
}

func NewPainter(s tcell.Screen, opts Options) *Painter {
	if opts.TabWidth < 1 {
		opts.TabWidth = 4
	}
	return &Painter{screen: s, opts: opts}
}

func (p *Painter) Notify(v vi.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view = v
	p.draw()
}

// Redraw paints the last view again, e.g. after a resize.
func (p *Painter) Redraw() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draw()
}

func (p *Painter) Bell() {
	if !p.opts.Bell {
		return
	}
	if err := p.screen.Beep(); err != nil {
		logger.Debug("beep failed", "error", err)
	}
}

// cell is one laid-out rune. off is the text offset, or -1 for the prompt.
type cell struct {
	x, y  int
	r     rune
	off   int
	width int
}

type layout struct {
	cells  []cell
	cx, cy int
	rows   int
}

func cellWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		return 1
	}
	return w
}

func layoutText(prompt, text string, cursor, width, tabWidth int) layout {
	var l layout
	if width <= 0 {
		return l
	}
	x, y := 0, 0
	for _, r := range prompt {
		w := cellWidth(r)
		if x+w > width && x > 0 {
			x, y = 0, y+1
		}
		l.cells = append(l.cells, cell{x: x, y: y, r: r, off: -1, width: w})
		x += w
	}
	indent := x
	if indent >= width {
		indent = 0
		x, y = 0, y+1
	}

	rs := []rune(text)
	for i, r := range rs {
		if r == '\n' {
			if i == cursor {
				l.cx, l.cy = x, y
			}
			if x < width {
				l.cells = append(l.cells, cell{x: x, y: y, r: ' ', off: i, width: 1})
			}
			x, y = indent, y+1
			continue
		}
		w := cellWidth(r)
		if r == '\t' {
			w = tabWidth - (x-indent)%tabWidth
		}
		if x+w > width && x > indent {
			x, y = indent, y+1
		}
		if i == cursor {
			l.cx, l.cy = x, y
		}
		l.cells = append(l.cells, cell{x: x, y: y, r: r, off: i, width: w})
		x += w
	}
	if cursor >= len(rs) {
		if x >= width {
			x, y = indent, y+1
		}
		l.cx, l.cy = x, y
	}
	l.rows = y + 1
	if l.cy+1 > l.rows {
		l.rows = l.cy + 1
	}
	return l
}

func (p *Painter) draw() {
	s := p.screen
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	statusY := h - 1
	viewHeight := h - 1
	if h < 2 {
		statusY = -1
		viewHeight = h
	}

	s.SetStyle(p.opts.Styles.Text)
	s.Clear()

	v := p.view
	l := layoutText(p.opts.Prompt, v.Text, v.Cursor, w, p.opts.TabWidth)
	scroll := 0
	if l.cy >= viewHeight {
		scroll = l.cy - viewHeight + 1
	}
	for _, c := range l.cells {
		y := c.y - scroll
		if y < 0 || y >= viewHeight {
			continue
		}
		style := p.opts.Styles.Text
		switch {
		case c.off < 0:
			style = p.opts.Styles.Prompt
		case v.Selecting && c.off >= v.Selection.Start && c.off < v.Selection.End:
			style = p.opts.Styles.Selection
		}
		if c.r == '\t' {
			for i := 0; i < c.width && c.x+i < w; i++ {
				s.SetContent(c.x+i, y, ' ', nil, style)
			}
			continue
		}
		s.SetContent(c.x, y, c.r, nil, style)
	}

	if statusY >= 0 {
		p.renderStatusline(w, statusY)
	}

	cy := l.cy - scroll
	if cy < 0 || cy >= viewHeight || l.cx >= w {
		s.HideCursor()
		s.Show()
		return
	}
	cursorStyle := tcell.CursorStyleSteadyBlock
	if v.Mode == vi.ModeInsert || v.Mode == vi.ModeReplace {
		cursorStyle = tcell.CursorStyleSteadyBar
	}
	s.SetCursorStyle(cursorStyle)
	s.ShowCursor(l.cx, cy)
	s.Show()
}

func (p *Painter) renderStatusline(w, y int) {
	v := p.view
	left := fmt.Sprintf(" %s ", v.Mode.Label())
	if v.Register != 0 {
		left += fmt.Sprintf("\"%c ", v.Register)
	}
	right := ""
	if v.Pending != "" {
		right = v.Pending + " "
	}
	line := composeStatusLine(left, right, w)
	pendingFrom := w - runewidth.StringWidth(right)
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		style := p.opts.Styles.Status
		if right != "" && x >= pendingFrom {
			style = p.opts.Styles.Pending
		}
		p.screen.SetContent(x, y, r, nil, style)
		x += cellWidth(r)
	}
	for ; x < w; x++ {
		p.screen.SetContent(x, y, ' ', nil, p.opts.Styles.Status)
	}
}

// composeStatusLine right-aligns right and truncates left to fit width
// cells. When right alone is too wide its tail is kept.
func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	lw := runewidth.StringWidth(left)
	rw := runewidth.StringWidth(right)
	if lw+rw > width {
		if rw >= width {
			for rw > width {
				rw -= cellWidth(rightRunes[0])
				rightRunes = rightRunes[1:]
			}
			leftRunes = nil
			lw = 0
		} else {
			for lw > width-rw {
				lw -= cellWidth(leftRunes[len(leftRunes)-1])
				leftRunes = leftRunes[:len(leftRunes)-1]
			}
		}
	}
	spaceCount := width - lw - rw
	if spaceCount < 0 {
		spaceCount = 0
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := 0; i < spaceCount; i++ {
		line = append(line, ' ')
	}
	line = append(line, rightRunes...)
	return line
}
