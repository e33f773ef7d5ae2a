package input

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qline/internal/keys"
)

func TestChanReadsThenCloses(t *testing.T) {
	in, err := FromNotation("a<C-w>")
	if err != nil {
		t.Fatalf("FromNotation: %v", err)
	}
	ev, err := in.Read()
	if err != nil || ev != keys.Char('a') {
		t.Fatalf("first = %v, %v; want a", ev, err)
	}
	ev, ok, err := in.ReadTimeout(time.Second)
	if err != nil || !ok || ev != keys.Ctrl('w') {
		t.Fatalf("second = %v, %v, %v; want <C-w>", ev, ok, err)
	}
	if _, err := in.Read(); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if _, _, err := in.ReadTimeout(time.Millisecond); !errors.Is(err, ErrClosed) {
		t.Fatalf("timeout err = %v, want ErrClosed", err)
	}
}

func TestChanReadTimeoutExpires(t *testing.T) {
	c := make(chan keys.Event)
	in := NewChan(c)
	_, ok, err := in.ReadTimeout(10 * time.Millisecond)
	if ok || err != nil {
		t.Fatalf("ReadTimeout = %v, %v; want timeout", ok, err)
	}
}

func TestFromNotationRejectsBadNotation(t *testing.T) {
	if _, err := FromNotation(`a\b`); !errors.Is(err, keys.ErrSyntax) {
		t.Fatalf("err = %v, want keys.ErrSyntax", err)
	}
}

func TestScreenPumpsKeys(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	in := NewScreen(s, nil)
	defer func() {
		in.Close()
		s.Fini()
	}()

	_ = s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	_ = s.PostEvent(tcell.NewEventKey(tcell.KeyCtrlU, 0, tcell.ModCtrl))

	ev, ok, err := in.ReadTimeout(time.Second)
	if err != nil || !ok || ev != keys.Char('x') {
		t.Fatalf("first = %v, %v, %v; want x", ev, ok, err)
	}
	ev, ok, err = in.ReadTimeout(time.Second)
	if err != nil || !ok || ev != keys.Ctrl('u') {
		t.Fatalf("second = %v, %v, %v; want <C-u>", ev, ok, err)
	}
}

func TestScreenCloseEndsReads(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer s.Fini()
	in := NewScreen(s, nil)
	in.Close()
	in.Close()
	if _, _, err := in.ReadTimeout(time.Second); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestScreenResizeCallback(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	sizes := make(chan [2]int, 4)
	in := NewScreen(s, func(w, h int) { sizes <- [2]int{w, h} })
	defer func() {
		in.Close()
		s.Fini()
	}()

	_ = s.PostEvent(tcell.NewEventResize(30, 10))
	timeout := time.After(time.Second)
	for {
		select {
		case got := <-sizes:
			if got == [2]int{30, 10} {
				return
			}
		case <-timeout:
			t.Fatalf("resize callback not called")
		}
	}
}
