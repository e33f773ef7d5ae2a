package input

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qline/internal/keys"
)

// Screen pumps key events from a tcell screen. The pump goroutine is the
// only reader of PollEvent; it stops when the screen is finalized or the
// input is closed.
type Screen struct {
	screen tcell.Screen
	events chan keys.Event
	done   chan struct{}
	once   sync.Once
	// onResize runs on the pump goroutine after the screen has been
	// synced to its new size.
	onResize func(width, height int)
}

// NewScreen starts pumping events from s. onResize may be nil.
func NewScreen(s tcell.Screen, onResize func(width, height int)) *Screen {
	in := &Screen{
		screen:   s,
		events:   make(chan keys.Event, 16),
		done:     make(chan struct{}),
		onResize: onResize,
	}
	go in.pump()
	return in
}

func (in *Screen) pump() {
	defer close(in.events)
	for {
		ev := in.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventKey:
			select {
			case in.events <- keys.FromTcell(ev):
			case <-in.done:
				return
			}
		case *tcell.EventResize:
			in.screen.Sync()
			if in.onResize != nil {
				w, h := ev.Size()
				in.onResize(w, h)
			}
		}
		select {
		case <-in.done:
			return
		default:
		}
	}
}

func (in *Screen) Read() (keys.Event, error) {
	return receive(in.events)
}

func (in *Screen) ReadTimeout(d time.Duration) (keys.Event, bool, error) {
	return receiveTimeout(in.events, d)
}

// Close stops the pump. Pending events are dropped; the next read after
// the pump exits reports ErrClosed.
func (in *Screen) Close() {
	in.once.Do(func() {
		close(in.done)
		// Wake PollEvent so the pump sees done.
		_ = in.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
}
