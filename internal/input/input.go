// Package input delivers key events to the editing loop.
package input

import (
	"errors"
	"time"

	"github.com/kobzarvs/qline/internal/keys"
)

// ErrClosed is returned once the event source is exhausted. It ends the
// read loop and is the only fatal input condition.
var ErrClosed = errors.New("input closed")

// Input yields one key event per call.
type Input interface {
	// Read blocks until a key arrives.
	Read() (keys.Event, error)
	// ReadTimeout waits at most d; ok is false when the wait timed out.
	ReadTimeout(d time.Duration) (ev keys.Event, ok bool, err error)
}

// Chan reads events from a channel. Closing the channel closes the input.
type Chan struct {
	c <-chan keys.Event
}

func NewChan(c <-chan keys.Event) *Chan {
	return &Chan{c: c}
}

// FromNotation returns an input that replays the keys written in notation
// and then reports ErrClosed.
func FromNotation(notation string) (*Chan, error) {
	evs, err := keys.Parse(notation)
	if err != nil {
		return nil, err
	}
	c := make(chan keys.Event, len(evs))
	for _, ev := range evs {
		c <- ev
	}
	close(c)
	return NewChan(c), nil
}

func (in *Chan) Read() (keys.Event, error) {
	return receive(in.c)
}

func (in *Chan) ReadTimeout(d time.Duration) (keys.Event, bool, error) {
	return receiveTimeout(in.c, d)
}

func receive(c <-chan keys.Event) (keys.Event, error) {
	ev, ok := <-c
	if !ok {
		return keys.Event{}, ErrClosed
	}
	return ev, nil
}

func receiveTimeout(c <-chan keys.Event, d time.Duration) (keys.Event, bool, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case ev, ok := <-c:
		if !ok {
			return keys.Event{}, false, ErrClosed
		}
		return ev, true, nil
	case <-timer.C:
		return keys.Event{}, false, nil
	}
}
