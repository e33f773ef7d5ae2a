package vi

import (
	"errors"
	"testing"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func TestRegistersYankAndDelete(t *testing.T) {
	r := NewRegisters(nil)
	r.store(0, "yanked", false, false)
	r.store(0, "deleted", false, true)
	if reg, _ := r.Get('0'); reg.Text != "yanked" {
		t.Fatalf("register 0 = %q, want %q", reg.Text, "yanked")
	}
	if reg, _ := r.Get('1'); reg.Text != "deleted" {
		t.Fatalf("register 1 = %q, want %q", reg.Text, "deleted")
	}
	if reg, _ := r.Get(0); reg.Text != "deleted" {
		t.Fatalf("unnamed = %q, want %q", reg.Text, "deleted")
	}
}

func TestRegistersNamedDoNotTouchNumbered(t *testing.T) {
	r := NewRegisters(nil)
	r.store('q', "x", false, false)
	if _, ok := r.Get('0'); ok {
		t.Fatalf("named yank filled register 0")
	}
	if reg, ok := r.Get('Q'); !ok || reg.Text != "x" {
		t.Fatalf("Q = %+v %v, want x", reg, ok)
	}
}

func TestRegistersLinewiseNormalized(t *testing.T) {
	r := NewRegisters(nil)
	r.store(0, "\nlast", true, true)
	reg, _ := r.Get(0)
	if reg.Text != "last\n" || !reg.Linewise {
		t.Fatalf("unnamed = %+v, want linewise %q", reg, "last\n")
	}
	r.store('a', "", true, true)
	if reg, _ := r.Get('a'); reg.Text != "\n" {
		t.Fatalf("empty line = %q, want %q", reg.Text, "\n")
	}
}

func TestRegistersAppendKeepsLinewise(t *testing.T) {
	r := NewRegisters(nil)
	r.store('a', "one", true, false)
	r.store('A', "two", false, false)
	reg, _ := r.Get('a')
	if reg.Text != "one\ntwo" || !reg.Linewise {
		t.Fatalf("a = %+v, want linewise %q", reg, "one\ntwo")
	}
}

func TestRegistersBlackHole(t *testing.T) {
	r := NewRegisters(nil)
	r.store(0, "keep", false, false)
	r.store('_', "gone", false, true)
	if reg, _ := r.Get(0); reg.Text != "keep" {
		t.Fatalf("unnamed = %q, want %q", reg.Text, "keep")
	}
	if _, ok := r.Get('_'); ok {
		t.Fatalf("black hole register holds text")
	}
}

func TestRegistersClipboard(t *testing.T) {
	clip := &fakeClipboard{}
	r := NewRegisters(clip)
	r.store('+', "shared", false, false)
	if clip.text != "shared" {
		t.Fatalf("clipboard = %q, want %q", clip.text, "shared")
	}
	clip.text = "from outside\n"
	reg, ok := r.Get('*')
	if !ok || reg.Text != "from outside\n" || !reg.Linewise {
		t.Fatalf("* = %+v %v", reg, ok)
	}
	clip.err = errors.New("no display")
	if _, ok := r.Get('+'); ok {
		t.Fatalf("clipboard error should read as empty")
	}
}

func TestIsRegister(t *testing.T) {
	for _, r := range `aZ09"_+*-` {
		if !IsRegister(r) {
			t.Fatalf("IsRegister(%q) = false", r)
		}
	}
	for _, r := range "!@ \t" {
		if IsRegister(r) {
			t.Fatalf("IsRegister(%q) = true", r)
		}
	}
}
