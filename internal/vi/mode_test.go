package vi

import (
	"errors"
	"testing"
)

func TestParseModeRoundTrip(t *testing.T) {
	for _, m := range modes {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %v, %v; want %v", m.String(), got, err, m)
		}
	}
	if got, _ := ParseMode(" Insert "); got != ModeInsert {
		t.Fatalf("ParseMode is not case-insensitive: %v", got)
	}
	if _, err := ParseMode("command"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("err = %v, want ErrUnknownMode", err)
	}
}

func TestModeLabel(t *testing.T) {
	if ModeVisualLine.Label() != "V-LINE" || ModeNormal.Label() != "NORMAL" {
		t.Fatalf("labels = %q %q", ModeVisualLine.Label(), ModeNormal.Label())
	}
}
