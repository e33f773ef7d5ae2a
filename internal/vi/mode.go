package vi

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the editing mode owned by the Resolver.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeVisual
	ModeVisualLine
	ModeReplace
	ModeOperatorPending
)

var ErrUnknownMode = errors.New("unknown mode")

var modeNames = map[Mode]string{
	ModeNormal:          "normal",
	ModeInsert:          "insert",
	ModeVisual:          "visual",
	ModeVisualLine:      "visual-line",
	ModeReplace:         "replace",
	ModeOperatorPending: "operator-pending",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Label is the status line form of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeInsert:
		return "INSERT"
	case ModeVisual:
		return "VISUAL"
	case ModeVisualLine:
		return "V-LINE"
	case ModeReplace:
		return "REPLACE"
	case ModeOperatorPending:
		return "O-PENDING"
	default:
		return "NORMAL"
	}
}

// IsVisual reports whether m is one of the selection modes.
func (m Mode) IsVisual() bool {
	return m == ModeVisual || m == ModeVisualLine
}

// ParseMode accepts the names produced by String, case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeNormal, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
