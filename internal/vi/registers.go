package vi

import (
	"strings"

	"github.com/atotto/clipboard"

	"github.com/kobzarvs/qline/internal/logger"
)

// Register is the content of one register slot.
type Register struct {
	Text     string
	Linewise bool
}

// Clipboard backs the + and * registers.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard returns the desktop clipboard, or nil when the platform
// has no clipboard utility.
func SystemClipboard() Clipboard {
	if clipboard.Unsupported {
		return nil
	}
	return systemClipboard{}
}

// Registers holds the unnamed register ("), the named registers a-z
// (A-Z append), 0 (last yank), 1 (last delete), the black hole (_) and
// the clipboard registers + and *.
type Registers struct {
	slots map[rune]Register
	clip  Clipboard
}

// NewRegisters creates an empty register file. With a nil clipboard the
// + and * registers are kept in memory.
func NewRegisters(clip Clipboard) *Registers {
	return &Registers{slots: make(map[rune]Register), clip: clip}
}

// IsRegister reports whether r names a register.
func IsRegister(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune(`"_+*-`, r)
}

// Get returns the content of register name; zero means the unnamed one.
func (r *Registers) Get(name rune) (Register, bool) {
	name = canonical(name)
	if (name == '+' || name == '*') && r.clip != nil {
		text, err := r.clip.ReadAll()
		if err != nil {
			logger.Warn("clipboard read failed", "err", err)
			return Register{}, false
		}
		return Register{Text: text, Linewise: strings.HasSuffix(text, "\n")}, text != ""
	}
	reg, ok := r.slots[name]
	return reg, ok
}

// Set stores reg in name without touching the unnamed or numbered registers.
func (r *Registers) Set(name rune, reg Register) {
	name = canonical(name)
	if name == '_' {
		return
	}
	if (name == '+' || name == '*') && r.clip != nil {
		if err := r.clip.WriteAll(reg.Text); err != nil {
			logger.Warn("clipboard write failed", "err", err)
		}
	}
	r.slots[name] = reg
}

// store records yanked or deleted text the way vi does: the addressed
// register and the unnamed one receive it, and unaddressed yanks and
// deletes also land in 0 and 1.
func (r *Registers) store(name rune, text string, linewise, deleted bool) {
	if name == '_' || (text == "" && !linewise) {
		return
	}
	if linewise && !strings.HasSuffix(text, "\n") {
		if strings.HasPrefix(text, "\n") {
			text = text[1:]
		}
		text += "\n"
	}
	reg := Register{Text: text, Linewise: linewise}
	name = normalizeName(name)
	if name >= 'A' && name <= 'Z' {
		lower := name - 'A' + 'a'
		prev := r.slots[lower]
		reg = Register{Text: prev.Text + text, Linewise: prev.Linewise || linewise}
		name = lower
	}
	if name != '"' {
		r.Set(name, reg)
	}
	r.slots['"'] = reg
	if name == '"' {
		if deleted {
			r.slots['1'] = reg
		} else {
			r.slots['0'] = reg
		}
	}
}

func normalizeName(name rune) rune {
	if name == 0 {
		return '"'
	}
	return name
}

// canonical folds the unnamed aliases and uppercase names for reading.
func canonical(name rune) rune {
	name = normalizeName(name)
	if name >= 'A' && name <= 'Z' {
		return name - 'A' + 'a'
	}
	return name
}
