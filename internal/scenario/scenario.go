// Package scenario replays key sequences from TOML files through the
// editing engine and compares the outcome with the expected state.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/kobzarvs/qline/internal/buffer"
	"github.com/kobzarvs/qline/internal/input"
	"github.com/kobzarvs/qline/internal/vi"
)

var ErrMismatch = errors.New("scenario mismatch")

// Case is one [[case]] table. Expectations left out of the file are not
// checked.
type Case struct {
	Name   string `toml:"name"`
	Text   string `toml:"text"`
	Cursor int    `toml:"cursor"`
	Mode   string `toml:"mode"`
	Keys   string `toml:"keys"`

	WantText   *string `toml:"want-text"`
	WantCursor *int    `toml:"want-cursor"`
	WantMode   string  `toml:"want-mode"`
	// Register names the register WantRegister is compared with; it
	// defaults to the unnamed register.
	Register     string  `toml:"register"`
	WantRegister *string `toml:"want-register"`
}

type file struct {
	Cases []Case `toml:"case"`
}

// Load reads every case in path.
func Load(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f file
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("parse %s: unknown key %q", path, undec[0].String())
	}
	for i := range f.Cases {
		if f.Cases[i].Name == "" {
			f.Cases[i].Name = fmt.Sprintf("case %d", i+1)
		}
	}
	return f.Cases, nil
}

// Result is the state after replaying a case. Err wraps ErrMismatch when
// an expectation failed.
type Result struct {
	Name     string
	Text     string
	Cursor   int
	Mode     vi.Mode
	Rejected int
	Err      error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// Run replays the case on a fresh buffer with empty registers.
func (c Case) Run() Result {
	res := Result{Name: c.Name}
	start := vi.ModeNormal
	if c.Mode != "" {
		m, err := vi.ParseMode(c.Mode)
		if err != nil {
			res.Err = err
			return res
		}
		start = m
	}
	in, err := input.FromNotation(c.Keys)
	if err != nil {
		res.Err = fmt.Errorf("keys: %w", err)
		return res
	}

	buf := buffer.New(c.Text)
	buf.SetCursor(c.Cursor)
	eng := vi.NewEngine(buf, vi.Options{StartMode: start})
	for {
		ev, err := in.Read()
		if errors.Is(err, input.ErrClosed) {
			break
		}
		if eng.Feed(ev) == vi.Rejected {
			res.Rejected++
		}
	}

	res.Text = buf.String()
	res.Cursor = buf.Cursor()
	res.Mode = eng.Mode()
	res.Err = c.check(res, eng.Registers())
	return res
}

func (c Case) check(res Result, regs *vi.Registers) error {
	var problems []string
	if c.WantText != nil && res.Text != *c.WantText {
		problems = append(problems, "text: "+Diff(*c.WantText, res.Text))
	}
	if c.WantCursor != nil && res.Cursor != *c.WantCursor {
		problems = append(problems, fmt.Sprintf("cursor: got %d, want %d", res.Cursor, *c.WantCursor))
	}
	if c.WantMode != "" {
		want, err := vi.ParseMode(c.WantMode)
		if err != nil {
			return err
		}
		if res.Mode != want {
			problems = append(problems, fmt.Sprintf("mode: got %s, want %s", res.Mode, want))
		}
	}
	if c.WantRegister != nil {
		name := '"'
		if c.Register != "" {
			name = []rune(c.Register)[0]
		}
		reg, _ := regs.Get(name)
		if reg.Text != *c.WantRegister {
			problems = append(problems, fmt.Sprintf("register %c: %s", name, Diff(*c.WantRegister, reg.Text)))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMismatch, strings.Join(problems, "; "))
}

// Diff renders the difference between want and got inline, marking
// missing text as [-...-] and unexpected text as {+...+}.
func Diff(want, got string) string {
	d := dmp.New()
	diffs := d.DiffMain(want, got, false)
	diffs = d.DiffCleanupSemantic(diffs)
	var sb strings.Builder
	for _, df := range diffs {
		text := strings.ReplaceAll(df.Text, "\n", `\n`)
		switch df.Type {
		case dmp.DiffDelete:
			sb.WriteString("[-" + text + "-]")
		case dmp.DiffInsert:
			sb.WriteString("{+" + text + "+}")
		case dmp.DiffEqual:
			sb.WriteString(text)
		}
	}
	return sb.String()
}

// RunFile loads path and runs each case.
func RunFile(path string) ([]Result, error) {
	cases, err := Load(path)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		results = append(results, c.Run())
	}
	return results, nil
}
