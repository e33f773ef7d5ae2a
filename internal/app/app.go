package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qline/internal/buffer"
	"github.com/kobzarvs/qline/internal/config"
	"github.com/kobzarvs/qline/internal/input"
	"github.com/kobzarvs/qline/internal/keys"
	"github.com/kobzarvs/qline/internal/logger"
	"github.com/kobzarvs/qline/internal/render"
	"github.com/kobzarvs/qline/internal/scenario"
	"github.com/kobzarvs/qline/internal/vi"
)

var (
	// ErrAborted is returned when the prompt is cancelled with <C-c>.
	ErrAborted = errors.New("aborted")
	// ErrReplayFailed is returned when any replayed scenario fails.
	ErrReplayFailed = errors.New("replay failed")
)

// App is the top-level runtime for qline.
type App struct {
	args   []string
	stdout io.Writer
	stderr io.Writer
}

func New(args []string) *App {
	return &App{args: args, stdout: os.Stdout, stderr: os.Stderr}
}

// Run dispatches "replay FILE..." or runs the interactive prompt with the
// remaining arguments as the initial text.
func (a *App) Run() error {
	if len(a.args) > 0 && a.args[0] == "replay" {
		return a.replay(a.args[1:])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Debug); err != nil {
		return err
	}
	defer logger.Close()

	text, err := a.prompt(cfg, strings.Join(a.args, " "))
	if err != nil {
		if errors.Is(err, ErrAborted) {
			logger.Info("prompt aborted")
		} else {
			logger.Error("prompt failed", "error", err)
		}
		return err
	}
	logger.Info("prompt accepted", "runes", len([]rune(text)))
	_, err = fmt.Fprintln(a.stdout, text)
	return err
}

func (a *App) prompt(cfg config.Config, initial string) (string, error) {
	start, err := StartMode(cfg.Editor.StartMode)
	if err != nil {
		return "", err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return "", err
	}
	if err := s.Init(); err != nil {
		return "", err
	}
	defer s.Fini()

	painter := render.NewPainter(s, render.Options{
		Prompt:   cfg.Editor.Prompt,
		TabWidth: cfg.Editor.TabWidth,
		Bell:     cfg.Editor.Bell,
		Styles:   render.NewStyles(cfg.Theme),
	})
	in := input.NewScreen(s, func(int, int) { painter.Redraw() })
	defer in.Close()

	buf := buffer.New(initial)
	buf.SetCursor(buf.Len())
	eng := vi.NewEngine(buf, vi.Options{
		StartMode: start,
		TabWidth:  cfg.Editor.TabWidth,
		Registers: vi.NewRegisters(vi.SystemClipboard()),
		Painter:   painter,
	})
	logger.Info("prompt started", "mode", start, "multiline", cfg.Editor.Multiline)
	painter.Notify(eng.View())
	return ReadLine(in, eng, cfg.Editor.Multiline)
}

// StartMode accepts the modes a prompt may begin in.
func StartMode(name string) (vi.Mode, error) {
	m, err := vi.ParseMode(name)
	if err != nil {
		return vi.ModeInsert, err
	}
	if m != vi.ModeInsert && m != vi.ModeNormal {
		return vi.ModeInsert, fmt.Errorf("start mode %q: %w", name, vi.ErrUnknownMode)
	}
	return m, nil
}

// ReadLine feeds keys from in to eng until the line is submitted or the
// prompt is aborted. <CR> submits when no keys are pending, except in
// Insert and Replace mode with multiline set, where it is an ordinary
// key. <C-c> aborts at any time.
func ReadLine(in input.Input, eng *vi.Engine, multiline bool) (string, error) {
	for {
		ev, err := in.Read()
		if err != nil {
			return "", err
		}
		if ev == keys.Ctrl('c') {
			return "", ErrAborted
		}
		if ev == keys.Enter && eng.Pending() == "" && submits(eng.Mode(), multiline) {
			return eng.Buffer().String(), nil
		}
		eng.Feed(ev)
	}
}

func submits(m vi.Mode, multiline bool) bool {
	if m == vi.ModeInsert || m == vi.ModeReplace {
		return !multiline
	}
	return true
}

func (a *App) replay(paths []string) error {
	if len(paths) == 0 {
		return errors.New("replay: no scenario files")
	}
	failed := 0
	total := 0
	for _, path := range paths {
		results, err := scenario.RunFile(path)
		if err != nil {
			return err
		}
		for _, r := range results {
			total++
			if r.Failed() {
				failed++
				logger.Warn("scenario failed", "file", path, "case", r.Name, "error", r.Err)
				fmt.Fprintf(a.stderr, "FAIL %s: %s\n     %v\n", path, r.Name, r.Err)
				continue
			}
			fmt.Fprintf(a.stdout, "ok   %s: %s\n", path, r.Name)
		}
	}
	fmt.Fprintf(a.stdout, "%d/%d passed\n", total-failed, total)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrReplayFailed, failed, total)
	}
	return nil
}
