package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kobzarvs/qline/internal/keys"
	"github.com/kobzarvs/qline/internal/vi"
)

func TestTestdataScenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.toml"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no scenario files in testdata")
	}
	for _, path := range files {
		results, err := RunFile(path)
		if err != nil {
			t.Fatalf("RunFile(%s): %v", path, err)
		}
		for _, r := range results {
			t.Run(filepath.Base(path)+"/"+r.Name, func(t *testing.T) {
				if r.Failed() {
					t.Fatalf("%v", r.Err)
				}
			})
		}
	}
}

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadNamesUnnamedCases(t *testing.T) {
	path := writeScenario(t, `
[[case]]
keys = "x"

[[case]]
name = "second"
keys = "dd"
`)
	cases, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("cases = %d, want 2", len(cases))
	}
	if cases[0].Name != "case 1" || cases[1].Name != "second" {
		t.Fatalf("names = %q, %q", cases[0].Name, cases[1].Name)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeScenario(t, `
[[case]]
keys = "x"
want-txt = "oops"
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "want-txt") {
		t.Fatalf("Load error = %v, want unknown key want-txt", err)
	}
}

func TestRunReportsMismatch(t *testing.T) {
	want := "hallo"
	cursor := 3
	c := Case{Name: "x", Text: "hello", Keys: "x", WantText: &want, WantCursor: &cursor, WantMode: "insert"}
	r := c.Run()
	if !errors.Is(r.Err, ErrMismatch) {
		t.Fatalf("Err = %v, want ErrMismatch", r.Err)
	}
	msg := r.Err.Error()
	for _, part := range []string{"text:", "cursor: got 0, want 3", "mode: got normal, want insert"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("error %q does not mention %q", msg, part)
		}
	}
	if r.Text != "ello" {
		t.Fatalf("Text = %q, want %q", r.Text, "ello")
	}
}

func TestRunCountsRejectedKeys(t *testing.T) {
	r := Case{Text: "abc", Keys: "dqx"}.Run()
	if r.Err != nil {
		t.Fatalf("Err = %v", r.Err)
	}
	if r.Rejected != 1 {
		t.Fatalf("Rejected = %d, want 1", r.Rejected)
	}
	if r.Text != "bc" {
		t.Fatalf("Text = %q, want %q", r.Text, "bc")
	}
}

func TestRunBadInputs(t *testing.T) {
	if r := (Case{Mode: "command"}).Run(); !errors.Is(r.Err, vi.ErrUnknownMode) {
		t.Fatalf("bad mode Err = %v, want ErrUnknownMode", r.Err)
	}
	if r := (Case{Keys: `a\b`}).Run(); !errors.Is(r.Err, keys.ErrSyntax) {
		t.Fatalf("bad keys Err = %v, want ErrSyntax", r.Err)
	}
}

func TestDiff(t *testing.T) {
	got := Diff("foo bar", "foo baz\n")
	if !strings.HasPrefix(got, "foo ba") || !strings.Contains(got, "[-r-]") || !strings.Contains(got, "{+z\\n+}") {
		t.Fatalf("Diff = %q", got)
	}
	if got := Diff("same", "same"); got != "same" {
		t.Fatalf("Diff equal = %q", got)
	}
}
