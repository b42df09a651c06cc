package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"apiconsole/internal/render"
)

type fakeExec struct {
	lines []string
}

func (f *fakeExec) Execute(_ context.Context, line string) bool {
	f.lines = append(f.lines, line)
	return line != "/exit"
}

func TestRunStopsOnExit(t *testing.T) {
	var out bytes.Buffer
	term, err := New(Options{
		In:     strings.NewReader("/help\n\n   \n/todo list\n/exit\n/never\n"),
		Out:    &out,
		Theme:  render.PlainTheme(),
		Prompt: func() string { return "api> " },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	exec := &fakeExec{}
	if err := term.Run(context.Background(), exec); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Join(exec.lines, "|") != "/help|/todo list|/exit" {
		t.Fatalf("executed=%q", exec.lines)
	}
	if !strings.HasPrefix(out.String(), "api> ") {
		t.Fatalf("prompt missing: %q", out.String())
	}
}

func TestRunStopsOnEOF(t *testing.T) {
	term, err := New(Options{In: strings.NewReader("hello"), Out: &bytes.Buffer{}, Theme: render.PlainTheme()})
	if err != nil {
		t.Fatal(err)
	}
	exec := &fakeExec{}
	if err := term.Run(context.Background(), exec); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(exec.lines) != 1 || exec.lines[0] != "hello" {
		t.Fatalf("executed=%q", exec.lines)
	}
}

func TestOutput(t *testing.T) {
	var out bytes.Buffer
	term, err := New(Options{In: strings.NewReader(""), Out: &out, Theme: render.PlainTheme()})
	if err != nil {
		t.Fatal(err)
	}
	term.Print("table\n")
	term.Alert("Request failed: 500 Internal Server Error")
	if out.String() != "table\n! Request failed: 500 Internal Server Error\n" {
		t.Fatalf("output=%q", out.String())
	}
}
