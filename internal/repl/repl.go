package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"apiconsole/internal/render"
)

// Executor 执行一行输入；返回 false 表示退出
// Executor runs one input line; false means quit
type Executor interface {
	Execute(ctx context.Context, line string) bool
}

type Options struct {
	// In 为空时使用 stdin；stdin 是终端时启用 readline
	// In defaults to stdin; readline is used when stdin is a terminal
	In          io.Reader
	Out         io.Writer
	HistoryPath string
	Theme       render.Theme
	Prompt      func() string
}

// Terminal 行式前端：读取输入、打印输出
// Terminal is the line-oriented front end
type Terminal struct {
	input  lineInput
	theme  render.Theme
	prompt func() string

	mu  sync.Mutex
	out io.Writer
}

func New(opts Options) (*Terminal, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	prompt := opts.Prompt
	if prompt == nil {
		prompt = func() string { return "> " }
	}

	var input lineInput
	if opts.In == nil && term.IsTerminal(int(os.Stdin.Fd())) {
		rl, err := newReadlineInput(opts.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("init readline: %w", err)
		}
		input = rl
	} else {
		in := opts.In
		if in == nil {
			in = os.Stdin
		}
		input = newBasicLineInput(in, out)
	}

	return &Terminal{
		input:  input,
		theme:  opts.Theme,
		prompt: prompt,
		out:    input.Writer(),
	}, nil
}

// Print 实现 console.Output
// Print implements console.Output
func (t *Terminal) Print(text string) {
	t.write(text)
}

func (t *Terminal) Alert(text string) {
	t.write(t.theme.ErrorStyle.Render("! " + text))
}

func (t *Terminal) write(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, strings.TrimRight(text, "\n"))
}

// Run 读取并执行输入，直到 EOF 或退出命令
// Run reads and executes input until EOF or a quit command
func (t *Terminal) Run(ctx context.Context, exec Executor) error {
	defer t.input.Close()
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := t.input.ReadLine(t.prompt())
		if err != nil {
			switch {
			case errors.Is(err, readline.ErrInterrupt):
				continue
			case errors.Is(err, io.EOF):
				return nil
			default:
				return fmt.Errorf("read input: %w", err)
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !exec.Execute(ctx, line) {
			return nil
		}
	}
}
