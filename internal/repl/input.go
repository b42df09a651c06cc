package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

type lineInput interface {
	ReadLine(prompt string) (string, error)
	// Writer 异步输出的目标；readline 会在写入后重绘提示符
	// Writer is where asynchronous output goes; readline redraws the prompt after writes
	Writer() io.Writer
	Close() error
}

type basicLineInput struct {
	reader *bufio.Reader
	out    io.Writer
}

func newBasicLineInput(in io.Reader, out io.Writer) *basicLineInput {
	return &basicLineInput{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (b *basicLineInput) ReadLine(prompt string) (string, error) {
	if b.out != nil {
		fmt.Fprint(b.out, prompt)
	}
	line, err := b.reader.ReadString('\n')
	if err != nil {
		// 最后一行没有换行符时仍然返回 / a final line without newline is still returned
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *basicLineInput) Writer() io.Writer { return b.out }

func (b *basicLineInput) Close() error { return nil }

type readlineInput struct {
	instance *readline.Instance
}

func newReadlineInput(historyPath string) (*readlineInput, error) {
	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	instance, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyPath,
		HistorySearchFold: true,
		AutoComplete:      commandCompleter,
	})
	if err != nil {
		return nil, err
	}
	return &readlineInput{instance: instance}, nil
}

func (r *readlineInput) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	return r.instance.Readline()
}

func (r *readlineInput) Writer() io.Writer {
	return r.instance.Stdout()
}

func (r *readlineInput) Close() error {
	if r == nil || r.instance == nil {
		return nil
	}
	return r.instance.Close()
}

var commandCompleter = readline.NewPrefixCompleter(
	readline.PcItem("/base"),
	readline.PcItem("/login", readline.PcItem("admin"), readline.PcItem("user")),
	readline.PcItem("/logout"),
	readline.PcItem("/whoami"),
	readline.PcItem("/todo",
		readline.PcItem("list"), readline.PcItem("add"), readline.PcItem("finish"), readline.PcItem("delete")),
	readline.PcItem("/approval",
		readline.PcItem("list"), readline.PcItem("pass"), readline.PcItem("reject")),
	readline.PcItem("/chat"),
	readline.PcItem("/upload"),
	readline.PcItem("/ws", readline.PcItem("connect"), readline.PcItem("disconnect")),
	readline.PcItem("/history"),
	readline.PcItem("/help"),
	readline.PcItem("/exit"),
)
