package console

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"apiconsole/internal/client"
	"apiconsole/internal/i18n"
	"apiconsole/internal/render"
	"apiconsole/internal/socket"
	"apiconsole/internal/transcript"
)

type Options struct {
	Client   *client.Client
	Recorder *transcript.Recorder
	Output   Output
	Logger   *slog.Logger
	Theme    render.Theme
	// Markdown 为 true 时聊天回复经 Glamour 渲染
	// Markdown renders chat replies through Glamour
	Markdown bool
	WSURL    string
	Width    int
}

// Console 把文本命令分派到会话客户端，并负责失败提示与列表刷新
// Console dispatches text commands to the session client and owns failure reporting and list refresh
type Console struct {
	client   *client.Client
	socket   *socket.Console
	rec      *transcript.Recorder
	out      Output
	logger   *slog.Logger
	theme    render.Theme
	markdown bool
	wsURL    string

	mu             sync.Mutex
	width          int
	todoFilter     client.TodoFilter
	approvalFilter client.ApprovalFilter
	todos          []client.Todo
	approvals      []client.Approval
}

func New(opts Options) *Console {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Console{
		client:   opts.Client,
		rec:      opts.Recorder,
		out:      opts.Output,
		logger:   logger,
		theme:    opts.Theme,
		markdown: opts.Markdown,
		wsURL:    strings.TrimSpace(opts.WSURL),
		width:    opts.Width,
	}
	c.socket = socket.New(opts.Client.Session(), socket.Options{
		Logger:  logger,
		Sink:    c.socketLine,
		OnFrame: c.recordFrame,
	})
	return c
}

// State 状态栏所需的快照
// State is the snapshot the status bar shows
type State struct {
	BaseURL    string
	LoggedIn   bool
	UserID     string
	SocketOpen bool
}

func (c *Console) State() State {
	sess := c.client.Session()
	st := State{
		BaseURL:    sess.BaseURL(),
		LoggedIn:   sess.HasToken(),
		SocketOpen: c.socket.Connected(),
	}
	if st.LoggedIn {
		if claims, err := sessionClaims(sess.Token()); err == nil {
			st.UserID = claims.UserID
		}
	}
	return st
}

func (c *Console) Todos() []client.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]client.Todo(nil), c.todos...)
}

func (c *Console) Approvals() []client.Approval {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]client.Approval(nil), c.approvals...)
}

func (c *Console) SetWidth(w int) {
	c.mu.Lock()
	c.width = w
	c.mu.Unlock()
}

// Execute 执行一行输入；返回 false 表示用户要求退出
// Execute runs one input line; it returns false when the user asked to quit
func (c *Console) Execute(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	if !strings.HasPrefix(line, "/") {
		c.chat(ctx, line)
		return true
	}

	args := splitArgs(line)
	name := strings.ToLower(args[0])
	args = args[1:]
	c.logger.Debug("command", "name", name, "args", len(args))

	switch name {
	case "/exit", "/quit":
		return false
	case "/help":
		c.help()
	case "/base":
		c.base(args)
	case "/login":
		c.login(ctx, args)
	case "/logout":
		c.logout()
	case "/whoami":
		c.whoami()
	case "/todo", "/todos":
		c.todo(ctx, args)
	case "/approval", "/approvals":
		c.approval(ctx, args)
	case "/chat":
		c.chat(ctx, strings.Join(args, " "))
	case "/upload":
		c.upload(ctx, args)
	case "/ws":
		c.ws(ctx, args)
	case "/history":
		c.history(args)
	default:
		c.out.Alert(i18n.T("unknown.command", name))
	}
	return true
}

// Refresh 用最近一次的条件重新加载两个列表
// Refresh reloads both lists with their last filters
func (c *Console) Refresh(ctx context.Context) {
	c.loadTodos(ctx)
	c.loadApprovals(ctx)
}

// Close 断开 WebSocket 并等待读协程退出
// Close disconnects the socket and waits for its reader
func (c *Console) Close() {
	_ = c.socket.Disconnect()
	c.socket.Wait()
}

// fail 统一的失败处理：提示用户并写日志
// fail is the single failure path: alert the user and log
func (c *Console) fail(op string, err error) {
	c.logger.Warn("command failed", "op", op, "error", err)
	c.out.Alert(describeError(op, err))
}

func (c *Console) socketLine(line string) {
	if v, ok := c.out.(SocketViewer); ok {
		v.ShowSocket(line)
		return
	}
	c.out.Print(c.theme.SocketStyle.Render(line))
}

func (c *Console) recordFrame(frame string) {
	if c.rec == nil {
		return
	}
	if _, err := c.rec.RecordFrame(frame); err != nil {
		c.logger.Warn("record frame failed", "error", err)
	}
}

func (c *Console) currentWidth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}
