package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"apiconsole/internal/client"
	"apiconsole/internal/i18n"
	"apiconsole/internal/render"
	"apiconsole/internal/session"
	"apiconsole/internal/socket"
	"apiconsole/internal/transcript"
)

var helpKeys = []string{
	"help.base", "help.login", "help.whoami", "help.logout", "help.todo",
	"help.approval", "help.chat", "help.upload", "help.ws", "help.history", "help.exit",
}

var sessionClaims = session.InspectToken

func (c *Console) help() {
	lines := []string{c.theme.TitleStyle.Render(i18n.T("help.title"))}
	for _, k := range helpKeys {
		lines = append(lines, "  "+i18n.T(k))
	}
	c.out.Print(strings.Join(lines, "\n"))
}

func (c *Console) usage(key string) {
	c.out.Alert(i18n.T("error.usage", i18n.T(key)))
}

func (c *Console) base(args []string) {
	if len(args) == 0 {
		c.out.Print(i18n.T("base.current", c.client.Session().BaseURL()))
		return
	}
	if err := c.client.ConfigureBaseURL(args[0]); err != nil {
		c.fail("base", err)
		return
	}
	c.logger.Info("base url changed", "base_url", c.client.Session().BaseURL())
	c.out.Print(i18n.T("base.saved", c.client.Session().BaseURL()))
}

func (c *Console) login(ctx context.Context, args []string) {
	if len(args) < 2 {
		c.usage("help.login")
		return
	}
	role, ok := client.ParseRole(args[0])
	if !ok {
		c.usage("help.login")
		return
	}
	password := ""
	if len(args) > 2 {
		password = args[2]
	}
	res, err := c.client.Login(ctx, role, client.Credentials{Name: args[1], Password: password})
	if err != nil {
		c.fail("login", err)
		return
	}
	c.out.Print(i18n.T("login.ok", string(res.Role)))
	c.out.Print(render.PrettyJSON(res.Raw))
}

func (c *Console) logout() {
	if err := c.client.Logout(); err != nil {
		c.fail("logout", err)
		return
	}
	c.mu.Lock()
	c.todos, c.approvals = nil, nil
	c.mu.Unlock()
	if v, ok := c.out.(ListViewer); ok {
		v.ShowTodos(nil)
		v.ShowApprovals(nil)
	}
	c.out.Print(i18n.T("logout.ok"))
}

func (c *Console) whoami() {
	token := c.client.Session().Token()
	if token == "" {
		c.out.Print(i18n.T("whoami.none"))
		return
	}
	lines := []string{i18n.T("whoami.token", shortToken(token))}
	claims, err := sessionClaims(token)
	if err != nil {
		lines = append(lines, i18n.T("whoami.opaque"))
		c.out.Print(strings.Join(lines, "\n"))
		return
	}
	if claims.UserID != "" {
		lines = append(lines, i18n.T("whoami.user", claims.UserID))
	}
	if !claims.IssuedAt.IsZero() {
		lines = append(lines, i18n.T("whoami.issued", claims.IssuedAt.Local().Format(time.DateTime)))
	}
	if !claims.ExpiresAt.IsZero() {
		lines = append(lines, i18n.T("whoami.expires", claims.ExpiresAt.Local().Format(time.DateTime)))
	}
	if claims.Expired(time.Now()) {
		lines = append(lines, c.theme.ErrorStyle.Render(i18n.T("whoami.expired")))
	}
	c.out.Print(strings.Join(lines, "\n"))
}

func shortToken(token string) string {
	if len(token) <= 16 {
		return token
	}
	return token[:8] + "..." + token[len(token)-4:]
}

func (c *Console) todo(ctx context.Context, args []string) {
	if len(args) == 0 {
		c.usage("help.todo")
		return
	}
	sub, rest := strings.ToLower(args[0]), args[1:]
	switch sub {
	case "list", "ls":
		filter := client.TodoFilter{}
		if len(rest) > 0 {
			filter.UserID = rest[0]
		}
		c.mu.Lock()
		c.todoFilter = filter
		c.mu.Unlock()
		c.loadTodos(ctx)
	case "add", "create":
		flags, words := extractFlags(rest, []string{"deadline", "exec", "desc"}, nil)
		_, err := c.client.CreateTodo(ctx, client.TodoInput{
			Title:      strings.Join(words, " "),
			DeadlineAt: flags["deadline"],
			ExecuteIDs: flags["exec"],
			Desc:       flags["desc"],
		})
		if err != nil {
			c.fail("todo.create", err)
			return
		}
		c.out.Print(i18n.T("todo.created"))
		c.loadTodos(ctx)
	case "finish", "done":
		id := firstArg(rest)
		if _, err := c.client.FinishTodo(ctx, id); err != nil {
			c.fail("todo.finish", err)
			return
		}
		c.out.Print(i18n.T("todo.finished", id))
		c.loadTodos(ctx)
	case "delete", "rm":
		id := firstArg(rest)
		if _, err := c.client.DeleteTodo(ctx, id); err != nil {
			c.fail("todo.delete", err)
			return
		}
		c.out.Print(i18n.T("todo.deleted", id))
		c.loadTodos(ctx)
	default:
		c.usage("help.todo")
	}
}

func (c *Console) loadTodos(ctx context.Context) {
	c.mu.Lock()
	filter := c.todoFilter
	c.mu.Unlock()

	todos, err := c.client.ListTodos(ctx, filter)
	if err != nil {
		c.fail("todo.list", err)
		return
	}
	c.mu.Lock()
	c.todos = todos
	c.mu.Unlock()

	if v, ok := c.out.(ListViewer); ok {
		v.ShowTodos(todos)
		return
	}
	c.out.Print(render.TodoTable(todos, c.theme))
}

func (c *Console) approval(ctx context.Context, args []string) {
	if len(args) == 0 {
		c.usage("help.approval")
		return
	}
	sub, rest := strings.ToLower(args[0]), args[1:]
	switch sub {
	case "list", "ls":
		filter := client.ApprovalFilter{}
		if len(rest) > 0 {
			filter.UserID = rest[0]
		}
		if len(rest) > 1 {
			filter.Type = rest[1]
		}
		c.mu.Lock()
		c.approvalFilter = filter
		c.mu.Unlock()
		c.loadApprovals(ctx)
	case "pass", "approve":
		c.dispose(ctx, client.DecisionPass, rest)
	case "reject", "refuse":
		c.dispose(ctx, client.DecisionReject, rest)
	default:
		c.usage("help.approval")
	}
}

func (c *Console) dispose(ctx context.Context, decision client.Decision, args []string) {
	d := client.Disposition{ID: firstArg(args), Decision: decision}
	if len(args) > 1 {
		d.Reason = strings.Join(args[1:], " ")
	}
	if _, err := c.client.DisposeApproval(ctx, d); err != nil {
		c.fail("approval.dispose", err)
		return
	}
	c.out.Print(i18n.T("approval.disposed", d.ID, decision.String()))
	c.loadApprovals(ctx)
}

func (c *Console) loadApprovals(ctx context.Context) {
	c.mu.Lock()
	filter := c.approvalFilter
	c.mu.Unlock()

	items, err := c.client.ListApprovals(ctx, filter)
	if err != nil {
		c.fail("approval.list", err)
		return
	}
	c.mu.Lock()
	c.approvals = items
	c.mu.Unlock()

	if v, ok := c.out.(ListViewer); ok {
		v.ShowApprovals(items)
		return
	}
	c.out.Print(render.ApprovalTable(items, c.theme))
}

func (c *Console) chat(ctx context.Context, prompt string) {
	reply, err := c.client.SendChat(ctx, prompt)
	if err != nil {
		c.fail("chat", err)
		return
	}
	if c.rec != nil {
		if _, err := c.rec.RecordChat(prompt, reply); err != nil {
			c.logger.Warn("record chat failed", "error", err)
		}
	}

	text := transcript.ReplyText(reply)
	if _, isText := reply.(string); isText && c.markdown {
		text = render.Markdown(text, c.currentWidth(), c.theme)
	}
	if v, ok := c.out.(ChatViewer); ok {
		v.ShowChat(prompt, text)
		return
	}
	c.out.Print(fmt.Sprintf("%s: %s", c.theme.SuccessStyle.Render(i18n.T("chat.assistant")), text))
}

func (c *Console) upload(ctx context.Context, args []string) {
	flags, rest := extractFlags(args, nil, []string{"chat"})
	res, err := c.client.UploadPath(ctx, firstArg(rest), flags["chat"] != "")
	if err != nil {
		c.fail("upload", err)
		return
	}
	c.out.Print(i18n.T("upload.ok", res.Filename) + "\n" + render.PrettyJSON(res.Raw))
}

func (c *Console) ws(ctx context.Context, args []string) {
	sub := strings.ToLower(firstArg(args))
	switch sub {
	case "connect", "open":
		url := c.wsURL
		if len(args) > 1 {
			url = args[1]
		}
		err := c.socket.Connect(ctx, url)
		switch {
		case errors.Is(err, socket.ErrAlreadyConnected):
			c.out.Alert(i18n.T("ws.already"))
		case err != nil:
			c.logger.Warn("websocket connect failed", "error", err)
			c.out.Alert(i18n.T("ws.error", err.Error()))
		}
	case "disconnect", "close":
		if !c.socket.Connected() {
			c.out.Print(i18n.T("ws.not_connected"))
			return
		}
		if err := c.socket.Disconnect(); err != nil {
			c.fail("ws.disconnect", err)
		}
	default:
		c.usage("help.ws")
	}
}

func (c *Console) history(args []string) {
	if c.rec == nil {
		c.out.Print(i18n.T("history.empty"))
		return
	}
	if len(args) > 0 && strings.EqualFold(args[0], "clear") {
		if err := c.rec.Clear(); err != nil {
			c.fail("history", err)
			return
		}
		c.out.Print(i18n.T("history.cleared"))
		return
	}
	n := 0
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			c.usage("help.history")
			return
		}
		n = v
	}
	entries, err := c.rec.Recent(n)
	if err != nil {
		c.fail("history", err)
		return
	}
	c.out.Print(render.History(entries, c.theme))
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
