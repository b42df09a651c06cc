package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"apiconsole/internal/client"
	"apiconsole/internal/console"
	"apiconsole/internal/i18n"
	"apiconsole/internal/render"
)

// PanelID 面板标识
// PanelID identifies a panel
type PanelID int

const (
	PanelTodos PanelID = iota
	PanelApprovals
	PanelChat
	PanelLog
	panelCount
)

// Runner 由 console.Console 实现
// Runner is implemented by console.Console
type Runner interface {
	Execute(ctx context.Context, line string) bool
	Refresh(ctx context.Context)
	State() console.State
	SetWidth(w int)
}

// CommandDoneMsg 一条命令执行结束
// CommandDoneMsg marks the end of one command
type CommandDoneMsg struct {
	Quit  bool
	State console.State
}

// App Bubble Tea 主 Model
// App is the main Bubble Tea model
type App struct {
	width  int
	height int

	activePanel   PanelID
	todosView     viewport.Model
	approvalsView viewport.Model
	chatView      viewport.Model
	logView       viewport.Model

	input textarea.Model

	todos     []client.Todo
	approvals []client.Approval
	chatLines []string
	logLines  []string

	state     console.State
	busy      bool
	lastError string

	ctx    context.Context
	runner Runner
	theme  render.Theme
	keys   KeyMap
}

func NewApp(ctx context.Context, runner Runner, theme render.Theme) App {
	ta := textarea.New()
	ta.Placeholder = i18n.T("tui.input_placeholder")
	ta.CharLimit = 8192
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	return App{
		activePanel: PanelTodos,
		input:       ta,
		state:       runner.State(),
		ctx:         ctx,
		runner:      runner,
		theme:       theme,
		keys:        DefaultKeyMap(),
	}
}

func (a App) Init() tea.Cmd {
	if a.state.LoggedIn {
		return tea.Batch(textarea.Blink, a.refresh())
	}
	return textarea.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.SwitchPanel):
			a.activePanel = (a.activePanel + 1) % panelCount
			return a, nil
		case key.Matches(msg, a.keys.PrevPanel):
			a.activePanel = (a.activePanel + panelCount - 1) % panelCount
			return a, nil
		case key.Matches(msg, a.keys.Refresh):
			if a.busy {
				return a, nil
			}
			a.busy = true
			return a, a.refresh()
		case key.Matches(msg, a.keys.ClearLog):
			a.logLines = nil
			a.logView.SetContent("")
			return a, nil
		case key.Matches(msg, a.keys.ScrollUp):
			a.activeView().HalfViewUp()
			return a, nil
		case key.Matches(msg, a.keys.ScrollDown):
			a.activeView().HalfViewDown()
			return a, nil
		case key.Matches(msg, a.keys.Submit):
			return a.submit()
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()
		a.runner.SetWidth(msg.Width - 4)
		return a, nil

	case CommandDoneMsg:
		a.busy = false
		a.state = msg.State
		if msg.Quit {
			return a, tea.Quit
		}
		return a, nil

	case PrintMsg:
		a.appendLog(msg.Text)
		return a, nil

	case AlertMsg:
		a.lastError = msg.Text
		a.appendLog(a.theme.ErrorStyle.Render("! " + msg.Text))
		return a, nil

	case TodosMsg:
		a.todos = msg.Todos
		a.todosView.SetContent(render.TodoTable(a.todos, a.theme))
		return a, nil

	case ApprovalsMsg:
		a.approvals = msg.Items
		a.approvalsView.SetContent(render.ApprovalTable(a.approvals, a.theme))
		return a, nil

	case ChatMsg:
		a.appendChat(a.theme.TitleStyle.Render(i18n.T("chat.you")+": ") + msg.Prompt)
		a.appendChat(a.theme.SuccessStyle.Render(i18n.T("chat.assistant")+": ") + msg.Reply)
		return a, nil

	case SocketLineMsg:
		a.appendChat(a.theme.SocketStyle.Render(msg.Line))
		a.appendLog(msg.Line)
		a.state = a.runner.State()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(a.input.Value())
	if line == "" || a.busy {
		return a, nil
	}
	a.input.Reset()
	a.lastError = ""
	a.busy = true
	a.appendLog(a.theme.MutedStyle.Render("> " + line))
	if !strings.HasPrefix(line, "/") {
		a.activePanel = PanelChat
	}
	return a, a.run(line)
}

func (a App) run(line string) tea.Cmd {
	ctx, runner := a.ctx, a.runner
	return func() tea.Msg {
		quit := !runner.Execute(ctx, line)
		return CommandDoneMsg{Quit: quit, State: runner.State()}
	}
}

func (a App) refresh() tea.Cmd {
	ctx, runner := a.ctx, a.runner
	return func() tea.Msg {
		runner.Refresh(ctx)
		return CommandDoneMsg{State: runner.State()}
	}
}

func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	inputHeight := 3
	statusHeight := 1
	tabHeight := 1
	panelHeight := a.height - inputHeight - statusHeight - tabHeight
	if panelHeight < 3 {
		panelHeight = 3
	}

	tabs := a.renderTabs()
	panel := a.renderActivePanel(a.width, panelHeight)
	inputBox := a.theme.InputStyle.Width(a.width).Render(a.input.View())
	statusBar := a.renderStatusBar(a.width)

	return lipgloss.JoinVertical(lipgloss.Left, tabs, panel, inputBox, statusBar)
}

// --- 内部方法 / Internal methods ---

func (a *App) relayout() {
	panelHeight := a.height - 6
	if panelHeight < 3 {
		panelHeight = 3
	}

	a.todosView = viewport.New(a.width, panelHeight)
	a.todosView.SetContent(render.TodoTable(a.todos, a.theme))

	a.approvalsView = viewport.New(a.width, panelHeight)
	a.approvalsView.SetContent(render.ApprovalTable(a.approvals, a.theme))

	a.chatView = viewport.New(a.width, panelHeight)
	a.chatView.SetContent(strings.Join(a.chatLines, "\n"))
	a.chatView.GotoBottom()

	a.logView = viewport.New(a.width, panelHeight)
	a.logView.SetContent(strings.Join(a.logLines, "\n"))
	a.logView.GotoBottom()

	a.input.SetWidth(a.width - 2)
}

func (a *App) activeView() *viewport.Model {
	switch a.activePanel {
	case PanelApprovals:
		return &a.approvalsView
	case PanelChat:
		return &a.chatView
	case PanelLog:
		return &a.logView
	default:
		return &a.todosView
	}
}

func (a *App) appendChat(text string) {
	a.chatLines = append(a.chatLines, text)
	a.chatView.SetContent(strings.Join(a.chatLines, "\n"))
	a.chatView.GotoBottom()
}

func (a *App) appendLog(text string) {
	a.logLines = append(a.logLines, text)
	a.logView.SetContent(strings.Join(a.logLines, "\n"))
	a.logView.GotoBottom()
}

// --- 渲染方法 / Render methods ---

func (a App) renderTabs() string {
	tabs := []struct {
		id   PanelID
		name string
	}{
		{PanelTodos, i18n.T("panel.todos")},
		{PanelApprovals, i18n.T("panel.approvals")},
		{PanelChat, i18n.T("panel.chat")},
		{PanelLog, i18n.T("panel.log")},
	}

	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		style := a.theme.InactiveTabStyle
		if tab.id == a.activePanel {
			style = a.theme.ActiveTabStyle
		}
		parts = append(parts, style.Render(tab.name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) renderActivePanel(width, height int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Height(height)

	content := a.activeView().View()
	return style.Render(content)
}

func (a App) renderStatusBar(width int) string {
	login := i18n.T("status.logged_out")
	if a.state.LoggedIn {
		who := a.state.UserID
		if who == "" {
			who = "token"
		}
		login = i18n.T("status.logged_in", who)
	}
	ws := i18n.T("status.ws_closed")
	if a.state.SocketOpen {
		ws = i18n.T("status.ws_open")
	}
	status := i18n.T("status.ready")
	if a.busy {
		status = i18n.T("status.busy")
	}

	left := fmt.Sprintf(" %s: %s · %s · %s · %s", i18n.T("status.base"), a.state.BaseURL, login, ws, status)
	right := i18n.T("tui.hint") + " "
	if a.lastError != "" {
		right = a.theme.ErrorStyle.Render(a.lastError) + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return a.theme.StatusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// Run 启动 TUI；bridge 必须是传给控制台的同一个输出
// Run starts the TUI; bridge must be the same Output the console was built with
func Run(ctx context.Context, runner Runner, bridge *Bridge, theme render.Theme) error {
	app := NewApp(ctx, runner, theme)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.attach(p.Send)
	defer bridge.attach(nil)
	_, err := p.Run()
	return err
}
