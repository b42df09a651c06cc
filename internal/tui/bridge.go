package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"apiconsole/internal/client"
)

// --- Tea Messages ---

// PrintMsg 普通命令输出
// PrintMsg is ordinary command output
type PrintMsg struct{ Text string }

// AlertMsg 失败或需要注意的提示
// AlertMsg is a failure or notice
type AlertMsg struct{ Text string }

type TodosMsg struct{ Todos []client.Todo }

type ApprovalsMsg struct{ Items []client.Approval }

type ChatMsg struct{ Prompt, Reply string }

// SocketLineMsg WebSocket 日志行
// SocketLineMsg is one WebSocket log line
type SocketLineMsg struct{ Line string }

// Bridge 把控制台输出转成 Tea 消息；在程序启动前输出会被丢弃
// Bridge turns console output into Tea messages; output before the program starts is dropped
type Bridge struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

func (b *Bridge) emit(msg tea.Msg) {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

func (b *Bridge) Print(text string) { b.emit(PrintMsg{Text: text}) }
func (b *Bridge) Alert(text string) { b.emit(AlertMsg{Text: text}) }
func (b *Bridge) ShowTodos(todos []client.Todo) { b.emit(TodosMsg{Todos: todos}) }
func (b *Bridge) ShowApprovals(items []client.Approval) { b.emit(ApprovalsMsg{Items: items}) }
func (b *Bridge) ShowChat(prompt, reply string) { b.emit(ChatMsg{Prompt: prompt, Reply: reply}) }
func (b *Bridge) ShowSocket(line string) { b.emit(SocketLineMsg{Line: line}) }
