package console

import (
	"errors"

	"apiconsole/internal/client"
	"apiconsole/internal/i18n"
)

// Output 命令输出；实现必须可并发调用（WebSocket 行来自读协程）
// Output receives command output; implementations must be safe for concurrent use
// because WebSocket lines arrive from the reader goroutine
type Output interface {
	Print(text string)
	// Alert 所有失败与需要用户注意的提示
	// Alert carries every failure and notice the user must see
	Alert(text string)
}

// ListViewer 可选：前端自行展示列表时实现，否则列表以表格打印
// ListViewer is optional; front ends that display lists themselves implement it, otherwise lists are printed as tables
type ListViewer interface {
	ShowTodos(todos []client.Todo)
	ShowApprovals(items []client.Approval)
}

// ChatViewer 可选：单独展示对话
// ChatViewer is optional and receives chat exchanges
type ChatViewer interface {
	ShowChat(prompt, reply string)
}

// SocketViewer 可选：单独展示 WebSocket 日志行
// SocketViewer is optional and receives WebSocket log lines
type SocketViewer interface {
	ShowSocket(line string)
}

// describeError 按错误类别选择提示文案；登录的非校验失败统一为登录失败
// describeError picks the message for an error category; non-validation login failures all read as a login failure
func describeError(op string, err error) string {
	var verr *client.ValidationError
	var aerr *client.AuthError
	switch {
	case errors.As(err, &verr):
		return i18n.T("error.validation", verr.Error())
	case op == "login":
		return i18n.T("login.failed", err.Error())
	case errors.As(err, &aerr):
		return i18n.T("error.auth", aerr.Error())
	default:
		return i18n.T("error.request", err.Error())
	}
}
