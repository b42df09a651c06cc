package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"apiconsole/internal/i18n"
	"apiconsole/internal/storage"
)

// Markdown 使用 Glamour 渲染聊天回复；失败时原样返回
// Markdown renders chat replies with Glamour, returning the input unchanged on failure
func Markdown(content string, width int, theme Theme) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	style := glamour.WithAutoStyle()
	if theme.Plain {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

// PrettyJSON 两空格缩进；无法编码时退回 fmt 格式
// PrettyJSON indents with two spaces, falling back to fmt formatting
func PrettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// History 按时间顺序渲染本地记录
// History renders transcript entries in chronological order
func History(entries []storage.Entry, theme Theme) string {
	if len(entries) == 0 {
		return theme.MutedStyle.Render(i18n.T("history.empty"))
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		stamp := theme.MutedStyle.Render(e.CreatedAt)
		switch e.Kind {
		case storage.EntrySocket:
			fmt.Fprintf(&b, "%s %s", stamp, theme.SocketStyle.Render("[WS] "+e.Text))
		default:
			fmt.Fprintf(&b, "%s %s: %s (~%d tokens)\n", stamp, theme.TitleStyle.Render(i18n.T("chat.you")), e.Prompt, e.PromptTokens)
			fmt.Fprintf(&b, "%s %s: %s", stamp, theme.SuccessStyle.Render(i18n.T("chat.assistant")), e.Response)
		}
	}
	return b.String()
}

// Error 带样式的错误行
// Error renders a styled error line
func Error(msg string, theme Theme) string {
	return theme.ErrorStyle.Render(msg)
}
