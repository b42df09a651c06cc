package render

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"apiconsole/internal/client"
	"apiconsole/internal/i18n"
)

const deadlineLayout = "2006-01-02 15:04"

// TodoTable 待办列表；状态码附带中文标签
// TodoTable renders the todo list, status codes annotated with their labels
func TodoTable(todos []client.Todo, theme Theme) string {
	if len(todos) == 0 {
		return theme.MutedStyle.Render(i18n.T("todo.empty"))
	}
	rows := make([][]string, 0, len(todos))
	for _, td := range todos {
		rows = append(rows, []string{
			td.ID,
			td.Title,
			statusCell(td.Status, client.TodoStatusLabel(td.Status)),
			Deadline(td.DeadlineAt),
			td.Creator,
		})
	}
	return newTable(theme,
		[]string{i18n.T("col.id"), i18n.T("col.title"), i18n.T("col.status"), i18n.T("col.deadline"), i18n.T("col.creator")},
		rows)
}

func ApprovalTable(items []client.Approval, theme Theme) string {
	if len(items) == 0 {
		return theme.MutedStyle.Render(i18n.T("approval.empty"))
	}
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			a.ID,
			client.ApprovalTypeLabel(a.Type),
			a.Title,
			statusCell(a.Status, client.ApprovalStatusLabel(a.Status)),
			a.User,
			a.Reason,
		})
	}
	return newTable(theme,
		[]string{i18n.T("col.id"), i18n.T("col.type"), i18n.T("col.title"), i18n.T("col.status"), i18n.T("col.user"), i18n.T("col.reason")},
		rows)
}

// Deadline Unix 秒；0 显示为 "-"
// Deadline formats Unix seconds; 0 renders as "-"
func Deadline(sec int64) string {
	if sec <= 0 {
		return "-"
	}
	return time.Unix(sec, 0).Local().Format(deadlineLayout)
}

func statusCell(code, label string) string {
	if code == "" {
		return "-"
	}
	if label == code {
		return code
	}
	return code + " " + label
}

func newTable(theme Theme, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.HeaderStyle
			}
			return theme.CellStyle
		})
	return t.String()
}
