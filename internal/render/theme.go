package render

import "github.com/charmbracelet/lipgloss"

// Theme 终端配色与预构建样式
// Theme holds terminal colors and pre-built styles
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Danger    lipgloss.Color
	Success   lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	TextDim   lipgloss.Color
	Border    lipgloss.Color

	// Plain 为 true 时不输出任何样式
	// Plain disables all styling
	Plain bool

	TitleStyle       lipgloss.Style
	ActiveTabStyle   lipgloss.Style
	InactiveTabStyle lipgloss.Style
	StatusBarStyle   lipgloss.Style
	InputStyle       lipgloss.Style
	HeaderStyle      lipgloss.Style
	CellStyle        lipgloss.Style
	ErrorStyle       lipgloss.Style
	SuccessStyle     lipgloss.Style
	MutedStyle       lipgloss.Style
	SocketStyle      lipgloss.Style
}

// DarkTheme 默认暗色主题
// DarkTheme is the default dark theme
func DarkTheme() Theme {
	t := Theme{
		Primary:   lipgloss.Color("#7C3AED"),
		Secondary: lipgloss.Color("#06B6D4"),
		Danger:    lipgloss.Color("#EF4444"),
		Success:   lipgloss.Color("#10B981"),
		Muted:     lipgloss.Color("#6B7280"),
		Text:      lipgloss.Color("#E5E7EB"),
		TextDim:   lipgloss.Color("#9CA3AF"),
		Border:    lipgloss.Color("#374151"),
	}

	t.TitleStyle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.ActiveTabStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Primary).
		Padding(0, 2).
		Bold(true)

	t.InactiveTabStyle = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Padding(0, 2)

	t.StatusBarStyle = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(lipgloss.Color("#111827"))

	t.InputStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border)

	t.HeaderStyle = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Bold(true).
		Padding(0, 1)

	t.CellStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Padding(0, 1)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Danger).
		Bold(true)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.MutedStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.SocketStyle = lipgloss.NewStyle().
		Foreground(t.Secondary)

	return t
}

// PlainTheme 关闭颜色（配置 ui.color=false 或输出不是终端）
// PlainTheme has no colors, for ui.color=false or non-terminal output
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Plain:            true,
		TitleStyle:       plain,
		ActiveTabStyle:   plain.Padding(0, 1).Reverse(true),
		InactiveTabStyle: plain.Padding(0, 1),
		StatusBarStyle:   plain,
		InputStyle:       plain,
		HeaderStyle:      plain.Padding(0, 1),
		CellStyle:        plain.Padding(0, 1),
		ErrorStyle:       plain,
		SuccessStyle:     plain,
		MutedStyle:       plain,
		SocketStyle:      plain,
	}
}

func ThemeFor(color bool) Theme {
	if color {
		return DarkTheme()
	}
	return PlainTheme()
}
